package recognition

import "errors"

var (
	// ErrEmptyImage means the payload had zero length after normalization
	ErrEmptyImage = errors.New("empty image payload")
	// ErrImageDecode means every decode strategy rejected the payload
	ErrImageDecode = errors.New("image decode failed")
	// ErrNoFaceDetected is a typed outcome, not a decode failure
	ErrNoFaceDetected = errors.New("no face detected")
	// ErrAmbiguousFaceCount is raised only when the single-face policy is strict
	ErrAmbiguousFaceCount = errors.New("more than one face detected")
	// ErrModelLoad means a backend's weight files are missing or corrupt
	ErrModelLoad = errors.New("model load failed")
	// ErrBackendUnavailable covers a disabled or misconfigured backend,
	// distinct from a failed weight load
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrAllBackendsUnavailable is the aggregate failure when every tier
	// was skipped as unavailable
	ErrAllBackendsUnavailable = errors.New("no recognition backend available")
)
