package recognition

import (
	"courseware/config"
)

// Process-wide recognition service, wired once at startup from config.
// The deep backend's model cache lives for the process lifetime; shutdown
// goes through Close.
var (
	Default  *Orchestrator
	Enroller *EnrollmentManager

	deep *DeepBackend
)

func Init(repo TemplateRepository) error {
	locator, err := NewPigoLocator(config.FACE_CASCADE_FILE, config.FACE_MIN_REGION)
	if err != nil {
		return err
	}
	loader := NewImageLoader()
	deep = NewDeepBackend(config.FACE_MODELS_DIR, config.FACE_DEEP_THRESHOLD)
	backends := []EmbeddingBackend{
		deep,
		NewClassicalBackend(config.FACE_CLASSIC_THRESHOLD),
		NewGeometricBackend(config.FACE_MOMENTS_THRESHOLD),
	}
	Default = NewOrchestrator(loader, locator, repo, backends...)
	Default.StrictSingleFace = config.FACE_STRICT_SINGLE
	Enroller = NewEnrollmentManager(loader, locator, repo, backends...)
	Enroller.StrictSingleFace = config.FACE_STRICT_SINGLE
	return nil
}

// Deep exposes the deep backend for the classifier sample sync task
func Deep() *DeepBackend {
	return deep
}

func Shutdown() {
	if deep != nil {
		deep.Close()
	}
}
