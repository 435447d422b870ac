package recognition

import (
	"context"
	"fmt"
	"log"
)

// EnrollmentManager produces and persists a new template for a user under
// one backend tag. Templates of other tags for the same user are untouched.
type EnrollmentManager struct {
	loader   *ImageLoader
	locator  FaceLocator
	backends []EmbeddingBackend
	repo     TemplateRepository
	// StrictSingleFace rejects enrollment captures with more than one face
	StrictSingleFace bool
}

func NewEnrollmentManager(loader *ImageLoader, locator FaceLocator, repo TemplateRepository, backends ...EmbeddingBackend) *EnrollmentManager {
	return &EnrollmentManager{
		loader:   loader,
		locator:  locator,
		backends: backends,
		repo:     repo,
	}
}

func (m *EnrollmentManager) backend(tag string) (EmbeddingBackend, error) {
	for _, b := range m.backends {
		if b.Descriptor().Tag == tag {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown backend %q", ErrBackendUnavailable, tag)
}

// Enroll runs decode -> detect -> embed with the preferred backend and
// upserts the result keyed (user_id, backend_tag), overwriting any prior
// template for that key.
func (m *EnrollmentManager) Enroll(ctx context.Context, userID uint64, raw []byte, backendTag string) (Template, error) {
	backend, err := m.backend(backendTag)
	if err != nil {
		return Template{}, err
	}
	if err := backend.Available(); err != nil {
		return Template{}, err
	}

	buf, err := m.loader.Load(raw)
	if err != nil {
		return Template{}, err
	}
	regions, err := m.locator.Locate(buf)
	if err != nil {
		return Template{}, err
	}
	if len(regions) == 0 {
		return Template{}, ErrNoFaceDetected
	}
	if len(regions) > 1 {
		if m.StrictSingleFace {
			return Template{}, ErrAmbiguousFaceCount
		}
		log.Printf("Enroll user %d: %d faces found, using largest", userID, len(regions))
	}

	vector, err := backend.Embed(buf, LargestRegion(regions))
	if err != nil {
		return Template{}, err
	}
	template := Template{
		UserID:     userID,
		BackendTag: backendTag,
		Vector:     vector,
	}
	if err := m.repo.UpsertTemplate(ctx, template); err != nil {
		return Template{}, err
	}
	log.Printf("Enroll user %d: stored %d-d template under %s", userID, len(vector), backendTag)
	return template, nil
}
