package recognition

import "context"

// Template is an enrolled biometric record as the matching core sees it.
// The core never assumes a storage engine; the gorm-backed implementation
// lives in the models package.
type Template struct {
	UserID     uint64
	BackendTag string
	Vector     []float32
}

// TemplateRepository is the persistence boundary of the matching core.
// Upserts are keyed (user_id, backend_tag): re-enrollment with the same
// backend overwrites, last write wins, formats are never merged.
type TemplateRepository interface {
	// FetchTemplates returns the active templates for one backend tag,
	// or all templates when tag is empty
	FetchTemplates(ctx context.Context, backendTag string) ([]Template, error)
	UpsertTemplate(ctx context.Context, t Template) error
}
