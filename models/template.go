package models

import (
	"context"
	"time"

	"courseware/db"
	"courseware/recognition"
	"courseware/utils"

	"gorm.io/gorm/clause"
)

// FaceTemplate is the persisted biometric record. A user holds at most one
// active template per backend tag; the unique index plus the upsert below
// make re-enrollment an atomic overwrite of that key.
type FaceTemplate struct {
	ID         uint64 `gorm:"primaryKey"`
	CreatedAt  int64
	UpdatedAt  int64
	UserID     uint64 `gorm:"index:uniq_user_backend,unique;priority:1"`
	User       User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	BackendTag string `gorm:"type:varchar(64);index:uniq_user_backend,unique;priority:2"`
	Vector     []byte `gorm:"type:blob"` // little-endian float32 array
}

func (t *FaceTemplate) Floats() []float32 {
	return utils.ByteArrayToFloat32Array(t.Vector)
}

// TemplateStore implements recognition.TemplateRepository on gorm
type TemplateStore struct{}

func NewTemplateStore() *TemplateStore {
	return &TemplateStore{}
}

func (s *TemplateStore) FetchTemplates(ctx context.Context, backendTag string) ([]recognition.Template, error) {
	var rows []FaceTemplate
	query := db.Instance.WithContext(ctx)
	if backendTag != "" {
		query = query.Where("backend_tag = ?", backendTag)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]recognition.Template, 0, len(rows))
	for _, row := range rows {
		result = append(result, recognition.Template{
			UserID:     row.UserID,
			BackendTag: row.BackendTag,
			Vector:     row.Floats(),
		})
	}
	return result, nil
}

func (s *TemplateStore) UpsertTemplate(ctx context.Context, t recognition.Template) error {
	now := time.Now().Unix()
	row := FaceTemplate{
		CreatedAt:  now,
		UpdatedAt:  now,
		UserID:     t.UserID,
		BackendTag: t.BackendTag,
		Vector:     utils.Float32ArrayToByteArray(t.Vector),
	}
	return db.Instance.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "backend_tag"}},
		DoUpdates: clause.AssignmentColumns([]string{"vector", "updated_at"}),
	}).Create(&row).Error
}

// EnrolledTags returns the backend tags a user currently holds templates for
func EnrolledTags(userID uint64) (tags []string, err error) {
	err = db.Instance.Model(&FaceTemplate{}).Where("user_id = ?", userID).Pluck("backend_tag", &tags).Error
	return
}
