package processing

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"courseware/db"
	"courseware/illustrations"
	"courseware/models"
	"courseware/storage"
)

// courseIllustrate renders cover images for courses that asked for one and
// don't have it yet.
type courseIllustrate struct {
	client  *illustrations.Client
	storage storage.StorageAPI
}

func (t *courseIllustrate) getName() string {
	return "course-illustrate"
}

func (t *courseIllustrate) process() int {
	if !t.client.Enabled() {
		return 0
	}
	var courses []models.Course
	err := db.Instance.
		Where("illustration_prompt != '' AND illustration_path = ''").
		Order("created_at").
		Limit(5).
		Find(&courses).Error
	if err != nil {
		log.Printf("course-illustrate query error: %v", err)
		return 0
	}
	handled := 0
	for i := range courses {
		if t.illustrateOne(&courses[i]) {
			handled++
		}
	}
	return handled
}

func (t *courseIllustrate) illustrateOne(course *models.Course) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	imageBytes, err := t.client.Generate(ctx, course.IllustrationPrompt)
	if err != nil {
		log.Printf("course-illustrate generate error for course %d: %v", course.ID, err)
		return false
	}
	path := fmt.Sprintf("illustrations/course_%d.jpg", course.ID)
	if _, err = t.storage.Save(path, bytes.NewReader(imageBytes)); err != nil {
		log.Printf("course-illustrate save error for course %d: %v", course.ID, err)
		return false
	}
	if err = t.storage.UpdateRemoteFile(path, "image/jpeg"); err != nil {
		log.Printf("course-illustrate upload error for course %d: %v", course.ID, err)
		return false
	}
	course.IllustrationPath = path
	if err = db.Instance.Save(course).Error; err != nil {
		log.Printf("course-illustrate db error for course %d: %v", course.ID, err)
		return false
	}
	return true
}
