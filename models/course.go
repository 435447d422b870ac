package models

import (
	"courseware/db"
)

type Course struct {
	ID                 uint64 `gorm:"primaryKey" json:"id"`
	CreatedAt          int64  `json:"created_at"`
	UpdatedAt          int64  `json:"-"`
	UserID             uint64 `gorm:"index:course_owner" json:"-"`
	User               User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Title              string `gorm:"type:varchar(200)" json:"title"`
	Description        string `gorm:"type:text" json:"description"`
	Published          bool   `json:"published"`
	IllustrationPrompt string `gorm:"type:text" json:"illustration_prompt"`
	// Set by the background illustration task once the image is in a bucket
	IllustrationPath string `gorm:"type:varchar(300)" json:"-"`
}

func CourseList(publishedOnly bool) (courses []Course, err error) {
	query := db.Instance.Order("created_at DESC")
	if publishedOnly {
		query = query.Where("published = 1")
	}
	err = query.Find(&courses).Error
	return
}

func CourseByID(id uint64) (course Course, err error) {
	err = db.Instance.First(&course, id).Error
	return
}
