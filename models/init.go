package models

import (
	"log"

	"courseware/db"
)

func Init() {
	err := db.Instance.AutoMigrate(
		&User{},
		&Grant{},
		&FaceTemplate{},
		&Course{},
		&Quiz{},
		&QuizAttempt{},
	)
	if err != nil {
		log.Printf("Auto-migrate error: %v", err)
	}
}
