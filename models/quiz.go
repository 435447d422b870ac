package models

import (
	"encoding/json"

	"courseware/db"
)

type Quiz struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"-"`
	CourseID  uint64 `gorm:"index:quiz_course" json:"course_id"`
	Course    Course `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Title     string `gorm:"type:varchar(200)" json:"title"`
	// Questions is a JSON-encoded []Question
	Questions string `gorm:"type:text" json:"-"`
}

type Question struct {
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
	Correct int      `json:"correct"`
}

type QuizAttempt struct {
	ID        uint64 `gorm:"primaryKey" json:"id"`
	CreatedAt int64  `json:"created_at"`
	QuizID    uint64 `gorm:"index:attempt_quiz" json:"quiz_id"`
	Quiz      Quiz   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    uint64 `gorm:"index:attempt_user" json:"-"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Score     int    `json:"score"`
	Total     int    `json:"total"`
}

func (q *Quiz) GetQuestions() (questions []Question, err error) {
	err = json.Unmarshal([]byte(q.Questions), &questions)
	return
}

func (q *Quiz) SetQuestions(questions []Question) error {
	encoded, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	q.Questions = string(encoded)
	return nil
}

// ScoreAnswers counts the correct picks. Missing or out-of-range answers
// score zero for that question.
func ScoreAnswers(questions []Question, answers []int) (score int) {
	for i, question := range questions {
		if i >= len(answers) {
			break
		}
		if answers[i] >= 0 && answers[i] < len(question.Choices) && answers[i] == question.Correct {
			score++
		}
	}
	return
}

func QuizzesForCourse(courseID uint64) (quizzes []Quiz, err error) {
	err = db.Instance.Where("course_id = ?", courseID).Order("created_at").Find(&quizzes).Error
	return
}

func QuizByID(id uint64) (quiz Quiz, err error) {
	err = db.Instance.First(&quiz, id).Error
	return
}
