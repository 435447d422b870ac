package handlers

import (
	"net/http"
	"strconv"
	"time"

	"courseware/db"
	"courseware/models"

	"github.com/gin-gonic/gin"
)

type QuizSaveRequest struct {
	ID        uint64            `json:"id"`
	CourseID  uint64            `json:"course_id" binding:"required"`
	Title     string            `json:"title" binding:"required"`
	Questions []models.Question `json:"questions" binding:"required"`
}

type QuizSubmitRequest struct {
	Answers []int `json:"answers" binding:"required"`
}

// QuestionView is a question as shown to the quiz taker, without the answer
type QuestionView struct {
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
}

func QuizList(c *gin.Context, user *models.User) {
	courseID, err := strconv.ParseUint(c.Query("course_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}
	quizzes, err := models.QuizzesForCourse(courseID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

func QuizGet(c *gin.Context, user *models.User) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	quiz, err := models.QuizByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}
	questions, err := quiz.GetQuestions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "bad quiz data"})
		return
	}
	views := make([]QuestionView, 0, len(questions))
	for _, question := range questions {
		views = append(views, QuestionView{Text: question.Text, Choices: question.Choices})
	}
	c.JSON(http.StatusOK, gin.H{"quiz": quiz, "questions": views})
}

func QuizSave(c *gin.Context, user *models.User) {
	postReq := QuizSaveRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quiz := models.Quiz{}
	if postReq.ID > 0 {
		var err error
		quiz, err = models.QuizByID(postReq.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
			return
		}
	} else {
		quiz.CreatedAt = time.Now().Unix()
	}
	quiz.CourseID = postReq.CourseID
	quiz.Title = postReq.Title
	if err := quiz.SetQuestions(postReq.Questions); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	quiz.UpdatedAt = time.Now().Unix()
	if err := db.Instance.Save(&quiz).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "id": quiz.ID})
}

func QuizSubmit(c *gin.Context, user *models.User) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	quiz, err := models.QuizByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}
	postReq := QuizSubmitRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	questions, err := quiz.GetQuestions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "bad quiz data"})
		return
	}
	attempt := models.QuizAttempt{
		CreatedAt: time.Now().Unix(),
		QuizID:    quiz.ID,
		UserID:    user.ID,
		Score:     models.ScoreAnswers(questions, postReq.Answers),
		Total:     len(questions),
	}
	if err := db.Instance.Create(&attempt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "score": attempt.Score, "total": attempt.Total})
}
