package handlers

import (
	"net/http"
	"time"

	"courseware/db"
	"courseware/models"
	"courseware/storage"

	"github.com/gin-gonic/gin"
)

type CourseSaveRequest struct {
	ID                 uint64 `json:"id"`
	Title              string `json:"title" binding:"required"`
	Description        string `json:"description"`
	Published          bool   `json:"published"`
	IllustrationPrompt string `json:"illustration_prompt"`
}

func CourseListHandler(c *gin.Context, user *models.User) {
	publishedOnly := !user.HasPermission(models.PermissionCourseEdit)
	courses, err := models.CourseList(publishedOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, courses)
}

func CourseGet(c *gin.Context, user *models.User) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	course, err := models.CourseByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}
	if !course.Published && !user.HasPermission(models.PermissionCourseEdit) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}
	quizzes, _ := models.QuizzesForCourse(course.ID)
	c.JSON(http.StatusOK, gin.H{"course": course, "quizzes": quizzes})
}

func CourseSave(c *gin.Context, user *models.User) {
	postReq := CourseSaveRequest{}
	if err := c.ShouldBindJSON(&postReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course := models.Course{}
	if postReq.ID > 0 {
		var err error
		course, err = models.CourseByID(postReq.ID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
			return
		}
	} else {
		course.UserID = user.ID
		course.CreatedAt = time.Now().Unix()
	}
	if postReq.IllustrationPrompt != course.IllustrationPrompt {
		// A new prompt queues the course for re-illustration
		course.IllustrationPath = ""
	}
	course.Title = postReq.Title
	course.Description = postReq.Description
	course.Published = postReq.Published
	course.IllustrationPrompt = postReq.IllustrationPrompt
	course.UpdatedAt = time.Now().Unix()
	if err := db.Instance.Save(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "id": course.ID})
}

func CourseDelete(c *gin.Context, user *models.User) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	course, err := models.CourseByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}
	if course.IllustrationPath != "" {
		bucket := storage.GetDefaultStorage()
		bucket.DeleteRemoteFile(course.IllustrationPath)
		_ = bucket.Delete(course.IllustrationPath)
	}
	if err := db.Instance.Delete(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": ""})
}

// CourseIllustration serves the generated cover image for a course
func CourseIllustration(c *gin.Context, user *models.User) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	course, err := models.CourseByID(id)
	if err != nil || course.IllustrationPath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}
	bucket := storage.GetDefaultStorage()
	if err := bucket.EnsureLocalFile(course.IllustrationPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}
	defer bucket.ReleaseLocalFile(course.IllustrationPath)
	bucket.Serve(course.IllustrationPath, c.Request, c.Writer)
}
