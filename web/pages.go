package web

import (
	"net/http"
	"strconv"

	"courseware/auth"
	"courseware/models"

	"github.com/gin-gonic/gin"
)

func LoginView(c *gin.Context) {
	session := auth.LoadSession(c)
	if session.User().ID != 0 {
		c.Redirect(http.StatusFound, "/courses")
		return
	}
	c.HTML(http.StatusOK, "login.tmpl", gin.H{})
}

func CoursesView(c *gin.Context) {
	session := auth.LoadSession(c)
	user := session.User()
	if user.ID == 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	courses, err := models.CourseList(!user.HasPermission(models.PermissionCourseEdit))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	c.HTML(http.StatusOK, "courses.tmpl", gin.H{
		"name":    user.Name,
		"courses": courses,
		"canEdit": user.HasPermission(models.PermissionCourseEdit),
	})
}

func CourseView(c *gin.Context) {
	session := auth.LoadSession(c)
	user := session.User()
	if user.ID == 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}
	course, err := models.CourseByID(id)
	if err != nil || (!course.Published && !user.HasPermission(models.PermissionCourseEdit)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}
	quizzes, _ := models.QuizzesForCourse(course.ID)
	c.HTML(http.StatusOK, "course.tmpl", gin.H{
		"name":    user.Name,
		"course":  course,
		"quizzes": quizzes,
	})
}

func QuizView(c *gin.Context) {
	session := auth.LoadSession(c)
	user := session.User()
	if user.ID == 0 {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "quiz.tmpl", gin.H{
		"name":   user.Name,
		"quizID": c.Param("id"),
	})
}
