package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"

	"courseware/auth"
	"courseware/config"
	"courseware/db"
	"courseware/models"
	"courseware/recognition"
	"courseware/storage"
	"courseware/utils"

	"github.com/gin-gonic/gin"
)

// FaceLogin authenticates a user from a face capture. A non-match and a
// failed attempt are distinct: the first means "we looked and you are not
// enrolled", the second means "we could not look".
func FaceLogin(c *gin.Context) {
	raw, err := imagePayload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	outcome := recognition.Default.Recognize(c.Request.Context(), raw)
	switch outcome.State {
	case recognition.StateAccepted:
		user := models.User{}
		if db.Instance.Preload("Grants").First(&user, outcome.UserID).Error != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "face not recognized"})
			return
		}
		session := auth.LoadSession(c)
		session.LoginUser(user.ID)
		c.JSON(http.StatusOK, gin.H{
			"error":       "",
			"name":        user.Name,
			"permissions": user.GetPermissions(),
			"confidence":  outcome.Confidence,
			"backend":     outcome.BackendTag,
		})
	case recognition.StateExhausted:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "face not recognized"})
	default:
		c.JSON(faceFailureStatus(outcome.Err), gin.H{"error": faceFailureMessage(outcome.Err)})
	}
}

func faceFailureStatus(err error) int {
	if errors.Is(err, recognition.ErrAllBackendsUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadRequest
}

func faceFailureMessage(err error) string {
	switch {
	case errors.Is(err, recognition.ErrEmptyImage):
		return "empty capture"
	case errors.Is(err, recognition.ErrImageDecode):
		return "capture could not be decoded"
	case errors.Is(err, recognition.ErrNoFaceDetected):
		return "no face in the capture"
	case errors.Is(err, recognition.ErrAmbiguousFaceCount):
		return "more than one face in the capture"
	case errors.Is(err, recognition.ErrAllBackendsUnavailable):
		return "face login is temporarily unavailable"
	default:
		return "face login failed"
	}
}

// FaceEnroll registers (or replaces) the current user's template for one
// backend and keeps the capture as an enrollment snapshot.
func FaceEnroll(c *gin.Context, user *models.User) {
	raw, err := imagePayload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	backendTag := c.DefaultPostForm("backend", config.FACE_PREFERRED_BACKEND)
	template, err := recognition.Enroller.Enroll(c.Request.Context(), user.ID, raw, backendTag)
	if err != nil {
		if errors.Is(err, recognition.ErrBackendUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "backend unavailable: " + backendTag})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": faceFailureMessage(err)})
		return
	}
	saveEnrollmentSnapshot(user.ID, template.BackendTag, raw)
	c.JSON(http.StatusOK, gin.H{"error": "", "backend": template.BackendTag})
}

// saveEnrollmentSnapshot keeps a bounded thumbnail of the enrolled capture
// next to the template, for later review. Snapshot failures don't undo the
// enrollment.
func saveEnrollmentSnapshot(userID uint64, backendTag string, raw []byte) {
	snapshotPath := fmt.Sprintf("enrollments/user_%d_%s.jpg", userID, backendTag)
	bucket := storage.GetDefaultStorage()
	thumb := bytes.Buffer{}
	if _, err := utils.CreateThumb(640, bytes.NewReader(raw), &thumb); err != nil {
		// Camera frames arrive as data URIs the thumbnailer can't read
		thumb = *bytes.NewBuffer(raw)
	}
	if _, err := bucket.Save(snapshotPath, &thumb); err != nil {
		log.Printf("Enrollment snapshot save failed for user %d: %v", userID, err)
		return
	}
	if err := bucket.UpdateRemoteFile(snapshotPath, "image/jpeg"); err != nil {
		log.Printf("Enrollment snapshot upload failed for user %d: %v", userID, err)
	}
}

func FaceStatus(c *gin.Context, user *models.User) {
	tags, err := models.EnrolledTags(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	available := []string{}
	for _, backend := range recognition.Default.Backends() {
		if backend.Available() == nil {
			available = append(available, backend.Descriptor().Tag)
		}
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "enrolled": tags, "available": available})
}
