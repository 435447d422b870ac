package handlers

import (
	"net/http"
	"strconv"

	"courseware/recognition"

	"github.com/gin-gonic/gin"
)

// imagePayload extracts a face capture from the request: a multipart "image"
// file if present, the raw body otherwise (camera frames arrive as data URIs
// in the body).
func imagePayload(c *gin.Context) ([]byte, error) {
	fileHeader, err := c.FormFile("image")
	if err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return recognition.ReadPayload(file)
	}
	return c.GetRawData()
}

func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
