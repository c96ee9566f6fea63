package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/OpenMeet-Team/openmeet-api-sub011/utils"
)

// UploadFile stores an uploaded file (event/group images, avatars) and
// returns its public URL.
func UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file received"})
		return
	}

	fileID := fmt.Sprintf("%d", time.Now().UnixNano())

	publicURL, err := utils.UploadToSupabase(fileHeader, fileHeader.Filename, fileID, "", "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Upload successful",
		"url":     publicURL,
	})
}
