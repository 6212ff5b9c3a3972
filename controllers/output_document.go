package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"engagement-api/config"
	"engagement-api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxAttachmentSize = 20 << 20 // 20 MB

func uploadPath() string {
	path := os.Getenv("UPLOAD_PATH")
	if path == "" {
		path = "./uploads"
	}
	return path
}

// UploadOutputAttachment stores the evidence file for a project output.
// Attachments are kept per project, with a random prefix so reuploads never
// collide.
func UploadOutputAttachment(c *gin.Context) {
	outputID, err := strconv.Atoi(c.Param("output_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid output ID"})
		return
	}

	var output models.ProjectOutput
	if err := config.DB.First(&output, "output_id = ?", outputID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Output not found"})
		return
	}

	// The output must belong to a project the caller may edit.
	userID, _ := c.Get("userID")
	leader, err := leaderForUser(userID.(int))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "No project leader profile"})
		return
	}
	var project models.ProjectDetail
	if err := config.DB.First(&project, "project_id = ?", output.ProjectID).Error; err != nil ||
		project.LeaderID != leader.ProjectLeaderID || project.IsDeleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if file.Size > maxAttachmentSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds 20MB limit"})
		return
	}

	dir := filepath.Join(uploadPath(), "attachments", strconv.Itoa(output.ProjectID))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare storage"})
		return
	}

	storedName := fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(file.Filename))
	storedPath := filepath.Join(dir, storedName)
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	output.AttachmentPath = &storedPath
	if err := config.DB.Save(&output).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update output"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"output_id":       output.OutputID,
		"attachment_path": storedPath,
	})
}

// DownloadOutputAttachment serves a stored evidence file.
func DownloadOutputAttachment(c *gin.Context) {
	outputID, err := strconv.Atoi(c.Param("output_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid output ID"})
		return
	}

	var output models.ProjectOutput
	if err := config.DB.First(&output, "output_id = ?", outputID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Output not found"})
		return
	}
	if output.AttachmentPath == nil || *output.AttachmentPath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Output has no attachment"})
		return
	}

	if _, err := os.Stat(*output.AttachmentPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attachment file missing"})
		return
	}

	c.FileAttachment(*output.AttachmentPath, filepath.Base(*output.AttachmentPath))
}
