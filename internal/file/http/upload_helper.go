package http

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/car-rental-backend/internal/auth"
	"github.com/nekogravitycat/car-rental-backend/internal/file"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/response"
)

// FileUploadConfig configures HandleFileUpload.
type FileUploadConfig struct {
	FormFieldName    string // default "file"
	Prefix           string
	MaxSizeBytes     int64
	AllowedTypes     []string
	RequireThumbnail bool
	// AfterUpload links the new file to its owning entity. On error the
	// upload is rolled back.
	AfterUpload func(ctx context.Context, fileID string) error
}

// HandleFileUpload stores the multipart file named by config, runs the
// after-upload hook and writes the response.
func (h *Handler) HandleFileUpload(c *gin.Context, config FileUploadConfig) {
	fieldName := config.FormFieldName
	if fieldName == "" {
		fieldName = "file"
	}

	fileHeader, err := c.FormFile(fieldName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fieldName + " is required"})
		return
	}

	ctx := c.Request.Context()
	f, err := h.fileService.Upload(ctx, file.UploadInput{
		FileHeader:       fileHeader,
		UserID:           auth.GetUserID(c),
		Prefix:           config.Prefix,
		MaxSizeBytes:     config.MaxSizeBytes,
		AllowedTypes:     config.AllowedTypes,
		RequireThumbnail: config.RequireThumbnail,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if config.AfterUpload != nil {
		if err := config.AfterUpload(ctx, f.ID); err != nil {
			if delErr := h.fileService.Delete(ctx, f.ID); delErr != nil {
				log.Printf("rollback of upload %s failed: %v", f.ID, delErr)
			}
			response.Error(c, err)
			return
		}
	}

	var thumbURL *string
	if f.ThumbnailPath != nil {
		t := file.ThumbnailURL(f.ID)
		thumbURL = &t
	}

	c.JSON(http.StatusCreated, FileUploadResponse{
		FileID:       f.ID,
		URL:          file.FileURL(f.ID),
		ThumbnailURL: thumbURL,
	})
}
