package file

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/car-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.Wrap(apperror.ErrNotFound, http.StatusNotFound, "file not found")
	ErrNoThumbnail       = apperror.Wrap(apperror.ErrNotFound, http.StatusNotFound, "thumbnail not available for this file")
	ErrTooLarge          = apperror.Wrap(apperror.ErrValidation, http.StatusRequestEntityTooLarge, "file is too large")
	ErrUnsupportedType   = apperror.Wrap(apperror.ErrValidation, http.StatusUnsupportedMediaType, "unsupported file type")
	ErrEmptyFile         = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "file is empty")
	ErrThumbnailRequired = apperror.Wrap(apperror.ErrValidation, http.StatusBadRequest, "file is not a decodable image")
)

// ImageTypes are the content types accepted for vehicle photos.
var ImageTypes = []string{"image/jpeg", "image/png"}

// File is stored upload metadata. The bytes live in storage.Storage.
type File struct {
	ID            string
	UserID        string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	CreatedAt     time.Time
}

// FileURL returns the public URL for accessing a file by its ID.
func FileURL(id string) string {
	return "/v1/files/" + id
}

// ThumbnailURL returns the public URL for accessing a file's thumbnail by its ID.
func ThumbnailURL(id string) string {
	return "/v1/files/" + id + "/thumbnail"
}
