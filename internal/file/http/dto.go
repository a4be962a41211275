package http

// FileUploadResponse is returned after a successful upload.
type FileUploadResponse struct {
	FileID       string  `json:"file_id"`
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url"`
}
