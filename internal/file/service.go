package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/car-rental-backend/internal/pkg/storage"
)

const thumbnailSize = 200

// UploadInput describes one multipart upload and the limits it must satisfy.
type UploadInput struct {
	FileHeader   *multipart.FileHeader
	UserID       string
	Prefix       string   // storage key prefix, e.g. "vehicles"
	MaxSizeBytes int64    // 0 = no limit
	AllowedTypes []string // empty = allow all
	// RequireThumbnail fails the upload when the content cannot be decoded as an image.
	RequireThumbnail bool
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*File, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*File, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *File, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *File, error)
}

type service struct {
	repo    Repository
	storage storage.Storage
	imgProc *storage.ImageProcessor
	now     func() time.Time
}

func NewService(repo Repository, store storage.Storage) Service {
	return &service{
		repo:    repo,
		storage: store,
		imgProc: storage.NewImageProcessor(),
		now:     time.Now,
	}
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*File, error) {
	header := in.FileHeader
	if in.MaxSizeBytes > 0 && header.Size > in.MaxSizeBytes {
		return nil, ErrTooLarge
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file failed: %w", err)
	}
	defer src.Close()

	// One extra byte detects uploads whose header under-reports the size.
	reader := io.Reader(src)
	if in.MaxSizeBytes > 0 {
		reader = io.LimitReader(src, in.MaxSizeBytes+1)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read uploaded file failed: %w", err)
	}
	if len(content) == 0 {
		return nil, ErrEmptyFile
	}
	if in.MaxSizeBytes > 0 && int64(len(content)) > in.MaxSizeBytes {
		return nil, ErrTooLarge
	}

	// Sniff rather than trust the client header.
	contentType := http.DetectContentType(content)
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	if len(in.AllowedTypes) > 0 && !slices.Contains(in.AllowedTypes, contentType) {
		return nil, ErrUnsupportedType
	}

	fileID := uuid.NewString()
	prefix := in.Prefix
	if prefix == "" {
		prefix = "upload"
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	dir := fmt.Sprintf("%s/%s", prefix, fileID[:2])
	storagePath := fmt.Sprintf("%s/%s%s", dir, fileID, ext)

	var thumbnail io.Reader
	if strings.HasPrefix(contentType, "image/") {
		thumbnail, err = s.imgProc.GenerateThumbnail(bytes.NewReader(content), thumbnailSize, thumbnailSize)
		if err != nil {
			if in.RequireThumbnail {
				return nil, ErrThumbnailRequired
			}
			log.Printf("thumbnail generation failed for %s: %v", header.Filename, err)
		}
	}

	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("save file to storage failed: %w", err)
	}

	var thumbnailPath *string
	if thumbnail != nil {
		tPath := fmt.Sprintf("%s/%s_thumb.jpg", dir, fileID)
		if err := s.storage.Save(ctx, tPath, thumbnail); err != nil {
			log.Printf("save thumbnail %s failed: %v", tPath, err)
		} else {
			thumbnailPath = &tPath
		}
	}

	f := &File{
		ID:            fileID,
		UserID:        in.UserID,
		Filename:      filepath.Base(header.Filename),
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          int64(len(content)),
		CreatedAt:     s.now().UTC(),
	}

	if err := s.repo.Create(ctx, f); err != nil {
		s.removeObjects(ctx, f)
		return nil, err
	}
	return f, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeObjects(ctx, f)
	return nil
}

// removeObjects is best effort; orphaned objects are only wasted space.
func (s *service) removeObjects(ctx context.Context, f *File) {
	if err := s.storage.Delete(ctx, f.StoragePath); err != nil {
		log.Printf("delete stored object %s failed: %v", f.StoragePath, err)
	}
	if f.ThumbnailPath != nil {
		if err := s.storage.Delete(ctx, *f.ThumbnailPath); err != nil {
			log.Printf("delete stored object %s failed: %v", *f.ThumbnailPath, err)
		}
	}
}

func (s *service) Get(ctx context.Context, id string) (*File, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *File, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return s.open(ctx, f, f.StoragePath)
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *File, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if f.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}
	return s.open(ctx, f, *f.ThumbnailPath)
}

func (s *service) open(ctx context.Context, f *File, path string) (io.ReadCloser, *File, error) {
	stream, err := s.storage.Get(ctx, path)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("retrieve %s from storage failed: %w", path, err)
	}
	return stream, f, nil
}
