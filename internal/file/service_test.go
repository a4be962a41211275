package file_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/car-rental-backend/internal/file"
	"github.com/nekogravitycat/car-rental-backend/internal/file/filetest"
	"github.com/nekogravitycat/car-rental-backend/internal/pkg/storage"
)

func formFile(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for x := 0; x < 640; x++ {
		img.Set(x, x%480, color.RGBA{R: 200, A: 255})
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func newService(t *testing.T) (file.Service, *filetest.MemoryRepository) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := filetest.NewMemoryRepository()
	return file.NewService(repo, store), repo
}

func TestUploadImageWithThumbnail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	f, err := svc.Upload(ctx, file.UploadInput{
		FileHeader:   formFile(t, "car.png", pngBytes(t)),
		UserID:       "admin-1",
		Prefix:       "vehicles",
		AllowedTypes: file.ImageTypes,
	})
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.ContentType)
	require.NotNil(t, f.ThumbnailPath)
	assert.Contains(t, f.StoragePath, "vehicles/")

	rc, got, err := svc.DownloadThumbnail(ctx, f.ID)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, f.ID, got.ID)

	thumb, _, err := image.Decode(rc)
	require.NoError(t, err)
	assert.LessOrEqual(t, thumb.Bounds().Dx(), 200)
	assert.LessOrEqual(t, thumb.Bounds().Dy(), 200)
}

func TestUploadRejections(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, file.UploadInput{
		FileHeader:   formFile(t, "notes.txt", []byte("plain text, not a photo")),
		AllowedTypes: file.ImageTypes,
	})
	assert.ErrorIs(t, err, file.ErrUnsupportedType)

	_, err = svc.Upload(ctx, file.UploadInput{
		FileHeader:   formFile(t, "car.png", pngBytes(t)),
		MaxSizeBytes: 16,
	})
	assert.ErrorIs(t, err, file.ErrTooLarge)

	_, err = svc.Upload(ctx, file.UploadInput{FileHeader: formFile(t, "empty.png", nil)})
	assert.ErrorIs(t, err, file.ErrEmptyFile)

	assert.Equal(t, 0, repo.Len())
}

func TestDeleteRemovesObjects(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	f, err := svc.Upload(ctx, file.UploadInput{FileHeader: formFile(t, "car.png", pngBytes(t))})
	require.NoError(t, err)

	rc, _, err := svc.Download(ctx, f.ID)
	require.NoError(t, err)
	_, err = io.Copy(io.Discard, rc)
	require.NoError(t, err)
	rc.Close()

	require.NoError(t, svc.Delete(ctx, f.ID))
	assert.Equal(t, 0, repo.Len())

	_, _, err = svc.Download(ctx, f.ID)
	assert.ErrorIs(t, err, file.ErrNotFound)
}

func TestThumbnailMissingForNonImage(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	f, err := svc.Upload(ctx, file.UploadInput{FileHeader: formFile(t, "contract.txt", []byte("rental terms"))})
	require.NoError(t, err)
	assert.Nil(t, f.ThumbnailPath)

	_, _, err = svc.DownloadThumbnail(ctx, f.ID)
	assert.ErrorIs(t, err, file.ErrNoThumbnail)
}
