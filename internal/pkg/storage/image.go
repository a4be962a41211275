package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
)

// ImageProcessor renders catalogue thumbnails.
type ImageProcessor struct {
	quality    int
	background color.Color
}

// NewImageProcessor encodes JPEGs at quality 80 on a white background.
func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{quality: 80, background: color.White}
}

// GenerateThumbnail center-crops the image to exactly width x height and
// returns it as JPEG. EXIF orientation is applied first, and transparent
// areas are flattened onto the background since JPEG has no alpha.
func (p *ImageProcessor) GenerateThumbnail(content io.Reader, width, height int) (io.Reader, error) {
	img, err := imaging.Decode(content, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	cropped := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)
	flat := imaging.Overlay(imaging.New(width, height, p.background), cropped, image.Pt(0, 0), 1.0)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, flat, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf, nil
}
