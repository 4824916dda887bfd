package app

import (
	"bytes"
	"fmt"
	"image"

	// decoders registered for image.DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type ImageMetadata struct {
	Format string
	Width  int
	Height int
}

// PixelCount is computed in 64 bits so large headers cannot overflow.
func (m ImageMetadata) PixelCount() int64 {
	return int64(m.Width) * int64(m.Height)
}

// ReadImageMetadata decodes only the image header, the pixels are never
// materialized.
func ReadImageMetadata(content []byte) (ImageMetadata, error) {
	config, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return ImageMetadata{}, fmt.Errorf("can not read image metadata: %w", err)
	}
	return ImageMetadata{Format: format, Width: config.Width, Height: config.Height}, nil
}

// CheckResolution fails with ErrResolutionTooLarge above MaxPixelCount.
func CheckResolution(content []byte) error {
	metadata, err := ReadImageMetadata(content)
	if err != nil {
		return err
	}
	if metadata.PixelCount() > MaxPixelCount {
		return fmt.Errorf("%w: %dx%d", ErrResolutionTooLarge, metadata.Width, metadata.Height)
	}
	return nil
}
