package integrations

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ImageProcessor re-encodes page images as baseline RGB JPEGs.
type ImageProcessor struct {
	quality int
}

// NewImageProcessor creates a processor that encodes at the given JPEG
// quality. Comic pages stay readable well below the usual 75-90 range, so
// callers typically pass a low value to keep archives small.
func NewImageProcessor(quality int) *ImageProcessor {
	return &ImageProcessor{quality: quality}
}

// Transcode decodes raw (JPEG, PNG, GIF, BMP or WebP), flattens it to three
// color channels and encodes it as JPEG.
func (p *ImageProcessor) Transcode(raw []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, toRGB(img), &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// toRGB returns an image the JPEG encoder writes with three components.
// Grayscale sources would otherwise come out as single-channel JPEGs, and
// transparent areas are composited onto white.
func toRGB(img image.Image) image.Image {
	if ycc, ok := img.(*image.YCbCr); ok {
		return ycc
	}

	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.White, image.Point{}, draw.Src)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Over)
	return dst
}
