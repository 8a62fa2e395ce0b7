package integrations

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestImageProcessor_Transcode(t *testing.T) {
	processor := NewImageProcessor(50)

	t.Run("rgba png", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 40, 30))
		for y := 0; y < 30; y++ {
			for x := 0; x < 40; x++ {
				src.Set(x, y, color.RGBA{R: 200, G: 20, B: 20, A: 255})
			}
		}

		out, err := processor.Transcode(encodePNG(t, src))
		require.NoError(t, err)

		img := decodeJPEG(t, out)
		assert.Equal(t, 40, img.Bounds().Dx())
		assert.Equal(t, 30, img.Bounds().Dy())
		_, isYCbCr := img.(*image.YCbCr)
		assert.True(t, isYCbCr, "expected a three-channel JPEG")
	})

	t.Run("grayscale becomes three channels", func(t *testing.T) {
		src := image.NewGray(image.Rect(0, 0, 16, 16))
		for i := range src.Pix {
			src.Pix[i] = uint8(i)
		}

		out, err := processor.Transcode(encodePNG(t, src))
		require.NoError(t, err)

		img := decodeJPEG(t, out)
		_, isGray := img.(*image.Gray)
		assert.False(t, isGray, "grayscale input should not produce a single-channel JPEG")
	})

	t.Run("transparency flattened onto white", func(t *testing.T) {
		src := image.NewNRGBA(image.Rect(0, 0, 16, 16))

		out, err := processor.Transcode(encodePNG(t, src))
		require.NoError(t, err)

		r, g, b, _ := decodeJPEG(t, out).At(8, 8).RGBA()
		assert.Greater(t, r>>8, uint32(240))
		assert.Greater(t, g>>8, uint32(240))
		assert.Greater(t, b>>8, uint32(240))
	})

	t.Run("paletted gif", func(t *testing.T) {
		palette := color.Palette{color.Black, color.White}
		src := image.NewPaletted(image.Rect(0, 0, 8, 8), palette)
		var buf bytes.Buffer
		require.NoError(t, gif.Encode(&buf, src, nil))

		out, err := processor.Transcode(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, 8, decodeJPEG(t, out).Bounds().Dx())
	})

	t.Run("jpeg input", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 20, 20))
		var buf bytes.Buffer
		require.NoError(t, jpeg.Encode(&buf, src, &jpeg.Options{Quality: 95}))

		out, err := processor.Transcode(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, 20, decodeJPEG(t, out).Bounds().Dx())
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := processor.Transcode([]byte("<html>blocked</html>"))
		assert.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := processor.Transcode(nil)
		assert.Error(t, err)
	})
}

func TestImageProcessor_LowerQualityIsSmaller(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: uint8((x ^ y) * 4), A: 255})
		}
	}
	raw := encodePNG(t, src)

	low, err := NewImageProcessor(10).Transcode(raw)
	require.NoError(t, err)
	high, err := NewImageProcessor(95).Transcode(raw)
	require.NoError(t, err)

	assert.Less(t, len(low), len(high))
}
