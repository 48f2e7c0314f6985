package service_test

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

	"github.com/tthornvik/task-api/internal/service"
)

// testImage builds a small gradient so encoders have real pixel data.
func testImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(width, height)))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(width, height), nil))
	return buf.Bytes()
}

func assertSquarePNG(t *testing.T, data []byte) {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	bounds := img.Bounds()
	assert.Equal(t, 250, bounds.Dx())
	assert.Equal(t, 250, bounds.Dy())
}

func TestNormalizeAvatar(t *testing.T) {
	t.Parallel()

	t.Run("png input", func(t *testing.T) {
		normalized, err := service.NormalizeAvatar(encodePNG(t, 400, 300))
		require.NoError(t, err)
		assertSquarePNG(t, normalized)
	})

	t.Run("jpeg input", func(t *testing.T) {
		normalized, err := service.NormalizeAvatar(encodeJPEG(t, 120, 500))
		require.NoError(t, err)
		assertSquarePNG(t, normalized)
	})

	t.Run("upscales small images", func(t *testing.T) {
		normalized, err := service.NormalizeAvatar(encodePNG(t, 32, 32))
		require.NoError(t, err)
		assertSquarePNG(t, normalized)
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := service.NormalizeAvatar(nil)
		assert.ErrorIs(t, err, service.ErrUnsupportedAvatarFormat)
	})

	t.Run("rejects oversized input", func(t *testing.T) {
		_, err := service.NormalizeAvatar(make([]byte, service.MaxAvatarBytes+1))
		assert.ErrorIs(t, err, service.ErrAvatarTooLarge)
	})

	t.Run("rejects non-image bytes", func(t *testing.T) {
		_, err := service.NormalizeAvatar([]byte("definitely not an image"))
		assert.ErrorIs(t, err, service.ErrUnsupportedAvatarFormat)
	})

	t.Run("rejects formats outside the whitelist", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, gif.Encode(&buf, testImage(64, 64), nil))

		_, err := service.NormalizeAvatar(buf.Bytes())
		assert.ErrorIs(t, err, service.ErrUnsupportedAvatarFormat)
	})
}
