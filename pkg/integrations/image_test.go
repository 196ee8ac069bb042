package integrations

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"fits already", 300, 400, 300, 400},
		{"too wide", 1200, 800, 600, 400},
		{"too tall", 600, 1600, 300, 800},
		{"both, height binds", 1200, 3200, 300, 800},
		{"extreme ratio keeps a pixel", 6000, 1, 600, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := fitDimensions(tt.width, tt.height, 600, 800)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestThumbnail(t *testing.T) {
	out, err := Thumbnail(testPNG(t, 120, 60), ThumbnailSettings{MaxWidth: 40, MaxHeight: 40, Quality: 80})
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestThumbnailInvalidImage(t *testing.T) {
	_, err := Thumbnail([]byte("not an image"), DefaultThumbnailSettings())
	assert.Error(t, err)
}
