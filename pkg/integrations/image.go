package integrations

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// ThumbnailSettings bounds the cover embedded in exported books.
type ThumbnailSettings struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

func DefaultThumbnailSettings() ThumbnailSettings {
	return ThumbnailSettings{MaxWidth: 600, MaxHeight: 800, Quality: 85}
}

// Thumbnail decodes a cover image, shrinks it to fit the settings while
// keeping its aspect ratio and re-encodes it as JPEG.
func Thumbnail(data []byte, settings ThumbnailSettings) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := fitDimensions(bounds.Dx(), bounds.Dy(), settings.MaxWidth, settings.MaxHeight)

	// JPEG has no alpha; flatten onto an opaque canvas either way.
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: settings.Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// fitDimensions scales width x height down to fit maxWidth x maxHeight.
// Images already inside the box are left alone.
func fitDimensions(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= maxWidth && height <= maxHeight {
		return width, height
	}

	widthScale := float64(maxWidth) / float64(width)
	heightScale := float64(maxHeight) / float64(height)

	scale := widthScale
	if heightScale < widthScale {
		scale = heightScale
	}

	newWidth := max(1, int(float64(width)*scale))
	newHeight := max(1, int(float64(height)*scale))
	return newWidth, newHeight
}
