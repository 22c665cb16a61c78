package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gen2brain/webp"
	"golang.org/x/image/draw"
)

const (
	webpQuality = 85

	// MaxPixels bounds the decoded size of an upload; a small file can declare
	// dimensions that would need gigabytes once decoded.
	MaxPixels = 40_000_000
)

var ErrUnsupportedImage = errors.New("unsupported image")

// checkDimensions reads only the image header.
func checkDimensions(data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		cfg, err = webp.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
		}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: empty image", ErrUnsupportedImage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUnsupportedImage, cfg.Width, cfg.Height, MaxPixels)
	}
	return nil
}

func decode(data []byte) (image.Image, error) {
	if err := checkDimensions(data); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		img, err = webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
		}
	}
	return img, nil
}

func encodeWebP(img image.Image) (DataURI, error) {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, webp.Options{Lossless: false, Quality: webpQuality}); err != nil {
		return DataURI{}, fmt.Errorf("failed to encode image to WebP: %w", err)
	}
	return DataURI{MIME: "image/webp", Data: buf.Bytes()}, nil
}

// FitWithin returns the largest size with the same aspect ratio as w x h that
// fits in maxW x maxH. Images already inside the box keep their size.
func FitWithin(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}
	nw, nh := int(float64(w)*scale), int(float64(h)*scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}

// NormalizeImage re-encodes an image as WebP, downscaling it to fit maxW x maxH.
func NormalizeImage(data []byte, maxW, maxH int) (DataURI, error) {
	img, err := decode(data)
	if err != nil {
		return DataURI{}, err
	}

	bounds := img.Bounds()
	w, h := FitWithin(bounds.Dx(), bounds.Dy(), maxW, maxH)
	if w == bounds.Dx() && h == bounds.Dy() {
		return encodeWebP(img)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return encodeWebP(dst)
}

// SquareAvatar center-crops an image to a square and scales it to size x size.
func SquareAvatar(data []byte, size int) (DataURI, error) {
	img, err := decode(data)
	if err != nil {
		return DataURI{}, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	minDim := width
	if height < width {
		minDim = height
	}

	x0 := bounds.Min.X + (width-minDim)/2
	y0 := bounds.Min.Y + (height-minDim)/2
	cropRect := image.Rect(x0, y0, x0+minDim, y0+minDim)
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, cropRect, draw.Over, nil)

	return encodeWebP(dst)
}
