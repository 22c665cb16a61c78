package media

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/gen2brain/webp"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() failed: %v", err)
	}
	return buf.Bytes()
}

func TestParseDataURI(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("hello"))

	d, err := ParseDataURI("data:image/JPEG;base64," + payload)
	if err != nil {
		t.Fatalf("ParseDataURI() failed: %v", err)
	}
	if d.MIME != "image/jpeg" || string(d.Data) != "hello" || d.Kind() != KindImage {
		t.Fatalf("unexpected result: %+v", d)
	}
	if got := d.String(); got != "data:image/jpeg;base64,"+payload {
		t.Fatalf("String() = %q", got)
	}

	bad := []string{
		"image/jpeg;base64," + payload,
		"data:image/jpeg," + payload,
		"data:image/jpeg;base64",
		"data:image/jpeg;base64,***",
		"data:jpeg;base64," + payload,
		"data:image/jpeg;base64,",
	}
	for _, s := range bad {
		if _, err := ParseDataURI(s); !errors.Is(err, ErrInvalidDataURI) {
			t.Errorf("ParseDataURI(%q) = %v, want ErrInvalidDataURI", s, err)
		}
	}
}

func TestFromBase64(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("clip"))

	d, err := FromBase64(KindVideo, payload)
	if err != nil {
		t.Fatalf("FromBase64() failed: %v", err)
	}
	if d.MIME != "video/mp4" || d.Kind() != KindVideo {
		t.Fatalf("unexpected result: %+v", d)
	}

	if _, err := FromBase64("audio", payload); !errors.Is(err, ErrInvalidDataURI) {
		t.Fatalf("FromBase64(audio) = %v, want ErrInvalidDataURI", err)
	}
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{800, 600, 1600, 1600, 800, 600},
		{3200, 1600, 1600, 1600, 1600, 800},
		{1000, 4000, 1600, 1600, 400, 1600},
		{3000, 500, 1500, 500, 1500, 250},
		{5000, 1, 100, 100, 100, 1},
	}
	for _, tt := range tests {
		w, h := FitWithin(tt.w, tt.h, tt.maxW, tt.maxH)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("FitWithin(%d, %d, %d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.maxW, tt.maxH, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestNormalizeImage(t *testing.T) {
	d, err := NormalizeImage(pngBytes(t, 64, 32), 32, 32)
	if err != nil {
		t.Fatalf("NormalizeImage() failed: %v", err)
	}
	if d.MIME != "image/webp" {
		t.Fatalf("MIME = %q, want image/webp", d.MIME)
	}

	img, err := webp.Decode(bytes.NewReader(d.Data))
	if err != nil {
		t.Fatalf("output is not WebP: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 16 {
		t.Fatalf("bounds = %v, want 32x16", b)
	}
}

func TestSquareAvatar(t *testing.T) {
	d, err := SquareAvatar(pngBytes(t, 40, 20), 16)
	if err != nil {
		t.Fatalf("SquareAvatar() failed: %v", err)
	}
	img, err := webp.Decode(bytes.NewReader(d.Data))
	if err != nil {
		t.Fatalf("output is not WebP: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Fatalf("bounds = %v, want 16x16", b)
	}
}

func TestNormalizeImageRejectsGarbage(t *testing.T) {
	if _, err := NormalizeImage([]byte("not an image"), 10, 10); !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("NormalizeImage(garbage) = %v, want ErrUnsupportedImage", err)
	}
}

// pngHeader returns a PNG that declares w x h but carries no pixel data.
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 0 // grayscale

	chunk := append([]byte("IHDR"), ihdr...)
	binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestOversizedImageRejectedBeforeDecode(t *testing.T) {
	data := pngHeader(12000, 12000)

	if _, err := NormalizeImage(data, 1600, 1600); !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("NormalizeImage(12000x12000) = %v, want ErrUnsupportedImage", err)
	}
	if _, err := SquareAvatar(data, 512); !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("SquareAvatar(12000x12000) = %v, want ErrUnsupportedImage", err)
	}

	if err := checkDimensions(pngHeader(6000, 6000)); err != nil {
		t.Fatalf("checkDimensions(6000x6000) = %v, want nil", err)
	}
}
