package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func tgaHeader(kind byte, w, h int, bpp byte, topDown bool) []byte {
	hdr := make([]byte, 18)
	hdr[2] = kind
	hdr[12], hdr[13] = byte(w), byte(w>>8)
	hdr[14], hdr[15] = byte(h), byte(h>>8)
	hdr[16] = bpp
	if topDown {
		hdr[17] = 0x20
	}
	return hdr
}

func TestDecodeTGAUncompressed(t *testing.T) {
	// 2x1, top-down, BGR pixels: red then blue.
	data := append(tgaHeader(2, 2, 1, 24, true), 0, 0, 255, 255, 0, 0)
	img, err := Decode(data, ".tga", Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("pixel 0 = %v, want red", got)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("pixel 1 = %v, want blue", got)
	}
}

func TestDecodeTGARLEBottomUp(t *testing.T) {
	// 1x2 bottom-up; one RLE packet of two green pixels with alpha.
	data := append(tgaHeader(10, 1, 2, 32, false), 0x81, 0, 255, 0, 128)
	img, err := Decode(data, ".TGA", Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for y := 0; y < 2; y++ {
		if got := img.RGBAAt(0, y); got != (color.RGBA{0, 255, 0, 128}) {
			t.Errorf("pixel y=%d = %v, want green", y, got)
		}
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short header", []byte{0, 0, 2}},
		{"color mapped", func() []byte { h := tgaHeader(2, 1, 1, 24, false); h[1] = 1; return h }()},
		{"grayscale", tgaHeader(3, 1, 1, 8, false)},
		{"16 bit", tgaHeader(2, 1, 1, 16, false)},
		{"truncated pixels", tgaHeader(2, 4, 4, 24, false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data, ".tga", Options{}); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDecodePNGWithColorKey(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{255, 0, 255, 255})
	src.SetRGBA(1, 0, color.RGBA{10, 20, 30, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	img, err := Decode(buf.Bytes(), ".png", Options{ColorKey: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := img.RGBAAt(0, 0); got.A != 0 {
		t.Errorf("magenta pixel alpha = %d, want 0", got.A)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("plain pixel = %v, want unchanged", got)
	}
}

func TestDecodeUnknownFormat(t *testing.T) {
	_, err := Decode([]byte("not an image"), ".xyz", Options{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Decode() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	c := NewCache(Options{})
	first, err := c.Get(path)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, _ := c.Get(path)
	if first != second || c.Len() != 1 {
		t.Errorf("expected cached texture, len=%d", c.Len())
	}
	if _, err := c.Get(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}
