// Package texture decodes image files into RGBA pixels ready for GPU upload.
package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // catalog textures
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp" // model textures
)

// ErrUnsupportedFormat is returned for image types no decoder handles.
var ErrUnsupportedFormat = errors.New("texture: unsupported format")

// Options controls post-processing after decode.
type Options struct {
	// ColorKey turns near-magenta pixels transparent, as model textures expect.
	ColorKey bool
}

// Load reads and decodes the image at path.
func Load(path string, opts Options) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture: %w", err)
	}
	img, err := Decode(data, filepath.Ext(path), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Decode decodes data; ext picks the TGA path, other formats are sniffed.
func Decode(data []byte, ext string, opts Options) (*image.RGBA, error) {
	var (
		img image.Image
		err error
	)
	if strings.EqualFold(ext, ".tga") {
		img, err = decodeTGA(data)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
		if errors.Is(err, image.ErrFormat) {
			err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
		}
	}
	if err != nil {
		return nil, err
	}

	rgba := toRGBA(img)
	if opts.ColorKey {
		ApplyMagentaKey(rgba)
	}
	return rgba, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// IsMagentaKey reports whether a pixel matches the magenta transparency key.
// The tolerance absorbs BMP rounding.
func IsMagentaKey(r, g, b uint8) bool {
	return r >= 250 && g <= 10 && b >= 250
}

// ApplyMagentaKey clears keyed pixels to transparent black in place.
func ApplyMagentaKey(img *image.RGBA) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		if IsMagentaKey(img.Pix[i], img.Pix[i+1], img.Pix[i+2]) {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0, 0, 0, 0
		}
	}
}

// Cache memoises decoded textures by path.
type Cache struct {
	opts  Options
	items map[string]*image.RGBA
}

// NewCache creates an empty cache decoding with opts.
func NewCache(opts Options) *Cache {
	return &Cache{opts: opts, items: make(map[string]*image.RGBA)}
}

// Get returns the decoded texture at path, loading it on first use.
func (c *Cache) Get(path string) (*image.RGBA, error) {
	if img, ok := c.items[path]; ok {
		return img, nil
	}
	img, err := Load(path, c.opts)
	if err != nil {
		return nil, err
	}
	c.items[path] = img
	return img, nil
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	return len(c.items)
}
