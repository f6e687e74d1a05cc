package texture

import (
	"errors"
	"fmt"
	"image"
)

const (
	tgaTrueColor    = 2
	tgaTrueColorRLE = 10
)

var errTGATruncated = errors.New("tga: truncated data")

// decodeTGA handles uncompressed and RLE true-colour TGA at 24 or 32 bpp.
func decodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, errTGATruncated
	}
	idLen := int(data[0])
	if data[1] != 0 {
		return nil, fmt.Errorf("%w: color-mapped tga", ErrUnsupportedFormat)
	}
	kind := data[2]
	if kind != tgaTrueColor && kind != tgaTrueColorRLE {
		return nil, fmt.Errorf("%w: tga type %d", ErrUnsupportedFormat, kind)
	}
	w := int(data[12]) | int(data[13])<<8
	h := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("%w: tga depth %d", ErrUnsupportedFormat, bpp)
	}
	topDown := data[17]&0x20 != 0

	src := data[min(18+idLen, len(data)):]
	px := bpp / 8
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	put := func(n int, p []byte) {
		x, y := n%w, n/w
		if !topDown {
			y = h - 1 - y
		}
		o := img.PixOffset(x, y)
		img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3] = p[2], p[1], p[0], 255
		if px == 4 {
			img.Pix[o+3] = p[3]
		}
	}

	total := w * h
	if kind == tgaTrueColor {
		if len(src) < total*px {
			return nil, errTGATruncated
		}
		for n := 0; n < total; n++ {
			put(n, src[n*px:])
		}
		return img, nil
	}

	n, i := 0, 0
	for n < total && i < len(src) {
		hdr := src[i]
		i++
		count := int(hdr&0x7f) + 1
		if hdr&0x80 != 0 {
			if i+px > len(src) {
				return nil, errTGATruncated
			}
			for k := 0; k < count && n < total; k++ {
				put(n, src[i:])
				n++
			}
			i += px
			continue
		}
		for k := 0; k < count && n < total; k++ {
			if i+px > len(src) {
				return nil, errTGATruncated
			}
			put(n, src[i:])
			i += px
			n++
		}
	}
	return img, nil
}
