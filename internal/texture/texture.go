// Package texture holds decoded pictures in a GPU friendly layout: a non
// premultiplied RGBA buffer whose sides are padded to powers of two, plus
// the GPU texture created from it on first use.
package texture

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

var ErrEmptyImage = errors.New("empty image")

// Handle is a texture living on the GPU.
type Handle interface {
	Id() uint32
	Delete()
}

// Uploader turns a pixel buffer into a GPU texture. Implementations must be
// called from the goroutine owning the graphic context.
type Uploader interface {
	Upload(pix []uint8, textureWidth, textureHeight int) (Handle, error)
}

type Texture struct {
	pix           []uint8
	width         int
	height        int
	textureWidth  int
	textureHeight int
	handle        Handle
}

// RoundUp2 returns the smallest power of two greater or equal to n.
func RoundUp2(n uint32) uint32 {
	if n&(n-1) == 0 {
		return n
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// FromImage copies src into a padded buffer. When maxSize is positive and
// src is bigger, the picture is downscaled to fit in a maxSize square
// keeping its aspect ratio.
func FromImage(src image.Image, maxSize int) (*Texture, error) {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyImage
	}

	scaled := false
	if maxSize > 0 && (width > maxSize || height > maxSize) {
		if width >= height {
			height = max(1, height*maxSize/width)
			width = maxSize
		} else {
			width = max(1, width*maxSize/height)
			height = maxSize
		}
		scaled = true
	}

	textureWidth := int(RoundUp2(uint32(width)))
	textureHeight := int(RoundUp2(uint32(height)))
	if textureWidth <= 0 || textureHeight <= 0 {
		return nil, fmt.Errorf("image too large: %dx%d", width, height)
	}

	// Pixels outside of the picture stay fully transparent
	dst := image.NewNRGBA(image.Rect(0, 0, textureWidth, textureHeight))
	rect := image.Rect(0, 0, width, height)
	if scaled {
		draw.CatmullRom.Scale(dst, rect, src, bounds, draw.Src, nil)
	} else {
		draw.Draw(dst, rect, src, bounds.Min, draw.Src)
	}

	return &Texture{
		pix:           dst.Pix,
		width:         width,
		height:        height,
		textureWidth:  textureWidth,
		textureHeight: textureHeight,
	}, nil
}

func (t *Texture) Width() int {
	return t.width
}

func (t *Texture) Height() int {
	return t.height
}

func (t *Texture) TextureWidth() int {
	return t.textureWidth
}

func (t *Texture) TextureHeight() int {
	return t.textureHeight
}

// NormalizedWidth is the horizontal texture coordinate of the picture's
// right edge; everything beyond is padding.
func (t *Texture) NormalizedWidth() float32 {
	return float32(t.width) / float32(t.textureWidth)
}

// NormalizedHeight is the vertical counterpart of NormalizedWidth.
func (t *Texture) NormalizedHeight() float32 {
	return float32(t.height) / float32(t.textureHeight)
}

// Pix returns the pixel buffer, nil once the texture has been uploaded.
func (t *Texture) Pix() []uint8 {
	return t.pix
}

func (t *Texture) IsUploaded() bool {
	return t.handle != nil
}

// Handle returns the GPU texture, creating it on the first call. The CPU
// buffer is dropped once uploaded.
func (t *Texture) Handle(uploader Uploader) (Handle, error) {
	if t.handle == nil {
		if t.pix == nil {
			return nil, errors.New("texture released")
		}
		handle, err := uploader.Upload(t.pix, t.textureWidth, t.textureHeight)
		if err != nil {
			return nil, err
		}
		t.handle = handle
		t.pix = nil
	}
	return t.handle, nil
}

// Release frees both the pixel buffer and the GPU texture.
func (t *Texture) Release() {
	if t.handle != nil {
		t.handle.Delete()
		t.handle = nil
	}
	t.pix = nil
}
