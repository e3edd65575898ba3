package library

import (
	"bufio"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/ftrvxmtrx/tga"
	"github.com/jypelle/cc69/internal/texture"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// The tga package registers itself with image.RegisterFormat under an empty
// magic string, which makes image.Decode hand it every file. Formats are
// therefore picked here from their signature, TGA having none.
type format struct {
	name   string
	magic  string
	decode func(io.Reader) (image.Image, error)
}

var formats = []format{
	{"jpeg", "\xff\xd8", jpeg.Decode},
	{"png", "\x89PNG\r\n\x1a\n", png.Decode},
	{"gif", "GIF8?a", gif.Decode},
	{"bmp", "BM????\x00\x00\x00\x00", bmp.Decode},
	{"tiff", "II*\x00", tiff.Decode},
	{"tiff", "MM\x00*", tiff.Decode},
	{"webp", "RIFF????WEBPVP8", webp.Decode},
}

var tgaFormat = format{"tga", "", tga.Decode}

// match reports whether header starts with magic, '?' matching any byte.
func match(magic string, header []byte) bool {
	if len(header) < len(magic) {
		return false
	}
	for i := 0; i < len(magic); i++ {
		if magic[i] != '?' && magic[i] != header[i] {
			return false
		}
	}
	return true
}

func sniff(header []byte) format {
	for _, f := range formats {
		if match(f.magic, header) {
			return f
		}
	}
	return tgaFormat
}

// Decoder turns an image file into a texture ready to be uploaded.
type Decoder interface {
	Decode(path string) (*texture.Texture, error)
}

type DecoderFunc func(path string) (*texture.Texture, error)

func (f DecoderFunc) Decode(path string) (*texture.Texture, error) {
	return f(path)
}

// FileDecoder decodes JPEG, PNG, GIF, BMP, TIFF, WebP and TGA files.
// Pictures larger than MaxTextureSize are downscaled.
type FileDecoder struct {
	MaxTextureSize int
}

func (d FileDecoder) Decode(path string) (*texture.Texture, error) {
	img, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return texture.FromImage(img, d.MaxTextureSize)
}

// DecodeFile decodes JPEG, PNG, GIF, BMP, TIFF, WebP and TGA files. Decoder
// panics on malformed input are reported as errors.
func DecodeFile(path string) (img image.Image, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	defer func() {
		if rec := recover(); rec != nil {
			img = nil
			err = fmt.Errorf("decoder panic: %v", rec)
		}
	}()

	r := bufio.NewReader(f)
	// Peek errors only mean a short file, left for the decoder to report
	header, _ := r.Peek(16)
	format := sniff(header)

	img, err = format.decode(r)
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s as %s: %w", path, format.name, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("empty %s image", format.name)
	}
	return img, nil
}
