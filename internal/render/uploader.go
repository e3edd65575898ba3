package render

import (
	"fmt"

	"github.com/go-gl/gl/v2.1/gl"
	"github.com/jypelle/cc69/internal/texture"
)

type glTexture struct {
	id uint32
}

func (t *glTexture) Id() uint32 {
	return t.id
}

func (t *glTexture) Delete() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// Uploader creates GL textures from padded RGBA buffers.
type Uploader struct{}

func (Uploader) Upload(pix []uint8, textureWidth int, textureHeight int) (texture.Handle, error) {
	tex := &glTexture{}
	gl.GenTextures(1, &tex.id)
	if tex.id == 0 {
		return nil, fmt.Errorf("unable to allocate %dx%d texture", textureWidth, textureHeight)
	}
	gl.BindTexture(gl.TEXTURE_2D, tex.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(textureWidth), int32(textureHeight), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))

	if code := gl.GetError(); code != gl.NO_ERROR {
		tex.Delete()
		return nil, fmt.Errorf("unable to upload %dx%d texture: gl error 0x%x", textureWidth, textureHeight, code)
	}
	return tex, nil
}
