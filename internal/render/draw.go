package render

import (
	"github.com/go-gl/gl/v2.1/gl"
	"github.com/jypelle/cc69/internal/texture"
)

var uploader Uploader

func setup(width int, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.MatrixMode(gl.PROJECTION)
	gl.LoadIdentity()
	gl.Ortho(0, float64(width), float64(height), 0, -1, 1)
	gl.MatrixMode(gl.MODELVIEW)
	gl.LoadIdentity()

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.TEXTURE_2D)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0, 0, 0, 1)
}

func Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.LoadIdentity()
	gl.Color4f(1, 1, 1, 1)
}

func PushMatrix() {
	gl.PushMatrix()
}

func PopMatrix() {
	gl.PopMatrix()
}

func Translate(x float32, y float32) {
	gl.Translatef(x, y, 0)
}

// Rotate turns the model view by degrees, clockwise on screen.
func Rotate(degrees float32) {
	gl.Rotatef(degrees, 0, 0, 1)
}

func SetColor(r float32, g float32, b float32, a float32) {
	gl.Color4f(r, g, b, a)
}

// AdditiveBlend switches blending for glowing particles, NormalBlend restores it.
func AdditiveBlend() {
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
}

func NormalBlend() {
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
}

// DrawTexture draws the whole picture of t into rect.
func DrawTexture(t *texture.Texture, rect texture.Rect) error {
	return DrawTextureRegion(t, rect, 0, 0, t.NormalizedWidth(), t.NormalizedHeight())
}

// DrawTextureRegion draws the (u0,v0)-(u1,v1) region of t into rect,
// uploading t on first use.
func DrawTextureRegion(t *texture.Texture, rect texture.Rect, u0 float32, v0 float32, u1 float32, v1 float32) error {
	handle, err := t.Handle(uploader)
	if err != nil {
		return err
	}
	gl.BindTexture(gl.TEXTURE_2D, handle.Id())
	gl.Begin(gl.QUADS)
	gl.TexCoord2f(u0, v0)
	gl.Vertex2f(rect.Left, rect.Top)
	gl.TexCoord2f(u1, v0)
	gl.Vertex2f(rect.Right, rect.Top)
	gl.TexCoord2f(u1, v1)
	gl.Vertex2f(rect.Right, rect.Bottom)
	gl.TexCoord2f(u0, v1)
	gl.Vertex2f(rect.Left, rect.Bottom)
	gl.End()
	return nil
}

// DrawRect fills rect with the current color.
func DrawRect(rect texture.Rect) {
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.Disable(gl.TEXTURE_2D)
	gl.Begin(gl.QUADS)
	gl.Vertex2f(rect.Left, rect.Top)
	gl.Vertex2f(rect.Right, rect.Top)
	gl.Vertex2f(rect.Right, rect.Bottom)
	gl.Vertex2f(rect.Left, rect.Bottom)
	gl.End()
	gl.Enable(gl.TEXTURE_2D)
}
