package srv

import (
	"image"
	"image/color"

	"github.com/jypelle/cc69/internal/game"
	"github.com/jypelle/cc69/internal/library"
	"github.com/jypelle/cc69/internal/render"
	"github.com/jypelle/cc69/internal/texture"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

const (
	clockBackgroundAsset = "clock_background.png"
	clockIconAsset       = "clock_icon.png"
	clockHandAsset       = "clock_hand.png"
	clockTalk1Asset      = "clock_talk1.png"
	clockTalk2Asset      = "clock_talk2.png"
	clockTalk3Asset      = "clock_talk3.png"
	menuBackgroundAsset  = "menu_background.jpg"
	gameBackgroundAsset  = "game_background.jpg"
	gameBlocksAsset      = "game_blocks.png"
)

// Block sheet layout: BLOCK_COUNT squares on two rows
const (
	blockSheetRows    = 2
	blockSheetColumns = (game.BLOCK_COUNT + 1) / blockSheetRows
)

var blockColors = [game.BLOCK_COUNT]color.NRGBA{
	{0x00, 0xf0, 0xf0, 0xff},
	{0x00, 0x00, 0xf0, 0xff},
	{0xf0, 0xa0, 0x00, 0xff},
	{0xf0, 0xf0, 0x00, 0xff},
	{0x00, 0xf0, 0x00, 0xff},
	{0xa0, 0x00, 0xf0, 0xff},
	{0xf0, 0x00, 0x00, 0xff},
}

// loadAsset decodes name from the data folder. When it cannot be read the
// fallback picture is used instead; a nil fallback means the asset is
// optional and nil is returned.
func (s *ServerApp) loadAsset(name string, fallback func() image.Image) *texture.Texture {
	filename := s.GetDataFilename(name)
	img, err := library.DecodeFile(filename)
	if err != nil {
		if fallback == nil {
			logrus.Warnf("Unable to load %s: %v", filename, err)
			return nil
		}
		logrus.Warnf("Unable to load %s, using a placeholder: %v", filename, err)
		img = fallback()
	}
	tex, err := texture.FromImage(img, int(s.LibraryParam.MaxTextureSize))
	if err != nil {
		logrus.Warnf("Unable to convert %s: %v", filename, err)
		return nil
	}
	return tex
}

// generatedTexture builds a texture from a picture drawn in code.
func generatedTexture(paint func() image.Image) *texture.Texture {
	tex, err := texture.FromImage(paint(), 0)
	if err != nil {
		logrus.Warnf("Unable to build texture: %v", err)
		return nil
	}
	return tex
}

func releaseAll(textures ...*texture.Texture) {
	for _, tex := range textures {
		if tex != nil {
			tex.Release()
		}
	}
}

// drawFullScreen stretches tex over the whole screen.
func (s *ServerApp) drawFullScreen(tex *texture.Texture) {
	if tex == nil {
		return
	}
	if err := render.DrawTexture(tex, texture.Rect{Right: s.width, Bottom: s.height}); err != nil {
		logrus.Warnf("Unable to draw picture: %v", err)
	}
}

func solidImage(col color.Color) func() image.Image {
	return func() image.Image {
		img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
		draw.Draw(img, img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
		return img
	}
}

// discImage is a disc of the given diameter whose alpha fades towards the rim.
func discImage(diameter int, col color.NRGBA) func() image.Image {
	return func() image.Image {
		img := image.NewNRGBA(image.Rect(0, 0, diameter, diameter))
		r := float64(diameter) / 2
		for y := 0; y < diameter; y++ {
			for x := 0; x < diameter; x++ {
				dx := float64(x) + 0.5 - r
				dy := float64(y) + 0.5 - r
				d := (dx*dx + dy*dy) / (r * r)
				if d >= 1 {
					continue
				}
				c := col
				c.A = uint8(float64(col.A) * (1 - d))
				img.SetNRGBA(x, y, c)
			}
		}
		return img
	}
}

// blockSheetImage draws plain bevelled blocks laid out like game_blocks.png.
func blockSheetImage() image.Image {
	const size = 32
	img := image.NewNRGBA(image.Rect(0, 0, size*blockSheetColumns, size*blockSheetRows))
	for i, col := range blockColors {
		x := (i % blockSheetColumns) * size
		y := (i / blockSheetColumns) * size
		dark := color.NRGBA{col.R / 2, col.G / 2, col.B / 2, 0xff}
		draw.Draw(img, image.Rect(x, y, x+size, y+size), image.NewUniform(dark), image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(x+3, y+3, x+size-3, y+size-3), image.NewUniform(col), image.Point{}, draw.Src)
	}
	return img
}

// blockRegion returns the texture coordinates of block in the sheet.
func blockRegion(sheet *texture.Texture, block int) (u0, v0, u1, v1 float32) {
	blockWidth := float32(sheet.Width() / blockSheetColumns)
	blockHeight := float32(sheet.Height() / blockSheetRows)
	col := float32(block % blockSheetColumns)
	row := float32(block / blockSheetColumns)
	textureWidth := float32(sheet.TextureWidth())
	textureHeight := float32(sheet.TextureHeight())
	return col * blockWidth / textureWidth,
		row * blockHeight / textureHeight,
		(col + 1) * blockWidth / textureWidth,
		(row + 1) * blockHeight / textureHeight
}
