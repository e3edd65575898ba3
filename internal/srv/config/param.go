package config

import (
	_ "embed"
)

//go:embed param_default.yaml
var ParamDefaultFile []byte

type ServerParam struct {
	DataPath         string           `yaml:"data_path"`
	PhotoRoots       []string         `yaml:"photo_roots"`
	ScreenParam      ScreenParam      `yaml:"screen"`
	LibraryParam     LibraryParam     `yaml:"library"`
	PhotoViewerParam PhotoViewerParam `yaml:"photo_viewer"`
	GatewareParam    GatewareParam    `yaml:"gateware"`
	ButtonsParam     ButtonsParam     `yaml:"gpio_buttons"`
	ApiParam         ApiParam         `yaml:"api"`
}

// ScreenParam describes the window. A zero width or height means the
// desktop size.
type ScreenParam struct {
	Width      int64 `yaml:"width"`
	Height     int64 `yaml:"height"`
	Fps        int64 `yaml:"fps"`
	Fullscreen bool  `yaml:"fullscreen"`
}

type LibraryParam struct {
	PreloadRadius  int64 `yaml:"preload_radius"`
	MaxTextureSize int64 `yaml:"max_texture_size"`
}

type PhotoViewerParam struct {
	// Milliseconds between two pictures of a slideshow
	SlideshowInterval int64   `yaml:"slideshow_interval"`
	ZoomStep          float64 `yaml:"zoom_step"`
}

type GatewareParam struct {
	Device string `yaml:"device"`
	// Milliseconds between two status requests
	PollInterval int64 `yaml:"poll_interval"`
}

// ButtonsParam maps input names (left, right, start, stop, exit, plus,
// minus) to GPIO pin names.
type ButtonsParam struct {
	Enabled bool              `yaml:"enabled"`
	Pins    map[string]string `yaml:"pins"`
}

type ApiParam struct {
	Enabled bool   `yaml:"enabled"`
	SslPort int64  `yaml:"ssl_port"`
	ApiKey  string `yaml:"api_key"`
}
