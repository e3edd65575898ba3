package library

import (
	"container/list"
	"path/filepath"
	"sync"

	"github.com/jypelle/cc69/internal/texture"
	"github.com/sirupsen/logrus"
)

type State int

const (
	UNLOADED_STATE State = iota
	LOADED_STATE
	CORRUPT_STATE
)

func (s State) String() string {
	switch s {
	case UNLOADED_STATE:
		return "unloaded"
	case LOADED_STATE:
		return "loaded"
	case CORRUPT_STATE:
		return "corrupt"
	default:
		return "unknown"
	}
}

// Image is a picture file of the library. Everything but Path and Filename
// must be accessed while holding the image lock.
type Image struct {
	lock    sync.Mutex
	path    string
	decoder Decoder

	state   State
	texture *texture.Texture

	// Position in the library resident list, guarded by the library lock
	element *list.Element
}

func newImage(path string, decoder Decoder) *Image {
	return &Image{
		path:    path,
		decoder: decoder,
		state:   UNLOADED_STATE,
	}
}

func (i *Image) Lock() {
	i.lock.Lock()
}

func (i *Image) Unlock() {
	i.lock.Unlock()
}

func (i *Image) Path() string {
	return i.path
}

func (i *Image) Filename() string {
	return filepath.Base(i.path)
}

func (i *Image) State() State {
	return i.state
}

func (i *Image) IsLoaded() bool {
	return i.state == LOADED_STATE
}

func (i *Image) IsCorrupt() bool {
	return i.state == CORRUPT_STATE
}

// Texture returns the decoded picture, nil unless the image is loaded.
func (i *Image) Texture() *texture.Texture {
	return i.texture
}

func (i *Image) Width() int {
	if i.texture == nil {
		return 0
	}
	return i.texture.Width()
}

func (i *Image) Height() int {
	if i.texture == nil {
		return 0
	}
	return i.texture.Height()
}

// Decode reads the file and builds its texture. A failure marks the image
// as corrupt for good. Must only be called on an unloaded image.
func (i *Image) Decode() bool {
	if i.state != UNLOADED_STATE {
		logrus.Panicf("Decode of %s requested in %s state", i.path, i.state)
	}

	tex, err := i.decoder.Decode(i.path)
	if err != nil {
		logrus.Warnf("Unable to decode %s: %v", i.path, err)
		i.state = CORRUPT_STATE
		return false
	}

	logrus.Debugf("Decoded %s (%dx%d)", i.path, tex.Width(), tex.Height())
	i.texture = tex
	i.state = LOADED_STATE
	return true
}

// Release drops the texture and goes back to the unloaded state. Corrupt
// images stay corrupt.
func (i *Image) Release() {
	if i.texture != nil {
		i.texture.Release()
		i.texture = nil
	}
	if i.state == LOADED_STATE {
		i.state = UNLOADED_STATE
	}
}

// TryEvict releases the image unless someone else holds its lock.
func (i *Image) TryEvict() bool {
	if !i.lock.TryLock() {
		return false
	}
	defer i.lock.Unlock()

	i.Release()
	return true
}
