// Package library keeps an ordered collection of pictures and decodes the
// neighbours of the one being looked at in the background, so that moving
// to the next or previous picture rarely waits on the disk.
package library

import (
	"container/list"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/jypelle/cc69/internal/tool"
	"github.com/sirupsen/logrus"
)

const DefaultPreloadRadius = 3

var ErrIndexOutOfRange = errors.New("image index out of range")

type WorkerState int32

const (
	IDLE_WORKER WorkerState = iota
	PRELOADING_WORKER
	STOPPED_WORKER
)

type Options struct {
	// Number of pictures decoded ahead in each direction
	PreloadRadius int
	Decoder       Decoder
}

type Stats struct {
	Size          int
	Current       int
	Resident      int
	PreloadRadius int
}

// Library owns the pictures. Lock order: an image lock is always taken
// before the library lock, never the other way round. Eviction only tries
// image locks.
type Library struct {
	lock     sync.Mutex
	images   []*Image
	resident *list.List
	current  int

	radius  int
	decoder Decoder

	workerState atomic.Int32
	wake        chan struct{}
	askDone     chan struct{}
	done        chan struct{}
	closeOnce   sync.Once

	// Called by the worker after each preload pass
	afterPreload func(current int)
}

// New creates an empty library and starts its preloader.
func New(options Options) *Library {
	if options.PreloadRadius <= 0 {
		options.PreloadRadius = DefaultPreloadRadius
	}
	if options.Decoder == nil {
		options.Decoder = FileDecoder{}
	}

	l := &Library{
		resident: list.New(),
		current:  -1,
		radius:   options.PreloadRadius,
		decoder:  options.Decoder,
		wake:     make(chan struct{}, 1),
		askDone:  make(chan struct{}),
		done:     make(chan struct{}),
	}

	go l.worker()

	return l
}

// AddRoot recursively adds every file found below root, following links to
// directories. Unreadable entries are logged and skipped.
func (l *Library) AddRoot(root string) error {
	isDir, err := tool.IsDirExists(root)
	if err != nil {
		return fmt.Errorf("unable to access %s: %w", root, err)
	}
	if !isDir {
		return fmt.Errorf("%s is not a directory", root)
	}

	found := l.scan(root, make(map[string]bool))

	l.lock.Lock()
	defer l.lock.Unlock()
	l.images = append(l.images, found...)

	logrus.Infof("Found %d files in %s", len(found), root)
	return nil
}

// scan walks the directory dir, reached under that name. visited holds the
// resolved directories already walked, so that link loops end.
func (l *Library) scan(dir string, visited map[string]bool) []*Image {
	resolved, err := filepath.EvalSymlinks(dir)
	if err == nil {
		resolved, err = filepath.Abs(resolved)
	}
	if err != nil {
		logrus.Warnf("Unable to resolve %s: %v", dir, err)
		return nil
	}
	if visited[resolved] {
		logrus.Debugf("Skipping %s, already scanned", dir)
		return nil
	}

	var found []*Image
	filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		name := dir
		if rel, relErr := filepath.Rel(resolved, path); relErr == nil {
			name = filepath.Join(dir, rel)
		}

		if err != nil {
			logrus.Warnf("Unable to scan %s: %v", name, err)
			if d != nil && d.IsDir() && path != resolved {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if visited[path] {
				return fs.SkipDir
			}
			visited[path] = true
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				logrus.Warnf("Unable to follow %s: %v", name, err)
				return nil
			}
			if info.IsDir() {
				found = append(found, l.scan(name, visited)...)
				return nil
			}
		}

		found = append(found, newImage(name, l.decoder))
		return nil
	})
	return found
}

// Finalize sorts the pictures. Must be called once every root is added and
// before any access.
func (l *Library) Finalize() {
	l.lock.Lock()
	defer l.lock.Unlock()

	sort.SliceStable(l.images, func(i, j int) bool {
		return tool.NaturalLess(l.images[i].path, l.images[j].path)
	})
}

func (l *Library) Size() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return len(l.images)
}

// Path returns the file path of the picture at index.
func (l *Library) Path(index int) (string, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	if index < 0 || index >= len(l.images) {
		return "", ErrIndexOutOfRange
	}
	return l.images[index].path, nil
}

// AcquireLocked returns the picture at index, decoded unless corrupt, with
// its lock held. The caller must Unlock it.
func (l *Library) AcquireLocked(index int) (*Image, error) {
	l.lock.Lock()
	if index < 0 || index >= len(l.images) {
		l.lock.Unlock()
		return nil, ErrIndexOutOfRange
	}
	image := l.images[index]
	l.lock.Unlock()

	// May wait for the worker to finish decoding this very picture
	image.Lock()

	l.lock.Lock()
	if l.current != index {
		l.current = index
		select {
		case l.wake <- struct{}{}:
		default:
		}
	}
	l.evictOverflow()
	l.lock.Unlock()

	if !image.IsLoaded() && !image.IsCorrupt() && image.Decode() {
		l.lock.Lock()
		image.element = l.resident.PushBack(image)
		l.lock.Unlock()
	}

	return image, nil
}

// evictOverflow drops the least recently touched pictures until the
// resident list fits the preload window again. Locked pictures are skipped.
func (l *Library) evictOverflow() {
	overflow := l.resident.Len() - 2*(l.radius+1)
	for e := l.resident.Front(); overflow > 0 && e != nil; {
		next := e.Next()
		image := e.Value.(*Image)
		if image.TryEvict() {
			l.resident.Remove(e)
			image.element = nil
			overflow--
			logrus.Debugf("Evicted %s", image.path)
		}
		e = next
	}
}

func (l *Library) Stats() Stats {
	l.lock.Lock()
	defer l.lock.Unlock()

	return Stats{
		Size:          len(l.images),
		Current:       l.current,
		Resident:      l.resident.Len(),
		PreloadRadius: l.radius,
	}
}

func (l *Library) WorkerState() WorkerState {
	return WorkerState(l.workerState.Load())
}

func (l *Library) worker() {
	defer close(l.done)

	for loop := true; loop; {
		select {
		case <-l.wake:
			l.lock.Lock()
			current := l.current
			l.lock.Unlock()

			l.workerState.Store(int32(PRELOADING_WORKER))
			l.preload(current, 1)
			l.preload(current, -1)
			l.workerState.Store(int32(IDLE_WORKER))

			if l.afterPreload != nil {
				l.afterPreload(current)
			}
		case <-l.askDone:
			loop = false
		}
	}

	l.workerState.Store(int32(STOPPED_WORKER))
}

// preload decodes up to radius pictures next to start, walking in the
// given direction and wrapping around at most twice.
func (l *Library) preload(start int, direction int) {
	l.lock.Lock()
	size := len(l.images)
	l.lock.Unlock()
	if size == 0 || start < 0 || start >= size {
		return
	}

	index := start
	wraps := 0
	for left := l.radius; left > 0 && wraps < 2; {
		select {
		case <-l.askDone:
			return
		default:
		}

		index += direction
		if index < 0 {
			index = size - 1
			wraps++
		} else if index >= size {
			index = 0
			wraps++
		}

		image := l.images[index]
		image.Lock()
		if !image.IsCorrupt() {
			if !image.IsLoaded() {
				if image.Decode() {
					l.lock.Lock()
					image.element = l.resident.PushBack(image)
					l.lock.Unlock()
					left--
				}
			} else {
				l.lock.Lock()
				l.resident.MoveToBack(image.element)
				l.lock.Unlock()
				left--
			}
		}
		image.Unlock()
	}
}

// Close stops the preloader, waits for it and releases every picture.
// The caller must not hold any image lock.
func (l *Library) Close() {
	l.closeOnce.Do(func() {
		logrus.Infof("Stop image library")

		close(l.askDone)
		<-l.done

		l.lock.Lock()
		images := l.images
		l.resident.Init()
		l.lock.Unlock()

		for _, image := range images {
			image.Lock()
			image.Release()
			image.element = nil
			image.Unlock()
		}
	})
}
