package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jypelle/cc69/apimodel"
	"github.com/jypelle/cc69/internal/library"
	"github.com/jypelle/cc69/internal/srv/config"
	"github.com/jypelle/cc69/internal/srv/event"
	"github.com/jypelle/cc69/internal/tool"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

const thumbnailSize = 256

// LibraryReader is what the remote API may see of the image library.
type LibraryReader interface {
	Stats() library.Stats
	Path(index int) (string, error)
}

type Api struct {
	eventChannel chan event.InputEvent

	router    *mux.Router
	apiRouter *mux.Router
	server    *http.Server

	config  *config.ServerConfig
	library LibraryReader
}

func NewApi(config *config.ServerConfig, lib LibraryReader) *Api {
	api := Api{
		config:       config,
		library:      lib,
		eventChannel: make(chan event.InputEvent, 16),
	}

	api.router = mux.NewRouter().StrictSlash(false)

	// API Routes
	api.apiRouter = api.router.PathPrefix("/api").Subrouter()
	api.apiRouter.NotFoundHandler = http.HandlerFunc(ErrorNotFoundAction)
	api.apiRouter.MethodNotAllowedHandler = http.HandlerFunc(ErrorMethodNotAllowedAction)

	// Auth middleware
	api.apiRouter.Use(
		func(handler http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer func() {
					if rec := recover(); rec != nil {
						logrus.Warningf("recovered from panic : [%v] - stack trace : \n [%s]", rec, debug.Stack())
						strMessage := fmt.Sprintf("%v", rec)
						GlobalErrorAction(w, strMessage, http.StatusInternalServerError)
					}
				}()

				// Check API Key
				apiKey := r.Header.Get("x-api-key")
				if apiKey != config.ServerParam.ApiParam.ApiKey {
					ErrorStatusAction(w, r, http.StatusForbidden)
					return
				}

				logrus.Debugf("PATH: %s %s", r.Host, r.URL.Path)

				handler.ServeHTTP(w, r)
			})
		})

	api.apiRouter.HandleFunc("/is_alive",
		func(w http.ResponseWriter, r *http.Request) {
			ErrorStatusAction(w, r, http.StatusOK)
		}).Methods("GET")
	api.apiRouter.HandleFunc("/input/{input}", api.inputAction).Methods("POST")
	api.apiRouter.HandleFunc("/library", api.libraryAction).Methods("GET")
	api.apiRouter.HandleFunc("/library/{index}", api.imageAction).Methods("GET")
	api.apiRouter.HandleFunc("/library/{index}/thumbnail", api.thumbnailAction).Methods("GET")

	// Tell the browser that it's OK for JS to communicate with the server
	headersOk := handlers.AllowedHeaders([]string{"Authorization", "x-api-key"})
	originsOk := handlers.AllowedOrigins([]string{"*"})
	methodsOk := handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"})

	api.server = &http.Server{
		Addr:         ":" + strconv.FormatInt(config.ServerParam.ApiParam.SslPort, 10),
		Handler:      handlers.CompressHandler(handlers.CORS(originsOk, headersOk, methodsOk)(api.router)),
		ReadTimeout:  time.Second * 240,
		WriteTimeout: time.Second * 240,
		IdleTimeout:  time.Second * 240,
	}

	return &api
}

func (d *Api) inputAction(w http.ResponseWriter, r *http.Request) {
	inputId, err := event.ParseInputId(mux.Vars(r)["input"])
	if err != nil || inputId == event.MOUSE_INPUT {
		apimodel.WrongParametersErrorMessage.SendError(w)
		return
	}

	select {
	case d.eventChannel <- event.InputEvent{InputId: inputId}:
		ErrorStatusAction(w, r, http.StatusOK)
	default:
		ErrorStatusAction(w, r, http.StatusServiceUnavailable)
	}
}

func (d *Api) libraryAction(w http.ResponseWriter, r *http.Request) {
	stats := d.library.Stats()
	writeJson(w, apimodel.LibraryStatus{
		Size:          int64(stats.Size),
		CurrentIndex:  int64(stats.Current),
		ResidentCount: int64(stats.Resident),
		PreloadRadius: int64(stats.PreloadRadius),
	})
}

// imagePath resolves the {index} route variable, answering the request
// itself on failure.
func (d *Api) imagePath(w http.ResponseWriter, r *http.Request) (int, string, bool) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		apimodel.WrongParametersErrorMessage.SendError(w)
		return 0, "", false
	}
	path, err := d.library.Path(index)
	if err != nil {
		if errors.Is(err, library.ErrIndexOutOfRange) {
			apimodel.UnknownImageErrorMessage.SendError(w)
		} else {
			GlobalErrorAction(w, err.Error(), http.StatusInternalServerError)
		}
		return 0, "", false
	}
	return index, path, true
}

func (d *Api) imageAction(w http.ResponseWriter, r *http.Request) {
	index, path, ok := d.imagePath(w, r)
	if !ok {
		return
	}
	writeJson(w, apimodel.ImageInfo{
		Index:    int64(index),
		Path:     path,
		Filename: filepath.Base(path),
	})
}

// thumbnailAction decodes the picture on its own, leaving the library
// cache alone, and sends a small WebP version of it.
func (d *Api) thumbnailAction(w http.ResponseWriter, r *http.Request) {
	_, path, ok := d.imagePath(w, r)
	if !ok {
		return
	}

	img, err := library.DecodeFile(path)
	if err != nil {
		GlobalErrorAction(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "image/webp")
	if err := nativewebp.Encode(w, thumbnail(img, thumbnailSize), nil); err != nil {
		logrus.Warnf("Unable to encode thumbnail of %s: %v", path, err)
	}
}

// thumbnail scales img down to fit in a size x size square.
func thumbnail(img image.Image, size int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= size && height <= size {
		return img
	}
	if width >= height {
		height = max(1, height*size/width)
		width = size
	} else {
		width = max(1, width*size/height)
		height = size
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

func writeJson(w http.ResponseWriter, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(value); err != nil {
		logrus.Warnf("Unable to encode response: %v", err)
	}
}

func (d *Api) Start() {
	logrus.Infof("Start api device")

	existServerCert, err := tool.IsFileExists(d.config.GetCompleteCertFilename())
	if err != nil {
		logrus.Fatalf("Unable to access %s: %v\n", d.config.GetCompleteCertFilename(), err)
	}

	existServerKey, err := tool.IsFileExists(d.config.GetCompleteKeyFilename())
	if err != nil {
		logrus.Fatalf("Unable to access %s: %v\n", d.config.GetCompleteKeyFilename(), err)
	}

	if !existServerCert || !existServerKey {
		logrus.Info("Missing cert and key files, trying to generate them...")
		err = tool.GenerateTlsCertificate(
			"cc69",
			"CC69 Kiosk",
			d.config.GetCompleteKeyFilename(),
			d.config.GetCompleteCertFilename(),
			tool.KioskHostnames())
		if err != nil {
			logrus.Fatalf("Unable to generate cert and key files : %v\n", err)
		}
		logrus.Info("Self-signed cert and key files generated")
	}

	// Launch https server
	go func() {
		err := d.server.ListenAndServeTLS(d.config.GetCompleteCertFilename(), d.config.GetCompleteKeyFilename())
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Error(err)
		}
	}()
}

func (d *Api) StopSendingEvent() {
	logrus.Infof("Stop api device")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	d.server.Shutdown(ctx)
}

func (d *Api) EventChannel() chan event.InputEvent {
	return d.eventChannel
}

func (d *Api) Handler() http.Handler {
	return d.server.Handler
}

func ErrorNotFoundAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusNotFound)
}

func ErrorMethodNotAllowedAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusMethodNotAllowed)
}

func ErrorStatusAction(w http.ResponseWriter, r *http.Request, status int) {
	GlobalErrorAction(w, "", status)
}

func GlobalErrorAction(w http.ResponseWriter, message string, status int) {
	apimodel.NewErrorMessage(status, message).SendError(w)
}
