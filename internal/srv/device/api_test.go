package device

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/jypelle/cc69/apimodel"
	"github.com/jypelle/cc69/internal/library"
	"github.com/jypelle/cc69/internal/srv/config"
	"github.com/jypelle/cc69/internal/srv/event"
	"golang.org/x/image/webp"
	"gopkg.in/check.v1"
)

type ApiSuite struct {
	dir string
	api *Api
}

var _ = check.Suite(&ApiSuite{})

type fakeLibrary struct {
	paths []string
}

func (l *fakeLibrary) Stats() library.Stats {
	return library.Stats{Size: len(l.paths), Current: 1, Resident: 2, PreloadRadius: 3}
}

func (l *fakeLibrary) Path(index int) (string, error) {
	if index < 0 || index >= len(l.paths) {
		return "", library.ErrIndexOutOfRange
	}
	return l.paths[index], nil
}

func (s *ApiSuite) SetUpTest(c *check.C) {
	s.dir = c.MkDir()

	picture := filepath.Join(s.dir, "picture.png")
	f, err := os.Create(picture)
	c.Assert(err, check.IsNil)
	c.Assert(png.Encode(f, image.NewNRGBA(image.Rect(0, 0, 512, 256))), check.IsNil)
	c.Assert(f.Close(), check.IsNil)

	broken := filepath.Join(s.dir, "broken.jpg")
	c.Assert(os.WriteFile(broken, []byte("broken"), 0660), check.IsNil)

	serverConfig := &config.ServerConfig{
		ConfigDir: s.dir,
		ServerParam: &config.ServerParam{
			ApiParam: config.ApiParam{Enabled: true, SslPort: 6969, ApiKey: "secret"},
		},
	}
	s.api = NewApi(serverConfig, &fakeLibrary{paths: []string{picture, broken}})
}

func (s *ApiSuite) request(method string, url string, apiKey string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, url, nil)
	r.Header.Set("x-api-key", apiKey)
	w := httptest.NewRecorder()
	s.api.Handler().ServeHTTP(w, r)
	return w
}

func (s *ApiSuite) TestApiKeyIsChecked(c *check.C) {
	c.Assert(s.request("GET", "/api/is_alive", "wrong").Code, check.Equals, http.StatusForbidden)
	c.Assert(s.request("GET", "/api/is_alive", "secret").Code, check.Equals, http.StatusOK)
}

func (s *ApiSuite) TestInput(c *check.C) {
	c.Assert(s.request("POST", "/api/input/right", "secret").Code, check.Equals, http.StatusOK)
	c.Assert(s.request("POST", "/api/input/mouse", "secret").Code, check.Equals, http.StatusBadRequest)
	c.Assert(s.request("POST", "/api/input/snooze", "secret").Code, check.Equals, http.StatusBadRequest)
	c.Assert(s.request("GET", "/api/input/right", "secret").Code, check.Equals, http.StatusMethodNotAllowed)

	ev := <-s.api.EventChannel()
	c.Assert(ev.InputId, check.Equals, event.RIGHT_INPUT)
}

func (s *ApiSuite) TestLibrary(c *check.C) {
	w := s.request("GET", "/api/library", "secret")
	c.Assert(w.Code, check.Equals, http.StatusOK)

	var status apimodel.LibraryStatus
	c.Assert(json.Unmarshal(w.Body.Bytes(), &status), check.IsNil)
	c.Assert(status, check.Equals, apimodel.LibraryStatus{Size: 2, CurrentIndex: 1, ResidentCount: 2, PreloadRadius: 3})

	w = s.request("GET", "/api/library/0", "secret")
	c.Assert(w.Code, check.Equals, http.StatusOK)
	var info apimodel.ImageInfo
	c.Assert(json.Unmarshal(w.Body.Bytes(), &info), check.IsNil)
	c.Assert(info.Filename, check.Equals, "picture.png")

	w = s.request("GET", "/api/library/7", "secret")
	c.Assert(w.Code, check.Equals, http.StatusNotFound)
	var errorMessage apimodel.ErrorMessage
	c.Assert(json.Unmarshal(w.Body.Bytes(), &errorMessage), check.IsNil)
	c.Assert(errorMessage.StatusCode(), check.Equals, http.StatusNotFound)
	c.Assert(s.request("GET", "/api/library/seven", "secret").Code, check.Equals, http.StatusBadRequest)
}

func (s *ApiSuite) TestThumbnail(c *check.C) {
	w := s.request("GET", "/api/library/0/thumbnail", "secret")
	c.Assert(w.Code, check.Equals, http.StatusOK)
	c.Assert(w.Header().Get("Content-Type"), check.Equals, "image/webp")

	cfg, err := webp.DecodeConfig(bytes.NewReader(w.Body.Bytes()))
	c.Assert(err, check.IsNil)
	c.Assert(cfg.Width, check.Equals, 256)
	c.Assert(cfg.Height, check.Equals, 128)

	c.Assert(s.request("GET", "/api/library/1/thumbnail", "secret").Code, check.Equals, http.StatusUnprocessableEntity)
}

func (s *ApiSuite) TestThumbnailKeepsSmallPictures(c *check.C) {
	small := image.NewNRGBA(image.Rect(0, 0, 100, 20))
	c.Assert(thumbnail(small, 256), check.Equals, image.Image(small))
	c.Assert(thumbnail(image.NewNRGBA(image.Rect(0, 0, 100, 1000)), 256).Bounds(), check.Equals, image.Rect(0, 0, 25, 256))
}
