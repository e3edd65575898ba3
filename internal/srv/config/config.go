package config

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const paramFilename = "param.yaml"
const stateFilename = "state.yaml"
const keyFilename = "key.pem"
const certFilename = "cert.pem"

const defaultFps = 60
const defaultPollInterval = 16

type ServerConfig struct {
	ConfigDir string
	DebugMode bool

	*ServerParam
	*ServerState
}

func NewServerConfig(configDir string, debugMode bool) *ServerConfig {
	serverConfig := &ServerConfig{
		ConfigDir: configDir,
		DebugMode: debugMode,
	}

	// Check Configuration folder
	_, err := os.Stat(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Printf("Creation of config folder: %s", configDir)
			err = os.MkdirAll(configDir, 0770)
			if err != nil {
				logrus.Fatalf("Unable to create config folder: %v\n", err)
			}
		} else {
			logrus.Fatalf("Unable to access config folder: %s", configDir)
		}
	}

	// Open param file
	rawConfig, err := os.ReadFile(serverConfig.GetCompleteParamFilename())
	serverConfig.ServerParam = &ServerParam{}
	if err == nil {
		err = yaml.Unmarshal(rawConfig, serverConfig.ServerParam)
		if err != nil {
			logrus.Fatalf("Unable to interpret param file: %v\n", err)
		}
	} else {
		logrus.Infof("Create default param file")
		err = yaml.Unmarshal(ParamDefaultFile, serverConfig.ServerParam)
		if err != nil {
			logrus.Fatalf("Unable to interpret default param file: %v\n", err)
		}
		serverConfig.SaveParam()
	}
	serverConfig.ServerParam.normalize()

	// Open state file
	serverConfig.ServerState = NewServerState(serverConfig.GetCompleteStateFilename())

	return serverConfig
}

// normalize replaces missing or meaningless values by their defaults.
func (sp *ServerParam) normalize() {
	if sp.ScreenParam.Fps <= 0 {
		sp.ScreenParam.Fps = defaultFps
	}
	if sp.ScreenParam.Width < 0 || sp.ScreenParam.Height < 0 {
		sp.ScreenParam.Width, sp.ScreenParam.Height = 0, 0
	}
	if sp.LibraryParam.PreloadRadius <= 0 {
		sp.LibraryParam.PreloadRadius = 3
	}
	if sp.LibraryParam.MaxTextureSize < 0 {
		sp.LibraryParam.MaxTextureSize = 0
	}
	if sp.PhotoViewerParam.SlideshowInterval <= 0 {
		sp.PhotoViewerParam.SlideshowInterval = 1000
	}
	if sp.PhotoViewerParam.ZoomStep <= 0 {
		sp.PhotoViewerParam.ZoomStep = 5
	}
	if sp.GatewareParam.PollInterval <= 0 {
		sp.GatewareParam.PollInterval = defaultPollInterval
	}
}

// SlideshowFrames converts the slideshow interval into a number of frames.
func (sp *ServerParam) SlideshowFrames() int {
	frames := int(sp.PhotoViewerParam.SlideshowInterval * sp.ScreenParam.Fps / 1000)
	if frames < 1 {
		frames = 1
	}
	return frames
}

func (sc *ServerConfig) GetCompleteParamFilename() string {
	return filepath.Join(sc.ConfigDir, paramFilename)
}

func (sc *ServerConfig) GetCompleteStateFilename() string {
	return filepath.Join(sc.ConfigDir, stateFilename)
}

func (sc *ServerConfig) GetCompleteKeyFilename() string {
	return filepath.Join(sc.ConfigDir, keyFilename)
}

func (sc *ServerConfig) GetCompleteCertFilename() string {
	return filepath.Join(sc.ConfigDir, certFilename)
}

// GetDataFilename returns the location of an application asset.
func (sc *ServerConfig) GetDataFilename(name string) string {
	return filepath.Join(sc.DataPath, name)
}

func (sc *ServerConfig) SaveParam() {
	logrus.Debugf("Save param file: %s", sc.GetCompleteParamFilename())
	rawConfig, err := yaml.Marshal(*sc.ServerParam)
	if err != nil {
		logrus.Fatalf("Unable to serialize param file: %v\n", err)
	}
	err = os.WriteFile(sc.GetCompleteParamFilename(), rawConfig, 0660)
	if err != nil {
		logrus.Fatalf("Unable to save param file: %v\n", err)
	}
}
