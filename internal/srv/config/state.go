package config

import (
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const saveDelay = 10 * time.Second

// ServerState is what the kiosk remembers between two runs. Changes are
// written to disk a few seconds after the last one.
type ServerState struct {
	serverStateConfig     ServerStateConfig
	lock                  sync.RWMutex
	backupTimer           *time.Timer
	saveDelay             time.Duration
	completeStateFilename string
}

type ServerStateConfig struct {
	LastPhotoIndex int64  `yaml:"last_photo_index"`
	LastPhotoPath  string `yaml:"last_photo_path"`
	HighScore      int64  `yaml:"high_score"`
}

func NewServerState(completeStateFilename string) *ServerState {
	serverState := &ServerState{
		completeStateFilename: completeStateFilename,
		saveDelay:             saveDelay,
	}

	rawConfig, err := os.ReadFile(completeStateFilename)
	if err == nil {
		err = yaml.Unmarshal(rawConfig, &serverState.serverStateConfig)
		if err != nil {
			logrus.Fatalf("Unable to interpret state file: %v\n", err)
		}
	} else {
		logrus.Infof("Create default state file")
		serverState.lock.Lock()
		serverState.scheduleSave()
		serverState.lock.Unlock()
	}

	return serverState
}

// LastPhoto returns where the photo viewer stopped last time.
func (ss *ServerState) LastPhoto() (int64, string) {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	return ss.serverStateConfig.LastPhotoIndex, ss.serverStateConfig.LastPhotoPath
}

func (ss *ServerState) SetLastPhoto(index int64, path string) {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	if ss.serverStateConfig.LastPhotoIndex == index && ss.serverStateConfig.LastPhotoPath == path {
		return
	}
	ss.serverStateConfig.LastPhotoIndex = index
	ss.serverStateConfig.LastPhotoPath = path
	ss.scheduleSave()
}

func (ss *ServerState) HighScore() int64 {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	return ss.serverStateConfig.HighScore
}

// SubmitScore keeps score if it beats the high score and tells so.
func (ss *ServerState) SubmitScore(score int64) bool {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	if score <= ss.serverStateConfig.HighScore {
		return false
	}
	ss.serverStateConfig.HighScore = score
	ss.scheduleSave()
	return true
}

func (ss *ServerState) scheduleSave() {
	if ss.backupTimer == nil {
		ss.backupTimer = time.AfterFunc(ss.saveDelay, func() {
			ss.lock.Lock()
			defer ss.lock.Unlock()
			ss.save()
		})
	} else {
		ss.backupTimer.Reset(ss.saveDelay)
	}
}

func (ss *ServerState) save() {
	logrus.Infof("Save state file: %s", ss.completeStateFilename)
	rawConfig, err := yaml.Marshal(&ss.serverStateConfig)
	if err != nil {
		logrus.Fatalf("Unable to serialize state file: %v\n", err)
	}
	err = os.WriteFile(ss.completeStateFilename, rawConfig, 0660)
	if err != nil {
		logrus.Fatalf("Unable to save state file: %v\n", err)
	}
}

func (ss *ServerState) FlushSave() {
	ss.lock.Lock()
	defer ss.lock.Unlock()
	if ss.backupTimer != nil {
		if ss.backupTimer.Stop() {
			ss.save()
		}
	}
}
