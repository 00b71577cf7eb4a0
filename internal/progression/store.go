package progression

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ThePerryDev/MindCare-sub000/pkg"

	log "github.com/sirupsen/logrus"
)

// keyNamespace prefixes every persisted progression key so the store
// file can be shared with other device-local state without collisions.
const keyNamespace = "mindcare||progress||"

// FileStore keeps the device-local progression counters, one integer
// per namespaced key, backed by a single JSON file. All reads are
// served from memory, writes go through to disk.
type FileStore struct {
	path   string
	mutex  sync.RWMutex
	values map[string]int
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("store path cannot be empty")
	}

	store := &FileStore{
		path:   path,
		values: make(map[string]int),
	}

	exists, err := pkg.PathExists(path, false)
	if err != nil {
		return nil, fmt.Errorf("check store path: %w", err)
	}
	if !exists {
		log.Debugf("progression store: starting empty, no file at %s", path)
		return store, nil
	}

	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if len(fileBytes) > 0 {
		if err := json.Unmarshal(fileBytes, &store.values); err != nil {
			return nil, fmt.Errorf("unmarshal store file: %w", err)
		}
	}

	log.Debugf("progression store: loaded %d keys from %s", len(store.values), path)
	return store, nil
}

func (s *FileStore) Get(key string) (int, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	value, ok := s.values[keyNamespace+key]
	return value, ok
}

func (s *FileStore) Set(key string, value int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.values[keyNamespace+key] = value
	return s.flush()
}

// flush writes the whole map through a temp file rename so a crash
// mid-write never leaves a truncated store behind. Caller must hold
// the write lock.
func (s *FileStore) flush() error {
	valuesJson, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store values: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(s.path), "progress-*.json.tmp")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(valuesJson); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp store file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp store file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
