// Package draft keeps the last entered procurement list between runs in a
// small JSON file: {"procurement_list": "..."}.
package draft

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"procure-service/internal/procure/service"
)

type payload struct {
	ProcurementList string `json:"procurement_list"`
}

// Load returns the saved text, or "" when the file is missing or corrupt.
// A corrupt file is removed so the next Save starts clean.
func Load(path string, logger zerolog.Logger) string {
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Err(err).Str("path", path).Msg("draft read failed")
		}
		return ""
	}
	var p payload
	if err := json.Unmarshal(b, &p); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("draft corrupt, removing")
		_ = os.Remove(path)
		return ""
	}
	return p.ProcurementList
}

// Save writes text atomically (temp file + rename). The built-in example
// text is stored as "" so the next load falls back to the example again.
func Save(path, text string) error {
	b, err := json.MarshalIndent(payload{ProcurementList: Normalize(text)}, "", "    ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".draft-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // после Rename: no-op
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Normalize returns text in the form it is stored: trimmed, and "" for the
// built-in example.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	if text == strings.TrimSpace(service.ExampleText) {
		return ""
	}
	return text
}

// Store: черновик в памяти сервера: читается при старте, пишется на диск
// при каждом изменении и при остановке.
type Store struct {
	mu     sync.Mutex
	path   string
	text   string
	dirty  bool
	logger zerolog.Logger
}

func Open(path string, logger zerolog.Logger) *Store {
	return &Store{path: path, text: Load(path, logger), logger: logger}
}

func (s *Store) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Set replaces the draft and persists it; a failed write is kept dirty and
// retried by Flush.
func (s *Store) Set(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = Normalize(text) // в памяти то же, что и на диске
	s.dirty = true
	return s.flushLocked()
}

func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	if err := Save(s.path, s.text); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("draft save failed")
		return err
	}
	s.dirty = false
	return nil
}
