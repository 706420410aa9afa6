package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Session is the single credential slot the gateway reads before every
// request and clears on a 401.
type Session interface {
	CurrentToken() (string, bool)
	SetToken(token string) error
	// Clear is idempotent.
	Clear() error
}

type MemorySession struct {
	mu    sync.RWMutex
	token string
}

func NewMemorySession(token string) *MemorySession {
	return &MemorySession{token: token}
}

func (s *MemorySession) CurrentToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *MemorySession) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemorySession) Clear() error {
	return s.SetToken("")
}

type fileCredential struct {
	Token string `json:"token,omitempty"`
}

// FileSession keeps the credential under a single "token" key in a JSON file
// readable only by its owner.
type FileSession struct {
	mu   sync.Mutex
	path string
}

func NewFileSession(path string) *FileSession {
	return &FileSession{path: path}
}

func (s *FileSession) Path() string {
	return s.path
}

func (s *FileSession) CurrentToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, err := s.read()
	if err != nil {
		return "", false
	}
	return cred.Token, cred.Token != ""
}

func (s *FileSession) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(fileCredential{Token: token})
}

func (s *FileSession) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cred, err := s.read()
	if errors.Is(err, fs.ErrNotExist) || (err == nil && cred.Token == "") {
		return nil
	}
	return s.write(fileCredential{})
}

func (s *FileSession) read() (fileCredential, error) {
	var cred fileCredential
	data, err := os.ReadFile(s.path)
	if err != nil {
		return cred, err
	}
	if err := json.Unmarshal(data, &cred); err != nil {
		return cred, fmt.Errorf("parsing credential file %s: %w", s.path, err)
	}
	return cred, nil
}

func (s *FileSession) write(cred fileCredential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating credential dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".credential-*")
	if err != nil {
		return fmt.Errorf("creating credential file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("securing credential file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing credential file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing credential file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing credential file: %w", err)
	}
	return nil
}
