package filestore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Store keeps document files on local disk under two directories: writes land
// in tempDir first, then move into docDir with an atomic rename. The old file
// for a key is deleted only after the replacement is durably in place, so a
// failure mid-swap never destroys the only copy.
type Store struct {
	tempDir string
	docDir  string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(baseDir string) (*Store, error) {
	tempDir := filepath.Join(baseDir, "temp")
	docDir := filepath.Join(baseDir, "documents")
	for _, d := range []string{tempDir, docDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("filestore: mkdir %s: %w", d, err)
		}
	}
	return &Store{tempDir: tempDir, docDir: docDir, locks: map[string]*sync.Mutex{}}, nil
}

// keyLock returns the per-(user,docType) mutex; only one writer may swap a
// given key at a time.
func (s *Store) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// Put stores the content for (userID, docType) and returns the new file path.
// ext should include the leading dot. Any previous file for the key is
// removed after the new one is in place.
func (s *Store) Put(userID, docType string, r io.Reader, ext string, oldPath string) (string, error) {
	key := userID + "/" + docType
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()

	tmpName := filepath.Join(s.tempDir, uuid.NewString()+ext)
	tmp, err := os.Create(tmpName)
	if err != nil {
		return "", fmt.Errorf("filestore: create temp: %w", err)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("filestore: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("filestore: sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("filestore: close temp: %w", err)
	}

	finalName := filepath.Join(s.docDir, fmt.Sprintf("%s_%s_%s%s", userID, strings.ToLower(docType), uuid.NewString(), ext))
	if err := os.Rename(tmpName, finalName); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("filestore: rename into place: %w", err)
	}

	// New copy is durable; now the superseded file may go.
	if oldPath != "" && oldPath != finalName {
		_ = os.Remove(oldPath)
	}
	return finalName, nil
}

// Remove deletes a stored file, used by account-deletion cascade.
func (s *Store) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
