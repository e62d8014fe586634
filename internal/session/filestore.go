package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"lendworks-web/internal/observability"
)

// FileStore persists session fields as a flat JSON object in a single file,
// the closest local analog of the browser's localStorage. All operations
// fail open: an unreadable or unwritable file leaves the in-memory view
// intact and synchronization resumes on the next successful write.
type FileStore struct {
	path string

	mu     sync.Mutex
	fields map[string]string
}

// NewFileStore opens (or lazily creates) the store file at path.
func NewFileStore(path string) *FileStore {
	fs := &FileStore{
		path:   path,
		fields: make(map[string]string),
	}
	fs.load()
	return fs
}

// DefaultPath returns the session file location under the user config dir.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "lendworks", "session.json")
}

func (f *FileStore) load() {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return
	}
	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		observability.Warn("session file is corrupt, starting empty", "path", f.path)
		return
	}
	f.fields = fields
}

func (f *FileStore) flush() {
	data, err := json.MarshalIndent(f.fields, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		observability.Debug("session dir unavailable", "error", err.Error())
		return
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		observability.Debug("session file write failed", "error", err.Error())
	}
}

func (f *FileStore) Write(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields[key] = value
	f.flush()
}

func (f *FileStore) Read(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.fields[key]
	if !ok {
		return "", false
	}
	return Normalize(raw)
}

func (f *FileStore) Remove(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.fields, key)
	f.flush()
}

func (f *FileStore) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = make(map[string]string)
	f.flush()
}
