package tokenstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const (
	storageFile = "storage.json"
	lockFile    = "storage.lock"
)

// storageDoc is the on-disk layout: origin -> key -> value.
type storageDoc struct {
	Origins map[string]map[string]string `json:"origins"`
}

// File stores entries in a JSON document (0600) shared by all origins.
// Writers in one process queue on mu; writers in other processes are
// kept out by an OS lock on a sibling lock file.
type File struct {
	path     string
	lockPath string
	origin   string

	mu sync.Mutex
}

// OpenFile returns a File store under dir, creating dir if needed.
func OpenFile(dir, origin string) (*File, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &File{
		path:     filepath.Join(dir, storageFile),
		lockPath: filepath.Join(dir, lockFile),
		origin:   origin,
	}, nil
}

// Path returns the storage file location
func (f *File) Path() string { return f.path }

func (f *File) Get(key string) (string, bool, error) {
	doc, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := doc.Origins[f.origin][key]
	return v, ok, nil
}

func (f *File) Set(key, value string) error {
	return f.update(func(entries map[string]string) {
		entries[key] = value
	})
}

func (f *File) Delete(key string) error {
	return f.update(func(entries map[string]string) {
		delete(entries, key)
	})
}

func (f *File) Close() error { return nil }

func (f *File) read() (*storageDoc, error) {
	doc := &storageDoc{Origins: map[string]map[string]string{}}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, fmt.Errorf("read token store: %w", err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode token store: %w", err)
	}
	if doc.Origins == nil {
		doc.Origins = map[string]map[string]string{}
	}
	return doc, nil
}

// update applies fn to this origin's entries under the write lock and
// replaces the file atomically.
func (f *File) update(fn func(entries map[string]string)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	locker := newFileLocker(f.lockPath)
	if err := locker.acquire(lockTimeout); err != nil {
		return err
	}
	defer locker.release()

	doc, err := f.read()
	if err != nil {
		return err
	}
	entries := doc.Origins[f.origin]
	if entries == nil {
		entries = map[string]string{}
	}
	fn(entries)
	if len(entries) == 0 {
		delete(doc.Origins, f.origin)
	} else {
		doc.Origins[f.origin] = entries
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token store: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write token store: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace token store: %w", err)
	}
	slog.Debug("tokenstore: wrote", "path", f.path, "origin", f.origin, "keys", len(entries))
	return nil
}
