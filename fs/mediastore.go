// Package fs provides file-based storage for localized media assets.
package fs

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fwojciec/repub"
	"github.com/google/uuid"
)

// Ensure MediaStore implements repub.MediaStore at compile time.
var _ repub.MediaStore = (*MediaStore)(nil)

// MediaStore stores image files under a single flat media root, named
// "<articleID>_<basename>". Assets are created if absent and never mutated.
// Concurrent writes of the same name are serialized by a per-path lock so
// the existence check cannot race.
type MediaStore struct {
	root string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewMediaStore creates a MediaStore rooted at dir.
func NewMediaStore(dir string) *MediaStore {
	return &MediaStore{root: dir, locks: make(map[string]*sync.Mutex)}
}

// Root returns the media root directory.
func (m *MediaStore) Root() string {
	return m.root
}

func (m *MediaStore) pathLock(name string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[name]
	if !ok {
		l = &sync.Mutex{}
		m.locks[name] = l
	}
	return l
}

// Exists reports whether the named asset is already present.
func (m *MediaStore) Exists(name string) bool {
	info, err := os.Stat(filepath.Join(m.root, name))
	return err == nil && info.Mode().IsRegular()
}

// WriteImage persists an asset atomically via a temp file and rename.
// It returns false without writing when the asset already exists.
func (m *MediaStore) WriteImage(name string, data []byte) (bool, error) {
	l := m.pathLock(name)
	l.Lock()
	defer l.Unlock()

	if m.Exists(name) {
		return false, nil
	}

	if err := os.MkdirAll(m.root, 0o755); err != nil {
		return false, repub.Errorf(repub.EINTERNAL, "creating media root: %v", err)
	}

	target := filepath.Join(m.root, name)
	tmp := target + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return false, repub.Errorf(repub.EINTERNAL, "writing image: %v", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return false, repub.Errorf(repub.EINTERNAL, "replacing image: %v", err)
	}
	return true, nil
}

// RemoveForArticle deletes every asset belonging to the given article ID.
// It never touches other articles' media. Missing files are not an error.
func (m *MediaStore) RemoveForArticle(articleID string) error {
	entries, err := os.ReadDir(m.root)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return repub.Errorf(repub.EINTERNAL, "reading media root: %v", err)
	}
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), articleID+"_") {
			if err := os.Remove(filepath.Join(m.root, e.Name())); err != nil {
				return repub.Errorf(repub.EINTERNAL, "removing %s: %v", e.Name(), err)
			}
		}
	}
	return nil
}

// Sweep removes every asset for which keep returns false and returns the
// removed names. Callers pass a membership test built from the record
// store's referenced media paths; a probabilistic set is fine since its
// false positives only ever keep a file.
func (m *MediaStore) Sweep(keep func(name string) bool) ([]string, error) {
	var removed []string
	err := filepath.WalkDir(m.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(m.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if keep(rel) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return err
		}
		removed = append(removed, rel)
		return nil
	})
	if err != nil {
		return removed, repub.Errorf(repub.EINTERNAL, "sweeping media root: %v", err)
	}
	return removed, nil
}

// MigrateLayout converts legacy per-article subdirectories
// ("images/<id>/<file>") to the canonical flat-with-prefix layout
// ("images/<id>_<file>") and returns the old-to-new relative path mapping
// so callers can rewrite store content. Emptied directories are removed.
// Running it on an already-canonical root is a no-op.
func (m *MediaStore) MigrateLayout() (map[string]string, error) {
	entries, err := os.ReadDir(m.root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, repub.Errorf(repub.EINTERNAL, "reading media root: %v", err)
	}

	moved := make(map[string]string)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		id := e.Name()
		files, err := os.ReadDir(filepath.Join(m.root, id))
		if err != nil {
			return moved, repub.Errorf(repub.EINTERNAL, "reading %s: %v", id, err)
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			target := f.Name()
			if !strings.HasPrefix(target, id+"_") {
				target = id + "_" + target
			}
			oldPath := filepath.Join(m.root, id, f.Name())
			newPath := filepath.Join(m.root, target)
			if _, err := os.Stat(newPath); err == nil {
				// Canonical copy already present; drop the legacy one.
				if err := os.Remove(oldPath); err != nil {
					return moved, repub.Errorf(repub.EINTERNAL, "removing %s: %v", oldPath, err)
				}
			} else if err := os.Rename(oldPath, newPath); err != nil {
				return moved, repub.Errorf(repub.EINTERNAL, "moving %s: %v", oldPath, err)
			}
			moved[id+"/"+f.Name()] = target
		}
		// Best effort: fails while the directory still has subdirectories.
		os.Remove(filepath.Join(m.root, id))
	}
	return moved, nil
}
