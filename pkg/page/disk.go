package page

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// DiskStore reads pages from a directory. Decoded pages are cached until
// their file changes.
type DiskStore struct {
	dir string

	mu    sync.RWMutex
	cache map[string]*Page
}

// NewDiskStore creates a DiskStore over dir, which must exist.
func NewDiskStore(dir string) (*DiskStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("page: %s is not a directory", dir)
	}
	return &DiskStore{
		dir:   dir,
		cache: make(map[string]*Page),
	}, nil
}

// Dir returns the store's directory.
func (s *DiskStore) Dir() string { return s.dir }

// Load resolves name against Extensions and decodes the first match.
func (s *DiskStore) Load(ctx context.Context, name string) (*Page, error) {
	clean, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	for _, ext := range Extensions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		file := filepath.Join(s.dir, filepath.FromSlash(clean+ext))
		info, err := os.Stat(file)
		if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
			continue
		}
		if err != nil {
			return nil, err
		}

		s.mu.RLock()
		cached, ok := s.cache[file]
		s.mu.RUnlock()
		if ok && cached.ModTime.Equal(info.ModTime()) {
			return cached, nil
		}

		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		m, err := Decode(file, data)
		if err != nil {
			return nil, err
		}
		p := &Page{Name: clean, Source: file, Model: m, ModTime: info.ModTime()}
		s.mu.Lock()
		s.cache[file] = p
		s.mu.Unlock()
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, clean)
}

// List walks the directory for page files.
func (s *DiskStore) List(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	err := filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.dir, p)
		if err != nil {
			return err
		}
		if name, ok := NameOf(filepath.ToSlash(rel)); ok {
			seen[name] = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}
