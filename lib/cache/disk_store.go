package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// Store persists encoded entries between builds.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

const entryExt = ".bin"

type DiskConfig struct {
	Dir      string
	MaxBytes int64
}

// DiskStore keeps one file per key and evicts the least recently accessed
// files once their total size exceeds MaxBytes. Access order survives a
// restart through file modification times.
type DiskStore struct {
	mu       sync.Mutex
	dir      string
	maxBytes int64

	total int64
	index *simplelru.LRU[string, int64] // file name -> size
}

func OpenDiskStore(cfg DiskConfig) (*DiskStore, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return nil, fmt.Errorf("cache dir is required")
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	s := &DiskStore{
		dir:      dir,
		maxBytes: cfg.MaxBytes,
	}
	// Only the byte budget evicts; an evicted entry takes its file with it.
	index, err := simplelru.NewLRU[string, int64](math.MaxInt32, func(name string, size int64) {
		s.total -= size
		_ = os.Remove(filepath.Join(s.dir, name))
	})
	if err != nil {
		return nil, err
	}
	s.index = index
	if err := s.loadIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *DiskStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if s == nil {
		return nil, false, nil
	}
	name := hashedName(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.dropLocked(name)
			return nil, false, nil
		}
		return nil, false, err
	}
	s.touchLocked(name, int64(len(raw)))
	now := time.Now()
	_ = os.Chtimes(path, now, now)
	return raw, true, nil
}

func (s *DiskStore) Put(_ context.Context, key string, value []byte) error {
	if s == nil {
		return nil
	}
	name := hashedName(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.CreateTemp(s.dir, "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(value); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp)
		return err
	}

	s.touchLocked(name, int64(len(value)))
	s.evictLocked()
	return nil
}

// Bytes returns the size of all entries on disk.
func (s *DiskStore) Bytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *DiskStore) loadIndex() error {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	type found struct {
		name    string
		size    int64
		modTime time.Time
	}
	var files []found
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), entryExt) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		files = append(files, found{name: de.Name(), size: info.Size(), modTime: info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].modTime.Equal(files[j].modTime) {
			return files[i].name < files[j].name
		}
		return files[i].modTime.Before(files[j].modTime)
	})
	for _, f := range files {
		s.touchLocked(f.name, f.size)
	}
	s.evictLocked()
	return nil
}

func (s *DiskStore) touchLocked(name string, size int64) {
	if old, ok := s.index.Peek(name); ok {
		s.total -= old
	}
	s.index.Add(name, size)
	s.total += size
}

// dropLocked forgets an entry whose file is already gone.
func (s *DiskStore) dropLocked(name string) {
	s.index.Remove(name)
}

func (s *DiskStore) evictLocked() {
	for s.total > s.maxBytes && s.index.Len() > 0 {
		s.index.RemoveOldest()
	}
}

func hashedName(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:]) + entryExt
}
