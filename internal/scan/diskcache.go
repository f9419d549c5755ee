package scan

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"colorprobe/internal/discover"
	"colorprobe/internal/lang"
	"colorprobe/internal/syntax"
)

const diskCacheVersion = 1

type diskCache struct {
	Version int
	Options discover.Options
	Backend syntax.Backend
	Files   map[string]diskEntry
}

type diskEntry struct {
	Size     int64
	ModTime  int64
	Language lang.ID
	Matches  []Match
}

func (e diskEntry) fresh(info os.FileInfo) bool {
	return e.Size == info.Size() && e.ModTime == info.ModTime().UnixNano()
}

func newDiskCache(opts discover.Options, backend syntax.Backend) *diskCache {
	return &diskCache{
		Version: diskCacheVersion,
		Options: opts,
		Backend: backend,
		Files:   make(map[string]diskEntry),
	}
}

// loadDiskCache returns an empty cache when the file is missing or was
// written with different discovery settings.
func loadDiskCache(path string, opts discover.Options, backend syntax.Backend) (*diskCache, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newDiskCache(opts, backend), nil
		}
		return nil, fmt.Errorf("open cache: %w", err)
	}
	defer f.Close()

	var disk diskCache
	if err := gob.NewDecoder(bufio.NewReaderSize(f, 1<<20)).Decode(&disk); err != nil {
		return nil, fmt.Errorf("decode cache: %w", err)
	}

	if disk.Version != diskCacheVersion || disk.Options != opts || disk.Backend != backend || disk.Files == nil {
		return newDiskCache(opts, backend), nil
	}
	return &disk, nil
}

func saveDiskCache(path string, disk *diskCache) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	writer := bufio.NewWriterSize(f, 1<<20)
	if err := gob.NewEncoder(writer).Encode(disk); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := writer.Flush(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func DefaultCachePath() (string, error) {
	root, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "colorprobe", "matches.gob"), nil
}
