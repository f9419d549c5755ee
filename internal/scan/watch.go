package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"colorprobe/internal/discover"
	"colorprobe/internal/lang"

	"github.com/fsnotify/fsnotify"
)

type WatchConfig struct {
	Debounce time.Duration
}

// Watch rescans files below the configured roots whenever they change and
// hands every batch of fresh results to onChange. It returns when ctx is
// done or onChange fails.
func (s *Scanner) Watch(ctx context.Context, cfg WatchConfig, onChange func([]Result) error) error {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	globs := excludeGlobs(s.producerConfig())
	roots := s.cfg.Roots
	if len(roots) == 0 {
		roots = []string{"."}
	}
	for _, root := range roots {
		if err := addWatchDirs(fsw, root, globs); err != nil {
			return err
		}
	}
	s.log.Debug("watching", "roots", roots)

	var (
		timer   *time.Timer
		pending = make(map[string]struct{})
	)
	timerC := func() <-chan time.Time {
		if timer != nil {
			return timer.C
		}
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addWatchDirs(fsw, event.Name, globs); err != nil {
						s.log.Warn("could not watch directory", "dir", event.Name, "err", err)
					}
					continue
				}
			}
			if !discover.Supports(lang.Detect(event.Name)) {
				continue
			}

			pending[filepath.Clean(event.Name)] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}

		case <-timerC():
			timer = nil
			files := pendingFiles(pending)
			pending = make(map[string]struct{})
			if len(files) == 0 {
				continue
			}

			results, err := s.ScanFiles(ctx, files)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				s.log.Warn("rescan failed", "err", err)
				continue
			}
			if err := onChange(results); err != nil {
				return err
			}
			if err := s.flushDiskCache(); err != nil {
				s.log.Warn("could not write cache", "err", err)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watch error", "err", err)
		}
	}
}

// pendingFiles drops paths that were removed before the debounce fired.
func pendingFiles(pending map[string]struct{}) []File {
	files := make([]File, 0, len(pending))
	for path := range pending {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, File{Path: path, Language: lang.Detect(path)})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

func addWatchDirs(fsw *fsnotify.Watcher, root string, globs []string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		if err := fsw.Add(filepath.Dir(root)); err != nil {
			return fmt.Errorf("watching directory %s: %w", filepath.Dir(root), err)
		}
		return nil
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		if rel, relErr := filepath.Rel(root, path); relErr == nil && rel != "." && matchesAny(globs, filepath.ToSlash(rel), true) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watching directory %s: %w", path, err)
		}
		return nil
	})
}
