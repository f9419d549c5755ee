package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"

	"colorprobe/internal/discover"
	"colorprobe/internal/lang"
	"colorprobe/internal/readfile"
	"colorprobe/internal/syntax"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

type Scanner struct {
	cfg      Config
	discover discover.Func
	cache    *matchLRU
	log      *log.Logger

	diskMu sync.Mutex
	disk   *diskCache
}

func New(cfg Config) *Scanner {
	if cfg.Workers < 1 {
		cfg.Workers = max(runtime.GOMAXPROCS(0)-1, 1)
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.Backend == "" {
		cfg.Backend = syntax.BackendAuto
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr)
		logger.SetLevel(log.ErrorLevel)
	}

	return &Scanner{
		cfg:      cfg,
		discover: discover.New(cfg.Options),
		cache:    newMatchLRU(cfg.CacheSize),
		log:      logger,
	}
}

func (s *Scanner) producerConfig() ProducerConfig {
	return ProducerConfig{
		Roots:        s.cfg.Roots,
		Excludes:     s.cfg.Excludes,
		NoIgnore:     s.cfg.NoIgnore,
		ExcludeTests: s.cfg.ExcludeTests,
	}
}

// Scan lists every supported file under the configured roots and returns
// the files that contain at least one color, in path order.
func (s *Scanner) Scan(ctx context.Context) ([]Result, error) {
	files, err := CollectFiles(ctx, s.producerConfig())
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	s.log.Debug("files listed", "count", len(files))

	if err := s.openDiskCache(); err != nil {
		return nil, err
	}

	results, err := s.ScanFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	if err := s.flushDiskCache(); err != nil {
		s.log.Warn("could not write cache", "err", err)
	}
	return results, nil
}

func (s *Scanner) ScanFiles(ctx context.Context, files []File) ([]Result, error) {
	if len(files) == 0 {
		return nil, nil
	}

	sorted := append([]File(nil), files...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	results := make([]Result, len(sorted))
	jobs := make(chan int)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := range sorted {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < min(s.cfg.Workers, len(sorted)); w++ {
		g.Go(func() error {
			builder := syntax.NewBuilder(s.cfg.Backend)
			defer builder.Close()

			for i := range jobs {
				res, err := s.scanFile(ctx, builder, sorted[i])
				if err != nil {
					if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
						return err
					}
					s.log.Warn("skipping file", "file", sorted[i].Path, "err", err)
					continue
				}
				results[i] = res
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := results[:0]
	for _, res := range results {
		if len(res.Matches) > 0 {
			out = append(out, res)
		}
	}
	return out, nil
}

func (s *Scanner) scanFile(ctx context.Context, builder *syntax.Builder, file File) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	info, err := os.Stat(file.Path)
	if err != nil {
		return Result{}, fmt.Errorf("stat: %w", err)
	}
	if entry, ok := s.diskEntry(file.Path, info); ok {
		s.log.Debug("cache hit", "file", file.Path)
		return Result{File: file.Path, Language: entry.Language, Matches: entry.Matches}, nil
	}

	doc, err := readfile.ReadDocument(file.Path)
	if errors.Is(err, readfile.ErrBinary) {
		s.log.Debug("skipping binary file", "file", file.Path)
		return Result{File: file.Path, Language: file.Language}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("read: %w", err)
	}

	id := file.Language
	if id == "" || id == lang.Plain {
		id = lang.DetectWithShebang(file.Path, readfile.FirstLine(doc))
	}

	matches, err := s.Discover(ctx, builder, id, file.Path, doc)
	if err != nil {
		return Result{}, err
	}

	s.storeDiskEntry(file.Path, info, id, matches)
	return Result{File: file.Path, Language: id, Matches: matches}, nil
}

// Discover runs the discovery function over every candidate node of doc.
func (s *Scanner) Discover(ctx context.Context, builder *syntax.Builder, id lang.ID, path string, doc string) ([]Match, error) {
	if !discover.Supports(id) {
		return nil, nil
	}

	key := newMatchKey(id, syntax.Dialect(id, path), s.cfg.Options, s.cfg.Backend, doc)
	if matches, ok := s.cache.Get(key); ok {
		return matches, nil
	}

	tree, err := builder.Build(ctx, id, path, doc)
	if err != nil {
		return nil, err
	}

	text := discover.Text(doc)
	lines := newLineIndex(doc)
	var matches []Match
	for _, node := range tree.Nodes {
		m, ok := s.discover(tree, node.From, node.To, node.Type, text, id)
		if !ok {
			continue
		}
		line, col := lines.Position(m.From)
		matches = append(matches, Match{
			Match:  m,
			Line:   line,
			Column: col,
			Text:   Excerpt(doc[m.From:m.To]),
		})
	}

	s.cache.Set(key, matches)
	return matches, nil
}

func (s *Scanner) openDiskCache() error {
	if !s.cfg.DiskCache {
		return nil
	}

	path, err := s.cachePath()
	if err != nil {
		return err
	}
	disk, err := loadDiskCache(path, s.cfg.Options, s.cfg.Backend)
	if err != nil {
		s.log.Warn("ignoring unreadable cache", "path", path, "err", err)
		disk = newDiskCache(s.cfg.Options, s.cfg.Backend)
	}
	s.log.Debug("cache loaded", "path", path, "files", len(disk.Files))

	s.diskMu.Lock()
	s.disk = disk
	s.diskMu.Unlock()
	return nil
}

func (s *Scanner) flushDiskCache() error {
	s.diskMu.Lock()
	defer s.diskMu.Unlock()
	if s.disk == nil {
		return nil
	}

	path, err := s.cachePath()
	if err != nil {
		return err
	}
	return saveDiskCache(path, s.disk)
}

func (s *Scanner) cachePath() (string, error) {
	if s.cfg.CachePath != "" {
		return s.cfg.CachePath, nil
	}
	return DefaultCachePath()
}

func (s *Scanner) diskEntry(path string, info os.FileInfo) (diskEntry, bool) {
	s.diskMu.Lock()
	defer s.diskMu.Unlock()
	if s.disk == nil {
		return diskEntry{}, false
	}
	entry, ok := s.disk.Files[path]
	if !ok || !entry.fresh(info) {
		return diskEntry{}, false
	}
	return entry, true
}

func (s *Scanner) storeDiskEntry(path string, info os.FileInfo, id lang.ID, matches []Match) {
	s.diskMu.Lock()
	defer s.diskMu.Unlock()
	if s.disk == nil {
		return
	}
	s.disk.Files[path] = diskEntry{
		Size:     info.Size(),
		ModTime:  info.ModTime().UnixNano(),
		Language: id,
		Matches:  matches,
	}
}

// Excerpt returns the display text of a match, without the closing quote a
// julia match keeps.
func Excerpt(text string) string {
	if strings.HasSuffix(text, `"`) || strings.HasSuffix(text, "'") {
		return text[:len(text)-1]
	}
	return text
}

type lineIndex []int

func newLineIndex(doc string) lineIndex {
	starts := lineIndex{0}
	for i := 0; i < len(doc); i++ {
		if doc[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// Position returns the 1-based line and byte column of offset.
func (idx lineIndex) Position(offset int) (int, int) {
	line := sort.Search(len(idx), func(i int) bool { return idx[i] > offset }) - 1
	return line + 1, offset - idx[line] + 1
}
