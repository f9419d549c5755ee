package scan

import (
	"errors"
	"time"

	"colorprobe/internal/discover"
	"colorprobe/internal/lang"
	"colorprobe/internal/syntax"

	"github.com/charmbracelet/log"
)

var ErrNoFiles = errors.New("no supported source files found")

const (
	DefaultCacheSize     = 4096
	DefaultWatchDebounce = 200 * time.Millisecond
)

type File struct {
	Path     string
	Language lang.ID
}

// Match is a discovered color with its 1-based line and byte column.
type Match struct {
	discover.Match
	Line   int
	Column int
	Text   string
}

type Result struct {
	File     string
	Language lang.ID
	Matches  []Match
}

type Config struct {
	Roots        []string
	Excludes     []string
	NoIgnore     bool
	ExcludeTests bool
	Workers      int
	CacheSize    int
	Backend      syntax.Backend
	Options      discover.Options

	DiskCache bool
	CachePath string

	Logger *log.Logger
}
