// Package config resolves colorprobe settings from flags, COLORPROBE_*
// environment variables, an optional YAML file and built-in defaults, in
// that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"colorprobe/internal/report"
	"colorprobe/internal/scan"
	"colorprobe/internal/syntax"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	AppName   = "colorprobe"
	EnvPrefix = "COLORPROBE"
)

var (
	ErrInvalidFormat  = errors.New("invalid output format")
	ErrInvalidSetting = errors.New("invalid setting")
)

type Settings struct {
	MatplotlibTableau bool          `mapstructure:"matplotlib_tableau"`
	Workers           int           `mapstructure:"workers"`
	CacheSize         int           `mapstructure:"cache_size"`
	Format            string        `mapstructure:"format"`
	Theme             string        `mapstructure:"theme"`
	NoColor           bool          `mapstructure:"no_color"`
	Exclude           []string      `mapstructure:"exclude"`
	NoIgnore          bool          `mapstructure:"no_ignore"`
	ExcludeTests      bool          `mapstructure:"exclude_tests"`
	Lexer             string        `mapstructure:"lexer"`
	Cache             bool          `mapstructure:"cache"`
	CachePath         string        `mapstructure:"cache_path"`
	WatchDebounce     time.Duration `mapstructure:"watch_debounce"`
}

func Defaults() Settings {
	return Settings{
		MatplotlibTableau: true,
		Workers:           0,
		CacheSize:         scan.DefaultCacheSize,
		Format:            string(report.FormatText),
		Theme:             report.DefaultTheme,
		Exclude:           []string{},
		Lexer:             string(syntax.BackendAuto),
		WatchDebounce:     scan.DefaultWatchDebounce,
	}
}

// flagKeys maps setting keys to the command-line flags that override them.
var flagKeys = map[string]string{
	"matplotlib_tableau": "matplotlib-tableau",
	"workers":            "workers",
	"cache_size":         "cache-size",
	"format":             "format",
	"theme":              "theme",
	"no_color":           "no-color",
	"exclude":            "exclude",
	"no_ignore":          "no-ignore",
	"exclude_tests":      "exclude-tests",
	"lexer":              "lexer",
	"cache":              "cache",
	"cache_path":         "cache-path",
	"watch_debounce":     "watch-debounce",
}

type LoadOptions struct {
	// ConfigFile is used exclusively when set and must exist.
	ConfigFile string
	// SearchPaths overrides the default config file candidates.
	SearchPaths []string
	Flags       *pflag.FlagSet
}

func New() *viper.Viper {
	v := viper.New()

	defaults := Defaults()
	v.SetDefault("matplotlib_tableau", defaults.MatplotlibTableau)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("cache_size", defaults.CacheSize)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("theme", defaults.Theme)
	v.SetDefault("no_color", defaults.NoColor)
	v.SetDefault("exclude", defaults.Exclude)
	v.SetDefault("no_ignore", defaults.NoIgnore)
	v.SetDefault("exclude_tests", defaults.ExcludeTests)
	v.SetDefault("lexer", defaults.Lexer)
	v.SetDefault("cache", defaults.Cache)
	v.SetDefault("cache_path", defaults.CachePath)
	v.SetDefault("watch_debounce", defaults.WatchDebounce)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file, binds flags and returns validated settings
// plus the config file that was used, if any.
func Load(v *viper.Viper, opts LoadOptions) (Settings, string, error) {
	path, err := resolveConfigFile(opts)
	if err != nil {
		return Settings{}, "", err
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, "", fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if opts.Flags != nil {
		if err := BindFlags(v, opts.Flags); err != nil {
			return Settings{}, "", err
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, "", fmt.Errorf("decode config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, "", err
	}
	return s, path, nil
}

func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return opts.ConfigFile, nil
	}

	candidates := opts.SearchPaths
	if candidates == nil {
		candidates = DefaultSearchPaths()
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", nil
}

// DefaultSearchPaths lists the project file first, then the user file.
func DefaultSearchPaths() []string {
	paths := []string{".colorprobe.yaml"}
	if dir, err := ConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "config.yaml"))
	}
	return paths
}

func ConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

func (s Settings) Validate() error {
	if _, ok := report.ParseFormat(s.Format); !ok {
		return fmt.Errorf("%w %q (use text, json or yaml)", ErrInvalidFormat, s.Format)
	}
	if _, err := syntax.ParseBackend(s.Lexer); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSetting, err)
	}
	if s.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidSetting, s.Workers)
	}
	if s.CacheSize < 0 {
		return fmt.Errorf("%w: cache_size must not be negative, got %d", ErrInvalidSetting, s.CacheSize)
	}
	if s.WatchDebounce < 0 {
		return fmt.Errorf("%w: watch_debounce must not be negative, got %s", ErrInvalidSetting, s.WatchDebounce)
	}
	return nil
}

func (s Settings) OutputFormat() report.Format {
	f, _ := report.ParseFormat(s.Format)
	return f
}

func (s Settings) Backend() syntax.Backend {
	b, _ := syntax.ParseBackend(s.Lexer)
	return b
}
