package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"colorprobe/internal/discover"
	"colorprobe/internal/scan"

	"github.com/spf13/cobra"
)

func newScanCommand(a *app) *cobra.Command {
	var watch bool

	c := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "report every color literal below the given paths",
		Long: `Report every color literal in the supported source files below the
given paths (default: the current directory).

Files are listed with ripgrep when it is installed, so .gitignore and
.ignore files are honored; otherwise the tree is walked directly.

Examples:
  colorprobe scan
  colorprobe scan src plots/theme.py
  colorprobe scan --format json --exclude 'gen/**' .
  colorprobe scan --watch --cache`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSettings(cmd)
			if err != nil {
				return err
			}
			printer, err := a.printer(cmd, s)
			if err != nil {
				return err
			}

			sc := scan.New(scan.Config{
				Roots:        args,
				Excludes:     s.Exclude,
				NoIgnore:     s.NoIgnore,
				ExcludeTests: s.ExcludeTests,
				Workers:      s.Workers,
				CacheSize:    s.CacheSize,
				Backend:      s.Backend(),
				Options:      discover.Options{MatplotlibTableau: s.MatplotlibTableau},
				DiskCache:    s.Cache,
				CachePath:    s.CachePath,
				Logger:       a.log,
			})

			ctx := cmd.Context()
			if watch {
				var stop context.CancelFunc
				ctx, stop = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()
			}

			start := time.Now()
			results, err := sc.Scan(ctx)
			if err != nil {
				return err
			}
			if err := printer.Results(results); err != nil {
				return err
			}
			a.log.Info("scan finished",
				"files", len(results),
				"matches", countMatches(results),
				"elapsed", time.Since(start).Round(time.Millisecond))

			if !watch {
				return nil
			}
			a.log.Info("watching for changes", "debounce", s.WatchDebounce)
			return sc.Watch(ctx, scan.WatchConfig{Debounce: s.WatchDebounce}, printer.Results)
		},
	}

	flags := c.Flags()
	flags.IntP("workers", "j", 0, "parser workers (default: GOMAXPROCS-1)")
	flags.Int("cache-size", scan.DefaultCacheSize, "in-memory match cache entries")
	flags.StringSliceP("exclude", "e", nil, "glob of paths to skip (repeatable)")
	flags.Bool("no-ignore", false, "do not honor .gitignore and .ignore files")
	flags.Bool("exclude-tests", false, "skip test files and directories")
	flags.String("lexer", "auto", "syntax backend: auto or chroma")
	flags.Bool("cache", false, "reuse results of unchanged files across runs")
	flags.String("cache-path", "", "results cache file (default: user cache dir)")
	flags.BoolVarP(&watch, "watch", "w", false, "rescan files when they change")
	flags.Duration("watch-debounce", scan.DefaultWatchDebounce, "delay before rescanning changed files")
	return c
}

func countMatches(results []scan.Result) int {
	n := 0
	for _, r := range results {
		n += len(r.Matches)
	}
	return n
}
