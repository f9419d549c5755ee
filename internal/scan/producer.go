package scan

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"colorprobe/internal/discover"
	"colorprobe/internal/lang"

	"github.com/bmatcuk/doublestar/v4"
)

var defaultExcludeGlobs = []string{
	".git/**",
	"**/.git/**",
	"node_modules/**",
	"**/node_modules/**",
	"vendor/**",
	"**/vendor/**",
	"**/__pycache__/**",
	"**/.venv/**",
	"**/venv/**",
	"**/renv/library/**",
	"**/dist/**",
	"*.min.js",
	"**/*.min.js",
}

var testExcludeGlobs = []string{
	"**/test/**",
	"**/tests/**",
	"**/__tests__/**",
	"**/testthat/**",
	"**/spec/**",
	"test_*.py",
	"*_test.py",
	"conftest.py",
	"*.test.*",
	"*.spec.*",
	"test-*.R",
	"test_*.R",
}

type ProducerConfig struct {
	Roots        []string
	Excludes     []string
	NoIgnore     bool
	ExcludeTests bool
}

// StartProducer lists the supported files below every root. ripgrep does the
// walk when it is installed so ignore files are honored; otherwise the
// directory tree is walked directly.
func StartProducer(ctx context.Context, cfg ProducerConfig) (<-chan File, <-chan error) {
	out := make(chan File, 1024)
	done := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(done)

		roots := cfg.Roots
		if len(roots) == 0 {
			roots = []string{"."}
		}

		seen := make(map[string]struct{}, 1024)
		send := func(clean string, id lang.ID) error {
			if _, ok := seen[clean]; ok {
				return nil
			}
			seen[clean] = struct{}{}

			select {
			case out <- File{Path: clean, Language: id}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		emit := func(path string) error {
			clean := filepath.Clean(path)
			id := lang.Detect(clean)
			if !discover.Supports(id) {
				return nil
			}
			return send(clean, id)
		}
		// A file named on the command line without an extension may still be
		// a script; its shebang is checked once it is read.
		emitRoot := func(path string) error {
			clean := filepath.Clean(path)
			if filepath.Ext(clean) == "" && lang.Detect(clean) == lang.Plain {
				return send(clean, lang.Plain)
			}
			return emit(clean)
		}

		for _, root := range roots {
			info, err := os.Stat(root)
			if err != nil {
				done <- fmt.Errorf("stat %s: %w", root, err)
				return
			}
			if !info.IsDir() {
				if err := emitRoot(root); err != nil {
					done <- err
					return
				}
				continue
			}

			err = runRGFiles(ctx, root, rgFilesArgs(cfg), emit)
			if errors.Is(err, exec.ErrNotFound) {
				err = walkFiles(ctx, root, excludeGlobs(cfg), emit)
			}
			if err != nil {
				done <- fmt.Errorf("list files in %s: %w", root, err)
				return
			}
		}

		done <- nil
	}()

	return out, done
}

func CollectFiles(ctx context.Context, cfg ProducerConfig) ([]File, error) {
	files, done := StartProducer(ctx, cfg)
	var out []File
	for f := range files {
		out = append(out, f)
	}
	if err := <-done; err != nil {
		return nil, err
	}
	return out, nil
}

func runRGFiles(ctx context.Context, root string, args []string, onFile func(path string) error) error {
	if _, err := exec.LookPath("rg"); err != nil {
		return exec.ErrNotFound
	}

	cmd := exec.CommandContext(ctx, "rg", args...)
	cmd.Dir = root

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("open rg stdout: %w", err)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start rg: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(splitNull)

	for scanner.Scan() {
		rel := scanner.Text()
		if rel == "" {
			continue
		}
		if err := onFile(filepath.Join(root, rel)); err != nil {
			_ = cmd.Wait()
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read rg output: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return nil
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("rg failed: %s", msg)
		}
		return fmt.Errorf("rg failed: %w", err)
	}

	return nil
}

func rgFilesArgs(cfg ProducerConfig) []string {
	args := []string{"--files", "--null", "--color", "never"}
	if cfg.NoIgnore {
		args = append(args, "--no-ignore")
	}
	for _, glob := range excludeGlobs(cfg) {
		args = append(args, "--glob", "!"+glob)
	}
	return args
}

func excludeGlobs(cfg ProducerConfig) []string {
	globs := make([]string, 0, len(defaultExcludeGlobs)+len(cfg.Excludes))
	globs = append(globs, defaultExcludeGlobs...)
	if cfg.ExcludeTests {
		globs = append(globs, testExcludeGlobs...)
	}
	for _, glob := range cfg.Excludes {
		if glob = strings.TrimSpace(glob); glob != "" {
			globs = append(globs, glob)
		}
	}
	return globs
}

func walkFiles(ctx context.Context, root string, globs []string, onFile func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if matchesAny(globs, rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || matchesAny(globs, rel, false) {
			return nil
		}
		return onFile(path)
	})
}

// matchesAny applies ripgrep-style globs to a slash-separated relative path.
// A pattern without a leading "/" may match at any depth, and only patterns
// ending in "/**" prune directories.
func matchesAny(globs []string, rel string, isDir bool) bool {
	for _, glob := range globs {
		if matchGlob(glob, rel, isDir) {
			return true
		}
	}
	return false
}

func matchGlob(glob string, rel string, isDir bool) bool {
	if isDir && !strings.HasSuffix(glob, "/**") {
		return false
	}
	if anchored, ok := strings.CutPrefix(glob, "/"); ok {
		glob = anchored
	} else if !strings.HasPrefix(glob, "**/") {
		glob = "**/" + glob
	}
	ok, err := doublestar.Match(glob, rel)
	return err == nil && ok
}

func splitNull(data []byte, atEOF bool) (int, []byte, error) {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}
