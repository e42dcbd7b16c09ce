// Package discover finds analyzable source files in a directory tree.
package discover

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/cxscan/internal/lang"
)

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path     string // Relative to root
	Language string
}

// Options narrows discovery.
type Options struct {
	// Languages restricts results to the listed profile names.
	Languages []string
	// Exclude holds doublestar patterns matched against slash-separated
	// paths relative to root. A matching directory is pruned.
	Exclude []string
	// Gitignore drops files ignored by git (via `git ls-files` when root is
	// a work tree, else the root .gitignore).
	Gitignore bool
	Logger    *slog.Logger
}

// skipDirs are infrastructure directory names that are never descended into.
var skipDirs = map[string]struct{}{
	".git": {}, ".svn": {}, ".hg": {}, ".bzr": {},
	"node_modules": {}, "bower_components": {}, "vendor": {}, "packages": {},
	".gradle": {}, ".maven": {}, "target": {}, "build": {}, "bin": {}, "obj": {},
	"out": {}, "dist": {}, "coverage": {}, ".nyc_output": {},
	".vscode": {}, ".idea": {}, ".eclipse": {}, ".settings": {}, ".metadata": {},
	"__pycache__": {}, ".pytest_cache": {}, ".mypy_cache": {},
	"venv": {}, "env": {}, ".env": {}, "virtualenv": {},
	"logs": {}, "log": {}, "tmp": {}, "temp": {},
	".docker": {}, "docker-compose": {}, ".terraform": {}, ".aws": {},
	"migrations": {}, "assets": {}, "static": {}, "public": {}, "resources": {},
	"docs": {}, "documentation": {}, "wiki": {},
	"test": {}, "tests": {}, "spec": {}, "specs": {},
}

// SkipDir reports whether a directory with the given base name is pruned.
func SkipDir(name string) bool {
	if _, skip := skipDirs[name]; skip {
		return true
	}
	return strings.HasPrefix(name, ".")
}

// Files discovers analyzable source files under root, sorted by path.
// Excluded directories are pruned before descent. Files classified as
// lang.Skip or lang.Unknown are dropped silently.
func Files(root string, opts Options) ([]FileEntry, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	langSet := make(map[string]struct{}, len(opts.Languages))
	for _, l := range opts.Languages {
		langSet[l] = struct{}{}
	}

	var gitFiles map[string]struct{}
	var gi *ignore.GitIgnore
	if opts.Gitignore {
		gitFiles = gitLsFiles(root)
		if gitFiles == nil {
			gi = loadGitignore(root)
		}
	}

	var results []FileEntry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			logger.Debug("walk error", "path", path, "error", err)
			return nil // skip errors
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		slashRel := filepath.ToSlash(rel)

		if d.IsDir() {
			if SkipDir(d.Name()) || excluded(opts.Exclude, slashRel) {
				logger.Debug("skipping directory", "path", slashRel)
				return filepath.SkipDir
			}
			return nil
		}

		// Skip symlinks
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		if gitFiles != nil {
			if _, ok := gitFiles[slashRel]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(slashRel) {
			return nil
		}

		if excluded(opts.Exclude, slashRel) {
			return nil
		}

		tag := lang.Classify(d.Name())
		if tag == lang.Skip || tag == lang.Unknown {
			return nil
		}

		if len(langSet) > 0 {
			if _, ok := langSet[tag]; !ok {
				return nil
			}
		}

		results = append(results, FileEntry{Path: rel, Language: tag})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

func excluded(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, rel)
		if err != nil {
			// A bad pattern shouldn't break scanning.
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[line] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
