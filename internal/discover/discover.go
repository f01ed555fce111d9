// Package discover walks a project tree, applies ignore rules, and
// dispatches each remaining file to its registered language.
package discover

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/vibegraph/vibegraph/internal/lang"
)

// IgnorePatterns are directory names skipped unconditionally during
// discovery, regardless of any project-supplied ignore file.
var IgnorePatterns = map[string]bool{
	".git": true, ".hg": true, ".svn": true,
	"node_modules": true, "bower_components": true,
	".venv": true, "venv": true, "env": true, "__pycache__": true,
	".pytest_cache": true, ".mypy_cache": true, ".ruff_cache": true, ".tox": true, ".nox": true,
	"dist": true, "build": true, "out": true, "bin": true, "obj": true, "target": true,
	".idea": true, ".vs": true, ".vscode": true,
	"vendor": true, "Pods": true,
	"vibegraph_context": true,
}

// IgnoreSuffixes are file suffixes skipped unconditionally.
var IgnoreSuffixes = map[string]bool{
	".tmp": true, "~": true, ".pyc": true, ".pyo": true,
	".o": true, ".a": true, ".so": true, ".dll": true, ".class": true,
}

// DefaultIgnoreFile is the project-supplied ignore file's conventional name.
const DefaultIgnoreFile = ".vibegraphignore"

// FileInfo describes a discovered source file.
type FileInfo struct {
	Path     string        // absolute path
	RelPath  string        // project-relative, forward-slash separated
	Language lang.Language // detected language
}

// Options configures file discovery.
type Options struct {
	IgnoreFile string // path to a project ignore file; defaults to <root>/.vibegraphignore
}

// shouldSkipDir returns true if the directory should be skipped during discovery.
func shouldSkipDir(name, rel string, extraIgnore []string) bool {
	if IgnorePatterns[name] {
		return true
	}
	for _, pattern := range extraIgnore {
		dirPattern := strings.TrimSuffix(pattern, "/")
		if matched, _ := filepath.Match(dirPattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(dirPattern, rel); matched {
			return true
		}
	}
	return false
}

// matchesIgnoreFile reports whether a file's relative path matches any
// file-scoped (non-directory-only) ignore pattern.
func matchesIgnoreFile(name, rel string, extraIgnore []string) bool {
	for _, pattern := range extraIgnore {
		if strings.HasSuffix(pattern, "/") {
			continue // directory-only pattern, handled by shouldSkipDir
		}
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// Discover walks repoPath and returns every file recognised by a registered
// language, skipping anything matched by the built-in deny-list or the
// project's ignore file.
func Discover(ctx context.Context, repoPath string, opts *Options) ([]FileInfo, error) {
	repoPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var extraIgnore []string
	if opts != nil && opts.IgnoreFile != "" {
		extraIgnore, _ = loadIgnoreFile(opts.IgnoreFile)
	} else {
		extraIgnore, _ = loadIgnoreFile(filepath.Join(repoPath, DefaultIgnoreFile))
	}

	var files []FileInfo

	err = filepath.Walk(repoPath, func(path string, info os.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			return filepath.SkipDir
		}

		rel, _ := filepath.Rel(repoPath, path)
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if shouldSkipDir(info.Name(), rel, extraIgnore) {
				return filepath.SkipDir
			}
			return nil
		}

		for suffix := range IgnoreSuffixes {
			if strings.HasSuffix(path, suffix) {
				return nil
			}
		}
		if matchesIgnoreFile(info.Name(), rel, extraIgnore) {
			return nil
		}

		ext := filepath.Ext(path)
		l, ok := lang.LanguageForExtension(ext)
		if !ok {
			return nil
		}
		files = append(files, FileInfo{Path: path, RelPath: rel, Language: l})
		return nil
	})

	return files, err
}

// LoadIgnorePatterns reads a project ignore file; a missing or unreadable
// file yields no patterns, matching Discover's own tolerance.
func LoadIgnorePatterns(path string) []string {
	patterns, _ := loadIgnoreFile(path)
	return patterns
}

// IgnoredPath reports whether a project-relative file path is excluded by
// the built-in deny-list, the built-in suffixes, or the supplied ignore
// patterns: the same rules Discover applies during a walk, applied here to
// one path at a time so the change watcher filters events identically.
func IgnoredPath(rel string, patterns []string) bool {
	rel = filepath.ToSlash(rel)
	parts := strings.Split(rel, "/")
	name := parts[len(parts)-1]

	for i, part := range parts[:len(parts)-1] {
		if shouldSkipDir(part, strings.Join(parts[:i+1], "/"), patterns) {
			return true
		}
	}
	for suffix := range IgnoreSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return matchesIgnoreFile(name, rel, patterns)
}

func loadIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, scanner.Err()
}
