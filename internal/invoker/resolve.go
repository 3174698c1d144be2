package invoker

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"
)

const maxSuggestions = 3

// Resolver locates executables. The zero value uses exec.LookPath for the
// inherited search path.
type Resolver struct {
	LookPath func(file string) (string, error)
}

// ResolveExecutablePath resolves cfg.ExecutableName with the default Resolver.
func ResolveExecutablePath(cfg ToolConfig) (string, error) {
	return Resolver{}.Resolve(cfg)
}

// Resolve returns the path to run for cfg, or a *ToolNotFoundError.
//
// With ToolPath set the result is ToolPath (relative to WorkingDir when set)
// joined with the executable name and nothing else is searched. Names containing a separator are checked as given
// (relative to WorkingDir when set). Otherwise SearchPaths are tried in order,
// then the inherited PATH.
func (r Resolver) Resolve(cfg ToolConfig) (string, error) {
	name := strings.TrimSpace(cfg.ExecutableName)
	if dir := strings.TrimSpace(cfg.ToolPath); dir != "" {
		// A relative ToolPath is taken from WorkingDir, where the child runs.
		if !filepath.IsAbs(dir) && cfg.WorkingDir != "" {
			dir = filepath.Join(cfg.WorkingDir, dir)
		}
		candidate := filepath.Join(dir, name)
		if isExecutableFile(candidate) {
			return absPath(candidate), nil
		}
		return "", notFound(name, []string{dir})
	}

	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		path := name
		if !filepath.IsAbs(path) && cfg.WorkingDir != "" {
			path = filepath.Join(cfg.WorkingDir, path)
		}
		if isExecutableFile(path) {
			return absPath(path), nil
		}
		return "", notFound(filepath.Base(name), []string{filepath.Dir(path)})
	}

	dirs := cleanDirs(cfg.SearchPaths)
	for _, dir := range dirs {
		for _, candidate := range executableCandidates(dir, name) {
			if isExecutableFile(candidate) {
				return absPath(candidate), nil
			}
		}
	}

	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if path, err := lookPath(name); err == nil && path != "" {
		return path, nil
	}
	return "", notFound(name, append(dirs, cleanDirs(filepath.SplitList(os.Getenv("PATH")))...))
}

func notFound(name string, searched []string) *ToolNotFoundError {
	return &ToolNotFoundError{
		Name:        name,
		Searched:    searched,
		Suggestions: suggest(name, searched),
	}
}

// suggest returns up to maxSuggestions file names from dirs that fuzzily match name.
func suggest(name string, dirs []string) []string {
	pattern := strings.TrimSuffix(name, filepath.Ext(name))
	if pattern == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var names []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if _, ok := seen[e.Name()]; ok {
				continue
			}
			seen[e.Name()] = struct{}{}
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil
	}
	matches := fuzzy.Find(pattern, names)
	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if m.Str == name {
			continue
		}
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

func cleanDirs(dirs []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if strings.TrimSpace(d) == "" {
			continue
		}
		d = filepath.Clean(d)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func isRegularFile(path string) (os.FileInfo, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, false
	}
	return info, true
}
