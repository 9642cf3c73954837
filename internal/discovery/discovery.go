// Package discovery finds PHP source files with glob pattern support.
package discovery

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// File is a source file found during discovery.
type File struct {
	// Path preserves the user's spelling for explicit file inputs and is
	// absolute for files found through directories or globs.
	Path string

	// Abs is the absolute, cleaned path used for deduplication.
	Abs string

	// ConfigRoot is the directory used for .editorconfig lookup.
	ConfigRoot string
}

// Options configures file discovery behavior.
type Options struct {
	// Include are the patterns matched inside directories
	// (default: DefaultPatterns()). Doublestar syntax such as "**/*.php" is supported.
	Include []string

	// Exclude are patterns removing files from the result, including
	// explicitly named ones.
	Exclude []string
}

// DefaultPatterns returns the default PHP source patterns.
func DefaultPatterns() []string {
	return []string{"**/*.php"}
}

type finder struct {
	opts  Options
	seen  map[string]bool
	found []File
}

// Discover finds source files matching the given inputs.
// Each input can be a file path, a directory searched recursively with the
// include patterns, or a doublestar glob.
//
// Results are deduplicated by absolute path and sorted.
func Discover(inputs []string, opts Options) ([]File, error) {
	if len(opts.Include) == 0 {
		opts.Include = DefaultPatterns()
	}
	f := &finder{opts: opts, seen: make(map[string]bool)}
	for _, input := range inputs {
		if err := f.input(input); err != nil {
			return nil, err
		}
	}
	slices.SortFunc(f.found, func(a, b File) int {
		return cmp.Compare(a.Abs, b.Abs)
	})
	return f.found, nil
}

func (f *finder) input(input string) error {
	// Globs skip os.Stat, which rejects '*' on Windows.
	if hasGlobMeta(input) {
		return f.glob(input)
	}
	info, err := os.Stat(input)
	switch {
	case err == nil && info.IsDir():
		return f.directory(input)
	case err == nil:
		return f.add(input)
	case os.IsNotExist(err):
		return f.glob(input)
	default:
		return err
	}
}

func hasGlobMeta(path string) bool {
	return strings.ContainsAny(path, "*?[]{")
}

func (f *finder) directory(dir string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	for _, pattern := range f.opts.Include {
		pattern = filepath.ToSlash(pattern)
		globs := []string{pattern}
		if !strings.HasPrefix(pattern, "**/") {
			globs = append(globs, "**/"+pattern)
		}
		for _, g := range globs {
			if err := f.glob(filepath.Join(absDir, filepath.FromSlash(g))); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *finder) glob(pattern string) error {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return err
	}
	for _, match := range matches {
		abs, err := filepath.Abs(match)
		if err != nil {
			return err
		}
		if err := f.add(abs); err != nil {
			return err
		}
	}
	return nil
}

func (f *finder) add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if f.seen[abs] || isExcluded(abs, f.opts.Exclude) {
		return nil
	}
	f.seen[abs] = true
	f.found = append(f.found, File{
		Path:       path,
		Abs:        abs,
		ConfigRoot: filepath.Dir(abs),
	})
	return nil
}

// isExcluded reports whether any pattern matches the full path, the base
// name, or a suffix of the path's components. "vendor/**" therefore
// excludes every file below any vendor directory while "vendor/*" only
// excludes its direct children.
//
// doublestar expects forward slashes on every platform.
func isExcluded(absPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	parts := splitPath(absPath)
	candidates := make([]string, 0, len(parts)+1)
	candidates = append(candidates, filepath.ToSlash(absPath))
	for i := range parts {
		candidates = append(candidates, strings.Join(parts[i:], "/"))
	}
	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")
		for _, c := range candidates {
			if ok, err := doublestar.Match(pattern, c); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// splitPath returns the components of path without its root or volume.
// "/home/user/vendor/autoload.php" yields ["home", "user", "vendor", "autoload.php"].
func splitPath(path string) []string {
	path = strings.TrimPrefix(filepath.Clean(path), filepath.VolumeName(path))
	var parts []string
	for p := range strings.SplitSeq(filepath.ToSlash(path), "/") {
		if p != "" && p != "." {
			parts = append(parts, p)
		}
	}
	return parts
}
