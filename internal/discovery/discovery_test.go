package discovery

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("<?php\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func relPaths(t *testing.T, root string, files []File) []string {
	t.Helper()
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f.Abs)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestDiscoverFile(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "index.php")
	path := filepath.Join(tmpDir, "index.php")

	results, err := Discover([]string{path}, Options{})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Path != path {
		t.Errorf("expected path %q, got %q", path, results[0].Path)
	}
	if results[0].ConfigRoot != tmpDir {
		t.Errorf("expected ConfigRoot %q, got %q", tmpDir, results[0].ConfigRoot)
	}
}

func TestDiscoverExplicitFileIgnoresInclude(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "bin/console")

	results, err := Discover([]string{filepath.Join(tmpDir, "bin", "console")}, Options{})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected explicit file to be kept, got %d results", len(results))
	}
}

func TestDiscoverDirectory(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	writeTree(t, tmpDir,
		"index.php",
		"src/Kernel.php",
		"src/Controller/HomeController.php",
		"README.md",
		"templates/base.html.twig",
	)

	results, err := Discover([]string{tmpDir}, Options{})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	want := []string{"index.php", "src/Controller/HomeController.php", "src/Kernel.php"}
	if got := relPaths(t, tmpDir, results); !slices.Equal(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}
}

func TestDiscoverBasenameInclude(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "a.phtml", "views/b.phtml", "c.php")

	results, err := Discover([]string{tmpDir}, Options{Include: []string{"*.phtml"}})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	want := []string{"a.phtml", "views/b.phtml"}
	if got := relPaths(t, tmpDir, results); !slices.Equal(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}
}

func TestDiscoverGlob(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "src/A.php", "src/B.php", "tests/ATest.php")

	results, err := Discover([]string{filepath.Join(tmpDir, "src", "*.php")}, Options{})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	want := []string{"src/A.php", "src/B.php"}
	if got := relPaths(t, tmpDir, results); !slices.Equal(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}
}

func TestDiscoverExclude(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	writeTree(t, tmpDir,
		"index.php",
		"vendor/autoload.php",
		"vendor/composer/installed.php",
		"src/vendor/Shim.php",
		"var/cache/Container.php",
		"src/App.php",
	)

	results, err := Discover([]string{tmpDir}, Options{
		Exclude: []string{"vendor/**", "var/*"},
	})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	// var/* only matches direct children, so the cache file survives.
	want := []string{"index.php", "src/App.php", "var/cache/Container.php"}
	if got := relPaths(t, tmpDir, results); !slices.Equal(got, want) {
		t.Errorf("Discover() = %v, want %v", got, want)
	}
}

func TestDiscoverExcludeExplicitFile(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "Generated.php")

	results, err := Discover([]string{filepath.Join(tmpDir, "Generated.php")}, Options{
		Exclude: []string{"Generated.php"},
	})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected excluded file to be dropped, got %d results", len(results))
	}
}

func TestDiscoverDeduplication(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, "index.php")
	path := filepath.Join(tmpDir, "index.php")

	results, err := Discover([]string{
		path,
		path,
		tmpDir,
		filepath.Join(tmpDir, "*.php"),
	}, Options{})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result after deduplication, got %d", len(results))
		for _, r := range results {
			t.Logf("  found: %s", r.Path)
		}
	}
}

func TestDiscoverNonexistent(t *testing.T) {
	t.Parallel()
	results, err := Discover([]string{"nonexistent-pattern-*.xyz"}, Options{})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestSplitPath(t *testing.T) {
	t.Parallel()
	got := splitPath(filepath.FromSlash("/home/user/vendor/autoload.php"))
	want := []string{"home", "user", "vendor", "autoload.php"}
	if !slices.Equal(got, want) {
		t.Errorf("splitPath() = %v, want %v", got, want)
	}
}
