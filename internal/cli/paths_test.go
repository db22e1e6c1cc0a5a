package cli

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/tagcloud/pkg/config"
)

func TestCacheDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Run("default", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		dir, err := cacheDir()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join(home, ".cache", "tagcloud"); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("xdg", func(t *testing.T) {
		xdg := filepath.Join(home, "xdg-cache")
		t.Setenv("XDG_CACHE_HOME", xdg)
		dir, err := cacheDir()
		if err != nil {
			t.Fatal(err)
		}
		if want := filepath.Join(xdg, "tagcloud"); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})
}

func TestCachePathPrefersSettings(t *testing.T) {
	isolate(t)
	c := &CLI{settings: config.Default()}

	dir, err := c.cachePath()
	if err != nil {
		t.Fatal(err)
	}
	if want, _ := cacheDir(); dir != want {
		t.Errorf("cachePath() = %q, want the XDG default %q", dir, want)
	}

	c.settings.Cache.Dir = filepath.Join(t.TempDir(), "clouds")
	if dir, _ := c.cachePath(); dir != c.settings.Cache.Dir {
		t.Errorf("cachePath() = %q, want cache.dir %q", dir, c.settings.Cache.Dir)
	}
	fc, err := c.fileCache()
	if err != nil {
		t.Fatal(err)
	}
	if fc.Dir() != c.settings.Cache.Dir {
		t.Errorf("fileCache().Dir() = %q, want %q", fc.Dir(), c.settings.Cache.Dir)
	}
}
