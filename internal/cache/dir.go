package cache

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jxwalker/gitnr/internal/config"
)

// Dir resolves the cache directory: cache.dir, then the per-user cache dir, then ./.gitnr.
func Dir(cfg *config.Config) string {
	if cfg != nil {
		if d := strings.TrimSpace(cfg.Cache.Dir); d != "" {
			return d
		}
	}
	if base, err := os.UserCacheDir(); err == nil && base != "" {
		return filepath.Join(base, "gitnr")
	}
	return ".gitnr"
}

// CollectionPath is where a catalog source persists its listing.
func CollectionPath(dir, source string) string {
	return filepath.Join(dir, "collections", source+".json")
}

// File describes one file under the cache directory.
type File struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Files lists regular files below dir sorted by path. A missing dir yields nothing.
func Files(dir string) ([]File, error) {
	var out []File
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && p == dir {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, File{Path: p, Size: info.Size(), ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Clear removes everything inside dir but keeps dir itself.
func Clear(dir string) (removed int, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
