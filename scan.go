package invoice

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/djherbis/times"
)

// RecentFiles lists the .json files in dir created within the trailing
// window, newest first. Files created at the same instant are ordered by
// path. A missing or empty directory yields an empty list.
//
// Creation time is the birth time where the file system records it and
// the inode change time otherwise.
func RecentFiles(dir string, window time.Duration) ([]string, error) {
	return recentFiles(dir, window, time.Now(), creationTime)
}

type datedFile struct {
	path    string
	created time.Time
}

func recentFiles(dir string, window time.Duration, now time.Time, createdAt func(string) (time.Time, error)) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	threshold := now.Add(-window)
	var found []datedFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), RecordExt) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		created, err := createdAt(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue // removed since listing
			}
			return nil, fmt.Errorf("reading times of %s: %w", path, err)
		}
		if created.Before(threshold) {
			continue
		}
		found = append(found, datedFile{path: path, created: created})
	}

	slices.SortFunc(found, func(a, b datedFile) int {
		if c := b.created.Compare(a.created); c != 0 {
			return c
		}
		return strings.Compare(a.path, b.path)
	})

	paths := make([]string, len(found))
	for i, f := range found {
		paths[i] = f.path
	}
	return paths, nil
}

func creationTime(path string) (time.Time, error) {
	ts, err := times.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	switch {
	case ts.HasBirthTime():
		return ts.BirthTime(), nil
	case ts.HasChangeTime():
		return ts.ChangeTime(), nil
	default:
		return ts.ModTime(), nil
	}
}
