package save

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Info describes one save file found in a saves directory.
type Info struct {
	Path     string
	Name     string
	Size     int64
	Modified time.Time
}

// List returns the save files (.gz or .json) in dir, newest first.
func List(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Path: dir, Reason: ReasonNotFound, Err: err}
		}
		return nil, fmt.Errorf("read saves directory %s: %w", dir, err)
	}

	var saves []Info
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".gz") && !strings.HasSuffix(name, ".json") {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		saves = append(saves, Info{
			Path:     filepath.Join(dir, name),
			Name:     name,
			Size:     fi.Size(),
			Modified: fi.ModTime(),
		})
	}

	sort.Slice(saves, func(i, j int) bool {
		return saves[i].Modified.After(saves[j].Modified)
	})
	return saves, nil
}

// Latest returns the most recently modified save file in dir.
func Latest(dir string) (string, error) {
	saves, err := List(dir)
	if err != nil {
		return "", err
	}
	if len(saves) == 0 {
		return "", &LoadError{Path: dir, Reason: ReasonNotFound,
			Err: fmt.Errorf("no save files in directory")}
	}
	return saves[0].Path, nil
}
