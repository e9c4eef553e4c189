package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DirPerm is the mode used for every directory the scaffolder creates.
const DirPerm os.FileMode = 0755

// ErrPathConflict is returned when a path that must be a directory already
// exists as something else.
var ErrPathConflict = errors.New("path conflict")

// DirectoryPlan is an ordered list of directories, relative to a base.
type DirectoryPlan []string

// CreateTree creates base (if absent) and then every entry of dirs beneath
// it, parents first. Entries that already exist as directories are left
// alone; an existing non-directory anywhere along a path is a conflict.
func CreateTree(base string, dirs DirectoryPlan) error {
	if err := ensureDir(base); err != nil {
		return err
	}
	for _, d := range dirs {
		if err := ensureDir(filepath.Join(base, d)); err != nil {
			return err
		}
	}
	return nil
}

func ensureDir(path string) error {
	if conflict := firstNonDir(path); conflict != "" {
		return fmt.Errorf("%w: %s exists and is not a directory", ErrPathConflict, conflict)
	}
	if err := os.MkdirAll(path, DirPerm); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}

// firstNonDir walks path from the filesystem root down and returns the first
// existing component that is not a directory, or "" if there is none.
func firstNonDir(path string) string {
	var chain []string
	for p := filepath.Clean(path); ; p = filepath.Dir(p) {
		chain = append(chain, p)
		if filepath.Dir(p) == p {
			break
		}
	}

	for i := len(chain) - 1; i >= 0; i-- {
		info, err := os.Stat(chain[i])
		if err != nil {
			// Missing from here down; MkdirAll creates the rest.
			return ""
		}
		if !info.IsDir() {
			return chain[i]
		}
	}
	return ""
}
