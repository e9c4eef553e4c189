package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FilePerm is the mode used for every file the scaffolder writes.
const FilePerm os.FileMode = 0644

// ErrWouldOverwrite is returned by Write when the target exists and the
// caller did not ask for an overwrite.
var ErrWouldOverwrite = errors.New("refusing to overwrite existing file")

// Write writes content to path in a single write. With overwrite false the
// file is created exclusively and an existing file is left untouched; with
// overwrite true any existing content is truncated and replaced.
func Write(path string, content []byte, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, FilePerm)
	if err != nil {
		if !overwrite && errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrWouldOverwrite, path)
		}
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// WriteAll renders and writes each template under base, in order, stopping at
// the first failure. It returns the relative paths written so far.
func WriteAll(base string, templates []FileTemplate, data *Data) ([]string, error) {
	var written []string
	for _, tmpl := range templates {
		content, err := tmpl.Render(data)
		if err != nil {
			return written, err
		}
		if err := Write(filepath.Join(base, tmpl.Path), content, tmpl.Overwrite); err != nil {
			return written, err
		}
		written = append(written, tmpl.Path)
	}
	return written, nil
}
