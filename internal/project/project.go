// Package project validates the requested project name and resolves the
// directory the new project will be created in.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	ErrMissingArgument = errors.New("project name is required")
	ErrInvalidName     = errors.New("invalid project name")
	ErrTargetExists    = errors.New("folder already exists")
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Spec identifies the project being scaffolded. It is created once by
// Validate and never modified.
type Spec struct {
	Name     string
	RootPath string // absolute
}

// BackendPath returns <root>/backend.
func (s *Spec) BackendPath() string { return filepath.Join(s.RootPath, "backend") }

// FrontendPath returns <root>/frontend.
func (s *Spec) FrontendPath() string { return filepath.Join(s.RootPath, "frontend") }

// Validate checks rawName and returns the Spec for <cwd>/<rawName>.
// It performs no filesystem mutation.
func Validate(rawName, cwd string) (*Spec, error) {
	name := strings.TrimSpace(rawName)
	if name == "" {
		return nil, ErrMissingArgument
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || !namePattern.MatchString(name) {
		return nil, fmt.Errorf("%w %q: must match pattern [A-Za-z0-9][A-Za-z0-9._-]*", ErrInvalidName, name)
	}

	base, err := filepath.Abs(cwd)
	if err != nil {
		return nil, fmt.Errorf("resolving working directory %s: %w", cwd, err)
	}
	root := filepath.Join(base, name)

	if _, err := os.Lstat(root); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrTargetExists, root)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("checking %s: %w", root, err)
	}

	return &Spec{Name: name, RootPath: root}, nil
}
