package runtime

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Probe runs name with args and returns its trimmed stdout. It is used for
// environment checks, never by the scaffolding pipelines.
func Probe(ctx context.Context, name string, args ...string) (string, error) {
	bin, err := exec.LookPath(name)
	if err != nil {
		return "", &ToolNotFoundError{Name: name, Err: err}
	}

	var out bytes.Buffer
	c := exec.CommandContext(ctx, bin, args...)
	c.Stdout = &out
	if err := c.Run(); err != nil {
		return "", fmt.Errorf("running %s: %w", name, err)
	}
	return strings.TrimSpace(out.String()), nil
}

// ToolVersion is the outcome of probing one tool's --version.
type ToolVersion struct {
	Name    string
	Path    string
	Version *semver.Version
	Err     error
}

// ProbeVersion resolves name on PATH and parses the output of `name --version`
// as a semantic version (a leading "v" is tolerated).
func ProbeVersion(ctx context.Context, name string) ToolVersion {
	tv := ToolVersion{Name: name}

	path, err := exec.LookPath(name)
	if err != nil {
		tv.Err = &ToolNotFoundError{Name: name, Err: err}
		return tv
	}
	tv.Path = path

	out, err := Probe(ctx, name, "--version")
	if err != nil {
		tv.Err = err
		return tv
	}
	v, err := ParseVersion(out)
	if err != nil {
		tv.Err = err
		return tv
	}
	tv.Version = v
	return tv
}

// ParseVersion parses the first line of a --version output.
func ParseVersion(raw string) (*semver.Version, error) {
	line := strings.TrimSpace(strings.SplitN(raw, "\n", 2)[0])
	line = strings.TrimPrefix(line, "v")
	v, err := semver.NewVersion(line)
	if err != nil {
		return nil, fmt.Errorf("parsing version %q: %w", raw, err)
	}
	return v, nil
}

// Satisfies reports whether v meets constraint (e.g. ">=20.19.0").
func Satisfies(v *semver.Version, constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("parsing constraint %q: %w", constraint, err)
	}
	return c.Check(v), nil
}
