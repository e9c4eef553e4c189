//go:build integration

package integration_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir string // HOME, so no real config is read
	BinDir  string // prepended to PATH; holds the fake npm
	WorkDir string // where projects get created
	NPMLog  string // one line per fake npm invocation
}

// fakeNPM reproduces the filesystem effects of the npm commands the
// scaffolder runs. NPM_FAIL names an install argument that exits 3.
const fakeNPM = `#!/bin/sh
echo "$*" >> "$NPM_LOG"
case "$1" in
  init)
    echo "Wrote to $(pwd)/package.json"
    cat > package.json <<'JSON'
{
  "name": "backend",
  "version": "1.0.0",
  "main": "index.js",
  "scripts": {
    "test": "exit 1"
  },
  "license": "ISC"
}
JSON
    ;;
  create)
    mkdir -p "$3/src"
    echo '{"name":"frontend","private":true}' > "$3/package.json"
    echo "// generated" > "$3/vite.config.js"
    echo "/* generated */" > "$3/src/index.css"
    ;;
  install)
    if [ -n "$NPM_FAIL" ] && [ "$2" = "$NPM_FAIL" ]; then
      echo "npm error code E404" >&2
      exit 3
    fi
    mkdir -p node_modules
    echo "added 1 package"
    ;;
esac
`

// setupTestEnv sandboxes HOME and PATH and installs the fake npm.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	env := &testEnv{
		HomeDir: t.TempDir(),
		BinDir:  t.TempDir(),
		WorkDir: t.TempDir(),
	}
	env.NPMLog = filepath.Join(env.HomeDir, "npm.log")

	writeFile(t, filepath.Join(env.BinDir, "npm"), fakeNPM)
	if err := os.Chmod(filepath.Join(env.BinDir, "npm"), 0755); err != nil {
		t.Fatalf("chmod fake npm: %v", err)
	}

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("PATH", env.BinDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv("NPM_LOG", env.NPMLog)
	t.Setenv("NPM_FAIL", "")

	return env
}

// npmCalls returns the argument lists the fake npm received, in order.
func (e *testEnv) npmCalls(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(e.NPMLog)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("reading npm log: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s", path)
	}
}

func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file to NOT exist: %s", path)
	}
}

func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory", path)
	}
}

func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q", path, substr)
	}
}
