package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/agentx-labs/stack-init/internal/project"
	"github.com/agentx-labs/stack-init/internal/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRunner fakes npm just enough for the pipelines to complete.
type recordingRunner struct {
	lines  []string
	failOn string
}

func (r *recordingRunner) Execute(_ context.Context, cmd runtime.Command) error {
	line := cmd.String()
	r.lines = append(r.lines, line)
	if r.failOn != "" && strings.Contains(line, r.failOn) {
		return &runtime.ToolFailureError{Command: line, ExitCode: 1}
	}
	switch {
	case len(cmd.Args) > 0 && cmd.Args[0] == "init":
		return os.WriteFile(filepath.Join(cmd.Dir, "package.json"), []byte(`{"name":"backend","version":"1.0.0"}`), 0644)
	case len(cmd.Args) > 2 && cmd.Args[0] == "create":
		dir := filepath.Join(cmd.Dir, cmd.Args[2], "src")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(cmd.Dir, cmd.Args[2], "vite.config.js"), []byte("// generated"), 0644)
	}
	return nil
}

// runCLI executes the root command with args inside a fresh working
// directory and HOME. It returns stdout, stderr and the working directory.
func runCLI(t *testing.T, runner runtime.Runner, args ...string) (string, string, string, error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	cwd := t.TempDir()
	t.Chdir(cwd)

	prev := newRunner
	newRunner = func(io.Writer, io.Writer) runtime.Runner { return runner }
	t.Cleanup(func() { newRunner = prev })

	dryRun, cleanOnFailure, verbose = false, false, false
	versionShort, versionJSON = false, false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), cwd, err
}

func TestRootCreatesProject(t *testing.T) {
	runner := &recordingRunner{}
	stdout, _, cwd, err := runCLI(t, runner, "demo")
	require.NoError(t, err)

	assert.Contains(t, stdout, "✔ Created project: demo")
	assert.Contains(t, stdout, "✔ Backend initialized (ESM)")
	assert.Contains(t, stdout, "✔ Frontend initialized with Tailwind")
	assert.Contains(t, stdout, "🎉 demo completed successfully!")
	assert.Contains(t, stdout, "cd demo/frontend && npm run dev")

	assert.FileExists(t, filepath.Join(cwd, "demo", "backend", "src", "index.js"))
	assert.FileExists(t, filepath.Join(cwd, "demo", "frontend", "src", "app.jsx"))
	assert.Len(t, runner.lines, 5)
}

func TestRootMissingArgument(t *testing.T) {
	runner := &recordingRunner{}
	_, _, cwd, err := runCLI(t, runner)

	assert.ErrorIs(t, err, project.ErrMissingArgument)
	assert.Empty(t, runner.lines)
	entries, readErr := os.ReadDir(cwd)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestRootTooManyArguments(t *testing.T) {
	_, _, _, err := runCLI(t, &recordingRunner{}, "one", "two")
	assert.Error(t, err)
}

func TestRootStepFailure(t *testing.T) {
	runner := &recordingRunner{failOn: "create vite"}
	stdout, _, cwd, err := runCLI(t, runner, "demo")

	var failure *runtime.ToolFailureError
	require.ErrorAs(t, err, &failure)
	assert.Contains(t, stdout, "✔ Backend initialized (ESM)")
	assert.NotContains(t, stdout, "completed successfully")
	assert.DirExists(t, filepath.Join(cwd, "demo", "backend"))
}

func TestRootCleanOnFailure(t *testing.T) {
	runner := &recordingRunner{failOn: "install express"}
	_, _, cwd, err := runCLI(t, runner, "demo", "--clean-on-failure")

	require.Error(t, err)
	assert.NoDirExists(t, filepath.Join(cwd, "demo"))
}

func TestRootDryRun(t *testing.T) {
	runner := &recordingRunner{}
	stdout, _, cwd, err := runCLI(t, runner, "demo", "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Plan for demo")
	assert.Contains(t, stdout, "[exec] npm init -y")
	assert.Contains(t, stdout, "[exec] npm create vite@latest frontend -- --template react")
	assert.Contains(t, stdout, "[write] write frontend sources")
	assert.Equal(t, 1, strings.Count(stdout, "create vite"))
	assert.Empty(t, runner.lines)
	assert.NoDirExists(t, filepath.Join(cwd, "demo"))
}

func TestRootHonorsEnvConfig(t *testing.T) {
	t.Setenv("STACK_INIT_NPM", "pnpm")
	t.Setenv("STACK_INIT_VITE_VERSION", "6.3.5")

	runner := &recordingRunner{}
	stdout, _, _, err := runCLI(t, runner, "demo")
	require.NoError(t, err)

	assert.Equal(t, "pnpm init -y", runner.lines[0])
	assert.Equal(t, "pnpm create vite@6.3.5 frontend -- --template react", runner.lines[2])
	assert.Contains(t, stdout, "cd demo/backend && pnpm run dev")
}

func TestVersionCommand(t *testing.T) {
	buildVersion, buildCommit, buildDate = "1.2.3", "abc123", "2026-01-01"

	stdout, _, _, err := runCLI(t, &recordingRunner{}, "version")
	require.NoError(t, err)
	assert.Equal(t, "stack-init version 1.2.3 (commit: abc123, built: 2026-01-01)\n", stdout)

	stdout, _, _, err = runCLI(t, &recordingRunner{}, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", stdout)

	stdout, _, _, err = runCLI(t, &recordingRunner{}, "version", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"1.2.3","commit":"abc123","date":"2026-01-01","repo":"agentx-labs/stack-init"}`, stdout)
}

func TestConfigSetAndGet(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var out bytes.Buffer
	configSetCmd.SetOut(&out)
	configGetCmd.SetOut(&out)
	t.Cleanup(func() {
		configSetCmd.SetOut(nil)
		configGetCmd.SetOut(nil)
	})

	require.NoError(t, configSetCmd.RunE(configSetCmd, []string{"backend_port", "8080"}))
	assert.Equal(t, "Set backend_port = 8080\n", out.String())
	assert.FileExists(t, filepath.Join(home, ".stack-init", "config.yaml"))

	out.Reset()
	require.NoError(t, configGetCmd.RunE(configGetCmd, []string{"backend_port"}))
	assert.Equal(t, "8080\n", out.String())

	out.Reset()
	require.NoError(t, configGetCmd.RunE(configGetCmd, []string{"npm"}))
	assert.Equal(t, "npm\n", out.String())
}

func TestConfigHelpListsOverrides(t *testing.T) {
	for _, want := range []string{
		"npm              STACK_INIT_NPM",
		"backend_port     STACK_INIT_BACKEND_PORT",
		"vite_version     STACK_INIT_VITE_VERSION",
		"node_constraint  STACK_INIT_NODE_CONSTRAINT",
		"log_level        STACK_INIT_LOG_LEVEL",
	} {
		assert.Contains(t, configCmd.Long, want)
	}
}

func TestConfigRejectsBadInput(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	err := configSetCmd.RunE(configSetCmd, []string{"colour", "blue"})
	assert.ErrorContains(t, err, `unknown config key "colour"`)

	err = configSetCmd.RunE(configSetCmd, []string{"backend_port", "http"})
	assert.ErrorContains(t, err, "must be a port number")

	err = configGetCmd.RunE(configGetCmd, []string{"colour"})
	assert.Error(t, err)
}

func TestDoctorReport(t *testing.T) {
	tests := []struct {
		name     string
		node     runtime.ToolVersion
		problems int
		want     string
	}{
		{
			name:     "satisfied",
			node:     runtime.ToolVersion{Name: "node", Path: "/usr/bin/node", Version: semver.MustParse("22.11.0")},
			problems: 0,
			want:     "[ OK ] node 22.11.0 at /usr/bin/node",
		},
		{
			name:     "too old",
			node:     runtime.ToolVersion{Name: "node", Path: "/usr/bin/node", Version: semver.MustParse("18.20.4")},
			problems: 1,
			want:     "[FAIL] node 18.20.4 does not satisfy >=20.19.0",
		},
		{
			name:     "missing",
			node:     runtime.ToolVersion{Name: "node", Err: &runtime.ToolNotFoundError{Name: "node"}},
			problems: 1,
			want:     "[MISS] node: command not found: node",
		},
	}

	npm := runtime.ToolVersion{Name: "npm", Path: "/usr/bin/npm", Version: semver.MustParse("10.9.0")}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := report(&out, []runtime.ToolVersion{tt.node, npm}, ">=20.19.0")
			assert.Equal(t, tt.problems, got)
			assert.Contains(t, out.String(), tt.want)
			assert.Contains(t, out.String(), "[ OK ] npm 10.9.0 at /usr/bin/npm")
		})
	}
}

func TestDoctorCommand(t *testing.T) {
	prev := probeVersion
	probeVersion = func(_ context.Context, name string) runtime.ToolVersion {
		return runtime.ToolVersion{Name: name, Path: "/opt/bin/" + name, Version: semver.MustParse("20.19.0")}
	}
	t.Cleanup(func() { probeVersion = prev })

	stdout, _, _, err := runCLI(t, &recordingRunner{}, "doctor")
	require.NoError(t, err)
	assert.Contains(t, stdout, "[ OK ] node 20.19.0 at /opt/bin/node")
	assert.Contains(t, stdout, "[ OK ] npm 20.19.0 at /opt/bin/npm")
}

func TestProbeToolsKeepsOrder(t *testing.T) {
	prev := probeVersion
	probeVersion = func(_ context.Context, name string) runtime.ToolVersion {
		return runtime.ToolVersion{Name: name}
	}
	t.Cleanup(func() { probeVersion = prev })

	got := probeTools(context.Background(), "a", "b", "c")
	require.Len(t, got, 3)
	for i, name := range []string{"a", "b", "c"} {
		assert.Equal(t, name, got[i].Name)
	}
}
