package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/stack-init/internal/runtime"
)

// fakeRunner stands in for npm. It records every command and reproduces the
// filesystem effects the pipelines depend on.
type fakeRunner struct {
	commands []runtime.Command
	failOn   string // substring of Command.String() that exits non-zero
	missing  bool   // report the binary as absent
	viteTS   bool   // create-vite emits vite.config.ts instead of .js
}

func (f *fakeRunner) Execute(_ context.Context, cmd runtime.Command) error {
	f.commands = append(f.commands, cmd)

	if f.missing {
		return &runtime.ToolNotFoundError{Name: cmd.Name}
	}
	line := cmd.String()
	if f.failOn != "" && strings.Contains(line, f.failOn) {
		return &runtime.ToolFailureError{Command: line, ExitCode: 1}
	}

	switch {
	case len(cmd.Args) >= 2 && cmd.Args[0] == "init":
		return os.WriteFile(filepath.Join(cmd.Dir, "package.json"), []byte(npmInitManifest), 0644)
	case len(cmd.Args) >= 3 && cmd.Args[0] == "create":
		return f.createVite(filepath.Join(cmd.Dir, cmd.Args[2]))
	case len(cmd.Args) >= 1 && cmd.Args[0] == "install":
		return os.MkdirAll(filepath.Join(cmd.Dir, "node_modules"), 0755)
	}
	return nil
}

func (f *fakeRunner) createVite(dir string) error {
	files := map[string]string{
		"package.json":    `{"name":"frontend","private":true,"type":"module"}`,
		"index.html":      "<div id=\"root\"></div>",
		"src/main.jsx":    "// generated main",
		"src/App.jsx":     "// generated App",
		"src/App.css":     "/* generated */",
		"src/index.css":   ":root { color: red; }",
		"public/vite.svg": "<svg/>",
	}
	if f.viteTS {
		files["vite.config.ts"] = "// generated ts config"
	} else {
		files["vite.config.js"] = "// generated js config"
	}
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeRunner) lines() []string {
	out := make([]string, len(f.commands))
	for i, c := range f.commands {
		out[i] = c.String()
	}
	return out
}

const npmInitManifest = `{
  "name": "backend",
  "version": "1.0.0",
  "description": "",
  "main": "index.js",
  "scripts": {
    "test": "echo \"Error: no test specified\" && exit 1"
  },
  "keywords": [],
  "author": "",
  "license": "ISC"
}
`
