package orchestrator

import (
	"path/filepath"

	"github.com/agentx-labs/stack-init/internal/manifest"
	"github.com/agentx-labs/stack-init/internal/project"
	"github.com/agentx-labs/stack-init/internal/runtime"
	"github.com/agentx-labs/stack-init/internal/scaffold"
)

// Pipeline names.
const (
	PipelineBackend  = "backend"
	PipelineFrontend = "frontend"
)

// StepKind identifies what a Step does.
type StepKind int

const (
	StepMkdir StepKind = iota
	StepCommand
	StepPatch
	StepWrite
	StepValidate
)

func (k StepKind) String() string {
	switch k {
	case StepMkdir:
		return "mkdir"
	case StepCommand:
		return "exec"
	case StepPatch:
		return "patch"
	case StepWrite:
		return "write"
	case StepValidate:
		return "validate"
	default:
		return "unknown"
	}
}

// Step is one pipeline stage. Only the fields relevant to Kind are set.
type Step struct {
	Name string
	Kind StepKind
	Dir  string // absolute base directory the step acts in

	Dirs      scaffold.DirectoryPlan  // StepMkdir
	Command   runtime.Command         // StepCommand
	Manifest  string                  // StepPatch, StepValidate: path relative to Dir
	Patch     manifest.Patch          // StepPatch
	Templates []scaffold.FileTemplate // StepWrite
}

// Pipeline is an ordered, fail-fast list of steps and the states it moves to.
type Pipeline struct {
	Name    string
	Steps   []Step
	Done    State
	Failed  State
	Message string // printed on success
}

// DefaultBackendDeps are installed into the generated backend.
var DefaultBackendDeps = []string{"express", "dotenv", "cors", "nodemon"}

// FrontendStyleDeps provide the CSS framework wired into the Vite config.
var FrontendStyleDeps = []string{"tailwindcss", "@tailwindcss/vite"}

// backendPatch turns the npm-init manifest into an ES module with run scripts.
var backendPatch = manifest.Patch{
	Set: []manifest.Field{{Key: "type", Value: "module"}},
	Merge: []manifest.Nested{{Key: "scripts", Fields: []manifest.Field{
		{Key: "start", Value: "node src/index.js"},
		{Key: "dev", Value: "nodemon src/index.js"},
	}}},
}

// Plan returns the backend and frontend pipelines for spec without running
// anything.
func Plan(spec *project.Spec, opts Options) []Pipeline {
	opts = opts.withDefaults()
	backend := spec.BackendPath()
	frontend := spec.FrontendPath()
	npm := opts.NPM

	cmd := func(dir string, mode runtime.IOMode, args ...string) Step {
		c := runtime.Command{Name: npm, Args: args, Dir: dir, Mode: mode}
		return Step{Name: c.String(), Kind: StepCommand, Dir: dir, Command: c}
	}

	backendSteps := []Step{
		{Name: "create backend directories", Kind: StepMkdir, Dir: backend, Dirs: scaffold.BackendDirs},
		cmd(backend, runtime.Silent, "init", "-y"),
		{Name: "patch package.json", Kind: StepPatch, Dir: backend, Manifest: "package.json", Patch: backendPatch},
		cmd(backend, runtime.Inherit, append([]string{"install"}, opts.BackendDeps...)...),
		{Name: "write backend entry point", Kind: StepWrite, Dir: backend, Templates: scaffold.BackendTemplates},
		{Name: "validate package.json", Kind: StepValidate, Dir: backend, Manifest: "package.json"},
	}

	frontendSteps := []Step{
		cmd(spec.RootPath, runtime.Inherit, "create", "vite@"+opts.ViteVersion, filepath.Base(frontend), "--", "--template", "react"),
		cmd(frontend, runtime.Inherit, "install"),
		cmd(frontend, runtime.Inherit, append([]string{"install"}, FrontendStyleDeps...)...),
		{Name: "write frontend sources", Kind: StepWrite, Dir: frontend, Templates: scaffold.FrontendTemplates},
		{Name: "create frontend directories", Kind: StepMkdir, Dir: frontend, Dirs: scaffold.FrontendDirs},
	}

	return []Pipeline{
		{
			Name:    PipelineBackend,
			Steps:   backendSteps,
			Done:    StateBackendDone,
			Failed:  StateBackendFailed,
			Message: "Backend initialized (ESM)",
		},
		{
			Name:    PipelineFrontend,
			Steps:   frontendSteps,
			Done:    StateFrontendDone,
			Failed:  StateFrontendFailed,
			Message: "Frontend initialized with Tailwind",
		},
	}
}
