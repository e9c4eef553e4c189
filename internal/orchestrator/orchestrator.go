package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agentx-labs/stack-init/internal/logger"
	"github.com/agentx-labs/stack-init/internal/manifest"
	"github.com/agentx-labs/stack-init/internal/project"
	"github.com/agentx-labs/stack-init/internal/runtime"
	"github.com/agentx-labs/stack-init/internal/scaffold"
	"github.com/google/uuid"
)

// Options tune the generated project. Zero values fall back to defaults.
type Options struct {
	NPM         string   // package manager binary (default "npm")
	ViteVersion string   // create-vite version or dist-tag (default "latest")
	BackendPort int      // fallback backend port (default 5000)
	BackendDeps []string // backend dependencies (default DefaultBackendDeps)

	// CleanupOnFailure removes the project root when a pipeline fails.
	// By default a partial tree is left on disk for inspection.
	CleanupOnFailure bool
}

func (o Options) withDefaults() Options {
	if o.NPM == "" {
		o.NPM = "npm"
	}
	if o.ViteVersion == "" {
		o.ViteVersion = "latest"
	}
	if o.BackendPort == 0 {
		o.BackendPort = 5000
	}
	if len(o.BackendDeps) == 0 {
		o.BackendDeps = DefaultBackendDeps
	}
	return o
}

// Orchestrator runs the full scaffolding sequence. It holds no per-run
// state, but runs are not meant to target the same directory concurrently.
type Orchestrator struct {
	runner runtime.Runner
	out    io.Writer
	log    *logger.Logger
	opts   Options
}

// New creates an Orchestrator. Progress lines go to out; diagnostics to log.
func New(runner runtime.Runner, out io.Writer, log *logger.Logger, opts Options) *Orchestrator {
	if out == nil {
		out = io.Discard
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{
		runner: runner,
		out:    out,
		log:    log,
		opts:   opts.withDefaults(),
	}
}

// Run creates project name under cwd. On failure the returned Result holds
// the terminal state and the error is a *StageError.
func (o *Orchestrator) Run(ctx context.Context, name, cwd string) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), State: StateInit}
	log := o.log.With("run_id", res.RunID, "project", name)

	spec, err := project.Validate(name, cwd)
	if err != nil {
		res.State = StateValidationFailed
		log.Debug("validation failed", "error", err)
		return res, &StageError{State: res.State, Step: "validate project", Err: err}
	}
	res.Spec = spec

	// Only the root itself is created; a missing cwd is an error.
	if err := os.Mkdir(spec.RootPath, scaffold.DirPerm); err != nil {
		res.State = StateValidationFailed
		return res, &StageError{State: res.State, Step: "create project root", Err: err}
	}
	res.State = StateRootCreated
	log.Info("project root created", "path", spec.RootPath)
	fmt.Fprintf(o.out, "✔ Created project: %s\n", spec.Name)

	data := scaffold.NewData(spec.Name, o.opts.BackendPort)

	for _, p := range Plan(spec, o.opts) {
		pr := o.runPipeline(ctx, log, spec, p, data, res)
		res.Pipelines = append(res.Pipelines, pr)
		if pr.Err != nil {
			res.State = p.Failed
			failed := pr.Steps[len(pr.Steps)-1].Step
			o.cleanup(log, spec)
			return res, &StageError{State: res.State, Step: failed, Err: pr.Err}
		}
		res.State = p.Done
		fmt.Fprintf(o.out, "✔ %s\n", p.Message)
	}

	for _, w := range res.Warnings {
		fmt.Fprintf(o.out, "  warning: %s\n", w)
	}

	res.State = StateComplete
	log.Info("scaffold complete", "files", len(res.Files))
	o.printSummary(res)
	return res, nil
}

func (o *Orchestrator) runPipeline(ctx context.Context, log *logger.Logger, spec *project.Spec, p Pipeline, data *scaffold.Data, res *Result) *PipelineResult {
	pr := &PipelineResult{Name: p.Name}
	log = log.With("pipeline", p.Name)

	for _, step := range p.Steps {
		log.Debug("step started", "step", step.Name, "kind", step.Kind.String(), "dir", step.Dir)
		err := o.execute(ctx, spec, step, data, res)
		pr.Steps = append(pr.Steps, StepOutcome{Step: step.Name, Err: err})
		if err != nil {
			log.Error("step failed", "step", step.Name, "error", err)
			pr.Err = err
			return pr
		}
	}
	return pr
}

func (o *Orchestrator) execute(ctx context.Context, spec *project.Spec, step Step, data *scaffold.Data, res *Result) error {
	switch step.Kind {
	case StepMkdir:
		return scaffold.CreateTree(step.Dir, step.Dirs)

	case StepCommand:
		return o.runner.Execute(ctx, step.Command)

	case StepPatch:
		return manifest.PatchFile(filepath.Join(step.Dir, step.Manifest), step.Patch)

	case StepWrite:
		written, err := scaffold.WriteAll(step.Dir, resolveViteConfig(step.Dir, step.Templates), data)
		for _, f := range written {
			res.Files = append(res.Files, relTo(spec.RootPath, filepath.Join(step.Dir, f)))
		}
		return err

	case StepValidate:
		path := filepath.Join(step.Dir, step.Manifest)
		vr, err := manifest.ValidatePackageFile(path)
		if err != nil {
			// Validation is advisory; an unreadable manifest surfaces as a warning.
			res.Warnings = append(res.Warnings, fmt.Sprintf("could not validate %s: %v", relTo(spec.RootPath, path), err))
			return nil
		}
		for _, issue := range vr.Issues {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s %s", relTo(spec.RootPath, path), issue))
		}
		return nil

	default:
		return fmt.Errorf("unknown step kind %v", step.Kind)
	}
}

// resolveViteConfig retargets the Vite config template at vite.config.ts
// when that is the only config create-vite produced.
func resolveViteConfig(dir string, templates []scaffold.FileTemplate) []scaffold.FileTemplate {
	if exists(filepath.Join(dir, scaffold.ViteConfigJS)) || !exists(filepath.Join(dir, scaffold.ViteConfigTS)) {
		return templates
	}
	out := make([]scaffold.FileTemplate, len(templates))
	copy(out, templates)
	for i := range out {
		if out[i].Path == scaffold.ViteConfigJS {
			out[i].Path = scaffold.ViteConfigTS
		}
	}
	return out
}

func (o *Orchestrator) cleanup(log *logger.Logger, spec *project.Spec) {
	if !o.opts.CleanupOnFailure {
		log.Info("leaving partial project on disk", "path", spec.RootPath)
		return
	}
	if err := os.RemoveAll(spec.RootPath); err != nil {
		log.Error("cleanup failed", "path", spec.RootPath, "error", err)
		return
	}
	log.Info("removed partial project", "path", spec.RootPath)
}

func (o *Orchestrator) printSummary(res *Result) {
	fmt.Fprintf(o.out, "\n🎉 %s completed successfully!\n\n", res.Spec.Name)
	fmt.Fprintln(o.out, "Next steps:")
	for _, s := range res.NextSteps(o.opts.NPM) {
		fmt.Fprintln(o.out, s)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// IsPrecondition reports whether err was raised before anything was written.
func IsPrecondition(err error) bool {
	return errors.Is(err, project.ErrMissingArgument) ||
		errors.Is(err, project.ErrInvalidName) ||
		errors.Is(err, project.ErrTargetExists)
}
