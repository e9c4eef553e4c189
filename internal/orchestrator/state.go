package orchestrator

import (
	"fmt"
	"strings"

	"github.com/agentx-labs/stack-init/internal/project"
)

// State is a position in the straight-line run:
// INIT → ROOT_CREATED → BACKEND_DONE → FRONTEND_DONE → COMPLETE,
// or one of the terminal *_FAILED states.
type State int

const (
	StateInit State = iota
	StateRootCreated
	StateBackendDone
	StateFrontendDone
	StateComplete
	StateValidationFailed
	StateBackendFailed
	StateFrontendFailed
)

var stateNames = map[State]string{
	StateInit:             "INIT",
	StateRootCreated:      "ROOT_CREATED",
	StateBackendDone:      "BACKEND_DONE",
	StateFrontendDone:     "FRONTEND_DONE",
	StateComplete:         "COMPLETE",
	StateValidationFailed: "VALIDATION_FAILED",
	StateBackendFailed:    "BACKEND_FAILED",
	StateFrontendFailed:   "FRONTEND_FAILED",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Failed reports whether s is a terminal failure state.
func (s State) Failed() bool {
	return s == StateValidationFailed || s == StateBackendFailed || s == StateFrontendFailed
}

// StageError carries the terminal state and the step that failed.
type StageError struct {
	State State
	Step  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// StepOutcome records one executed step.
type StepOutcome struct {
	Step string
	Err  error
}

// PipelineResult aggregates the steps a pipeline ran. Steps after the first
// failure are never run and do not appear.
type PipelineResult struct {
	Name  string
	Steps []StepOutcome
	Err   error
}

// Succeeded reports whether every step ran without error.
func (p *PipelineResult) Succeeded() bool { return p != nil && p.Err == nil }

// Result is the outcome of one orchestration run.
type Result struct {
	RunID     string
	Spec      *project.Spec
	State     State
	Pipelines []*PipelineResult
	Warnings  []string
	// Files lists every file written, relative to the project root.
	Files []string
}

// Pipeline returns the named pipeline result, or nil if it never ran.
func (r *Result) Pipeline(name string) *PipelineResult {
	for _, p := range r.Pipelines {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Backend returns the backend pipeline result, or nil.
func (r *Result) Backend() *PipelineResult { return r.Pipeline(PipelineBackend) }

// Frontend returns the frontend pipeline result, or nil.
func (r *Result) Frontend() *PipelineResult { return r.Pipeline(PipelineFrontend) }

// NextSteps returns the commands that start each generated app.
func (r *Result) NextSteps(npm string) []string {
	if r.Spec == nil {
		return nil
	}
	return []string{
		fmt.Sprintf("cd %s/backend && %s run dev", r.Spec.Name, npm),
		fmt.Sprintf("cd %s/frontend && %s run dev", r.Spec.Name, npm),
	}
}

func (r *Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", r.State)
	for _, p := range r.Pipelines {
		status := "ok"
		if !p.Succeeded() {
			status = "failed"
		}
		fmt.Fprintf(&b, " %s=%s(%d steps)", p.Name, status, len(p.Steps))
	}
	return b.String()
}
