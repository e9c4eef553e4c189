// Package orchestrator assembles a new full-stack project. It validates the
// request, creates the project root, then runs the backend and frontend
// pipelines in order. Each pipeline is a declarative list of steps executed
// fail-fast: the first failing step ends the run and nothing is rolled back
// unless the caller opts in.
package orchestrator
