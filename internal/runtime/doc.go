// Package runtime runs external tools (npm, create-vite) as blocking
// subprocesses. Commands are plain values executed through the Runner
// interface so pipelines can be exercised with a fake runner in tests.
package runtime
