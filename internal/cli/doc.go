// Package cli defines the Cobra command tree for the stack-init CLI. The root
// command scaffolds a project; version, config and doctor are registered from
// their own files. Commands resolve configuration and the working directory,
// then delegate to internal packages for the actual work.
package cli
