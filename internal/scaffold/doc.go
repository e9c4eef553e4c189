// Package scaffold materializes the on-disk skeleton of a new project: it
// creates directory trees, renders embedded templates, and writes files with
// an explicit overwrite policy. It knows nothing about the order in which a
// project is assembled; the orchestrator drives it.
package scaffold
