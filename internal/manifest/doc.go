// Package manifest reads, patches, and validates package.json manifests.
// Patching preserves the existing key order so a manifest produced by the
// package manager keeps its shape, and it validates the result against an
// embedded JSON Schema.
package manifest
