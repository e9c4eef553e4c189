// Package config manages user-level settings stored at ~/.stack-init/config.yaml.
// Values can be overridden with STACK_INIT_* environment variables; the CLI
// resolves them once and passes plain values down to the scaffolding engine.
package config
