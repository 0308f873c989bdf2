/*
Package config loads interpreter-wide settings from a `.tanrc.yaml` file,
the way the teacher loads no such file at all but every other ambient
concern (logging, REPL banner text) is a plain Go struct — this is the one
piece of ambient stack SPEC_FULL.md adds outright, grounded on
gopkg.in/yaml.v3 (already a teacher dependency, unused by go-mix itself but
carried in its go.mod) and on cue-lang/cue's flag-precedence-over-file
layering pattern.
*/
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the project root.
const FileName = ".tanrc.yaml"

// RootEnvVar anchors `@`-prefixed module paths (spec.md §9, "Path
// resolution") when set; otherwise Config.Root is used, and failing that
// the directory containing the entry file (see ResolveRoot).
const RootEnvVar = "TAN_ROOT"

// Config holds the subset of interpreter behavior a project can override.
// Zero value is a valid, fully-default Config.
type Config struct {
	// Root overrides the `@`-anchor directory; empty means "entry file's
	// directory" (spec.md §9).
	Root string `yaml:"root"`

	// PreludePath overrides the module path loaded into every Context's
	// TopScope before user code runs (spec.md §9, "Prelude scope").
	// Empty means @std/prelude, loaded only when it exists under the root.
	PreludePath string `yaml:"prelude"`

	// Profile is bound to the `*PROFILE*` special variable (spec.md §6,
	// "Special variables") — arbitrary user-defined build/run profile
	// name, e.g. "dev" or "release".
	Profile string `yaml:"profile"`

	// Color is loaded from the file, but neither cmd/tan nor internal/diag
	// reads it: whether output is ANSI-colored does not depend on it.
	Color bool `yaml:"color"`
}

// Default returns the zero-config baseline: no root override, no prelude
// override, profile "dev", color on.
func Default() Config {
	return Config{Profile: "dev", Color: true}
}

// Load reads dir/.tanrc.yaml if present, overlaying it onto Default().
// A missing file is not an error — a project need not have one.
func Load(dir string) (Config, error) {
	cfg := Default()
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ResolveRoot returns the effective `@`-anchor root: TAN_ROOT env var wins,
// then Config.Root, then fallback.
func ResolveRoot(cfg Config, fallback string) string {
	if v := os.Getenv(RootEnvVar); v != "" {
		return v
	}
	if cfg.Root != "" {
		return cfg.Root
	}
	return fallback
}
