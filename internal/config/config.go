// Package config decodes the emitter's project-level configuration file
// (SPEC_FULL.md §4.8), a TOML document holding the pieces that would
// otherwise have to be threaded through as CLI flags on every invocation:
// output dialect, module-init behavior, core-lib path for strong mode,
// terminal color preference, and a diagnostics cap. Modeled directly on the
// teacher's mods.LoadModule: open, read-all, toml.Unmarshal into a private
// TOML-shaped struct, then validate/translate string enums into the typed
// values the rest of the emitter consumes.
package config

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pelletier/go-toml"

	"github.com/SebsLittleHelpers/scala-js/internal/outputmode"
	"github.com/SebsLittleHelpers/scala-js/internal/semantics"
)

// ColorMode selects whether diagnostics rendering may emit ANSI color.
type ColorMode uint8

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

func (m ColorMode) String() string {
	switch m {
	case ColorAuto:
		return "auto"
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "<invalid color mode>"
	}
}

func parseColorMode(s string) (ColorMode, bool) {
	switch s {
	case "", "auto":
		return ColorAuto, true
	case "always":
		return ColorAlways, true
	case "never":
		return ColorNever, true
	default:
		return 0, false
	}
}

// EmitterConfig is the typed, validated form of a scalajsemit.toml project
// file (C10, SPEC_FULL.md §4.8).
type EmitterConfig struct {
	OutputMode     outputmode.Mode
	ModuleInit     semantics.ModuleInitBehavior
	CoreLibPath    string
	Color          ColorMode
	MaxDiagnostics int
}

// tomlConfigFile mirrors the on-disk [emitter] table.
type tomlConfigFile struct {
	Emitter *tomlEmitter `toml:"emitter"`
}

type tomlEmitter struct {
	OutputMode     string `toml:"output-mode"`
	ModuleInit     string `toml:"module-init"`
	CoreLibPath    string `toml:"core-lib-path"`
	Color          string `toml:"color"`
	MaxDiagnostics int    `toml:"max-diagnostics"`
}

// LoadConfig opens path, unmarshals it as TOML, and translates it into an
// EmitterConfig. An absent output-mode defaults to ES5-Global, per §9's
// binary-compatibility seam: existing project files written before the
// dialect field existed keep behaving the way they always did.
func LoadConfig(path string) (*EmitterConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	tcf := &tomlConfigFile{}
	if err := toml.Unmarshal(buf, tcf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if tcf.Emitter == nil {
		return nil, fmt.Errorf("%s: missing [emitter] table", path)
	}
	return translate(path, tcf.Emitter)
}

func translate(path string, te *tomlEmitter) (*EmitterConfig, error) {
	cfg := &EmitterConfig{
		OutputMode:     outputmode.ES5Global,
		CoreLibPath:    te.CoreLibPath,
		MaxDiagnostics: te.MaxDiagnostics,
	}

	if te.OutputMode != "" {
		mode, ok := outputmode.Parse(te.OutputMode)
		if !ok {
			return nil, fmt.Errorf("%s: unknown output-mode %q", path, te.OutputMode)
		}
		cfg.OutputMode = mode
	}

	if te.ModuleInit != "" {
		behavior, ok := semantics.Parse(te.ModuleInit)
		if !ok {
			return nil, fmt.Errorf("%s: unknown module-init %q", path, te.ModuleInit)
		}
		cfg.ModuleInit = behavior
	} else {
		cfg.ModuleInit = semantics.Unchecked
	}

	color, ok := parseColorMode(te.Color)
	if !ok {
		return nil, fmt.Errorf("%s: unknown color %q", path, te.Color)
	}
	cfg.Color = color

	if cfg.OutputMode.IsStrong() && cfg.CoreLibPath == "" {
		return nil, fmt.Errorf("%s: core-lib-path is required for output-mode %q", path, te.OutputMode)
	}

	return cfg, nil
}
