// Command scalajsemit is a small demonstration/testing frontend for the
// emitter: it loads a project config, decodes a JSON linking-unit fixture,
// runs the emitter, and prints the rendered JavaScript alongside a
// colorized diagnostics and cache-statistics summary.
package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/ComedicChimera/olive"
	"github.com/pterm/pterm"

	"github.com/SebsLittleHelpers/scala-js/internal/config"
	"github.com/SebsLittleHelpers/scala-js/internal/emitter"
	"github.com/SebsLittleHelpers/scala-js/internal/logger"
	"github.com/SebsLittleHelpers/scala-js/internal/textbuilder"
)

func main() {
	cli := olive.NewCLI("scalajsemit", "renders a linked unit fixture through the emitter", false)
	cli.AddStringArg("config", "c", "path to the scalajsemit.toml project config", true)
	cli.AddStringArg("unit", "u", "path to the JSON linking-unit fixture", true)
	colorArg := cli.AddSelectorArg("color", "", "override the config file's color mode", false, []string{"auto", "always", "never"})
	colorArg.SetDefaultValue("")

	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		fail("CLI Usage Error", err)
	}

	configPath := result.Arguments["config"].(string)
	unitPath := result.Arguments["unit"].(string)
	colorOverride, _ := result.Arguments["color"].(string)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fail("Config Error", err)
	}
	if colorOverride != "" {
		if c, ok := parseColorOverride(colorOverride); ok {
			cfg.Color = c
		}
	}
	applyColorMode(cfg.Color)

	unitBytes, err := ioutil.ReadFile(unitPath)
	if err != nil {
		fail("Fixture Error", err)
	}
	unit, err := loadFixture(unitBytes)
	if err != nil {
		fail("Fixture Error", err)
	}

	var corelibText string
	if cfg.CoreLibPath != "" {
		corelibBytes, err := ioutil.ReadFile(cfg.CoreLibPath)
		if err != nil {
			fail("Core-Lib Error", err)
		}
		corelibText = string(corelibBytes)
	}

	eng := emitter.New(cfg.OutputMode, cfg.ModuleInit, corelibText)
	builder := textbuilder.New()
	log := logger.NewLog(logger.PrintMsg)

	if err := eng.EmitAll(unit, builder, log); err != nil {
		fail("Emit Error", err)
	}

	fmt.Println(builder.String())
	logger.PrintSummary(log.Done())

	stats := eng.Stats()
	fmt.Printf(
		"cache: classes reused=%d invalidated=%d, methods reused=%d invalidated=%d\n",
		stats.ClassesReused, stats.ClassesInvalidated, stats.MethodsReused, stats.MethodsInvalidated,
	)

	if log.HasErrors() {
		os.Exit(1)
	}
}

func parseColorOverride(s string) (config.ColorMode, bool) {
	switch s {
	case "auto":
		return config.ColorAuto, true
	case "always":
		return config.ColorAlways, true
	case "never":
		return config.ColorNever, true
	default:
		return 0, false
	}
}

// applyColorMode toggles pterm's global color output; ColorAuto leaves
// pterm's own terminal-detection default in place.
func applyColorMode(mode config.ColorMode) {
	switch mode {
	case config.ColorAlways:
		pterm.EnableColor()
	case config.ColorNever:
		pterm.DisableColor()
	}
}

func fail(tag string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", tag, err.Error())
	os.Exit(1)
}
