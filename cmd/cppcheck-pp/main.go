// Command cppcheck-pp runs the standalone preprocessor front end against
// a single translation unit and prints the code selected for each
// configuration it discovers, along with any diagnostics raised along
// the way.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/manan288/cppcheck/internal/config"
	"github.com/manan288/cppcheck/preproc"
	"github.com/manan288/cppcheck/tok"
)

type osOpener struct{}

func (osOpener) Open(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type nativeCanon struct{}

func (nativeCanon) SimplifyPath(path string) string       { return filepath.Clean(path) }
func (nativeCanon) ToNativeSeparators(path string) string { return filepath.FromSlash(path) }

func main() {
	app := &cli.App{
		Name:      "cppcheck-pp",
		Usage:     "expand a C/C++ translation unit for every #ifdef configuration it can build under",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to a settings YAML file"},
			&cli.StringFlag{Name: "defines", Aliases: []string{"D"}, Usage: `";"-separated NAME or NAME=VALUE overrides, e.g. "DEBUG;VERSION=2"`},
			&cli.StringSliceFlag{Name: "include", Aliases: []string{"I"}, Usage: "additional include search path"},
			&cli.BoolFlag{Name: "inline-suppr", Usage: "honour // cppcheck-suppress ID comments"},
			&cli.BoolFlag{Name: "debug-warnings", Usage: "report unhandled configuration expressions"},
			&cli.BoolFlag{Name: "list-configs", Usage: "print discovered configurations instead of expanded code"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "cppcheck-pp:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("expected exactly one file argument", 2)
	}
	filename := c.Args().Get(0)

	settingsFile, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	sink := preproc.NewMemorySink()
	settings := settingsFile.ToSettings(sink)
	if d := c.String("defines"); d != "" {
		settings.UserDefines = d
	}
	if c.Bool("inline-suppr") {
		settings.InlineSuppressions = true
	}
	if c.Bool("debug-warnings") {
		settings.DebugWarnings = true
	}

	includePaths := append([]string{}, settingsFile.IncludePaths...)
	includePaths = append(includePaths, c.StringSlice("include")...)

	src, err := osOpener{}.Open(filename)
	if err != nil {
		return err
	}

	pp := preproc.NewPreprocessor(settings, sink, tok.NewTokenizer(), nativeCanon{}, osOpener{}, includePaths)

	if c.Bool("list-configs") {
		normalised, err := pp.Normalise(context.Background(), src, filename)
		if err != nil {
			return err
		}
		for _, cfg := range pp.Configurations(normalised, filename) {
			if cfg == "" {
				cfg = "(default)"
			}
			fmt.Println(cfg)
		}
		return reportAndExit(sink)
	}

	results, err := pp.Preprocess(context.Background(), src, filename)
	if err != nil {
		return err
	}

	configs := make([]string, 0, len(results))
	for cfg := range results {
		configs = append(configs, cfg)
	}
	sort.Strings(configs)

	for _, cfg := range configs {
		label := cfg
		if label == "" {
			label = "(default)"
		}
		fmt.Printf("==== %s ====\n", label)
		fmt.Println(results[cfg])
	}

	return reportAndExit(sink)
}

func reportAndExit(sink *preproc.MemorySink) error {
	for _, d := range sink.Diagnostics {
		fmt.Fprintln(os.Stderr, d.String())
	}
	if len(sink.Errors()) > 0 {
		return cli.Exit("", 1)
	}
	return nil
}
