// Package cmd wires the colorprobe command line.
package cmd

import (
	"fmt"
	"io"

	"colorprobe/internal/config"
	"colorprobe/internal/report"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var version = "dev"

// app carries state shared by every subcommand of one root command.
type app struct {
	configFile string
	verbose    bool
	quiet      bool

	log *log.Logger
}

func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "find color literals in python, r, julia, javascript and typescript sources",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.log = newLogger(cmd.ErrOrStderr(), a.verbose, a.quiet)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "config file (default: ./.colorprobe.yaml, then ~/.config/colorprobe/config.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "log errors only")
	flags.StringP("format", "f", string(report.FormatText), "output format: text, json or yaml")
	flags.String("theme", report.DefaultTheme, "chroma style used for text output")
	flags.Bool("no-color", false, "disable color swatches")
	flags.Bool("matplotlib-tableau", true, "recognize matplotlib tab: colors in python")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.AddCommand(
		newScanCommand(a),
		newLookupCommand(a),
		newLanguagesCommand(a),
		newProbeCommand(a),
	)
	return root
}

func newLogger(w io.Writer, verbose, quiet bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: config.AppName})
	switch {
	case verbose:
		logger.SetLevel(log.DebugLevel)
	case quiet:
		logger.SetLevel(log.ErrorLevel)
	}
	return logger
}

func (a *app) loadSettings(cmd *cobra.Command) (config.Settings, error) {
	s, path, err := config.Load(config.New(), config.LoadOptions{
		ConfigFile: a.configFile,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return config.Settings{}, err
	}
	if path != "" {
		a.log.Debug("loaded config", "path", path)
	}
	return s, nil
}

func (a *app) printer(cmd *cobra.Command, s config.Settings) (*report.Printer, error) {
	p, err := report.NewPrinter(cmd.OutOrStdout(), report.Options{
		Format:  s.OutputFormat(),
		Theme:   s.Theme,
		NoColor: s.NoColor,
	})
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	return p, nil
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		return err
	}
	return nil
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
}
