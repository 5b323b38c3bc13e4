// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package cli wires the legallens commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"legallens/internal/config"
	"legallens/internal/observability"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	// Register report formatters
	_ "legallens/internal/formatters/csv"
	_ "legallens/internal/formatters/json"
	_ "legallens/internal/formatters/text"
	_ "legallens/internal/formatters/yaml"
)

// app carries what every subcommand needs after flag parsing.
type app struct {
	configFile string
	envFile    string
	logLevel   string
	noColor    bool

	cfg    *config.Config
	logger *zap.Logger
}

// setup loads .env and the configuration and builds the logger. The console
// level is --log-level, else consoleLevel, else the configured level.
func (a *app) setup(cmd *cobra.Command, consoleLevel string) error {
	if err := config.LoadDotEnv(a.envFile); err != nil {
		return err
	}

	cfg, cfgErr := config.LoadConfigOrDefault(a.configFile)
	if cfgErr != nil && a.configFile != "" {
		return cfgErr
	}
	a.cfg = cfg

	opts := cfg.LogOptions()
	if consoleLevel != "" {
		opts.Level = consoleLevel
	}
	if a.logLevel != "" {
		opts.Level = a.logLevel
	}
	opts.Console = cmd.ErrOrStderr()

	logger, err := observability.NewLogger(opts)
	if err != nil {
		return err
	}
	a.logger = logger
	if cfgErr != nil {
		logger.Warn("Error loading config file, using defaults", zap.Error(cfgErr))
	}
	return nil
}

func (a *app) close() {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// NewRootCommand creates and returns the root cobra command
func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "legallens",
		Short: "Find risky clauses in contracts",
		Long: `LegalLens analyzes contracts (PDF or text) for risky clauses.
It summarizes the document, lists each risk with its severity and
highlights the matching passages in the document text.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "Path to configuration file (default: discovered)")
	flags.StringVar(&a.envFile, "env-file", ".env", "Environment file to load if present")
	flags.StringVar(&a.logLevel, "log-level", "", "Console log level: debug, info, warn or error")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable coloured output")

	cmd.AddCommand(
		newAnalyzeCommand(a),
		newServeCommand(a),
		newFormatsCommand(),
		newVersionCommand(),
	)
	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func stdoutFile(w io.Writer) *os.File {
	f, _ := w.(*os.File)
	return f
}
