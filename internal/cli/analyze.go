// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"legallens/internal/analysis"
	"legallens/internal/core"
	"legallens/internal/formatters"
	"legallens/internal/highlight"
	"legallens/internal/pipeline"
	"legallens/internal/remote"
	"legallens/internal/view"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type analyzeFlags struct {
	server     string
	focus      int
	report     string
	format     string
	severities string
	offline    bool
	local      bool
	noProgress bool
	noDocument bool
}

func newAnalyzeCommand(a *app) *cobra.Command {
	f := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Analyze a contract and show its risks",
		Long: `Upload FILE to the analyzer service and show the summary, the risks
found and the annotated document. When the service cannot be reached or
answers with something unusable, the bundled sample analysis is shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.offline && f.local {
				return errors.New("--offline and --local are mutually exclusive")
			}
			if err := a.setup(cmd, "warn"); err != nil {
				return err
			}
			defer a.close()
			return runAnalyze(cmd, a, f, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.server, "server", "s", "", "Analyzer service URL (default from config)")
	flags.IntVar(&f.focus, "focus", 0, "Finding id to activate and reveal")
	flags.StringVarP(&f.report, "report", "r", "", "Write a report to this file or directory")
	flags.StringVarP(&f.format, "format", "f", "text", "Report format: text, json, yaml or csv")
	flags.StringVar(&f.severities, "severity", "all", "Severities to include in the report: high,medium,low or all")
	flags.BoolVar(&f.offline, "offline", false, "Skip the network and show the bundled sample analysis")
	flags.BoolVar(&f.local, "local", false, "Analyze in-process instead of calling the service")
	flags.BoolVar(&f.noProgress, "no-progress", false, "Do not draw the progress bar")
	flags.BoolVar(&f.noDocument, "no-document", false, "Do not print the annotated document")
	return cmd
}

func runAnalyze(cmd *cobra.Command, a *app, f *analyzeFlags, path string) error {
	severities, err := formatters.ParseSeverities(f.severities)
	if err != nil {
		return err
	}
	if _, ok := formatters.Get(f.format); !ok && f.report != "" {
		return fmt.Errorf("unsupported format %q (available: %v)", f.format, formatters.List())
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	upload := analysis.Upload{FileName: filepath.Base(path), Content: content}

	out := cmd.OutOrStdout()
	opts := view.Options{Width: view.DefaultWidth}
	if file := stdoutFile(out); file != nil {
		opts = view.TerminalOptions(file, a.noColor)
	}
	renderer := view.NewRenderer(out, opts)
	revealer := view.NewTerminalRevealer(renderer, 0)
	selection := highlight.NewController(revealer, a.logger)

	analyzer := a.analyzer(f)
	if closer, ok := analyzer.(io.Closer); ok {
		defer closer.Close()
	}
	ctl := pipeline.New(analyzer, pipeline.Options{
		TickInterval:   a.cfg.Client.TickInterval,
		AnalyzingDelay: a.cfg.Client.AnalyzingDelay,
		Selection:      selection,
		Logger:         a.logger,
	})

	progress := renderer.NewProgress()
	if !f.noProgress {
		unsubscribe := ctl.Subscribe(progress.Update)
		defer unsubscribe()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ctl.Start(ctx, upload); err != nil {
		return err
	}
	state, err := ctl.Wait(ctx)
	progress.Done()
	if err != nil {
		ctl.Reset()
		return fmt.Errorf("analysis interrupted: %w", err)
	}

	result := state.Result
	renderer.Summary(result)

	doc := view.NewDocument(result, selection, a.logger)
	revealer.Attach(doc)
	if f.focus != 0 && !doc.Select(f.focus) {
		a.logger.Warn("No finding with that id", zap.Int("focus", f.focus))
	}

	renderer.Risks(doc)
	if !f.noDocument {
		renderer.Document(doc)
	}

	if f.report != "" {
		return writeReport(cmd, f, result, severities)
	}
	return nil
}

// analyzer picks where the upload goes.
func (a *app) analyzer(f *analyzeFlags) pipeline.Analyzer {
	switch {
	case f.offline:
		return pipeline.AnalyzerFunc(func(ctx context.Context, upload analysis.Upload) (*analysis.Result, error) {
			return nil, fmt.Errorf("%w: offline", analysis.ErrRemoteSubmission)
		})
	case f.local:
		return core.NewServiceFromConfig(a.cfg, a.logger)
	}

	serverURL := f.server
	if serverURL == "" {
		serverURL = a.cfg.Client.ServerURL
	}
	return remote.NewClient(serverURL,
		remote.WithHTTPClient(&http.Client{Timeout: a.cfg.Client.Timeout}),
		remote.WithLogger(a.logger))
}

func writeReport(cmd *cobra.Command, f *analyzeFlags, result *analysis.Result, severities map[analysis.Severity]bool) error {
	opts := formatters.FormatterOptions{Severities: severities, NoColor: true}
	content, _, name, err := formatters.ExportForDownload(f.format, result, opts)
	if err != nil {
		return err
	}

	target := f.report
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, name)
	}
	if err := os.WriteFile(target, []byte(content+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", target)
	return nil
}
