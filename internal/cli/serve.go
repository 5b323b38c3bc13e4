// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"os"
	"os/signal"
	"syscall"

	"legallens/internal/core"
	"legallens/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the analyzer service",
		Long: `Serve POST /analyze. Uploaded contracts are analyzed with Gemini when
GEMINI_API_KEY is set and by keyword matching otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, ""); err != nil {
				return err
			}
			defer a.close()

			cfg := a.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}

			svc := core.NewServiceFromConfig(a.cfg, a.logger)
			defer svc.Close()
			if a.cfg.Gemini.APIKey == "" {
				a.logger.Warn("GEMINI_API_KEY is not set, falling back to keyword analysis")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a.logger.Info("Starting analyzer", zap.String("addr", cfg.Addr), zap.Strings("models", a.cfg.Gemini.Models))
			return server.New(cfg, svc, a.logger).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :5000)")
	return cmd
}
