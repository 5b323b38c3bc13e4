// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"legallens/internal/formatters"

	"github.com/spf13/cobra"
)

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List report formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, info := range formatters.GetSupportedFormats() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-6s %-5s %s\n", info.Name, info.Extension, info.Description)
			}
			return nil
		},
	}
}
