package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mappack/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			requirements := []deps.Requirement{
				{
					Name:        "vpk",
					Command:     cfg.Tools.VPKBinary,
					Description: "package archiver (extract and pack)",
				},
				{
					Name:        "vtex",
					Command:     cfg.Tools.VTexBinary,
					Description: "texture compiler for thumbnails",
					Optional:    true,
				},
			}

			statuses := deps.CheckBinaries(requirements)
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					state = status.Detail
				}
				required := "required"
				if status.Optional {
					required = "optional"
				}
				rows = append(rows, []string{status.Name, status.Command, required, state})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Tool", "Command", "Kind", "Status"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft}))

			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
}
