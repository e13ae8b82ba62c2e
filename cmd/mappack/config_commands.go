package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mappack/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			}
			if err := config.WriteSample(target); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set workshop.api_key and assemble.base_package before building.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Config file", ctx.configPath},
				{"Staging dir", cfg.Paths.StagingDir},
				{"Output dir", cfg.Paths.OutputDir},
				{"Name cache", cfg.Paths.CachePath},
				{"API base URL", cfg.Workshop.APIBaseURL},
				{"API key set", yesNo(cfg.Workshop.APIKey != "")},
				{"Base package", cfg.Assemble.BasePackage},
				{"Locales", strings.Join(cfg.Assemble.Locales, ", ")},
				{"Server listing", yesNo(cfg.Assemble.ServerListing)},
				{"Package name", cfg.PackageFileName("<id>")},
				{"Game dir", cfg.Install.GameDir},
				{"vpk binary", cfg.Tools.VPKBinary},
				{"vtex binary", cfg.Tools.VTexBinary},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Setting", "Value"}, rows,
				[]columnAlignment{alignLeft, alignLeft}))
			return nil
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
