package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mappack/internal/config"
	"mappack/internal/installer"
	"mappack/internal/logging"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var dirFlag string
	var gameDirFlag string
	var force bool
	var skipBackup bool
	var clean bool

	rootCmd := &cobra.Command{
		Use:           "mappack-install",
		Short:         "Register built map packages with a local game client",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := config.Load(strings.TrimSpace(configFlag))
			if err != nil {
				return err
			}
			if dir := strings.TrimSpace(gameDirFlag); dir != "" {
				cfg.Install.GameDir = dir
			}
			if cfg.Install.GameDir == "" {
				return fmt.Errorf("game directory not configured; set install.game_dir or pass --game-dir")
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
			})
			if err != nil {
				return err
			}
			inst := installer.New(cfg, logger)

			if clean {
				return runUninstall(cmd, inst)
			}
			return runInstall(cmd, cfg, inst, dirFlag, installer.Options{
				Force:      force,
				SkipBackup: skipBackup,
			})
		},
	}

	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().StringVar(&dirFlag, "dir", ".", "Directory containing built package files")
	rootCmd.Flags().StringVar(&gameDirFlag, "game-dir", "", "Game client directory (overrides install.game_dir)")
	rootCmd.Flags().BoolVar(&force, "force", false, "Re-copy payload even when already registered")
	rootCmd.Flags().BoolVar(&skipBackup, "skip-backup", false, "Do not back up the client config before patching")
	rootCmd.Flags().BoolVar(&clean, "clean", false, "Uninstall: restore the client config and remove payload files")

	return rootCmd
}

func runInstall(cmd *cobra.Command, cfg *config.Config, inst *installer.Installer, dir string, opts installer.Options) error {
	pattern := filepath.Join(dir, cfg.Package.NamePrefix+"_*."+cfg.Package.Extension)
	packages, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("scan package directory: %w", err)
	}
	if len(packages) == 0 {
		return fmt.Errorf("no package files matching %s", pattern)
	}

	rows := make([][]string, 0, len(packages))
	failed := 0
	skipped := 0
	for _, pkg := range packages {
		result, err := inst.Install(pkg, opts)
		status := "installed"
		switch {
		case err != nil:
			failed++
			status = "failed: " + err.Error()
		case result.AlreadyInstalled && result.PayloadPath == "":
			skipped++
			status = "already installed"
		case result.AlreadyInstalled:
			status = "payload refreshed"
		}
		rows = append(rows, []string{filepath.Base(pkg), status})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderSummary([]string{"Package", "Status"}, rows))
	fmt.Fprintf(out, "%d package(s): %d installed, %d skipped, %d failed\n",
		len(packages), len(packages)-skipped-failed, skipped, failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d packages failed to install", failed, len(packages))
	}
	return nil
}

func runUninstall(cmd *cobra.Command, inst *installer.Installer) error {
	result, err := inst.Uninstall()

	configStatus := "reference lines removed: " + strconv.Itoa(result.LinesRemoved)
	if result.RestoredFromBackup {
		configStatus = "restored from backup"
	}
	rows := [][]string{
		{"Client config", configStatus},
		{"Payload files removed", strconv.Itoa(result.FilesRemoved)},
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderSummary([]string{"Uninstall", "Result"}, rows))

	return err
}
