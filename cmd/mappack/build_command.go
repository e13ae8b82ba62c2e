package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mappack/internal/assemble"
	"mappack/internal/identity"
	"mappack/internal/logging"
	"mappack/internal/services/vpktool"
	"mappack/internal/services/vtex"
	"mappack/internal/workshop"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "build <collection-id>",
		Short: "Resolve a workshop collection and assemble its map package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(ctx, cmd, args[0])
		},
	}
}

func runBuild(ctx *commandContext, cmd *cobra.Command, collectionID string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	platform, err := workshop.New(cfg.Workshop.APIBaseURL, cfg.Workshop.APIKey,
		time.Duration(cfg.Workshop.RequestTimeout)*time.Second)
	if err != nil {
		return err
	}
	downloader := workshop.NewDownloader(time.Duration(cfg.Workshop.DownloadTimeout) * time.Second)

	cache, err := ctx.openCache()
	if err != nil {
		return err
	}
	policy := identity.Policy{
		PrefixPriority:   cfg.Resolver.PrefixPriority,
		ExcludedSuffixes: cfg.Resolver.ExcludedSuffixes,
	}
	resolver := identity.NewResolver(policy, cache, downloader, cfg.Paths.StagingDir, logger)

	vpk, err := vpktool.New(cfg.Tools.VPKBinary)
	if err != nil {
		return err
	}
	compiler, err := vtex.New(cfg.Tools.VTexBinary)
	if err != nil {
		return err
	}
	stager := assemble.NewPipelineStager(downloader, compiler, cfg.Paths.StagingDir)
	assembler := assemble.New(cfg, vpk, stager, logger)

	runCtx := cmd.Context()
	logger.Info("building collection", logging.String("collection_id", collectionID))

	ids, err := platform.CollectionDetails(runCtx, collectionID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("collection %s has no items", collectionID)
	}

	details, err := platform.PublishedFileDetails(runCtx, ids...)
	if err != nil {
		return err
	}
	byID := make(map[string]workshop.FileDetails, len(details))
	for _, d := range details {
		byID[d.ExternalID] = d
	}

	var assets []identity.AssetRecord
	seen := make(map[string]string)
	failed := 0
	duplicates := 0
	for _, id := range ids {
		d, ok := byID[id]
		if !ok {
			failed++
			logger.Warn("platform has no metadata for item, skipping",
				logging.String("external_id", id))
			continue
		}
		record, err := resolver.Resolve(runCtx, d)
		if err != nil {
			if runCtx.Err() != nil {
				return err
			}
			failed++
			logger.Warn("identity resolution failed, skipping",
				logging.String("external_id", id),
				logging.Error(err))
			continue
		}
		if prior, dup := seen[record.InternalName]; dup {
			duplicates++
			logger.Warn("duplicate internal name, skipping",
				logging.String("internal_name", record.InternalName),
				logging.String("external_id", id),
				logging.String("first_external_id", prior))
			continue
		}
		seen[record.InternalName] = id
		assets = append(assets, record)
	}

	if len(assets) == 0 {
		return fmt.Errorf("no maps could be resolved from collection %s", collectionID)
	}

	result, err := assembler.Assemble(runCtx, collectionID, assets)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rows := [][]string{
		{"Collection items", strconv.Itoa(len(ids))},
		{"Maps packaged", strconv.Itoa(len(assets))},
		{"Failed", strconv.Itoa(failed)},
		{"Duplicates skipped", strconv.Itoa(duplicates)},
		{"Thumbnail failures", strconv.Itoa(result.ThumbnailFailures)},
		{"Locale warnings", strconv.Itoa(result.LocaleWarnings)},
		{"Package", result.PackagePath},
	}
	if result.ServerListingPath != "" {
		rows = append(rows, []string{"Server listing", result.ServerListingPath})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Build", "Value"}, rows,
		[]columnAlignment{alignLeft, alignLeft}))

	if failed > 0 {
		return fmt.Errorf("%d of %d collection items failed", failed, len(ids))
	}
	return nil
}
