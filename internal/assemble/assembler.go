package assemble

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"

	"mappack/internal/config"
	"mappack/internal/identity"
	"mappack/internal/logging"
	"mappack/internal/markerdoc"
	"mappack/internal/services"
	"mappack/internal/services/vpktool"
)

//go:embed scripts
var installerScripts embed.FS

// Dialect geometry of the patched documents. The engine owns these formats;
// the literal markers below are stability guarantees it must honor across
// versions, or the patcher fails closed.
const (
	registryFile     = "gamemodes_server.txt"
	thumbnailDir     = "materials/vgui/maps/thumbnails"
	localeFileFormat = "resource/strings_%s.txt"
)

var (
	registryBlockStart = markerdoc.Pattern(regexp.MustCompile(`^\s*"maps"\s*$`))
	registryBoundary   = markerdoc.Pattern(regexp.MustCompile(`^\s*// end of custom maps\s*$`))
	localeMarker       = markerdoc.Pattern(regexp.MustCompile(`^\s*// Map names\s*$`))
)

// Assembler stages resolved assets into a directory tree, patches the
// reference documents, and hands the tree to the external archiver.
type Assembler struct {
	cfg    *config.Config
	vpk    *vpktool.Client
	thumbs ThumbnailStager
	logger *slog.Logger
}

// Result reports what a build produced.
type Result struct {
	PackagePath       string
	ServerListingPath string
	ScriptsDir        string
	ThumbnailFailures int
	LocaleWarnings    int
}

// New creates an assembler.
func New(cfg *config.Config, vpk *vpktool.Client, thumbs ThumbnailStager, logger *slog.Logger) *Assembler {
	return &Assembler{
		cfg:    cfg,
		vpk:    vpk,
		thumbs: thumbs,
		logger: logging.NewComponentLogger(logger, "assembler"),
	}
}

// Assemble builds the distributable package for a collection. Document
// patching failures abort the build: a half-patched document is worse than
// no package. Thumbnail failures are isolated per asset and only counted.
func (a *Assembler) Assemble(ctx context.Context, collectionID string, assets []identity.AssetRecord) (Result, error) {
	if len(assets) == 0 {
		return Result{}, errors.New("no assets to assemble")
	}

	stage := filepath.Join(a.cfg.Paths.StagingDir, "build-"+uuid.NewString())
	extractDir := filepath.Join(stage, "extracted")
	packRoot := filepath.Join(stage, "pack")
	defer os.RemoveAll(stage)

	if err := os.MkdirAll(packRoot, 0o755); err != nil {
		return Result{}, fmt.Errorf("create staging tree: %w", err)
	}

	if err := a.extractReferenceDocuments(ctx, extractDir); err != nil {
		return Result{}, err
	}
	if err := a.patchRegistry(extractDir, packRoot, assets); err != nil {
		return Result{}, err
	}

	localeWarnings, err := a.patchLocaleTables(extractDir, packRoot, assets)
	if err != nil {
		return Result{}, err
	}

	thumbFailures := a.stageThumbnails(ctx, packRoot, assets)

	packagePath := filepath.Join(a.cfg.Paths.OutputDir, a.cfg.PackageFileName(collectionID))
	if err := os.MkdirAll(a.cfg.Paths.OutputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output directory: %w", err)
	}
	if err := a.vpk.Pack(ctx, packRoot, packagePath); err != nil {
		return Result{}, err
	}
	a.logger.Info("package archived",
		logging.String("path", packagePath),
		logging.Int("asset_count", len(assets)))

	result := Result{
		PackagePath:       packagePath,
		ThumbnailFailures: thumbFailures,
		LocaleWarnings:    localeWarnings,
	}

	if a.cfg.Assemble.ServerListing {
		listingPath, err := a.writeServerListing(assets)
		if err != nil {
			return Result{}, err
		}
		result.ServerListingPath = listingPath
	}

	scriptsDir, err := a.copyInstallerScripts()
	if err != nil {
		return Result{}, err
	}
	result.ScriptsDir = scriptsDir

	return result, nil
}

// extractReferenceDocuments pulls the registry and string tables out of the
// base game package. The external tool exits zero even for absent entries,
// so presence of each required file is verified here; a missing registry is
// fatal while string tables are checked later per locale.
func (a *Assembler) extractReferenceDocuments(ctx context.Context, extractDir string) error {
	if a.cfg.Assemble.BasePackage == "" {
		return errors.New("assemble.base_package is not configured")
	}

	files := []string{registryFile}
	for _, locale := range a.cfg.Assemble.Locales {
		files = append(files, fmt.Sprintf(localeFileFormat, locale))
	}
	if err := a.vpk.Extract(ctx, a.cfg.Assemble.BasePackage, files, extractDir); err != nil {
		return err
	}

	if _, err := os.Stat(filepath.Join(extractDir, registryFile)); err != nil {
		return services.Wrap(services.ErrSubprocess, "assembler", "extract",
			"base package yielded no "+registryFile, err)
	}
	return nil
}

// patchRegistry splices one entry line per asset immediately before the
// end-of-custom-entries boundary inside the maps block. Either marker
// missing is fatal for the build.
func (a *Assembler) patchRegistry(extractDir, packRoot string, assets []identity.AssetRecord) error {
	path := filepath.Join(extractDir, registryFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read registry: %w", err)
	}

	doc := markerdoc.Parse(string(data), markerdoc.CRLF)

	blockStart, err := doc.FindIndex(registryBlockStart)
	if err != nil {
		return err
	}
	boundary, err := doc.FindIndex(registryBoundary)
	if err != nil {
		return err
	}
	if boundary <= blockStart {
		return fmt.Errorf("registry boundary at line %d precedes maps block at line %d", boundary+1, blockStart+1)
	}

	entries := make([]string, 0, len(assets))
	for _, asset := range assets {
		entries = append(entries, registryEntry(asset))
	}
	if err := doc.InsertBefore(registryBoundary, entries); err != nil {
		return err
	}

	out := filepath.Join(packRoot, registryFile)
	if err := os.WriteFile(out, []byte(doc.Render()), 0o644); err != nil {
		return fmt.Errorf("write patched registry: %w", err)
	}
	a.logger.Info("registry patched", logging.Int("entry_count", len(entries)))
	return nil
}

func registryEntry(asset identity.AssetRecord) string {
	return "\t\t\"" + asset.InternalName + "\"\t\t\"\""
}

// patchLocaleTables splices the display-name entries into each locale's
// string table. A missing marker in one locale is a per-file warning, not
// fatal to the assembler.
func (a *Assembler) patchLocaleTables(extractDir, packRoot string, assets []identity.AssetRecord) (int, error) {
	warnings := 0
	for _, locale := range a.cfg.Assemble.Locales {
		rel := fmt.Sprintf(localeFileFormat, locale)
		data, err := os.ReadFile(filepath.Join(extractDir, rel))
		if err != nil {
			warnings++
			a.logger.Warn("locale table missing after extraction, skipping",
				logging.String("locale", locale),
				logging.Error(err))
			continue
		}

		content, err := decodeLocaleTable(data)
		if err != nil {
			return warnings, fmt.Errorf("locale %s: %w", locale, err)
		}

		doc := markerdoc.Parse(content, markerdoc.CRLF)
		entries := make([]string, 0, len(assets))
		for _, asset := range assets {
			entries = append(entries, localeEntry(asset))
		}
		if err := doc.InsertBefore(localeMarker, entries); err != nil {
			if errors.Is(err, services.ErrMarkerNotFound) {
				warnings++
				a.logger.Warn("locale table lacks the map-names marker, skipping",
					logging.String("locale", locale))
				continue
			}
			return warnings, fmt.Errorf("locale %s: %w", locale, err)
		}

		encoded, err := encodeLocaleTable(doc.Render())
		if err != nil {
			return warnings, fmt.Errorf("locale %s: %w", locale, err)
		}
		out := filepath.Join(packRoot, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return warnings, err
		}
		if err := os.WriteFile(out, encoded, 0o644); err != nil {
			return warnings, fmt.Errorf("write locale %s: %w", locale, err)
		}
		a.logger.Info("locale table patched",
			logging.String("locale", locale),
			logging.Int("entry_count", len(entries)))
	}
	return warnings, nil
}

func localeEntry(asset identity.AssetRecord) string {
	return "\t\t\"MapName_" + asset.InternalName + "\"\t\"" + asset.FriendlyTitle + "\""
}

// stageThumbnails places one compiled thumbnail per asset into the fixed
// resource path the client expects. Per-asset failures are logged and
// counted; the build continues.
func (a *Assembler) stageThumbnails(ctx context.Context, packRoot string, assets []identity.AssetRecord) int {
	if a.thumbs == nil {
		return 0
	}
	destDir := filepath.Join(packRoot, filepath.FromSlash(thumbnailDir))
	failures := 0
	for _, asset := range assets {
		if _, err := a.thumbs.Stage(ctx, asset, destDir); err != nil {
			failures++
			a.logger.Warn("thumbnail staging failed",
				logging.String("external_id", asset.ExternalID),
				logging.String("internal_name", asset.InternalName),
				logging.Error(err))
		}
	}
	return failures
}

func (a *Assembler) writeServerListing(assets []identity.AssetRecord) (string, error) {
	policy := identity.Policy{
		PrefixPriority:   a.cfg.Resolver.PrefixPriority,
		ExcludedSuffixes: a.cfg.Resolver.ExcludedSuffixes,
	}
	official := FilterOfficialMaps(a.cfg.Assemble.OfficialMaps, policy)

	content, err := buildServerListing(assets, official)
	if err != nil {
		return "", err
	}
	path := filepath.Join(a.cfg.Paths.OutputDir, serverListingFile)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write server listing: %w", err)
	}
	a.logger.Info("server listing written",
		logging.String("path", path),
		logging.Int("workshop_count", len(assets)),
		logging.Int("official_count", len(official)))
	return path, nil
}

// copyInstallerScripts places the install/uninstall entry points next to
// the package so the output tree is client-distributable as-is.
func (a *Assembler) copyInstallerScripts() (string, error) {
	destDir := a.cfg.Paths.OutputDir
	entries, err := fs.ReadDir(installerScripts, "scripts")
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		data, err := fs.ReadFile(installerScripts, "scripts/"+entry.Name())
		if err != nil {
			return "", err
		}
		mode := os.FileMode(0o644)
		if filepath.Ext(entry.Name()) == ".sh" {
			mode = 0o755
		}
		if err := os.WriteFile(filepath.Join(destDir, entry.Name()), data, mode); err != nil {
			return "", fmt.Errorf("copy installer script %s: %w", entry.Name(), err)
		}
	}
	return destDir, nil
}
