// Package installer registers a built package with a local game client and
// reverses that registration. The shared client config is patched around a
// marker line the engine guarantees, with a timestamped backup taken first
// so uninstall can restore the exact pre-install bytes.
package installer

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"mappack/internal/config"
	"mappack/internal/fileutil"
	"mappack/internal/logging"
	"mappack/internal/markerdoc"
)

// gameinfoMarker is the search-path line every client config carries. New
// reference lines are inserted immediately before it so the payload package
// shadows the stock content.
const gameinfoMarker = "\t\t\tGame\t\t\t\t|gameinfo_path|."

const backupTimeFormat = "20060102-150405"

// Options control a single install run.
type Options struct {
	// Force re-copies the payload even when the config already references
	// the package. The reference line is never duplicated.
	Force bool
	// SkipBackup suppresses the pre-patch config backup.
	SkipBackup bool
}

// InstallResult reports what an install run changed.
type InstallResult struct {
	ConfigPatched    bool
	AlreadyInstalled bool
	BackupPath       string
	PayloadPath      string
}

// UninstallResult reports what an uninstall run removed.
type UninstallResult struct {
	RestoredFromBackup bool
	LinesRemoved       int
	FilesRemoved       int
}

// Installer patches the client config and manages the payload directory.
type Installer struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates an installer for the configured game directory.
func New(cfg *config.Config, logger *slog.Logger) *Installer {
	return &Installer{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "installer"),
	}
}

func (i *Installer) configPath() string {
	return filepath.Join(i.cfg.Install.GameDir, i.cfg.Install.ConfigFile)
}

func (i *Installer) payloadDir() string {
	return filepath.Join(i.cfg.Install.GameDir, i.cfg.Install.PayloadDir)
}

// referenceLine is the exact config line registering a package file. Install
// detection is a byte-exact comparison against this line, so its shape must
// never drift between versions.
func (i *Installer) referenceLine(packageFileName string) string {
	return "\t\t\tGame\t\t\t\t" + i.cfg.Install.PayloadDir + "/" + packageFileName
}

// Install registers packagePath with the client: backup, patch, then copy.
// A config already referencing the package is a no-op unless forced, and a
// forced run only re-copies the payload. Any failure after the config was
// modified rolls the config back from the backup.
func (i *Installer) Install(packagePath string, opts Options) (InstallResult, error) {
	if _, err := os.Stat(packagePath); err != nil {
		return InstallResult{}, fmt.Errorf("package file: %w", err)
	}

	configPath := i.configPath()
	data, err := os.ReadFile(configPath)
	if err != nil {
		return InstallResult{}, fmt.Errorf("read client config: %w", err)
	}
	content := string(data)

	fileName := filepath.Base(packagePath)
	line := i.referenceLine(fileName)

	ending := markerdoc.LF
	if strings.Contains(content, "\r\n") {
		ending = markerdoc.CRLF
	}
	doc := markerdoc.Parse(content, ending)

	result := InstallResult{AlreadyInstalled: doc.Contains(line)}
	if result.AlreadyInstalled && !opts.Force {
		i.logger.Info("package already registered, nothing to do",
			logging.String("package", fileName))
		return result, nil
	}

	// Backups exist one-to-one with config mutations. A forced reinstall
	// of an already-registered package only re-copies the payload, so no
	// backup is taken: snapshotting the patched document here would make
	// a later restore resurrect the reference line.
	if !result.AlreadyInstalled {
		if !opts.SkipBackup {
			backupPath := i.newBackupPath(configPath)
			if err := fileutil.CopyFile(configPath, backupPath); err != nil {
				return result, fmt.Errorf("back up client config: %w", err)
			}
			result.BackupPath = backupPath
			i.logger.Info("client config backed up", logging.String("path", backupPath))
		}

		if err := doc.InsertBefore(markerdoc.Exact(gameinfoMarker), []string{line}); err != nil {
			return result, err
		}
		if err := fileutil.WriteFileAtomic(configPath, []byte(doc.Render()), 0o644); err != nil {
			return result, fmt.Errorf("write client config: %w", err)
		}
		result.ConfigPatched = true
		i.logger.Info("client config patched", logging.String("entry", fileName))
	}

	destDir := i.payloadDir()
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		i.rollback(&result, configPath)
		return result, fmt.Errorf("create payload directory: %w", err)
	}
	destPath := filepath.Join(destDir, fileName)
	if err := fileutil.CopyFile(packagePath, destPath); err != nil {
		i.rollback(&result, configPath)
		return result, fmt.Errorf("copy payload: %w", err)
	}
	result.PayloadPath = destPath
	i.logger.Info("payload installed", logging.String("path", destPath))

	return result, nil
}

// newBackupPath returns a backup path that does not exist yet. The
// timestamp has one-second granularity, so mutations within the same second
// get a numeric suffix instead of overwriting an earlier snapshot.
func (i *Installer) newBackupPath(configPath string) string {
	base := configPath + ".backup-" + time.Now().Format(backupTimeFormat)
	path := base
	for n := 2; ; n++ {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return path
		}
		path = fmt.Sprintf("%s.%d", base, n)
	}
}

// rollback restores the config from the run's backup after a partial
// install. Restore problems are logged, not returned: the caller's original
// error is the one that matters.
func (i *Installer) rollback(result *InstallResult, configPath string) {
	if !result.ConfigPatched || result.BackupPath == "" {
		return
	}
	if err := fileutil.CopyFile(result.BackupPath, configPath); err != nil {
		i.logger.Error("config rollback failed, backup retained",
			logging.String("backup", result.BackupPath),
			logging.Error(err))
		return
	}
	result.ConfigPatched = false
	i.logger.Warn("install failed, client config rolled back",
		logging.String("backup", result.BackupPath))
}

// Uninstall reverses an install. The config is restored from the newest
// backup when one exists, otherwise the reference lines are stripped from
// the live document. Payload files matching the package naming convention
// are deleted either way.
func (i *Installer) Uninstall() (UninstallResult, error) {
	var result UninstallResult
	var errs []error

	configPath := i.configPath()
	backupPath, err := i.latestBackup(configPath)
	if err != nil {
		errs = append(errs, err)
	}

	switch {
	case backupPath != "":
		if err := fileutil.CopyFile(backupPath, configPath); err != nil {
			errs = append(errs, fmt.Errorf("restore config from backup: %w", err))
		} else {
			result.RestoredFromBackup = true
			i.logger.Info("client config restored from backup",
				logging.String("backup", backupPath))
		}
	default:
		removed, err := i.stripReferenceLines(configPath)
		if err != nil {
			errs = append(errs, err)
		}
		result.LinesRemoved = removed
	}

	removed, err := i.removePayloadFiles()
	result.FilesRemoved = removed
	if err != nil {
		errs = append(errs, err)
	}

	return result, errors.Join(errs...)
}

// latestBackup returns the newest backup for configPath by modification
// time, or empty when none exist.
func (i *Installer) latestBackup(configPath string) (string, error) {
	matches, err := filepath.Glob(configPath + ".backup-*")
	if err != nil {
		return "", fmt.Errorf("scan backups: %w", err)
	}
	sort.Strings(matches)

	newest := ""
	var newestTime time.Time
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = path
			newestTime = info.ModTime()
		}
	}
	return newest, nil
}

// stripReferenceLines removes every reference line this tool's naming
// convention could have produced. Removal is idempotent: a config with no
// matching lines is left untouched.
func (i *Installer) stripReferenceLines(configPath string) (int, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return 0, fmt.Errorf("read client config: %w", err)
	}
	content := string(data)

	ending := markerdoc.LF
	if strings.Contains(content, "\r\n") {
		ending = markerdoc.CRLF
	}
	doc := markerdoc.Parse(content, ending)

	removed := doc.RemoveMatching(i.referencePattern())
	if len(removed) == 0 {
		return 0, nil
	}
	if err := fileutil.WriteFileAtomic(configPath, []byte(doc.Render()), 0o644); err != nil {
		return 0, fmt.Errorf("write client config: %w", err)
	}
	for _, line := range removed {
		i.logger.Info("reference line removed", logging.String("line", strings.TrimSpace(line)))
	}
	return len(removed), nil
}

// referencePattern matches any reference line for the configured payload
// directory and package naming convention, regardless of external ID.
func (i *Installer) referencePattern() *regexp.Regexp {
	target := regexp.QuoteMeta(i.cfg.Install.PayloadDir+"/"+i.cfg.Package.NamePrefix+"_") +
		`\S*` + regexp.QuoteMeta("."+i.cfg.Package.Extension)
	return regexp.MustCompile(`^\s*Game\s+` + target + `\s*$`)
}

// removePayloadFiles deletes every installed package file matching the
// naming convention. Other files in the payload directory are left alone.
func (i *Installer) removePayloadFiles() (int, error) {
	pattern := filepath.Join(i.payloadDir(), i.cfg.Package.NamePrefix+"_*."+i.cfg.Package.Extension)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return 0, fmt.Errorf("scan payload directory: %w", err)
	}

	removed := 0
	var errs []error
	for _, path := range matches {
		if err := os.Remove(path); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", filepath.Base(path), err))
			continue
		}
		removed++
		i.logger.Info("payload file removed", logging.String("path", path))
	}
	return removed, errors.Join(errs...)
}
