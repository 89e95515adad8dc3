// Package installer copies the toolkit's rule directories into a user's
// configuration directory. The operation is destructive by design: existing
// files are reported as conflicts and then overwritten. It is idempotent and
// safe to re-run after a partial failure.
package installer

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/ekut/claude-code-php-toolkit/pkg/logger"
)

const (
	// EnvDestinationRoot overrides the destination directory when set.
	EnvDestinationRoot = "PHPKIT_RULES_DIR"

	rulesDir = "rules"
)

// ErrInstallCopyFailed indicates a mid-copy I/O failure. Directories copied
// before the failure are left in place; re-running the install is the
// recovery path.
var ErrInstallCopyFailed = errors.New("install copy failed")

// sourceSets are the fixed content directories the installer copies, in
// order. Each set must complete in full before the next is attempted.
var sourceSets = []struct {
	src  string // relative to sourceRoot
	dest string // relative to destinationRoot
}{
	{src: filepath.Join(rulesDir, "common"), dest: "common"},
	{src: filepath.Join(rulesDir, "php"), dest: "php"},
}

// Installer copies rule files from a source checkout into the destination
// root.
type Installer struct {
	sourceRoot string
	destRoot   string
}

// Option configures an Installer instance
type Option func(*Installer) error

// WithSourceRoot sets the directory containing the rules/ tree, bypassing
// executable self-location.
func WithSourceRoot(dir string) Option {
	return func(i *Installer) error {
		i.sourceRoot = dir
		return nil
	}
}

// WithDestinationRoot sets the destination directory, bypassing the
// environment override and the per-user default.
func WithDestinationRoot(dir string) Option {
	return func(i *Installer) error {
		i.destRoot = dir
		return nil
	}
}

// NewInstaller creates an installer. Without options, the source root is the
// directory containing the running executable (resolved through symlinks) and
// the destination root is PHPKIT_RULES_DIR or ~/.claude/rules.
func NewInstaller(opts ...Option) (*Installer, error) {
	i := &Installer{}

	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}

	if i.sourceRoot == "" {
		resolved, err := ResolveInvocationPath(os.Args[0])
		if err != nil {
			return nil, err
		}
		i.sourceRoot = filepath.Dir(resolved)
	}

	if i.destRoot == "" {
		if env := os.Getenv(EnvDestinationRoot); env != "" {
			i.destRoot = env
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, errors.Wrap(err, "failed to get user home directory")
			}
			i.destRoot = filepath.Join(homeDir, ".claude", rulesDir)
		}
	}

	return i, nil
}

// InstallPlan is the installer's unit of work, computed immediately before
// any filesystem mutation.
type InstallPlan struct {
	// DestinationRoot is the directory files will be copied into.
	DestinationRoot string
	// Conflicts lists destination-relative paths that already exist.
	// Conflicts are reported, not blocking: overwrite is the intended
	// behavior.
	Conflicts []string
}

// Plan lists the existing destination entries that the install would
// overwrite. It never mutates the filesystem.
func (i *Installer) Plan() *InstallPlan {
	plan := &InstallPlan{DestinationRoot: i.destRoot}
	for _, set := range sourceSets {
		plan.Conflicts = append(plan.Conflicts, listExisting(filepath.Join(i.destRoot, set.dest), set.dest)...)
	}
	return plan
}

// InstallReport describes one completed install run.
type InstallReport struct {
	// DestinationRoot is the directory the files were copied into.
	DestinationRoot string
	// FilesCopied lists destination-relative paths in copy order.
	FilesCopied []string
	// Conflicts lists destination-relative paths that existed before the
	// copy began. Conflicts do not block the install.
	Conflicts []string
}

// SortedFiles returns FilesCopied sorted alphabetically for display.
func (r *InstallReport) SortedFiles() []string {
	sorted := append([]string(nil), r.FilesCopied...)
	sort.Strings(sorted)
	return sorted
}

// Install computes conflicts, then copies each source set into the
// destination. The first failing file copy aborts with ErrInstallCopyFailed
// naming that path; there is no rollback.
func (i *Installer) Install(ctx context.Context) (*InstallReport, error) {
	log := logger.G(ctx)

	plan := i.Plan()
	report := &InstallReport{DestinationRoot: i.destRoot, Conflicts: plan.Conflicts}

	for _, set := range sourceSets {
		srcDir := filepath.Join(i.sourceRoot, set.src)
		destDir := filepath.Join(i.destRoot, set.dest)

		copied, err := copyTree(srcDir, destDir, set.dest)
		report.FilesCopied = append(report.FilesCopied, copied...)
		if err != nil {
			return nil, err
		}

		log.WithField("dir", set.dest).WithField("files", len(copied)).Debug("copied source set")
	}

	return report, nil
}

// listExisting returns destination-relative paths of files already present
// under dir. A missing directory means no conflicts.
func listExisting(dir, relBase string) []string {
	var existing []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		existing = append(existing, filepath.ToSlash(filepath.Join(relBase, rel)))
		return nil
	})
	return existing
}

// copyTree copies every regular file under srcDir into destDir, creating
// directories as needed. It returns the destination-relative paths copied so
// far, even when a copy fails partway.
func copyTree(srcDir, destDir, relBase string) ([]string, error) {
	var copied []string

	err := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return errors.Wrapf(ErrInstallCopyFailed, "%s: %v", path, err)
		}

		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return errors.Wrapf(ErrInstallCopyFailed, "%s: %v", path, err)
		}

		destPath := filepath.Join(destDir, relPath)

		if info.IsDir() {
			if err := os.MkdirAll(destPath, 0o755); err != nil {
				return errors.Wrapf(ErrInstallCopyFailed, "%s: %v", destPath, err)
			}
			return nil
		}

		if err := copyFile(path, destPath, info.Mode()); err != nil {
			return errors.Wrapf(ErrInstallCopyFailed, "%s: %v", destPath, err)
		}

		copied = append(copied, filepath.ToSlash(filepath.Join(relBase, relPath)))
		return nil
	})

	return copied, err
}

func copyFile(src, dst string, mode os.FileMode) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, srcFile)
	return err
}
