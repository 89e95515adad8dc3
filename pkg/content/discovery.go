package content

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/ekut/claude-code-php-toolkit/pkg/frontmatter"
	"github.com/ekut/claude-code-php-toolkit/pkg/logger"
)

// SkillFileName is the fixed, case-sensitive entry-point filename a skill
// directory must contain.
const SkillFileName = "SKILL.md"

// ErrRootNotFound indicates the discovery root is missing or not a directory.
var ErrRootNotFound = errors.New("discovery root not found")

// kindDirs maps recognized top-level directory names to the kind of the
// files they contain. Skills are handled separately because of the
// entry-point rule.
var kindDirs = map[string]Kind{
	"agents":   KindAgent,
	"commands": KindCommand,
	"rules":    KindRule,
	"hooks":    KindHook,
	"examples": KindExample,
}

const skillsDir = "skills"

// Discover walks rootDir in a single pass and classifies files into typed
// collections. Files outside the recognized top-level directories are
// ignored. Symlinks are not followed. Per-file parse failures are recorded
// in the result and do not abort the pass.
func Discover(ctx context.Context, rootDir string) (*Result, error) {
	log := logger.G(ctx)

	info, err := os.Stat(rootDir)
	if err != nil || !info.IsDir() {
		return nil, errors.Wrapf(ErrRootNotFound, "%s", rootDir)
	}

	result := &Result{Items: make(map[Kind][]Item)}

	entries, err := os.ReadDir(rootDir)
	if err != nil {
		return nil, errors.Wrapf(ErrRootNotFound, "%s: %v", rootDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		name := entry.Name()
		if name == skillsDir {
			discoverSkills(ctx, rootDir, result)
			continue
		}

		kind, ok := kindDirs[name]
		if !ok {
			log.WithField("dir", name).Debug("skipping unrecognized directory")
			continue
		}

		discoverFiles(ctx, rootDir, name, kind, result)
	}

	return result, nil
}

// discoverFiles collects every regular file under rootDir/topDir as an item
// of the given kind.
func discoverFiles(ctx context.Context, rootDir, topDir string, kind Kind, result *Result) {
	log := logger.G(ctx)
	base := filepath.Join(rootDir, topDir)

	_ = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.WithError(err).WithField("path", path).Debug("skipping unreadable entry")
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(rootDir, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		fm, ferr := parseFileFrontmatter(path)
		if ferr != nil {
			log.WithError(ferr).WithField("path", relPath).Debug("failed to parse frontmatter")
			result.Failures = append(result.Failures, FileError{Path: relPath, Err: ferr})
			return nil
		}

		result.Items[kind] = append(result.Items[kind], Item{
			Path:        relPath,
			Kind:        kind,
			Frontmatter: fm,
		})
		return nil
	})
}

// discoverSkills applies the entry-point rule: only skills/<name>/SKILL.md
// becomes an item; other files in the same skill directory are attached as
// supplementary content and never become items themselves.
func discoverSkills(ctx context.Context, rootDir string, result *Result) {
	log := logger.G(ctx)
	base := filepath.Join(rootDir, skillsDir)

	entries, err := os.ReadDir(base)
	if err != nil {
		log.WithError(err).WithField("dir", base).Debug("failed to read skills directory")
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		skillDir := filepath.Join(base, entry.Name())
		// Exact-name match: comparing directory entries keeps the check
		// case-sensitive even on case-insensitive filesystems.
		if !hasEntryPoint(skillDir) {
			continue
		}
		entryPoint := filepath.Join(skillDir, SkillFileName)

		relPath := filepath.ToSlash(filepath.Join(skillsDir, entry.Name(), SkillFileName))

		fm, ferr := parseFileFrontmatter(entryPoint)
		if ferr != nil {
			log.WithError(ferr).WithField("path", relPath).Debug("failed to parse skill frontmatter")
			result.Failures = append(result.Failures, FileError{Path: relPath, Err: ferr})
			continue
		}

		item := Item{
			Path:        relPath,
			Kind:        KindSkill,
			Frontmatter: fm,
		}

		// Attach everything else in the skill directory as supplementary.
		_ = filepath.WalkDir(skillDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			if path == entryPoint {
				return nil
			}
			rel, err := filepath.Rel(rootDir, path)
			if err != nil {
				return nil
			}
			item.Supplementary = append(item.Supplementary, filepath.ToSlash(rel))
			return nil
		})

		result.Items[KindSkill] = append(result.Items[KindSkill], item)
	}
}

func hasEntryPoint(skillDir string) bool {
	entries, err := os.ReadDir(skillDir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.Name() == SkillFileName && e.Type().IsRegular() {
			return true
		}
	}
	return false
}

func parseFileFrontmatter(path string) (frontmatter.Frontmatter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}
	return frontmatter.Parse(string(data))
}
