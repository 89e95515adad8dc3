package installer

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// maxSymlinkResolutions caps the resolution chain, matching the usual OS
// ELOOP limit.
const maxSymlinkResolutions = 40

// ErrSymlinkResolution indicates the invocation path could not be resolved
// to a regular file: a link cycle, a dangling link, or a chain longer than
// the resolution cap.
var ErrSymlinkResolution = errors.New("symlink resolution failed")

// ResolveInvocationPath follows path through any chain of symbolic links and
// returns the absolute path of the final target. Relative link targets are
// resolved against the directory of the link that declared them, the way a
// shell resolves them.
func ResolveInvocationPath(path string) (string, error) {
	current, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(ErrSymlinkResolution, "%s: %v", path, err)
	}

	visited := make(map[string]bool)
	for i := 0; i < maxSymlinkResolutions; i++ {
		if visited[current] {
			return "", errors.Wrapf(ErrSymlinkResolution, "cycle at %s", current)
		}
		visited[current] = true

		info, err := os.Lstat(current)
		if err != nil {
			return "", errors.Wrapf(ErrSymlinkResolution, "%s: %v", current, err)
		}

		if info.Mode()&os.ModeSymlink == 0 {
			return filepath.Clean(current), nil
		}

		target, err := os.Readlink(current)
		if err != nil {
			return "", errors.Wrapf(ErrSymlinkResolution, "%s: %v", current, err)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(current), target)
		}
		current = target
	}

	return "", errors.Wrapf(ErrSymlinkResolution, "more than %d resolutions from %s", maxSymlinkResolutions, path)
}
