// Package content discovers toolkit content files (agents, skills, commands,
// rules, hooks, examples) from a directory tree and classifies them by the
// top-level directory that contains them.
package content

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/ekut/claude-code-php-toolkit/pkg/frontmatter"
)

// Kind is the category a discovered file belongs to, derived from its
// containing top-level directory.
type Kind string

// Content kinds
const (
	KindAgent   Kind = "agent"
	KindSkill   Kind = "skill"
	KindCommand Kind = "command"
	KindRule    Kind = "rule"
	KindHook    Kind = "hook"
	KindExample Kind = "example"
)

// Kinds lists all content kinds in display order.
var Kinds = []Kind{KindAgent, KindSkill, KindCommand, KindRule, KindHook, KindExample}

// Item is one discovered content file. Kind is assigned at discovery time and
// never changes.
type Item struct {
	// Path is the file's location relative to the discovery root, slash
	// separated.
	Path string
	// Kind is the item's category.
	Kind Kind
	// Frontmatter holds the file's parsed metadata header; empty when the
	// file has none.
	Frontmatter frontmatter.Frontmatter
	// Supplementary lists sibling files attached to a skill's entry point.
	// Only populated for KindSkill.
	Supplementary []string
}

// Name returns the item's frontmatter name, falling back to its path.
func (i Item) Name() string {
	if name := i.Frontmatter.GetString("name"); name != "" {
		return name
	}
	return i.Path
}

// FileError records a per-file discovery failure. Discovery is best-effort:
// a file that fails to parse is reported here and skipped, never aborting the
// pass.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap exposes the underlying parse error for errors.Is checks.
func (e FileError) Unwrap() error {
	return e.Err
}

// Result holds the outcome of one discovery pass.
type Result struct {
	// Items maps each kind to its discovered items in traversal order.
	// Callers that need determinism beyond per-directory lexical order must
	// sort explicitly.
	Items map[Kind][]Item
	// Failures lists files that could not be parsed.
	Failures []FileError
}

// Err aggregates all per-file failures into a single error, or nil if every
// file parsed cleanly.
func (r *Result) Err() error {
	var merr *multierror.Error
	for _, f := range r.Failures {
		merr = multierror.Append(merr, f)
	}
	return merr.ErrorOrNil()
}

// Total returns the number of discovered items across all kinds.
func (r *Result) Total() int {
	n := 0
	for _, items := range r.Items {
		n += len(items)
	}
	return n
}
