package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// semverShape matches MAJOR.MINOR.PATCH with optional pre-release and build
// metadata, per the semver.org grammar.
var semverShape = regexp.MustCompile(
	`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)` +
		`(?:-((?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?` +
		`(?:\+([0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`)

// listFields are the manifest fields that must be arrays when present.
var listFields = []string{"agents", "commands", "skills", "hooks"}

// Validate checks doc against the manifest rules, resolving declared paths
// relative to rootDir. Violations are collected per category; a field that
// fails its shape check is excluded from the path checks that follow. The
// validator never mutates the filesystem.
func Validate(doc Document, rootDir string) ValidationResult {
	var errs []ValidationError

	errs = append(errs, checkVersion(doc)...)

	shaped := make(map[string][]string)
	for _, field := range listFields {
		entries, ok, verr := checkListShape(doc, field)
		if verr != nil {
			errs = append(errs, *verr)
			continue
		}
		if ok {
			shaped[field] = entries
		}
	}

	if agents, ok := shaped["agents"]; ok {
		errs = append(errs, checkAgentPaths(agents, rootDir)...)
	}
	for _, field := range []string{"skills", "commands"} {
		if entries, ok := shaped[field]; ok {
			errs = append(errs, checkPathsExist(field, entries, rootDir)...)
		}
	}
	if hooks, ok := shaped["hooks"]; ok {
		errs = append(errs, checkReservedHooks(hooks)...)
	}

	return ValidationResult{OK: len(errs) == 0, Errors: errs}
}

// checkVersion requires a semver-shaped version field. A missing field is
// exactly one MissingRequiredField error, never more.
func checkVersion(doc Document) []ValidationError {
	raw, present := doc["version"]
	if !present {
		return []ValidationError{{Kind: MissingRequiredField, Field: "version"}}
	}

	s, ok := raw.(string)
	if !ok || !semverShape.MatchString(s) {
		return []ValidationError{{Kind: InvalidFieldShape, Field: "version", Value: stringify(raw)}}
	}

	return nil
}

// checkListShape verifies that a field, when present, is an array of strings.
// ok is true only when the field is present and well shaped.
func checkListShape(doc Document, field string) (entries []string, ok bool, verr *ValidationError) {
	raw, present := doc[field]
	if !present {
		return nil, false, nil
	}

	list, isList := raw.([]any)
	if !isList {
		return nil, false, &ValidationError{Kind: InvalidFieldShape, Field: field, Value: stringify(raw)}
	}

	for _, el := range list {
		s, isStr := el.(string)
		if !isStr {
			return nil, false, &ValidationError{Kind: InvalidFieldShape, Field: field, Value: stringify(el)}
		}
		entries = append(entries, s)
	}

	return entries, true, nil
}

// checkAgentPaths requires every agents entry to resolve to a regular file.
// Directory references are a validation error, not a silent skip.
func checkAgentPaths(entries []string, rootDir string) []ValidationError {
	var errs []ValidationError
	for _, entry := range entries {
		if strings.HasSuffix(entry, "/") || filepath.Ext(entry) == "" {
			errs = append(errs, ValidationError{Kind: AgentPathMustBeFile, Field: "agents", Value: entry})
			continue
		}
		info, err := os.Stat(filepath.Join(rootDir, filepath.FromSlash(cleanEntry(entry))))
		if err != nil || !info.Mode().IsRegular() {
			errs = append(errs, ValidationError{Kind: AgentPathMustBeFile, Field: "agents", Value: entry})
		}
	}
	return errs
}

// checkPathsExist accepts file or directory paths; the only requirement is
// existence.
func checkPathsExist(field string, entries []string, rootDir string) []ValidationError {
	var errs []ValidationError
	for _, entry := range entries {
		if _, err := os.Stat(filepath.Join(rootDir, filepath.FromSlash(cleanEntry(entry)))); err != nil {
			errs = append(errs, ValidationError{Kind: InvalidFieldShape, Field: field, Value: entry})
		}
	}
	return errs
}

// checkReservedHooks rejects explicit declarations of the auto-loaded path.
func checkReservedHooks(entries []string) []ValidationError {
	var errs []ValidationError
	for _, entry := range entries {
		if cleanEntry(entry) == ReservedHookPath {
			errs = append(errs, ValidationError{Kind: DuplicateHookDeclaration, Field: "hooks", Value: entry})
		}
	}
	return errs
}

// cleanEntry normalizes a declared path so "./hooks/hooks.json" and
// "hooks/hooks.json" compare equal.
func cleanEntry(entry string) string {
	trimmed := strings.TrimSuffix(entry, "/")
	return filepath.ToSlash(filepath.Clean(trimmed))
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
