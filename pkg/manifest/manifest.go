// Package manifest loads and validates the plugin manifest that declares
// which content files a host runtime should load.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

const (
	// DefaultPath is the manifest's fixed location relative to the plugin
	// root.
	DefaultPath = ".claude-plugin/plugin.json"

	// ReservedHookPath is auto-loaded by the host by convention and must
	// never be declared explicitly in the hooks field.
	ReservedHookPath = "hooks/hooks.json"
)

// ErrMalformedManifest indicates the manifest file could not be read or
// decoded. It short-circuits validation entirely.
var ErrMalformedManifest = errors.New("malformed manifest")

// Document is a loosely-typed manifest as decoded from JSON. Field shapes
// are checked by Validate, not at decode time.
type Document map[string]any

// Load reads and decodes the manifest at path. Any I/O or decode failure is
// reported as a single ErrMalformedManifest.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedManifest, "reading %s: %v", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(ErrMalformedManifest, "decoding %s: %v", path, err)
	}

	return doc, nil
}

// ErrorKind identifies a class of manifest defect.
type ErrorKind string

// Validation error kinds
const (
	MissingRequiredField     ErrorKind = "MissingRequiredField"
	InvalidFieldShape        ErrorKind = "InvalidFieldShape"
	AgentPathMustBeFile      ErrorKind = "AgentPathMustBeFile"
	DuplicateHookDeclaration ErrorKind = "DuplicateHookDeclaration"
)

// ValidationError is one manifest defect. Defects are collected, not thrown:
// the validator returns all of them together so a caller can fix the manifest
// in one pass.
type ValidationError struct {
	Kind  ErrorKind
	Field string
	Value string
}

func (e ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: field %q, value %q", e.Kind, e.Field, e.Value)
	}
	return fmt.Sprintf("%s: field %q", e.Kind, e.Field)
}

// ValidationResult is the outcome of validating one manifest document.
type ValidationResult struct {
	OK     bool
	Errors []ValidationError
}
