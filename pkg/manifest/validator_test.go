package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pluginRoot builds a minimal on-disk plugin tree for path resolution.
func pluginRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "agents"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "skills", "psr"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "commands"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "agents", "x.md"), []byte("agent"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "commands", "refactor.md"), []byte("cmd"), 0o644))
	return root
}

func errorKinds(result ValidationResult) []ErrorKind {
	kinds := make([]ErrorKind, 0, len(result.Errors))
	for _, e := range result.Errors {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func TestValidateOK(t *testing.T) {
	root := pluginRoot(t)
	doc := Document{
		"version":  "1.2.3",
		"agents":   []any{"./agents/x.md"},
		"skills":   []any{"./skills/psr"},
		"commands": []any{"commands/refactor.md"},
	}

	result := Validate(doc, root)
	assert.True(t, result.OK)
	assert.Empty(t, result.Errors)
}

func TestValidateMissingVersion(t *testing.T) {
	root := pluginRoot(t)
	result := Validate(Document{"agents": []any{"agents/x.md"}}, root)

	assert.False(t, result.OK)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, MissingRequiredField, result.Errors[0].Kind)
	assert.Equal(t, "version", result.Errors[0].Field)
}

func TestValidateVersionShapes(t *testing.T) {
	root := pluginRoot(t)

	valid := []string{"0.1.0", "1.0.0", "2.10.3", "1.0.0-alpha.1", "1.0.0+build.5", "1.0.0-rc.1+build"}
	for _, v := range valid {
		result := Validate(Document{"version": v}, root)
		assert.True(t, result.OK, "expected %q to validate", v)
	}

	invalid := []any{"1.0", "v1.0.0", "1.0.0.0", "01.0.0", "", 100, true}
	for _, v := range invalid {
		result := Validate(Document{"version": v}, root)
		require.False(t, result.OK, "expected %v to fail", v)
		assert.Equal(t, InvalidFieldShape, result.Errors[0].Kind)
		assert.Equal(t, "version", result.Errors[0].Field)
	}
}

func TestValidateBareStringField(t *testing.T) {
	root := pluginRoot(t)
	doc := Document{
		"version": "1.0.0",
		"agents":  []any{"./agents/x.md"},
		"skills":  "./skills/",
	}

	result := Validate(doc, root)
	assert.False(t, result.OK)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, InvalidFieldShape, result.Errors[0].Kind)
	assert.Equal(t, "skills", result.Errors[0].Field)
}

func TestValidateAgentDirectoryPath(t *testing.T) {
	root := pluginRoot(t)
	doc := Document{
		"version": "1.0.0",
		"agents":  []any{"agents/"},
	}

	result := Validate(doc, root)
	assert.False(t, result.OK)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, AgentPathMustBeFile, result.Errors[0].Kind)
	assert.Equal(t, "agents/", result.Errors[0].Value)
}

func TestValidateAgentPathVariants(t *testing.T) {
	root := pluginRoot(t)

	tests := []struct {
		name  string
		entry string
		ok    bool
	}{
		{"existing file", "agents/x.md", true},
		{"dot-slash prefix", "./agents/x.md", true},
		{"trailing separator", "agents/x.md/", false},
		{"no extension", "agents/x", false},
		{"missing file", "agents/nope.md", false},
		{"resolves to directory", "skills/psr", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(Document{"version": "1.0.0", "agents": []any{tt.entry}}, root)
			if tt.ok {
				assert.True(t, result.OK)
			} else {
				require.False(t, result.OK)
				assert.Equal(t, AgentPathMustBeFile, result.Errors[0].Kind)
				assert.Equal(t, tt.entry, result.Errors[0].Value)
			}
		})
	}
}

func TestValidateCollectsAllAgentViolations(t *testing.T) {
	root := pluginRoot(t)
	doc := Document{
		"version": "1.0.0",
		"agents":  []any{"agents/x.md", "agents/missing.md", "agents/"},
	}

	result := Validate(doc, root)
	assert.False(t, result.OK)
	assert.Equal(t, []ErrorKind{AgentPathMustBeFile, AgentPathMustBeFile}, errorKinds(result))
}

func TestValidateReservedHookPath(t *testing.T) {
	root := pluginRoot(t)

	for _, entry := range []string{"hooks/hooks.json", "./hooks/hooks.json"} {
		doc := Document{
			"version": "1.0.0",
			"hooks":   []any{entry},
		}
		result := Validate(doc, root)
		require.False(t, result.OK, "entry %q", entry)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, DuplicateHookDeclaration, result.Errors[0].Kind)
	}
}

func TestValidateReservedHookIndependentOfOtherDefects(t *testing.T) {
	root := pluginRoot(t)
	doc := Document{
		"agents": "not-a-list",
		"hooks":  []any{"hooks/hooks.json"},
	}

	result := Validate(doc, root)
	assert.False(t, result.OK)
	assert.Contains(t, errorKinds(result), DuplicateHookDeclaration)
	assert.Contains(t, errorKinds(result), MissingRequiredField)
	assert.Contains(t, errorKinds(result), InvalidFieldShape)
}

func TestValidateSkillsAndCommandsAcceptFilesAndDirs(t *testing.T) {
	root := pluginRoot(t)
	doc := Document{
		"version":  "1.0.0",
		"skills":   []any{"skills/psr"},
		"commands": []any{"commands/refactor.md"},
	}

	result := Validate(doc, root)
	assert.True(t, result.OK)
}

func TestValidateSkillsPathMustExist(t *testing.T) {
	root := pluginRoot(t)
	doc := Document{
		"version": "1.0.0",
		"skills":  []any{"skills/missing"},
	}

	result := Validate(doc, root)
	require.False(t, result.OK)
	assert.Equal(t, InvalidFieldShape, result.Errors[0].Kind)
	assert.Equal(t, "skills", result.Errors[0].Field)
}

func TestValidateNonStringListEntry(t *testing.T) {
	root := pluginRoot(t)
	doc := Document{
		"version": "1.0.0",
		"agents":  []any{"agents/x.md", 42},
	}

	result := Validate(doc, root)
	require.False(t, result.OK)
	assert.Equal(t, InvalidFieldShape, result.Errors[0].Kind)
	assert.Equal(t, "agents", result.Errors[0].Field)
}

func TestValidateNeverTouchesFilesystem(t *testing.T) {
	root := pluginRoot(t)
	before, err := os.ReadDir(root)
	require.NoError(t, err)

	Validate(Document{"version": "1.0.0", "agents": []any{"agents/x.md"}}, root)

	after, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
}
