package presenter

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func newTestPresenter() (*TerminalPresenter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewWithOptions(&out, &errOut, ColorNever), &out, &errOut
}

func TestInfo(t *testing.T) {
	p, out, _ := newTestPresenter()
	p.Info("installing rules")
	assert.Equal(t, "installing rules\n", out.String())
}

func TestSuccessAndWarning(t *testing.T) {
	p, out, _ := newTestPresenter()
	p.Success("done")
	p.Warning("existing files will be overwritten")
	assert.Contains(t, out.String(), "✓ done")
	assert.Contains(t, out.String(), "⚠ existing files will be overwritten")
}

func TestErrorGoesToStderr(t *testing.T) {
	p, out, errOut := newTestPresenter()
	p.Error(errors.New("boom"), "install failed")
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "[ERROR] install failed: boom")
}

func TestErrorNilIsNoop(t *testing.T) {
	p, _, errOut := newTestPresenter()
	p.Error(nil, "context")
	assert.Empty(t, errOut.String())
}

func TestQuietSuppressesOutput(t *testing.T) {
	p, out, errOut := newTestPresenter()
	p.SetQuiet(true)
	assert.True(t, p.IsQuiet())

	p.Info("hidden")
	p.Success("hidden")
	p.Warning("hidden")
	p.Section("hidden")
	p.Separator()
	assert.Empty(t, out.String())

	// Errors are never suppressed
	p.Error(errors.New("boom"), "")
	assert.Contains(t, errOut.String(), "boom")
}

func TestSection(t *testing.T) {
	p, out, _ := newTestPresenter()
	p.Section("Installed files")
	assert.Contains(t, out.String(), "Installed files\n---------------\n")
}
