package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafritemema/MARS-data-build/internal/compiler"
)

func TestValidateValidDocuments(t *testing.T) {
	dir := t.TempDir()
	writeDocument(t, dir, "cell.yaml", drillAndLoadYAML)
	writeDocument(t, dir, "utuf.json", utufJSON)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ All actions valid (3 checked)")
}

func TestValidateValidDocumentsJSON(t *testing.T) {
	doc := writeDocument(t, t.TempDir(), "cell.yaml", drillAndLoadYAML)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{doc})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, 2, resp.Data.Actions)
}

func TestValidateUnknownEffector(t *testing.T) {
	doc := writeDocument(t, t.TempDir(), "utuf.yaml", unknownEffectorYAML)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{doc})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, buf.String(), "✗ Validation failed")
	assert.Contains(t, buf.String(), compiler.ErrUnknownUserTool)
	assert.Contains(t, buf.String(), "utuf.yaml[0] definition.user_tool")
}

func TestValidateCollectsAllErrorsJSON(t *testing.T) {
	dir := t.TempDir()
	writeDocument(t, dir, "a_utuf.yaml", unknownEffectorYAML)
	writeDocument(t, dir, "b_drill.yaml", negativeSpeedYAML)
	writeDocument(t, dir, "c_cell.yaml", drillAndLoadYAML)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
		Error  *CLIError        `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	assert.Equal(t, 3, resp.Data.Actions, "actions of the documents that loaded are still checked")

	codes := map[string]bool{}
	for _, issue := range resp.Data.Errors {
		codes[issue.Code] = true
	}
	assert.True(t, codes[ErrCodeSchema], "schema violation reported")
	assert.True(t, codes[compiler.ErrUnknownUserTool], "unknown effector reported")
}

func TestValidateNonExistentPath(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/directory/path"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005")
}

func TestValidateVerboseOutput(t *testing.T) {
	doc := writeDocument(t, t.TempDir(), "cell.yaml", drillAndLoadYAML)

	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text", Verbose: true}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{doc})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, errBuf.String(), "Validating")
	assert.Contains(t, errBuf.String(), "WORK.DRILL")
	assert.NotContains(t, buf.String(), "Validating")
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"load_error", &LoadError{Code: ErrCodeNoFiles, Message: "empty"}, ErrCodeNoFiles},
		{"plain", assert.AnError, ErrCodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}
