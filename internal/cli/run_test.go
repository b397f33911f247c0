package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/animator/internal/testutil"
)

// runFile calls runScenarioFile directly so tests can inject an ID generator.
func runFile(t *testing.T, opts *RunOptions, path string) (string, error) {
	t.Helper()
	cmd := &cobra.Command{}
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(io.Discard)
	err := runScenarioFile(opts, path, cmd)
	return buf.String(), err
}

func TestRunCommand_Text(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "draw_once.yaml", passingScenario)

	out, _, err := execute(NewRunCommand(&RootOptions{Format: "text"}), path)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ draw_once (1 frames, 1 schedules)")
	assert.Contains(t, out, passingTrace)
	assert.NotContains(t, out, "Recorded run")
}

func TestRunCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "draw_once.yaml", passingScenario)

	out, _, err := execute(NewRunCommand(&RootOptions{Format: "json"}), path)
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Name      string              `json:"name"`
			Pass      bool                `json:"pass"`
			Frames    int64               `json:"frames"`
			Schedules int                 `json:"schedules"`
			Armed     bool                `json:"armed"`
			Pending   map[string][]string `json:"pending"`
		} `json:"data"`
		RunID string `json:"run_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "draw_once", resp.Data.Name)
	assert.True(t, resp.Data.Pass)
	assert.Equal(t, int64(1), resp.Data.Frames)
	assert.Equal(t, 1, resp.Data.Schedules)
	assert.False(t, resp.Data.Armed)
	assert.Equal(t, []string{}, resp.Data.Pending["box"])
	assert.Empty(t, resp.RunID)
}

func TestRunCommand_FailingScenario(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "draw_twice.yaml", failingScenario)

	out, _, err := execute(NewRunCommand(&RootOptions{Format: "text"}), path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ draw_twice")
	assert.Contains(t, out, "box.draw dispatched 2 times")
}

func TestRunCommand_RecordsRun(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "draw_once.yaml", passingScenario)
	db := filepath.Join(dir, "runs.db")

	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "text"},
		Database:    db,
		IDGenerator: testutil.NewFixedIDGenerator("run"),
	}
	out, err := runFile(t, opts, path)
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded run run-0001")

	traceOut, _, err := execute(NewTraceCommand(&RootOptions{Format: "text"}), "--db", db, "--run", "run-0001")
	require.NoError(t, err)
	assert.Contains(t, traceOut, "Run run-0001: draw_once passed (1 frames, 1 schedules)")
	assert.Contains(t, traceOut, passingTrace)
}

func TestRunCommand_RecordsRunJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "draw_once.yaml", passingScenario)

	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "json"},
		Database:    filepath.Join(dir, "runs.db"),
		IDGenerator: testutil.NewFixedIDGenerator("json"),
	}
	out, err := runFile(t, opts, path)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "json-0001", resp.RunID)
}

func TestRunCommand_MissingFile(t *testing.T) {
	out, _, err := execute(NewRunCommand(&RootOptions{Format: "text"}), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")
}

func TestRunCommand_InvalidScenario(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, "bad.yaml", "name: bad\nbogus: true\n")

	out, _, err := execute(NewRunCommand(&RootOptions{Format: "json"}), path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeLoadFailed, resp.Error.Code)
}

func TestRunCommand_RequiresOneArg(t *testing.T) {
	_, _, err := execute(NewRunCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
}
