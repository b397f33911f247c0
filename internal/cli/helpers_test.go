package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const passingScenario = `
name: draw_once
description: "one draw"
components:
  - name: box
    capabilities: [draw]
steps:
  - action: request
    component: box
    phase: draw
  - action: frame
assertions:
  - type: trace_count
    event: box.draw
    count: 1
`

const passingTrace = "0001 arm after frame 0\n0002 frame 1\n0003 dispatch box[0] draw\n"

const failingScenario = `
name: draw_twice
description: "expects a second draw that never happens"
components:
  - name: box
    capabilities: [draw]
steps:
  - action: request
    component: box
    phase: draw
  - action: frame
    count: 3
assertions:
  - type: trace_count
    event: box.draw
    count: 2
`

// writeScenario writes content to dir/file and returns the path.
func writeScenario(t *testing.T, dir, file, content string) string {
	t.Helper()
	path := filepath.Join(dir, file)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs cmd with args and returns stdout, stderr and the error.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
