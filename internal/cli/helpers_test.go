package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const drillAndLoadYAML = `
actions:
  - type: WORK.DRILL
    description: drill hole 4
    definition:
      speed: 3000
      feed: 50
  - type: LOAD.EFFECTOR
    description: load web effector
    definition:
      operation: LOAD
      equipment: {type: EFFECTOR, reference: WEB_C_DRILLING}
`

const utufJSON = `{
  "actions": [
    {"type": "CHANGE.UTUF", "definition": {"user_tool": "WEB_C_DRILLING", "user_frame": "CELL_FRAME"}}
  ]
}`

// unknownEffectorYAML passes the document schema but names an effector the
// controller has no code for.
const unknownEffectorYAML = `
actions:
  - type: CHANGE.UTUF
    definition:
      user_tool: ROTARY_SANDER
      user_frame: CELL_FRAME
`

const negativeSpeedYAML = `
actions:
  - type: WORK.DRILL
    definition:
      speed: -1
      feed: 50
`

// writeDocument writes content to dir/name and returns its path.
func writeDocument(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
