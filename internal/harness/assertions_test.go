package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafritemema/MARS-data-build/internal/ir"
)

func sampleCommands() []ir.Command {
	return []ir.Command{
		ir.NewProxyRequest("set program", ir.ProxyRequest{
			Method: ir.MethodPut,
			Path:   "/numericRegister/single",
			Query:  ir.IRObject{"reg": ir.IRInt(1), "type": ir.IRString("int")},
			Body:   ir.IRObject{"data": ir.IRObject{"value": ir.IRInt(2)}},
		}),
		ir.NewProxyRequest("track", ir.ProxyRequest{
			Method: ir.MethodSubscribe,
			Path:   "/numericRegister/single",
			Query:  ir.IRObject{"reg": ir.IRInt(9)},
			Body: ir.IRObject{"setting": ir.IRObject{
				"type":     ir.IRString("tracker"),
				"settings": ir.IRObject{"uid": ir.IRString("u1"), "interval": ir.IRInt(1000)},
			}},
		}),
		ir.NewWait("wait", "u1"),
	}
}

func TestLabel(t *testing.T) {
	cmds := sampleCommands()
	assert.Equal(t, "PROXY/REQUEST PUT /numericRegister/single", Label(cmds[0]))
	assert.Equal(t, "PROXY/WAIT", Label(cmds[2]))
	assert.Equal(t, "HMI/REQUEST NOTIFY /sequencer/manipulation", Label(ir.NewHMIRequest("", ir.HMIRequest{
		Method: ir.MethodNotify,
		Path:   "/sequencer/manipulation",
	})))
}

func TestEvaluateAssertions(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{
			name:      "count ok",
			assertion: Assertion{Type: AssertCommandCount, Count: 3},
		},
		{
			name:      "count mismatch",
			assertion: Assertion{Type: AssertCommandCount, Count: 1},
			wantErr:   "Expected: 1 commands",
		},
		{
			name: "order ok with gaps",
			assertion: Assertion{Type: AssertCommandOrder, Commands: []string{
				"PROXY/REQUEST PUT /numericRegister/single",
				"PROXY/WAIT",
			}},
		},
		{
			name: "order reversed",
			assertion: Assertion{Type: AssertCommandOrder, Commands: []string{
				"PROXY/WAIT",
				"PROXY/REQUEST PUT /numericRegister/single",
			}},
			wantErr: "not found after the first 1",
		},
		{
			name: "at matches nested subset",
			assertion: Assertion{Type: AssertCommandAt, Index: 1, Expect: &CommandMatch{
				Method: "SUBSCRIBE",
				Body: map[string]any{"setting": map[string]any{
					"settings": map[string]any{"uid": "u1"},
				}},
			}},
		},
		{
			name: "at matches float against int",
			assertion: Assertion{Type: AssertCommandAt, Index: 0, Expect: &CommandMatch{
				Body: map[string]any{"data": map[string]any{"value": 2.0}},
			}},
		},
		{
			name: "at wrong description",
			assertion: Assertion{Type: AssertCommandAt, Index: 0, Expect: &CommandMatch{
				Description: "other",
			}},
			wantErr: `description is "set program"`,
		},
		{
			name: "at wrong query value",
			assertion: Assertion{Type: AssertCommandAt, Index: 1, Expect: &CommandMatch{
				Query: map[string]any{"reg": 10},
			}},
			wantErr: "query.reg is 9, want 10",
		},
		{
			name: "at missing body key",
			assertion: Assertion{Type: AssertCommandAt, Index: 0, Expect: &CommandMatch{
				Body: map[string]any{"data": map[string]any{"values": []any{1, 2}}},
			}},
			wantErr: "body.data.values is missing",
		},
		{
			name: "at out of range",
			assertion: Assertion{Type: AssertCommandAt, Index: 5, Expect: &CommandMatch{
				Origin: "PROXY",
			}},
			wantErr: "only 3 commands",
		},
		{
			name:      "paired",
			assertion: Assertion{Type: AssertTrackerPaired},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(sampleCommands(), []Assertion{tt.assertion})
			if tt.wantErr == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.wantErr)
		})
	}
}

func TestAssertTrackerPaired_Failures(t *testing.T) {
	cmds := sampleCommands()

	tests := []struct {
		name    string
		cmds    []ir.Command
		wantErr string
	}{
		{"tracker last", cmds[:2], "is the last command"},
		{"wait first", []ir.Command{cmds[2]}, "is the first command"},
		{"wait without tracker", []ir.Command{cmds[0], cmds[2]}, "has no tracker before it"},
		{"wait on other uid", []ir.Command{cmds[1], ir.NewWait("wait", "u2")}, "followed by wait on u2"},
		{"tracker followed by request", []ir.Command{cmds[1], cmds[0]}, "followed by PROXY/REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertTrackerPaired(tt.cmds, Assertion{Type: AssertTrackerPaired})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
