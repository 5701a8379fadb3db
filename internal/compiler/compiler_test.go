package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lafritemema/MARS-data-build/internal/ir"
	"github.com/lafritemema/MARS-data-build/internal/model"
	"github.com/lafritemema/MARS-data-build/internal/proxy"
)

func fixedCompiler(uids ...string) *Compiler {
	return New(WithBuilder(proxy.NewBuilder(proxy.NewFixedGenerator(uids...))))
}

func jointMovement(j1 float64) model.Movement {
	return model.Movement{
		Speed:    100,
		Type:     model.MoveJoint,
		Position: model.JointPosition{Axes: [6]float64{j1, 0, 0, 0, 90, 0}},
	}
}

func samplePath() *model.Path {
	return &model.Path{
		UserTool:  "WEB_C_DRILLING",
		UserFrame: "CELL_FRAME",
		Movements: []model.Movement{jointMovement(0), jointMovement(10)},
	}
}

func sampleActions() []model.Action {
	return []model.Action{
		{Type: model.MoveTCPApproach, Description: "approach", Definition: samplePath()},
		{Type: model.WorkProbe, Description: "probe", Definition: &model.Probing{UserTool: "WEB_C_DRILLING", UserFrame: "CELL_FRAME", Movement: jointMovement(5)}},
		{Type: model.WorkDrill, Description: "drill", Definition: &model.Drilling{Speed: 3000, Feed: 50, Peak: true}},
		{Type: model.ChangeToolFrame, Description: "utuf", Definition: &model.ToolFrame{UserTool: "FLANGE_C_DRILLING", UserFrame: "CELL_FRAME"}},
		{Type: model.LoadEffector, Description: "load", Definition: &model.Manipulation{
			Operation: model.Load,
			Equipment: model.Equipment{Type: model.EquipmentEffector, Reference: "WEB_C_DRILLING"},
		}},
	}
}

// assertPaired checks that every wait follows the tracker carrying its uid.
func assertPaired(t *testing.T, cmds []ir.Command) {
	t.Helper()
	for i, c := range cmds {
		uid, ok := c.WaitUID()
		if !ok {
			continue
		}
		require.Greater(t, i, 0, "wait cannot be first")
		trackUID, ok := cmds[i-1].TrackerUID()
		require.True(t, ok, "command %d must be a tracker", i-1)
		assert.Equal(t, trackUID, uid)
	}
}

func actions(cmds []ir.Command) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = string(c.Origin) + "/" + string(c.Action)
	}
	return out
}

func TestCompileFamilies(t *testing.T) {
	tests := []struct {
		name     string
		action   model.Action
		count    int
		trackers int
	}{
		{"trajectory", sampleActions()[0], 4 + 2 + 3, 2},
		{"probing", sampleActions()[1], 4 + 2 + 3, 2},
		{"drilling", sampleActions()[2], 1 + 3, 1},
		{"tool frame change", sampleActions()[3], 4, 1},
		{"manipulation", sampleActions()[4], 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := fixedCompiler("u1", "u2")
			cmds, err := c.Compile(tt.action)
			require.NoError(t, err)
			assert.Len(t, cmds, tt.count)
			assertPaired(t, cmds)

			trackers := 0
			for _, cmd := range cmds {
				if _, ok := cmd.TrackerUID(); ok {
					trackers++
				}
			}
			assert.Equal(t, tt.trackers, trackers)
		})
	}
}

func TestCompileTrajectoryOrder(t *testing.T) {
	cmds, err := fixedCompiler("u1", "u2").CompileTrajectory(samplePath())
	require.NoError(t, err)

	paths := make([]string, len(cmds))
	for i, c := range cmds {
		if req, ok := c.Definition.(ir.ProxyRequest); ok {
			paths[i] = string(req.Method) + " " + req.Path
		} else {
			paths[i] = "WAIT"
		}
	}
	assert.Equal(t, []string{
		"PUT /numericRegister/block",
		"PUT /numericRegister/single",
		"SUBSCRIBE /numericRegister/single",
		"WAIT",
		"PUT /numericRegister/block",
		"PUT /positionRegister/block",
		"PUT /numericRegister/single",
		"SUBSCRIBE /numericRegister/single",
		"WAIT",
	}, paths)

	prog := cmds[6].Definition.(ir.ProxyRequest)
	assert.Equal(t, ir.IRObject{"value": ir.IRInt(int(proxy.TrajectoryGeneration))}, prog.Body["data"])
}

// Three movements: the parameter block starts with the movement count,
// positions follow, and the program run waits for the process register to
// leave the in-progress code.
func TestCompileTrajectoryThreeMovements(t *testing.T) {
	path := samplePath()
	path.Movements = []model.Movement{jointMovement(0), jointMovement(10), jointMovement(20)}
	path.Movements[1].Type = model.MoveLinear
	path.Movements[2].Precision = 50

	cmds, err := fixedCompiler("utuf", "traj").CompileTrajectory(path)
	require.NoError(t, err)
	require.Len(t, cmds, 9)

	params := cmds[4].Definition.(ir.ProxyRequest)
	assert.Equal(t, "/numericRegister/block", params.Path)
	assert.Equal(t, ir.IntArray([]int{3, 1, 100, 0, 2, 100, 0, 1, 100, 50}), params.Body["data"].(ir.IRObject)["values"])

	positions := cmds[5].Definition.(ir.ProxyRequest)
	assert.Equal(t, "/positionRegister/block", positions.Path)
	assert.Len(t, positions.Body["data"].(ir.IRObject)["positions"], 3)

	tracker := cmds[7].Definition.(ir.ProxyRequest)
	settings := tracker.Body["setting"].(ir.IRObject)["settings"].(ir.IRObject)
	assert.Equal(t, ir.IRObject{
		"data":     ir.IRObject{"value": ir.IRInt(-1)},
		"relation": ir.IRString("neq"),
	}, settings["expected"])

	uid, ok := cmds[8].WaitUID()
	require.True(t, ok)
	assert.Equal(t, "traj", uid)
	assertPaired(t, cmds)
}

func TestCompileManipulationOrder(t *testing.T) {
	cmds, err := fixedCompiler("u1").Compile(sampleActions()[4])
	require.NoError(t, err)
	assert.Equal(t, []string{"HMI/REQUEST", "PROXY/REQUEST", "PROXY/WAIT"}, actions(cmds))
}

func TestCompileDrillingReport(t *testing.T) {
	c := New(
		WithBuilder(proxy.NewBuilder(proxy.NewFixedGenerator("u1"))),
		WithDrillingReport(true),
	)
	cmds, err := c.Compile(sampleActions()[2])
	require.NoError(t, err)
	require.Len(t, cmds, 5)

	last := cmds[4].Definition.(ir.ProxyRequest)
	assert.Equal(t, ir.MethodGet, last.Method)
	assert.Equal(t, ir.IRInt(166), last.Query["startReg"])
}

func TestCompileShapeStable(t *testing.T) {
	for _, a := range sampleActions() {
		t.Run(a.Type, func(t *testing.T) {
			first, err := New().Compile(a)
			require.NoError(t, err)
			second, err := New().Compile(a)
			require.NoError(t, err)

			h1, err := ir.ShapeHash(first)
			require.NoError(t, err)
			h2, err := ir.ShapeHash(second)
			require.NoError(t, err)
			assert.Equal(t, h1, h2)

			assert.NotEqual(t, ir.MustSequenceID(first), ir.MustSequenceID(second), "tracker uids must be fresh")
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name       string
		action     model.Action
		configErr  bool
		dataErr    bool
		wantOrigin []string
	}{
		{
			name:       "unknown tag",
			action:     model.Action{Type: "WORK.RIVET", Definition: &model.Drilling{}},
			configErr:  true,
			wantOrigin: []string{"COMPILER"},
		},
		{
			name:       "definition mismatch",
			action:     model.Action{Type: model.WorkDrill, Definition: samplePath()},
			dataErr:    true,
			wantOrigin: []string{"COMPILER"},
		},
		{
			name:       "missing definition",
			action:     model.Action{Type: model.WorkDrill},
			dataErr:    true,
			wantOrigin: []string{"COMPILER"},
		},
		{
			name: "unknown effector",
			action: model.Action{Type: model.MoveTCPWork, Definition: &model.Path{
				UserTool: "HAMMER", UserFrame: "CELL_FRAME", Movements: []model.Movement{jointMovement(0)},
			}},
			configErr:  true,
			wantOrigin: []string{"COMPILER", "PROXY"},
		},
		{
			name: "empty movements",
			action: model.Action{Type: model.MoveTCPWork, Definition: &model.Path{
				UserTool: "WEB_C_DRILLING", UserFrame: "CELL_FRAME",
			}},
			dataErr:    true,
			wantOrigin: []string{"COMPILER", "PROXY"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Compile(tt.action)
			require.Error(t, err)
			assert.Equal(t, tt.configErr, ir.IsConfigError(err))
			assert.Equal(t, tt.dataErr, ir.IsDataError(err))

			var e *ir.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.wantOrigin, e.Origin)
		})
	}
}

func TestCompileAll(t *testing.T) {
	seqs, err := New().CompileAll(sampleActions())
	require.NoError(t, err)
	require.Len(t, seqs, 5)
	for _, cmds := range seqs {
		assertPaired(t, cmds)
	}

	bad := append(sampleActions(), model.Action{Type: "WORK.RIVET", Definition: &model.Drilling{}})
	_, err = New().CompileAll(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "action 5 (WORK.RIVET)")
	assert.True(t, ir.IsConfigError(err))
}
