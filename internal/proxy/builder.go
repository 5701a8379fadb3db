package proxy

import (
	"fmt"
	"log/slog"

	"github.com/lafritemema/MARS-data-build/internal/ir"
	"github.com/lafritemema/MARS-data-build/internal/model"
	"github.com/lafritemema/MARS-data-build/internal/register"
)

// Builder composes proxy requests into the steps of a robot program.
// A Builder holds no per-sequence state and may be reused.
type Builder struct {
	gen      UIDGenerator
	interval int
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithTrackInterval sets the tracker polling period in milliseconds.
//
// Default: 1000 ms (DefaultTrackInterval)
func WithTrackInterval(ms int) BuilderOption {
	return func(b *Builder) {
		if ms > 0 {
			b.interval = ms
		}
	}
}

// NewBuilder creates a Builder drawing tracker uids from gen.
// A nil gen falls back to UUIDGenerator.
func NewBuilder(gen UIDGenerator, opts ...BuilderOption) *Builder {
	if gen == nil {
		gen = UUIDGenerator{}
	}
	b := &Builder{
		gen:      gen,
		interval: DefaultTrackInterval,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// TrackInterval returns the tracker polling period in milliseconds.
func (b *Builder) TrackInterval() int {
	return b.interval
}

func requestCommands(description string, reqs []ir.ProxyRequest) []ir.Command {
	cmds := make([]ir.Command, len(reqs))
	for i, r := range reqs {
		cmds[i] = ir.NewProxyRequest(description, r)
	}
	return cmds
}

// TrackAndWait returns a tracker request on reg followed by the wait on its uid.
// The two commands are always adjacent and share the same uid.
func (b *Builder) TrackAndWait(kind register.Kind, reg int, exp *Expectation, trackDesc, waitDesc string) ([]ir.Command, error) {
	req, uid, err := BuildTrack(b.gen, kind, reg, b.interval, exp)
	if err != nil {
		return nil, err
	}
	return []ir.Command{
		ir.NewProxyRequest(trackDesc, req),
		ir.NewWait(waitDesc, uid),
	}, nil
}

// RunProgram starts program p and waits until the process register leaves IN_PROGRESS.
func (b *Builder) RunProgram(p Program) ([]ir.Command, error) {
	if _, ok := programNames[p]; !ok {
		return nil, ir.NewConfigError(origin, "unknown program code %d", int(p))
	}

	reqs, err := BuildWrite(register.NumericInt, register.Program, ir.IRInt(p))
	if err != nil {
		return nil, err
	}
	cmds := requestCommands(fmt.Sprintf("set program register to run %s program (code : %d)", p, int(p)), reqs)

	wait, err := b.TrackAndWait(register.NumericInt, register.Process,
		&Expectation{Relation: model.NotEqual, Value: ir.IRInt(ProcessInProgress)},
		"init tracker to track process register value wait until NOT_EQUAL IN_PROGRESS",
		fmt.Sprintf("wait end of program %s", p))
	if err != nil {
		return nil, err
	}
	return append(cmds, wait...), nil
}

// SetUTUF writes the user tool and user frame codes, then runs the program
// applying them.
func (b *Builder) SetUTUF(userTool, userFrame string) ([]ir.Command, error) {
	ut, err := EffectorCode(userTool)
	if err != nil {
		return nil, err
	}
	uf, err := FrameCode(userFrame)
	if err != nil {
		return nil, err
	}

	reqs, err := BuildWrite(register.NumericInt, register.UserTool, ir.IntArray([]int{ut, uf}))
	if err != nil {
		return nil, err
	}
	cmds := requestCommands(fmt.Sprintf(
		"update the user tool register : %s (code %d), update the user frame register: %s (code %d)",
		userTool, ut, userFrame, uf), reqs)

	run, err := b.RunProgram(ChangeToolFrame)
	if err != nil {
		return nil, err
	}
	return append(cmds, run...), nil
}

// SetMovements writes the movement parameters [n, (type, speed, precision)...]
// then the positions, one write per run of same-kind positions at a running
// register offset.
func (b *Builder) SetMovements(movements []model.Movement) ([]ir.Command, error) {
	if len(movements) == 0 {
		return nil, ir.NewDataError(origin, "no movement to set")
	}

	params := make([]int, 0, 1+3*len(movements))
	params = append(params, len(movements))
	for i, m := range movements {
		if m.Position == nil {
			return nil, ir.NewDataError(origin, "movement %d has no position", i)
		}
		code, err := MovementCode(m.Type)
		if err != nil {
			return nil, err
		}
		params = append(params, code, m.Speed, m.Precision)
	}

	reqs, err := BuildWrite(register.NumericInt, register.MovementParamBegin, ir.IntArray(params))
	if err != nil {
		return nil, err
	}
	cmds := requestCommands("set num of movements and movements parameters (speed, cnt and type) in numeric registers.", reqs)

	offset := register.PositionBegin
	runs := SplitByKind(model.Positions(movements))
	slog.Debug("positions split by kind", "movements", len(movements), "runs", len(runs))

	for _, run := range runs {
		kind, err := register.ForPosition(run.Kind)
		if err != nil {
			return nil, ir.AddOrigin(err, origin)
		}
		data := make(ir.IRArray, len(run.Positions))
		for i, p := range run.Positions {
			data[i] = p.CommandData()
		}

		reqs, err := BuildWrite(kind, offset, data)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, requestCommands(
			fmt.Sprintf("set %d %s positions in position registers from %d", len(run.Positions), run.Kind, offset), reqs)...)
		offset += len(run.Positions)
	}
	return cmds, nil
}

// SetDrillingParameters writes [speed, feed, peak] to the drilling parameter registers.
func (b *Builder) SetDrillingParameters(speed, feed int, peak bool) ([]ir.Command, error) {
	peakFlag := 0
	if peak {
		peakFlag = 1
	}
	reqs, err := BuildWrite(register.NumericInt, register.DrillingParamBegin, ir.IntArray([]int{speed, feed, peakFlag}))
	if err != nil {
		return nil, err
	}
	return requestCommands("insert drilling parameters in numeric registers", reqs), nil
}

// GetDrillingReport reads the drilling feedback registers.
func (b *Builder) GetDrillingReport() ([]ir.Command, error) {
	reqs, err := BuildRead(register.NumericFloat, register.DrillingFeedbackBegin, register.DrillingFeedbackSize)
	if err != nil {
		return nil, err
	}
	return requestCommands("get drilling report", reqs), nil
}

// ConfirmManipulation waits until the controller sees the equipment state
// expected after m.
func (b *Builder) ConfirmManipulation(m *model.Manipulation) ([]ir.Command, error) {
	kind, reg, exp, err := ManipulationTracker(m)
	if err != nil {
		return nil, err
	}
	eq := m.Equipment
	return b.TrackAndWait(kind, reg, exp,
		fmt.Sprintf("init tracker to alert for %s %s %s operation", eq.Reference, eq.Type, m.Operation),
		fmt.Sprintf("wait end of manipulation %s %s %s", m.Operation, eq.Reference, eq.Type))
}
