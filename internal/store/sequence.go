package store

import (
	"fmt"

	"github.com/lafritemema/MARS-data-build/internal/ir"
)

// Sequence is a compiled command sequence as stored.
type Sequence struct {
	ID              string
	ShapeHash       string
	ActionType      string
	Description     string
	CommandCount    int
	CompilerVersion string
	IRVersion       string
	Seq             int64

	// Commands is nil for rows returned by ListSequences.
	Commands []ir.Command
}

// NewSequence computes the content ids of cmds and stamps the current
// compiler and wire versions.
func NewSequence(actionType, description string, cmds []ir.Command) (Sequence, error) {
	id, err := ir.SequenceID(cmds)
	if err != nil {
		return Sequence{}, fmt.Errorf("new sequence: %w", err)
	}
	shape, err := ir.ShapeHash(cmds)
	if err != nil {
		return Sequence{}, fmt.Errorf("new sequence: %w", err)
	}
	return Sequence{
		ID:              id,
		ShapeHash:       shape,
		ActionType:      actionType,
		Description:     description,
		CommandCount:    len(cmds),
		CompilerVersion: ir.CompilerVersion,
		IRVersion:       ir.IRVersion,
		Commands:        cmds,
	}, nil
}

// Tracker is a tracker subscription found in a stored sequence.
type Tracker struct {
	UID        string
	SequenceID string
	Position   int
	// WaitPosition is the index of the WAIT on this uid, -1 if the sequence
	// never waits on it.
	WaitPosition int
	Kind         string
	Path         string
	Reg          int64
	IntervalMs   int64
}

// trackersOf lists the trackers of cmds with their wait positions.
func trackersOf(sequenceID string, cmds []ir.Command) []Tracker {
	var trackers []Tracker
	index := make(map[string]int)
	for i, c := range cmds {
		if uid, ok := c.TrackerUID(); ok {
			req := c.Definition.(ir.ProxyRequest)
			setting, _ := req.Body["setting"].(ir.IRObject)
			settings, _ := setting["settings"].(ir.IRObject)
			kind, _ := settings["tracker"].(ir.IRString)
			interval, _ := settings["interval"].(ir.IRInt)
			reg, _ := req.Query["reg"].(ir.IRInt)

			index[uid] = len(trackers)
			trackers = append(trackers, Tracker{
				UID:          uid,
				SequenceID:   sequenceID,
				Position:     i,
				WaitPosition: -1,
				Kind:         string(kind),
				Path:         req.Path,
				Reg:          int64(reg),
				IntervalMs:   int64(interval),
			})
			continue
		}
		if uid, ok := c.WaitUID(); ok {
			if t, ok := index[uid]; ok && trackers[t].WaitPosition < 0 {
				trackers[t].WaitPosition = i
			}
		}
	}
	return trackers
}
