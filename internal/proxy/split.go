package proxy

import (
	"github.com/lafritemema/MARS-data-build/internal/model"
)

// Run is a maximal block of consecutive positions of the same kind.
type Run struct {
	Kind      model.PositionKind
	Positions []model.Position
}

// SplitByKind groups positions into runs of the same kind, keeping their
// order. Non-adjacent runs of one kind stay separate. Empty input gives nil.
func SplitByKind(positions []model.Position) []Run {
	var runs []Run
	for _, p := range positions {
		if n := len(runs); n > 0 && runs[n-1].Kind == p.Kind() {
			runs[n-1].Positions = append(runs[n-1].Positions, p)
			continue
		}
		runs = append(runs, Run{Kind: p.Kind(), Positions: []model.Position{p}})
	}
	return runs
}
