package register

import (
	"github.com/lafritemema/MARS-data-build/internal/ir"
	"github.com/lafritemema/MARS-data-build/internal/model"
)

// ForPosition returns the register family holding positions of the given kind.
func ForPosition(kind model.PositionKind) (Kind, error) {
	switch kind {
	case model.KindJoint:
		return PositionJoint, nil
	case model.KindCartesian:
		return PositionCartesian, nil
	default:
		return "", ir.NewConfigError(origin, "no register family for position kind %q", kind)
	}
}
