package proxy

import (
	"github.com/lafritemema/MARS-data-build/internal/ir"
	"github.com/lafritemema/MARS-data-build/internal/model"
)

// origin is the error origin tag for this package.
const origin = "PROXY"

// DefaultTrackInterval is the tracker polling period in milliseconds.
const DefaultTrackInterval = 1000

// Program is a robot program selected through the PROGRAM register.
type Program int

const (
	TrajectoryGeneration Program = 1
	Drilling             Program = 2
	ChangeToolFrame      Program = 3
	Probing              Program = 4
)

var programNames = map[Program]string{
	TrajectoryGeneration: "TRAJ_GEN",
	Drilling:             "DRILLING",
	ChangeToolFrame:      "CHANGE_UTUF",
	Probing:              "PROBING",
}

// String returns the controller name of the program.
func (p Program) String() string {
	if name, ok := programNames[p]; ok {
		return name
	}
	return "UNKNOWN"
}

// Process register values.
const (
	ProcessInProgress = -1
	ProcessSuccess    = 0
	ProcessError      = 1
)

// Effector codes written to the user tool and effector reference registers.
const (
	NoEffector      = 1
	WebCDrilling    = 2
	FlangeCDrilling = 3
)

var effectorCodes = map[string]int{
	"NO_EFFECTOR":       NoEffector,
	"WEB_C_DRILLING":    WebCDrilling,
	"FLANGE_C_DRILLING": FlangeCDrilling,
}

// CellFrame is the user frame code of the work cell.
const CellFrame = 3

var frameCodes = map[string]int{
	"CELL_FRAME": CellFrame,
}

var movementCodes = map[model.MovementType]int{
	model.MoveJoint:    1,
	model.MoveLinear:   2,
	model.MoveCircular: 3,
}

// EffectorCode returns the controller code of an effector reference.
func EffectorCode(reference string) (int, error) {
	code, ok := effectorCodes[reference]
	if !ok {
		return 0, ir.NewConfigError(origin, "unknown effector %q", reference)
	}
	return code, nil
}

// FrameCode returns the controller code of a user frame.
func FrameCode(frame string) (int, error) {
	code, ok := frameCodes[frame]
	if !ok {
		return 0, ir.NewConfigError(origin, "unknown user frame %q", frame)
	}
	return code, nil
}

// MovementCode returns the controller code of a movement type.
func MovementCode(t model.MovementType) (int, error) {
	code, ok := movementCodes[t]
	if !ok {
		return 0, ir.NewConfigError(origin, "unknown movement type %q", t)
	}
	return code, nil
}
