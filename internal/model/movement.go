package model

// MovementType is the interpolation used to reach a position.
type MovementType string

const (
	MoveJoint    MovementType = "JOINT"
	MoveLinear   MovementType = "LINEAR"
	MoveCircular MovementType = "CIRCULAR"
)

// Movement is one motion of a trajectory.
// Precision is the controller CNT value (0 = fine stop).
type Movement struct {
	Precision int
	Speed     int
	Type      MovementType
	Position  Position
}

// Positions returns the target of every movement, in order.
func Positions(movements []Movement) []Position {
	out := make([]Position, len(movements))
	for i, m := range movements {
		out[i] = m.Position
	}
	return out
}

// Relation compares a register value with an expected value.
type Relation string

const (
	Equal    Relation = "eq"
	NotEqual Relation = "neq"
)
