package model

// Action type tags produced by the planning layer.
const (
	MoveTCPWork      = "MOVE.TCP.WORK"
	MoveTCPApproach  = "MOVE.TCP.APPROACH"
	MoveTCPClearance = "MOVE.TCP.CLEARANCE"
	MoveStationWork  = "MOVE.STATION.WORK"
	MoveStationHome  = "MOVE.STATION.HOME"
	MoveStationTool  = "MOVE.STATION.TOOL"
	WorkDrill        = "WORK.DRILL"
	WorkProbe        = "WORK.PROBE"
	LoadEffector     = "LOAD.EFFECTOR"
	UnloadEffector   = "UNLOAD.EFFECTOR"
	ChangeToolFrame  = "CHANGE.UTUF"
)

// ActionTypes lists every tag the planning layer may emit.
var ActionTypes = []string{
	MoveTCPWork,
	MoveTCPApproach,
	MoveTCPClearance,
	MoveStationWork,
	MoveStationHome,
	MoveStationTool,
	WorkDrill,
	WorkProbe,
	LoadEffector,
	UnloadEffector,
	ChangeToolFrame,
}

// Action is one planned robot task.
type Action struct {
	Type        string
	Description string
	Definition  Definition
}

// Definition is the family-specific payload of an Action.
type Definition interface {
	definition()
}

// Path is a trajectory executed with a given tool and frame.
type Path struct {
	UserTool  string
	UserFrame string
	Movements []Movement
}

// Probing is a single probing movement.
type Probing struct {
	UserTool  string
	UserFrame string
	Movement  Movement
}

// Drilling holds the spindle parameters of a drilling cycle.
type Drilling struct {
	Speed int
	Feed  int
	Peak  bool
}

// ToolFrame selects the active user tool and user frame.
type ToolFrame struct {
	UserTool  string
	UserFrame string
}

// Operation is a manual manipulation performed by the operator.
type Operation string

const (
	Load   Operation = "LOAD"
	Unload Operation = "UNLOAD"
)

// EquipmentType is the class of equipment being manipulated.
type EquipmentType string

const EquipmentEffector EquipmentType = "EFFECTOR"

// Equipment names one piece of equipment.
type Equipment struct {
	Type      EquipmentType
	Reference string
}

// Manipulation asks the operator to load or unload equipment.
type Manipulation struct {
	Operation Operation
	Equipment Equipment
}

func (*Path) definition()         {}
func (*Probing) definition()      {}
func (*Drilling) definition()     {}
func (*ToolFrame) definition()    {}
func (*Manipulation) definition() {}

// Family is the kind of definition an action type carries.
type Family string

const (
	FamilyPath         Family = "path"
	FamilyProbing      Family = "probing"
	FamilyDrilling     Family = "drilling"
	FamilyToolFrame    Family = "tool/frame"
	FamilyManipulation Family = "manipulation"
)

var families = map[string]Family{
	MoveTCPWork:      FamilyPath,
	MoveTCPApproach:  FamilyPath,
	MoveTCPClearance: FamilyPath,
	MoveStationWork:  FamilyPath,
	MoveStationHome:  FamilyPath,
	MoveStationTool:  FamilyPath,
	WorkDrill:        FamilyDrilling,
	WorkProbe:        FamilyProbing,
	LoadEffector:     FamilyManipulation,
	UnloadEffector:   FamilyManipulation,
	ChangeToolFrame:  FamilyToolFrame,
}

// FamilyOf returns the definition family expected for an action type.
func FamilyOf(actionType string) (Family, bool) {
	f, ok := families[actionType]
	return f, ok
}

// FamilyOfDefinition returns the family of a definition value, or "" for nil
// and foreign types.
func FamilyOfDefinition(def Definition) Family {
	switch def.(type) {
	case *Path:
		return FamilyPath
	case *Probing:
		return FamilyProbing
	case *Drilling:
		return FamilyDrilling
	case *ToolFrame:
		return FamilyToolFrame
	case *Manipulation:
		return FamilyManipulation
	default:
		return ""
	}
}
