package actiondoc

import (
	"fmt"

	"github.com/lafritemema/MARS-data-build/internal/model"
)

// Document is the top-level shape of an action document.
type Document struct {
	Actions []RawAction `yaml:"actions" json:"actions"`
}

// RawAction is one action as written in a document.
type RawAction struct {
	Type        string        `yaml:"type" json:"type"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
	Definition  RawDefinition `yaml:"definition" json:"definition"`
}

// RawDefinition is the union of every definition family. The schema decides
// which fields are allowed for a given action type.
type RawDefinition struct {
	UserTool  string        `yaml:"user_tool,omitempty" json:"user_tool,omitempty"`
	UserFrame string        `yaml:"user_frame,omitempty" json:"user_frame,omitempty"`
	Movements []RawMovement `yaml:"movements,omitempty" json:"movements,omitempty"`
	Movement  *RawMovement  `yaml:"movement,omitempty" json:"movement,omitempty"`

	Speed int  `yaml:"speed,omitempty" json:"speed,omitempty"`
	Feed  int  `yaml:"feed,omitempty" json:"feed,omitempty"`
	Peak  bool `yaml:"peak,omitempty" json:"peak,omitempty"`

	Operation string        `yaml:"operation,omitempty" json:"operation,omitempty"`
	Equipment *RawEquipment `yaml:"equipment,omitempty" json:"equipment,omitempty"`
}

// RawMovement is one movement of a path or probing definition.
type RawMovement struct {
	Type      string      `yaml:"type" json:"type"`
	Speed     int         `yaml:"speed" json:"speed"`
	Precision int         `yaml:"precision,omitempty" json:"precision,omitempty"`
	Position  RawPosition `yaml:"position" json:"position"`
}

// RawPosition is a joint (JOINT) or cartesian (CRT) target.
type RawPosition struct {
	Kind   string        `yaml:"kind" json:"kind"`
	Vector []float64     `yaml:"vector" json:"vector"`
	E1     float64       `yaml:"e1,omitempty" json:"e1,omitempty"`
	Config *RawArmConfig `yaml:"config,omitempty" json:"config,omitempty"`
}

// RawArmConfig holds the one-letter arm configuration codes.
type RawArmConfig struct {
	Wrist   string `yaml:"wrist" json:"wrist"`
	Forearm string `yaml:"forearm" json:"forearm"`
	Arm     string `yaml:"arm" json:"arm"`
}

// RawEquipment names the manipulated equipment.
type RawEquipment struct {
	Type      string `yaml:"type" json:"type"`
	Reference string `yaml:"reference" json:"reference"`
}

// Action converts a schema-checked raw action into its domain form.
func (r RawAction) Action() (model.Action, error) {
	family, ok := model.FamilyOf(r.Type)
	if !ok {
		return model.Action{}, fmt.Errorf("unknown action type %q", r.Type)
	}

	def, err := r.Definition.toModel(family)
	if err != nil {
		return model.Action{}, err
	}
	return model.Action{
		Type:        r.Type,
		Description: r.Description,
		Definition:  def,
	}, nil
}

func (d RawDefinition) toModel(family model.Family) (model.Definition, error) {
	switch family {
	case model.FamilyPath:
		movements := make([]model.Movement, len(d.Movements))
		for i, m := range d.Movements {
			mv, err := m.toModel()
			if err != nil {
				return nil, fmt.Errorf("movements[%d]: %w", i, err)
			}
			movements[i] = mv
		}
		return &model.Path{UserTool: d.UserTool, UserFrame: d.UserFrame, Movements: movements}, nil

	case model.FamilyProbing:
		if d.Movement == nil {
			return nil, fmt.Errorf("probing definition has no movement")
		}
		mv, err := d.Movement.toModel()
		if err != nil {
			return nil, fmt.Errorf("movement: %w", err)
		}
		return &model.Probing{UserTool: d.UserTool, UserFrame: d.UserFrame, Movement: mv}, nil

	case model.FamilyDrilling:
		return &model.Drilling{Speed: d.Speed, Feed: d.Feed, Peak: d.Peak}, nil

	case model.FamilyToolFrame:
		return &model.ToolFrame{UserTool: d.UserTool, UserFrame: d.UserFrame}, nil

	case model.FamilyManipulation:
		if d.Equipment == nil {
			return nil, fmt.Errorf("manipulation definition has no equipment")
		}
		return &model.Manipulation{
			Operation: model.Operation(d.Operation),
			Equipment: model.Equipment{
				Type:      model.EquipmentType(d.Equipment.Type),
				Reference: d.Equipment.Reference,
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported definition family %q", family)
	}
}

func (m RawMovement) toModel() (model.Movement, error) {
	pos, err := m.Position.toModel()
	if err != nil {
		return model.Movement{}, fmt.Errorf("position: %w", err)
	}
	return model.Movement{
		Precision: m.Precision,
		Speed:     m.Speed,
		Type:      model.MovementType(m.Type),
		Position:  pos,
	}, nil
}

func (p RawPosition) toModel() (model.Position, error) {
	if len(p.Vector) != 6 {
		return nil, fmt.Errorf("vector must have 6 values, got %d", len(p.Vector))
	}
	var axes [6]float64
	copy(axes[:], p.Vector)

	switch model.PositionKind(p.Kind) {
	case model.KindJoint:
		return model.JointPosition{Axes: axes, E1: p.E1}, nil
	case model.KindCartesian:
		if p.Config == nil {
			return nil, fmt.Errorf("cartesian position has no arm configuration")
		}
		cfg, err := model.ParseArmConfig(p.Config.Wrist, p.Config.Forearm, p.Config.Arm)
		if err != nil {
			return nil, err
		}
		return model.CartesianPosition{Axes: axes, E1: p.E1, Config: cfg}, nil
	default:
		return nil, fmt.Errorf("unknown position kind %q", p.Kind)
	}
}
