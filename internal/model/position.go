package model

import (
	"fmt"

	"github.com/lafritemema/MARS-data-build/internal/ir"
)

// PositionKind distinguishes joint-space and cartesian positions.
type PositionKind string

const (
	KindJoint     PositionKind = "JOINT"
	KindCartesian PositionKind = "CRT"
)

// Position is a robot target. Only JointPosition and CartesianPosition implement it.
type Position interface {
	Kind() PositionKind
	// CommandData is the object written to a position register.
	CommandData() ir.IRObject
	position()
}

// JointPosition holds the six joint angles and the external rail axis.
type JointPosition struct {
	Axes [6]float64
	E1   float64
}

func (JointPosition) position() {}

// Kind returns KindJoint.
func (JointPosition) Kind() PositionKind { return KindJoint }

// CommandData returns {j1..j6, e1}.
func (p JointPosition) CommandData() ir.IRObject {
	obj := ir.IRObject{"e1": ir.IRFloat(p.E1)}
	for i, v := range p.Axes {
		obj[fmt.Sprintf("j%d", i+1)] = ir.IRFloat(v)
	}
	return obj
}

var cartesianAxes = [6]string{"x", "y", "z", "w", "p", "r"}

// CartesianPosition holds a TCP pose (x y z w p r), the rail axis and the arm configuration.
type CartesianPosition struct {
	Axes   [6]float64
	E1     float64
	Config ArmConfig
}

func (CartesianPosition) position() {}

// Kind returns KindCartesian.
func (CartesianPosition) Kind() PositionKind { return KindCartesian }

// CommandData returns {x, y, z, w, p, r, e1, config}.
func (p CartesianPosition) CommandData() ir.IRObject {
	obj := ir.IRObject{
		"e1":     ir.IRFloat(p.E1),
		"config": p.Config.CommandData(),
	}
	for i, v := range p.Axes {
		obj[cartesianAxes[i]] = ir.IRFloat(v)
	}
	return obj
}

// Wrist is the wrist flip configuration.
type Wrist string

const (
	Flip   Wrist = "F"
	NoFlip Wrist = "N"
)

// Forearm is the elbow configuration.
type Forearm string

const (
	Up   Forearm = "U"
	Down Forearm = "D"
)

// Arm is the shoulder configuration.
type Arm string

const (
	Toward   Arm = "T"
	Backward Arm = "B"
)

// ArmConfig disambiguates a cartesian pose.
type ArmConfig struct {
	Wrist   Wrist
	Forearm Forearm
	Arm     Arm
}

// ParseArmConfig builds an ArmConfig from its one-letter codes (F/N, U/D, T/B).
func ParseArmConfig(wrist, forearm, arm string) (ArmConfig, error) {
	c := ArmConfig{Wrist: Wrist(wrist), Forearm: Forearm(forearm), Arm: Arm(arm)}
	if c.Wrist != Flip && c.Wrist != NoFlip {
		return ArmConfig{}, fmt.Errorf("invalid wrist configuration %q (want F or N)", wrist)
	}
	if c.Forearm != Up && c.Forearm != Down {
		return ArmConfig{}, fmt.Errorf("invalid forearm configuration %q (want U or D)", forearm)
	}
	if c.Arm != Toward && c.Arm != Backward {
		return ArmConfig{}, fmt.Errorf("invalid arm configuration %q (want T or B)", arm)
	}
	return c, nil
}

// CommandData returns {wrist, forearm, arm}.
func (c ArmConfig) CommandData() ir.IRObject {
	return ir.IRObject{
		"wrist":   ir.IRString(c.Wrist),
		"forearm": ir.IRString(c.Forearm),
		"arm":     ir.IRString(c.Arm),
	}
}
