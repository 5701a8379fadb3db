package proxy

import (
	"github.com/lafritemema/MARS-data-build/internal/ir"
	"github.com/lafritemema/MARS-data-build/internal/model"
	"github.com/lafritemema/MARS-data-build/internal/register"
)

// equipmentRegister locates the register reflecting the state of one equipment type.
type equipmentRegister struct {
	kind register.Kind
	reg  int
}

var equipmentRegisters = map[model.EquipmentType]equipmentRegister{
	model.EquipmentEffector: {kind: register.NumericInt, reg: register.EffectorReference},
}

type expectationKey struct {
	equipment model.EquipmentType
	operation model.Operation
}

// expectationFunc returns the register state proving an operation is done.
type expectationFunc func(reference string) (*Expectation, error)

var expectations = map[expectationKey]expectationFunc{
	{model.EquipmentEffector, model.Load}:   effectorLoaded,
	{model.EquipmentEffector, model.Unload}: effectorUnloaded,
}

// effectorLoaded expects the effector reference register to hold the loaded effector.
func effectorLoaded(reference string) (*Expectation, error) {
	code, err := EffectorCode(reference)
	if err != nil {
		return nil, err
	}
	return &Expectation{Relation: model.Equal, Value: ir.IRInt(code)}, nil
}

// effectorUnloaded expects the effector reference register to hold NO_EFFECTOR.
func effectorUnloaded(reference string) (*Expectation, error) {
	if _, err := EffectorCode(reference); err != nil {
		return nil, err
	}
	return &Expectation{Relation: model.Equal, Value: ir.IRInt(NoEffector)}, nil
}

// ManipulationTracker returns the register to watch and the state to expect
// once the operator has performed m.
func ManipulationTracker(m *model.Manipulation) (register.Kind, int, *Expectation, error) {
	loc, ok := equipmentRegisters[m.Equipment.Type]
	if !ok {
		return "", 0, nil, ir.NewConfigError(origin, "unknown equipment type %q", m.Equipment.Type)
	}
	fn, ok := expectations[expectationKey{m.Equipment.Type, m.Operation}]
	if !ok {
		return "", 0, nil, ir.NewDataError(origin, "no tracker expectation for %s %s", m.Operation, m.Equipment.Type)
	}
	exp, err := fn(m.Equipment.Reference)
	if err != nil {
		return "", 0, nil, err
	}
	return loc.kind, loc.reg, exp, nil
}
