package compiler

import (
	"github.com/lafritemema/MARS-data-build/internal/hmi"
	"github.com/lafritemema/MARS-data-build/internal/ir"
	"github.com/lafritemema/MARS-data-build/internal/model"
	"github.com/lafritemema/MARS-data-build/internal/proxy"
)

// Sequence compiles the definition of one action family.
type Sequence func(c *Compiler, def model.Definition) ([]ir.Command, error)

// steps concatenates the output of step builders, stopping at the first error.
func steps(fns ...func() ([]ir.Command, error)) ([]ir.Command, error) {
	var cmds []ir.Command
	for _, fn := range fns {
		out, err := fn()
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, out...)
	}
	return cmds, nil
}

// CompileTrajectory selects tool and frame, loads the movements and runs the
// trajectory program.
func (c *Compiler) CompileTrajectory(p *model.Path) ([]ir.Command, error) {
	if p == nil {
		return nil, ir.NewDataError(origin, "missing path definition")
	}
	return steps(
		func() ([]ir.Command, error) { return c.builder.SetUTUF(p.UserTool, p.UserFrame) },
		func() ([]ir.Command, error) { return c.builder.SetMovements(p.Movements) },
		func() ([]ir.Command, error) { return c.builder.RunProgram(proxy.TrajectoryGeneration) },
	)
}

// CompileProbing selects tool and frame, loads the probing movement and runs
// the probing program.
func (c *Compiler) CompileProbing(p *model.Probing) ([]ir.Command, error) {
	if p == nil {
		return nil, ir.NewDataError(origin, "missing probing definition")
	}
	return steps(
		func() ([]ir.Command, error) { return c.builder.SetUTUF(p.UserTool, p.UserFrame) },
		func() ([]ir.Command, error) { return c.builder.SetMovements([]model.Movement{p.Movement}) },
		func() ([]ir.Command, error) { return c.builder.RunProgram(proxy.Probing) },
	)
}

// CompileDrilling writes the drilling parameters and runs the drilling
// program, then reads the drilling report when enabled.
func (c *Compiler) CompileDrilling(d *model.Drilling) ([]ir.Command, error) {
	if d == nil {
		return nil, ir.NewDataError(origin, "missing drilling definition")
	}
	fns := []func() ([]ir.Command, error){
		func() ([]ir.Command, error) { return c.builder.SetDrillingParameters(d.Speed, d.Feed, d.Peak) },
		func() ([]ir.Command, error) { return c.builder.RunProgram(proxy.Drilling) },
	}
	if c.drillingReport {
		fns = append(fns, c.builder.GetDrillingReport)
	}
	return steps(fns...)
}

// CompileToolFrameChange writes the user tool and user frame and runs the
// program applying them.
func (c *Compiler) CompileToolFrameChange(tf *model.ToolFrame) ([]ir.Command, error) {
	if tf == nil {
		return nil, ir.NewDataError(origin, "missing tool/frame definition")
	}
	return c.builder.SetUTUF(tf.UserTool, tf.UserFrame)
}

// CompileManipulation notifies the operator, then waits for the controller
// to see the expected equipment state.
func (c *Compiler) CompileManipulation(m *model.Manipulation) ([]ir.Command, error) {
	if m == nil {
		return nil, ir.NewDataError(origin, "missing manipulation definition")
	}
	return steps(
		func() ([]ir.Command, error) { return hmi.SendManipulationMessage(m) },
		func() ([]ir.Command, error) { return c.builder.ConfirmManipulation(m) },
	)
}

func trajectorySequence(c *Compiler, def model.Definition) ([]ir.Command, error) {
	p, ok := def.(*model.Path)
	if !ok {
		return nil, definitionMismatch("path", def)
	}
	return c.CompileTrajectory(p)
}

func probingSequence(c *Compiler, def model.Definition) ([]ir.Command, error) {
	p, ok := def.(*model.Probing)
	if !ok {
		return nil, definitionMismatch("probing", def)
	}
	return c.CompileProbing(p)
}

func drillingSequence(c *Compiler, def model.Definition) ([]ir.Command, error) {
	d, ok := def.(*model.Drilling)
	if !ok {
		return nil, definitionMismatch("drilling", def)
	}
	return c.CompileDrilling(d)
}

func toolFrameSequence(c *Compiler, def model.Definition) ([]ir.Command, error) {
	tf, ok := def.(*model.ToolFrame)
	if !ok {
		return nil, definitionMismatch("tool/frame", def)
	}
	return c.CompileToolFrameChange(tf)
}

func manipulationSequence(c *Compiler, def model.Definition) ([]ir.Command, error) {
	m, ok := def.(*model.Manipulation)
	if !ok {
		return nil, definitionMismatch("manipulation", def)
	}
	return c.CompileManipulation(m)
}

func definitionMismatch(want string, got model.Definition) error {
	return ir.NewDataError(origin, "expected a %s definition, got %T", want, got)
}
