package compiler

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/lafritemema/MARS-data-build/internal/ir"
	"github.com/lafritemema/MARS-data-build/internal/model"
	"github.com/lafritemema/MARS-data-build/internal/proxy"
)

// origin is the error origin tag for this package.
const origin = "COMPILER"

// Compiler compiles actions into command sequences.
type Compiler struct {
	builder        *proxy.Builder
	registry       *Registry
	drillingReport bool
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithBuilder sets the proxy step builder (uid source, tracker interval).
func WithBuilder(b *proxy.Builder) Option {
	return func(c *Compiler) {
		c.builder = b
	}
}

// WithRegistry replaces the default action registry.
func WithRegistry(r *Registry) Option {
	return func(c *Compiler) {
		c.registry = r
	}
}

// WithDrillingReport appends a drilling report read to every drilling sequence.
func WithDrillingReport(enabled bool) Option {
	return func(c *Compiler) {
		c.drillingReport = enabled
	}
}

// New creates a Compiler. Without options it uses the default registry and
// random tracker uids.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		builder:  proxy.NewBuilder(nil),
		registry: DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile returns the command sequence of one action.
func (c *Compiler) Compile(a model.Action) ([]ir.Command, error) {
	seq, err := c.registry.Resolve(a.Type)
	if err != nil {
		return nil, err
	}
	if a.Definition == nil {
		return nil, ir.NewDataError(origin, "action %q has no definition", a.Type)
	}

	slog.Debug("compiling action", "type", a.Type, "description", a.Description)

	cmds, err := seq(c, a.Definition)
	if err != nil {
		return nil, withOrigin(err)
	}

	slog.Debug("action compiled", "type", a.Type, "commands", len(cmds))
	return cmds, nil
}

// CompileAll compiles actions in order and returns one sequence per action.
// It stops at the first failure, naming the failing action.
func (c *Compiler) CompileAll(actions []model.Action) ([][]ir.Command, error) {
	out := make([][]ir.Command, 0, len(actions))
	for i, a := range actions {
		cmds, err := c.Compile(a)
		if err != nil {
			return nil, fmt.Errorf("action %d (%s): %w", i, a.Type, err)
		}
		out = append(out, cmds)
	}
	return out, nil
}

// withOrigin stacks the compiler origin on errors raised by lower layers.
func withOrigin(err error) error {
	var e *ir.Error
	if errors.As(err, &e) && len(e.Origin) > 0 && e.Origin[0] == origin {
		return err
	}
	return ir.AddOrigin(err, origin)
}
