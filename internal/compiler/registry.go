package compiler

import (
	"fmt"
	"strings"

	"github.com/lafritemema/MARS-data-build/internal/ir"
	"github.com/lafritemema/MARS-data-build/internal/model"
)

// Registry maps action type tags to sequence families.
// It is built once and read-only afterwards.
type Registry struct {
	entries map[string]Sequence
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Sequence)}
}

// Register binds tag to seq. A tag may only be registered once.
func (r *Registry) Register(tag string, seq Sequence) error {
	if tag == "" {
		return ir.NewConfigError(origin, "empty action type")
	}
	if seq == nil {
		return ir.NewConfigError(origin, "nil sequence for action type %q", tag)
	}
	if _, dup := r.entries[tag]; dup {
		return ir.NewConfigError(origin, "action type %q already registered", tag)
	}
	r.entries[tag] = seq
	r.order = append(r.order, tag)
	return nil
}

// Resolve returns the sequence bound to tag.
func (r *Registry) Resolve(tag string) (Sequence, error) {
	seq, ok := r.entries[tag]
	if !ok {
		return nil, ir.NewConfigError(origin, "no sequence registered for action type %q", tag)
	}
	return seq, nil
}

// Tags returns the registered tags in registration order.
func (r *Registry) Tags() []string {
	return append([]string(nil), r.order...)
}

// Validate checks that every tag resolves. The error lists all missing tags.
func (r *Registry) Validate(tags []string) error {
	var missing []string
	for _, tag := range tags {
		if _, ok := r.entries[tag]; !ok {
			missing = append(missing, tag)
		}
	}
	if len(missing) > 0 {
		return ir.NewConfigError(origin, "no sequence registered for action types: %s", strings.Join(missing, ", "))
	}
	return nil
}

var defaultRegistry = buildDefaultRegistry()

func buildDefaultRegistry() *Registry {
	r := NewRegistry()
	bindings := []struct {
		tag string
		seq Sequence
	}{
		{model.MoveTCPWork, trajectorySequence},
		{model.MoveTCPApproach, trajectorySequence},
		{model.MoveTCPClearance, trajectorySequence},
		{model.MoveStationWork, trajectorySequence},
		{model.MoveStationHome, trajectorySequence},
		{model.MoveStationTool, trajectorySequence},
		{model.WorkDrill, drillingSequence},
		{model.WorkProbe, probingSequence},
		{model.LoadEffector, manipulationSequence},
		{model.UnloadEffector, manipulationSequence},
		{model.ChangeToolFrame, toolFrameSequence},
	}
	for _, b := range bindings {
		if err := r.Register(b.tag, b.seq); err != nil {
			panic(fmt.Sprintf("default registry: %v", err))
		}
	}
	if err := r.Validate(model.ActionTypes); err != nil {
		panic(fmt.Sprintf("default registry: %v", err))
	}
	return r
}

// DefaultRegistry returns the registry covering every tag in model.ActionTypes.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
