package store

import (
	"encoding/json"
	"fmt"

	"github.com/lafritemema/MARS-data-build/internal/ir"
)

// marshalDefinition converts a command definition to canonical JSON TEXT.
// Uses RFC 8785 canonical JSON so stored bytes hash to the sequence id.
func marshalDefinition(def ir.Definition) (string, error) {
	obj := ir.IRObject{}
	if def != nil {
		obj = def.ToIR()
	}
	data, err := ir.MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("marshal definition: %w", err)
	}
	return string(data), nil
}

// unmarshalDefinition parses canonical JSON TEXT back into the definition
// variant selected by origin and action.
// Uses ir.IRObject.UnmarshalJSON, which keeps integers exact.
func unmarshalDefinition(origin ir.Origin, action ir.CommandAction, data string) (ir.Definition, error) {
	var obj ir.IRObject
	if data != "" {
		if err := json.Unmarshal([]byte(data), &obj); err != nil {
			return nil, fmt.Errorf("unmarshal definition: %w", err)
		}
	}
	def, err := ir.DefinitionFromIR(origin, action, obj)
	if err != nil {
		return nil, fmt.Errorf("unmarshal definition: %w", err)
	}
	return def, nil
}
