// Package hmi builds the notifications pushed to the operator interface.
package hmi

import (
	"fmt"

	"github.com/lafritemema/MARS-data-build/internal/ir"
	"github.com/lafritemema/MARS-data-build/internal/model"
)

const origin = "HMI"

// ManipulationPath is the HMI route receiving manipulation requests.
const ManipulationPath = "/sequencer/manipulation"

// SendManipulationMessage asks the operator to perform m.
func SendManipulationMessage(m *model.Manipulation) ([]ir.Command, error) {
	if m == nil {
		return nil, ir.NewDataError(origin, "missing manipulation")
	}
	eq := m.Equipment
	if m.Operation == "" || eq.Type == "" || eq.Reference == "" {
		return nil, ir.NewDataError(origin, "incomplete manipulation (operation=%q type=%q reference=%q)",
			m.Operation, eq.Type, eq.Reference)
	}

	body := ir.IRObject{
		"operation": ir.IRString(m.Operation),
		"equipment": ir.IRObject{
			"type":      ir.IRString(eq.Type),
			"reference": ir.IRString(eq.Reference),
		},
	}
	return []ir.Command{
		ir.NewHMIRequest(
			fmt.Sprintf("send message to HMI to %s %s %s", m.Operation, eq.Type, eq.Reference),
			ir.HMIRequest{
				Method: ir.MethodNotify,
				Path:   ManipulationPath,
				Body:   body,
			}),
	}, nil
}
