package compiler

import (
	"fmt"

	"github.com/lafritemema/MARS-data-build/internal/model"
	"github.com/lafritemema/MARS-data-build/internal/proxy"
)

// Validation error codes (E120-E139)
const (
	ErrUnknownActionType   = "E120" // no sequence registered for the tag
	ErrDefinitionMismatch  = "E121" // definition type does not match the tag family
	ErrUnknownUserTool     = "E122" // user tool is not a known effector
	ErrUnknownUserFrame    = "E123" // user frame is not a known frame
	ErrNoMovements         = "E124" // path without movements
	ErrUnknownMovementType = "E125" // movement type has no controller code
	ErrMissingPosition     = "E126" // movement without position
	ErrInvalidSpeed        = "E127" // speed or feed must be positive
	ErrInvalidPrecision    = "E128" // precision (CNT) out of 0..100
	ErrInvalidManipulation = "E129" // operation/equipment pair has no tracker
	ErrMissingDefinition   = "E130" // action without definition
)

// ValidationError represents an action validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidateAction checks an action against the registry and the controller
// code tables. Returns all errors found (does not fail-fast).
func ValidateAction(r *Registry, a model.Action) []ValidationError {
	var errs []ValidationError

	// E120: the tag must resolve
	if _, err := r.Resolve(a.Type); err != nil {
		errs = append(errs, ValidationError{
			Field:   "type",
			Message: fmt.Sprintf("unknown action type %q", a.Type),
			Code:    ErrUnknownActionType,
		})
	}

	if a.Definition == nil {
		return append(errs, ValidationError{
			Field:   "definition",
			Message: "definition is required",
			Code:    ErrMissingDefinition,
		})
	}

	if want, ok := model.FamilyOf(a.Type); ok {
		if got := model.FamilyOfDefinition(a.Definition); got != want {
			errs = append(errs, ValidationError{
				Field:   "definition",
				Message: fmt.Sprintf("action type %s expects a %s definition, got %T", a.Type, want, a.Definition),
				Code:    ErrDefinitionMismatch,
			})
		}
	}

	switch def := a.Definition.(type) {
	case *model.Path:
		errs = append(errs, validateToolFrame("definition", def.UserTool, def.UserFrame)...)
		if len(def.Movements) == 0 {
			errs = append(errs, ValidationError{
				Field:   "definition.movements",
				Message: "at least one movement is required",
				Code:    ErrNoMovements,
			})
		}
		for i, m := range def.Movements {
			errs = append(errs, validateMovement(fmt.Sprintf("definition.movements[%d]", i), m)...)
		}
	case *model.Probing:
		errs = append(errs, validateToolFrame("definition", def.UserTool, def.UserFrame)...)
		errs = append(errs, validateMovement("definition.movement", def.Movement)...)
	case *model.Drilling:
		if def.Speed <= 0 {
			errs = append(errs, ValidationError{
				Field:   "definition.speed",
				Message: fmt.Sprintf("speed must be positive, got %d", def.Speed),
				Code:    ErrInvalidSpeed,
			})
		}
		if def.Feed <= 0 {
			errs = append(errs, ValidationError{
				Field:   "definition.feed",
				Message: fmt.Sprintf("feed must be positive, got %d", def.Feed),
				Code:    ErrInvalidSpeed,
			})
		}
	case *model.ToolFrame:
		errs = append(errs, validateToolFrame("definition", def.UserTool, def.UserFrame)...)
	case *model.Manipulation:
		if _, _, _, err := proxy.ManipulationTracker(def); err != nil {
			errs = append(errs, ValidationError{
				Field:   "definition",
				Message: err.Error(),
				Code:    ErrInvalidManipulation,
			})
		}
	}

	return errs
}

func validateToolFrame(prefix, userTool, userFrame string) []ValidationError {
	var errs []ValidationError
	if _, err := proxy.EffectorCode(userTool); err != nil {
		errs = append(errs, ValidationError{
			Field:   prefix + ".user_tool",
			Message: fmt.Sprintf("unknown user tool %q", userTool),
			Code:    ErrUnknownUserTool,
		})
	}
	if _, err := proxy.FrameCode(userFrame); err != nil {
		errs = append(errs, ValidationError{
			Field:   prefix + ".user_frame",
			Message: fmt.Sprintf("unknown user frame %q", userFrame),
			Code:    ErrUnknownUserFrame,
		})
	}
	return errs
}

func validateMovement(field string, m model.Movement) []ValidationError {
	var errs []ValidationError
	if _, err := proxy.MovementCode(m.Type); err != nil {
		errs = append(errs, ValidationError{
			Field:   field + ".type",
			Message: fmt.Sprintf("unknown movement type %q", m.Type),
			Code:    ErrUnknownMovementType,
		})
	}
	if m.Position == nil {
		errs = append(errs, ValidationError{
			Field:   field + ".position",
			Message: "position is required",
			Code:    ErrMissingPosition,
		})
	}
	if m.Speed <= 0 {
		errs = append(errs, ValidationError{
			Field:   field + ".speed",
			Message: fmt.Sprintf("speed must be positive, got %d", m.Speed),
			Code:    ErrInvalidSpeed,
		})
	}
	if m.Precision < 0 || m.Precision > 100 {
		errs = append(errs, ValidationError{
			Field:   field + ".precision",
			Message: fmt.Sprintf("precision must be within 0..100, got %d", m.Precision),
			Code:    ErrInvalidPrecision,
		})
	}
	return errs
}
