package actiondoc

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// ErrorKind classifies load failures.
type ErrorKind int

const (
	// KindRead means the file could not be read.
	KindRead ErrorKind = iota
	// KindParse means the file is not valid YAML, JSON or CUE.
	KindParse
	// KindSchema means an action violates the action schema.
	KindSchema
	// KindUnknownType means an action type has no definition family.
	KindUnknownType
)

// Error is a load failure located in a document.
type Error struct {
	Kind    ErrorKind
	File    string
	Index   int // action index, -1 for document-level errors
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	loc := e.File
	if e.Pos.IsValid() {
		loc = fmt.Sprintf("%s:%d:%d", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column())
	}
	if e.Index >= 0 {
		return fmt.Sprintf("%s: actions[%d]: %s", loc, e.Index, e.Message)
	}
	return fmt.Sprintf("%s: %s", loc, e.Message)
}

// schemaError turns a CUE validation error into an Error, keeping the first
// position CUE reports.
func schemaError(file string, index int, err error) *Error {
	e := &Error{Kind: KindSchema, File: file, Index: index, Message: err.Error()}
	if errs := errors.Errors(err); len(errs) > 0 {
		e.Message = errs[0].Error()
		if positions := errors.Positions(errs[0]); len(positions) > 0 {
			e.Pos = positions[0]
		}
	}
	return e
}
