package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/lafritemema/MARS-data-build/internal/actiondoc"
	"github.com/lafritemema/MARS-data-build/internal/ir"
)

// LoadError represents an error that occurred while loading action documents.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadActions reads one action document or every document under a directory.
// Errors are *LoadError or *actiondoc.Error values; use ErrorCode to classify them.
func LoadActions(path string, mode actiondoc.LoadMode) (*actiondoc.Result, []error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("error accessing path: %v", err)}}
	}
	if info.IsDir() {
		files, err := actiondoc.FindDocuments(path)
		if err != nil {
			return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("error scanning directory: %v", err)}}
		}
		if len(files) == 0 {
			return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no action documents found in %s", path)}}
		}
	}

	loader, err := actiondoc.NewLoader()
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeGeneric, Message: err.Error()}}
	}
	return loader.Load(path, mode)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNoFiles     = "E003" // No action documents found
	ErrCodeLoadFailed  = "E004" // Document unreadable or not YAML/JSON/CUE
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeStoreFailed = "E006" // Sequence store error
	ErrCodeWriteFailed = "E007" // File write error

	// Compilation errors
	ErrCodeConfig = "E201" // Unknown action type, effector, frame or register kind
	ErrCodeData   = "E202" // Inconsistent action data
	ErrCodeSchema = "E203" // Action violates the document schema
)

// ErrorCode maps a load or compile error to its CLI code.
func ErrorCode(err error) string {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}

	var docErr *actiondoc.Error
	if errors.As(err, &docErr) {
		switch docErr.Kind {
		case actiondoc.KindRead, actiondoc.KindParse:
			return ErrCodeLoadFailed
		case actiondoc.KindSchema:
			return ErrCodeSchema
		case actiondoc.KindUnknownType:
			return ErrCodeConfig
		}
	}

	switch {
	case ir.IsConfigError(err):
		return ErrCodeConfig
	case ir.IsDataError(err):
		return ErrCodeData
	}
	return ErrCodeGeneric
}

// errorMessage strips the code prefix a LoadError adds to its message.
func errorMessage(err error) string {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Message
	}
	return err.Error()
}
