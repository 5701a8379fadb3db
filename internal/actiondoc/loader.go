package actiondoc

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/lafritemema/MARS-data-build/internal/model"
)

//go:embed schema.cue
var schemaSource []byte

// LoadMode controls how errors are handled when loading several documents.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Loader parses and checks action documents.
// A Loader owns a CUE context and is not safe for concurrent use.
type Loader struct {
	ctx    *cue.Context
	action cue.Value
}

// NewLoader compiles the embedded schema.
func NewLoader() (*Loader, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile action schema: %w", err)
	}
	action := schema.LookupPath(cue.ParsePath("#Action"))
	if !action.Exists() {
		return nil, fmt.Errorf("action schema has no #Action definition")
	}
	return &Loader{ctx: ctx, action: action}, nil
}

// Extensions lists the file extensions LoadFile understands.
var Extensions = []string{".yaml", ".yml", ".json", ".cue"}

// IsDocument reports whether path has an action document extension.
func IsDocument(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// LoadFile reads one action document. The format follows the file extension.
func (l *Loader) LoadFile(path string) ([]model.Action, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: KindRead, File: path, Index: -1, Message: err.Error()}
	}
	return l.Decode(path, data)
}

// Decode parses data named name. Names ending in .yaml/.yml are read as
// YAML, everything else as CUE (which includes JSON).
func (l *Loader) Decode(name string, data []byte) ([]model.Action, error) {
	var raws []RawAction
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		raws, err = l.decodeYAML(name, data)
	default:
		raws, err = l.decodeCUE(name, data)
	}
	if err != nil {
		return nil, err
	}

	actions := make([]model.Action, 0, len(raws))
	for i, raw := range raws {
		a, err := convert(name, i, raw)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// Check validates a single action against the schema and converts it.
// name only labels errors.
func (l *Loader) Check(name string, raw RawAction) (model.Action, error) {
	checked, err := l.check(name, 0, l.ctx.Encode(raw))
	if err != nil {
		return model.Action{}, err
	}
	return convert(name, 0, checked)
}

func convert(name string, index int, raw RawAction) (model.Action, error) {
	a, err := raw.Action()
	if err != nil {
		kind := KindSchema
		if _, ok := model.FamilyOf(raw.Type); !ok {
			kind = KindUnknownType
		}
		return model.Action{}, &Error{Kind: kind, File: name, Index: index, Message: err.Error()}
	}
	return a, nil
}

// decodeYAML decodes strictly, then checks every action against the schema.
func (l *Loader) decodeYAML(name string, data []byte) ([]RawAction, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, &Error{Kind: KindParse, File: name, Index: -1, Message: fmt.Sprintf("failed to parse YAML: %v", err)}
	}

	raws := make([]RawAction, len(doc.Actions))
	for i, raw := range doc.Actions {
		checked, err := l.check(name, i, l.ctx.Encode(raw))
		if err != nil {
			return nil, err
		}
		raws[i] = checked
	}
	return raws, nil
}

// decodeCUE compiles the document and checks every element of its actions list.
func (l *Loader) decodeCUE(name string, data []byte) ([]RawAction, error) {
	v := l.ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		e := schemaError(name, -1, err)
		e.Kind = KindParse
		return nil, e
	}

	list := v.LookupPath(cue.ParsePath("actions"))
	if !list.Exists() {
		return nil, &Error{Kind: KindSchema, File: name, Index: -1, Message: "actions list is required"}
	}
	iter, err := list.List()
	if err != nil {
		return nil, schemaError(name, -1, err)
	}

	var raws []RawAction
	for i := 0; iter.Next(); i++ {
		checked, err := l.check(name, i, iter.Value())
		if err != nil {
			return nil, err
		}
		raws = append(raws, checked)
	}
	return raws, nil
}

// check unifies v with #Action, requires a concrete result and decodes it
// with schema defaults applied.
func (l *Loader) check(name string, index int, v cue.Value) (RawAction, error) {
	unified := l.action.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return RawAction{}, schemaError(name, index, err)
	}
	var raw RawAction
	if err := unified.Decode(&raw); err != nil {
		return RawAction{}, schemaError(name, index, err)
	}
	return raw, nil
}

// FileResult holds the actions of one document.
type FileResult struct {
	Path    string
	Actions []model.Action
}

// Result contains the documents loaded from a path.
type Result struct {
	Files []FileResult
}

// Actions returns every loaded action, in file order.
func (r *Result) Actions() []model.Action {
	var out []model.Action
	for _, f := range r.Files {
		out = append(out, f.Actions...)
	}
	return out
}

// Load reads a single document or every document under a directory
// (sorted by path). If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func (l *Loader) Load(path string, mode LoadMode) (*Result, []error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, []error{&Error{Kind: KindRead, File: path, Index: -1, Message: err.Error()}}
	}

	files := []string{path}
	if info.IsDir() {
		files, err = FindDocuments(path)
		if err != nil {
			return nil, []error{&Error{Kind: KindRead, File: path, Index: -1, Message: fmt.Sprintf("error scanning directory: %v", err)}}
		}
	}

	result := &Result{}
	var errs []error
	for _, f := range files {
		actions, err := l.LoadFile(f)
		if err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		result.Files = append(result.Files, FileResult{Path: f, Actions: actions})
	}
	return result, errs
}

// FindDocuments walks dir and returns every action document path, sorted.
func FindDocuments(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsDocument(path) {
			files = append(files, path)
		}
		return nil
	})
	slices.Sort(files)
	return files, err
}
