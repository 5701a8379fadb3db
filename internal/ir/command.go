package ir

import (
	"encoding/json"
	"fmt"
)

// Origin names the collaborator a command is addressed to.
type Origin string

const (
	OriginProxy Origin = "PROXY"
	OriginHMI   Origin = "HMI"
)

// CommandAction is what the executor does with a command.
type CommandAction string

const (
	// ActionRequest sends the definition to the origin.
	ActionRequest CommandAction = "REQUEST"
	// ActionWait blocks until the tracker named in the definition reports.
	ActionWait CommandAction = "WAIT"
)

// Method is the request verb understood by the proxy or the HMI.
type Method string

const (
	MethodGet       Method = "GET"
	MethodPut       Method = "PUT"
	MethodSubscribe Method = "SUBSCRIBE"
	MethodNotify    Method = "NOTIFY"
)

// Definition is the payload of a Command.
// Only ProxyRequest, Wait and HMIRequest implement it.
type Definition interface {
	// ToIR returns the wire shape of the definition.
	ToIR() IRObject
	definition()
}

// Command is one step of a compiled sequence.
// Commands of one sequence must be executed in order.
type Command struct {
	Origin      Origin
	Action      CommandAction
	Description string
	Definition  Definition
}

// ProxyRequest is a complete, independently addressed proxy call.
// Body is nil for reads.
type ProxyRequest struct {
	Method Method
	Path   string
	Query  IRObject
	Body   IRObject
}

func (ProxyRequest) definition() {}

// ToIR returns {method, path, query, body?}.
func (r ProxyRequest) ToIR() IRObject {
	obj := IRObject{
		"method": IRString(r.Method),
		"path":   IRString(r.Path),
		"query":  r.Query,
	}
	if r.Query == nil {
		obj["query"] = IRObject{}
	}
	if r.Body != nil {
		obj["body"] = r.Body
	}
	return obj
}

// Wait references the uid of a tracker emitted earlier in the same sequence.
type Wait struct {
	UID string
}

func (Wait) definition() {}

// ToIR returns {uid}.
func (w Wait) ToIR() IRObject {
	return IRObject{"uid": IRString(w.UID)}
}

// HMIRequest is a notification pushed to the operator interface.
type HMIRequest struct {
	Method Method
	Path   string
	Body   IRObject
}

func (HMIRequest) definition() {}

// ToIR returns {body, path, method}.
func (r HMIRequest) ToIR() IRObject {
	body := r.Body
	if body == nil {
		body = IRObject{}
	}
	return IRObject{
		"body":   body,
		"path":   IRString(r.Path),
		"method": IRString(r.Method),
	}
}

// NewProxyRequest wraps a proxy request into a PROXY/REQUEST command.
func NewProxyRequest(description string, req ProxyRequest) Command {
	return Command{
		Origin:      OriginProxy,
		Action:      ActionRequest,
		Description: description,
		Definition:  req,
	}
}

// NewWait builds the PROXY/WAIT command paired with a tracker uid.
func NewWait(description, uid string) Command {
	return Command{
		Origin:      OriginProxy,
		Action:      ActionWait,
		Description: description,
		Definition:  Wait{UID: uid},
	}
}

// NewHMIRequest wraps an HMI request into an HMI/REQUEST command.
func NewHMIRequest(description string, req HMIRequest) Command {
	return Command{
		Origin:      OriginHMI,
		Action:      ActionRequest,
		Description: description,
		Definition:  req,
	}
}

// ToIR returns the wire shape {origin, action, description, definition}.
func (c Command) ToIR() IRObject {
	def := IRObject{}
	if c.Definition != nil {
		def = c.Definition.ToIR()
	}
	return IRObject{
		"origin":      IRString(c.Origin),
		"action":      IRString(c.Action),
		"description": IRString(c.Description),
		"definition":  def,
	}
}

// MarshalJSON emits the wire shape with sorted keys.
func (c Command) MarshalJSON() ([]byte, error) {
	return c.ToIR().MarshalJSON()
}

// UnmarshalJSON decodes the wire shape, choosing the definition variant
// from origin and action.
func (c *Command) UnmarshalJSON(data []byte) error {
	var raw struct {
		Origin      Origin          `json:"origin"`
		Action      CommandAction   `json:"action"`
		Description string          `json:"description"`
		Definition  json.RawMessage `json:"definition"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var def IRObject
	if len(raw.Definition) > 0 {
		if err := json.Unmarshal(raw.Definition, &def); err != nil {
			return fmt.Errorf("definition: %w", err)
		}
	}

	decoded, err := DefinitionFromIR(raw.Origin, raw.Action, def)
	if err != nil {
		return err
	}

	*c = Command{
		Origin:      raw.Origin,
		Action:      raw.Action,
		Description: raw.Description,
		Definition:  decoded,
	}
	return nil
}

// DefinitionFromIR rebuilds a typed definition from its wire shape.
func DefinitionFromIR(origin Origin, action CommandAction, obj IRObject) (Definition, error) {
	switch {
	case origin == OriginProxy && action == ActionRequest:
		query, _ := obj["query"].(IRObject)
		body, _ := obj["body"].(IRObject)
		return ProxyRequest{
			Method: Method(stringField(obj, "method")),
			Path:   stringField(obj, "path"),
			Query:  query,
			Body:   body,
		}, nil
	case origin == OriginProxy && action == ActionWait:
		return Wait{UID: stringField(obj, "uid")}, nil
	case origin == OriginHMI && action == ActionRequest:
		body, _ := obj["body"].(IRObject)
		return HMIRequest{
			Method: Method(stringField(obj, "method")),
			Path:   stringField(obj, "path"),
			Body:   body,
		}, nil
	default:
		return nil, fmt.Errorf("unknown command variant %s/%s", origin, action)
	}
}

func stringField(obj IRObject, key string) string {
	s, _ := obj[key].(IRString)
	return string(s)
}

// TrackerUID returns the uid carried by a tracker subscription, if any.
func (c Command) TrackerUID() (string, bool) {
	req, ok := c.Definition.(ProxyRequest)
	if !ok || req.Method != MethodSubscribe {
		return "", false
	}
	setting, _ := req.Body["setting"].(IRObject)
	settings, _ := setting["settings"].(IRObject)
	uid, ok := settings["uid"].(IRString)
	return string(uid), ok
}

// WaitUID returns the uid a WAIT command blocks on.
func (c Command) WaitUID() (string, bool) {
	w, ok := c.Definition.(Wait)
	if !ok {
		return "", false
	}
	return w.UID, true
}
