package register

import (
	"github.com/lafritemema/MARS-data-build/internal/ir"
)

// origin is the error origin tag for this package.
const origin = "REGISTER"

// Kind is a register family.
type Kind string

const (
	Text              Kind = "Text"
	PositionJoint     Kind = "PositionJoint"
	PositionCartesian Kind = "PositionCartesian"
	NumericInt        Kind = "NumericInt"
	NumericFloat      Kind = "NumericFloat"
)

// Routing selects the addressing mode appended to a family's base path.
type Routing string

const (
	Single Routing = "/single"
	Block  Routing = "/block"
	All    Routing = "/all"
)

// Entry is one row of the register table.
type Entry struct {
	Kind       Kind
	BasePath   string
	ReadLimit  int
	WriteLimit int
	// Subtype is sent as the "type" query parameter. Empty for families without one.
	Subtype string
	// PayloadKey names the data field of a single-value body. List bodies use PayloadKey+"s".
	PayloadKey string
}

var table = []Entry{
	{Kind: Text, BasePath: "/stringRegister", ReadLimit: 5, WriteLimit: 5, PayloadKey: "text"},
	{Kind: PositionJoint, BasePath: "/positionRegister", ReadLimit: 10, WriteLimit: 10, Subtype: "jnt", PayloadKey: "position"},
	{Kind: PositionCartesian, BasePath: "/positionRegister", ReadLimit: 10, WriteLimit: 10, Subtype: "crt", PayloadKey: "position"},
	{Kind: NumericInt, BasePath: "/numericRegister", ReadLimit: 120, WriteLimit: 115, Subtype: "int", PayloadKey: "value"},
	{Kind: NumericFloat, BasePath: "/numericRegister", ReadLimit: 120, WriteLimit: 115, Subtype: "float", PayloadKey: "value"},
}

var byKind = func() map[Kind]Entry {
	m := make(map[Kind]Entry, len(table))
	for _, e := range table {
		m[e.Kind] = e
	}
	return m
}()

// Kinds returns the register families in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, len(table))
	for i, e := range table {
		kinds[i] = e.Kind
	}
	return kinds
}

// Lookup returns the table row for kind.
func Lookup(kind Kind) (Entry, error) {
	e, ok := byKind[kind]
	if !ok {
		return Entry{}, ir.NewConfigError(origin, "unknown register kind %q", kind)
	}
	return e, nil
}

// Limits returns the maximum number of registers one read and one write may address.
func Limits(kind Kind) (read, write int, err error) {
	e, err := Lookup(kind)
	if err != nil {
		return 0, 0, err
	}
	return e.ReadLimit, e.WriteLimit, nil
}

// Path joins the family base path and the routing suffix.
func Path(kind Kind, routing Routing) (string, error) {
	e, err := Lookup(kind)
	if err != nil {
		return "", err
	}
	switch routing {
	case Single, Block, All:
	default:
		return "", ir.NewConfigError(origin, "unknown routing %q", routing)
	}
	return e.BasePath + string(routing), nil
}

// BodyKey returns the payload key used in data bodies.
func BodyKey(kind Kind) (string, error) {
	e, err := Lookup(kind)
	if err != nil {
		return "", err
	}
	return e.PayloadKey, nil
}

// Subtype returns the "type" query value, or "" when the family has none.
func Subtype(kind Kind) (string, error) {
	e, err := Lookup(kind)
	if err != nil {
		return "", err
	}
	return e.Subtype, nil
}

// Query builds the addressing query: {reg} for one register, {startReg, blockSize}
// otherwise, plus {type} when the family has a subtype.
func Query(kind Kind, start, count int) (ir.IRObject, error) {
	e, err := Lookup(kind)
	if err != nil {
		return nil, err
	}

	q := ir.IRObject{}
	if count <= 1 {
		q["reg"] = ir.IRInt(start)
	} else {
		q["startReg"] = ir.IRInt(start)
		q["blockSize"] = ir.IRInt(count)
	}
	if e.Subtype != "" {
		q["type"] = ir.IRString(e.Subtype)
	}
	return q, nil
}

// Body wraps value under the family payload key: {key: v} for a scalar,
// {key+"s": [...]} for an ir.IRArray.
func Body(kind Kind, value ir.IRValue) (ir.IRObject, error) {
	e, err := Lookup(kind)
	if err != nil {
		return nil, err
	}
	if arr, ok := value.(ir.IRArray); ok {
		return ir.IRObject{e.PayloadKey + "s": arr}, nil
	}
	return ir.IRObject{e.PayloadKey: value}, nil
}
