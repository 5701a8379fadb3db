package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"
)

// IRValue is a JSON value inside a command payload. The set of
// implementations is closed.
type IRValue interface {
	irValue()
}

type IRNull struct{}

type IRString string

// IRInt holds register indexes, codes and counts.
type IRInt int64

// IRFloat holds axis coordinates. NaN and Inf do not serialize.
type IRFloat float64

type IRBool bool

type IRArray []IRValue

// IRObject iterates in canonical order only through SortedKeys.
type IRObject map[string]IRValue

func (IRNull) irValue()   {}
func (IRString) irValue() {}
func (IRInt) irValue()    {}
func (IRFloat) irValue()  {}
func (IRBool) irValue()   {}
func (IRArray) irValue()  {}
func (IRObject) irValue() {}

func (IRNull) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// IntArray converts register values to an IRArray.
func IntArray(vals []int) IRArray {
	arr := make(IRArray, len(vals))
	for i, v := range vals {
		arr[i] = IRInt(v)
	}
	return arr
}

// SortedKeys returns the keys ordered by UTF-16 code unit, as RFC 8785
// requires. This differs from byte order for keys outside the BMP.
func (obj IRObject) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
	})
	return keys
}

// UnmarshalJSON decodes a JSON object. Numbers without a fraction or
// exponent become IRInt, so register indexes above 2^53 stay exact.
func (obj *IRObject) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := decodeNumbers(data, &raw); err != nil {
		return err
	}
	v, err := fromDecoded(raw)
	if err != nil {
		return err
	}
	*obj = v.(IRObject)
	return nil
}

// UnmarshalJSON decodes a JSON array; see IRObject.UnmarshalJSON.
func (arr *IRArray) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := decodeNumbers(data, &raw); err != nil {
		return err
	}
	v, err := fromDecoded(raw)
	if err != nil {
		return err
	}
	*arr = v.(IRArray)
	return nil
}

func decodeNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// fromDecoded converts the output of a UseNumber decode.
func fromDecoded(v any) (IRValue, error) {
	switch val := v.(type) {
	case nil:
		return IRNull{}, nil
	case bool:
		return IRBool(val), nil
	case string:
		return IRString(val), nil
	case json.Number:
		return fromNumber(val)
	case []any:
		arr := make(IRArray, len(val))
		for i, elem := range val {
			iv, err := fromDecoded(elem)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr[i] = iv
		}
		return arr, nil
	case map[string]any:
		obj := make(IRObject, len(val))
		for k, elem := range val {
			iv, err := fromDecoded(elem)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			obj[k] = iv
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unexpected decoded type %T", v)
	}
}

func fromNumber(n json.Number) (IRValue, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("integer %s overflows int64", s)
		}
		return IRInt(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("number %s: %w", s, err)
	}
	return IRFloat(f), nil
}

// MarshalJSON emits the canonical form, so stored and printed payloads
// match the bytes their ids were computed from.
func (obj IRObject) MarshalJSON() ([]byte, error) {
	return marshalCanonicalObject(obj)
}

// MarshalJSON emits the canonical form.
func (arr IRArray) MarshalJSON() ([]byte, error) {
	return marshalCanonicalArray(arr)
}
