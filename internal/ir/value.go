package ir

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Value is a sealed interface over the element values that may inhabit a
// carrier. Only Str, Int, Bool, Sym, and Witness implement it.
// NO float variant - floats break canonical encoding and determinism.
type Value interface {
	value() // Sealed - only types in this package implement it
}

// Str is a string constant element.
type Str string

func (Str) value() {}

// Int is an integer constant element. Always int64, never float64.
type Int int64

func (Int) value() {}

// Bool is a boolean constant element.
type Bool bool

func (Bool) value() {}

// Sym is a named constant element, used for seed elements that carry no
// data beyond their identity (e.g. the generating object of a presentation).
type Sym struct {
	Name string `json:"sym"`
}

func (Sym) value() {}

// Witness is an element minted by a tuple-generating dependency. Identity is
// the triple (existential variable name, sort, allocation counter); the
// counter comes from a monotonic per-run allocator, so witnesses are
// deterministic within a run but callers must not rely on witness identity
// across runs - only on structural shape.
type Witness struct {
	Existential string `json:"existential"`
	Sort        string `json:"sort"`
	N           int64  `json:"n"`
}

func (Witness) value() {}

// IsWitness reports whether v was minted by a TGD step rather than supplied
// by the caller's seed.
func IsWitness(v Value) bool {
	_, ok := v.(Witness)
	return ok
}

// Tuple is an ordered list of elements, positionally typed by a relation's
// arity.
type Tuple []Value

// MarshalValue encodes a Value as JSON. Constants encode as their JSON
// scalar; Sym and Witness encode as tagged objects so the variants never
// collide with string constants.
func MarshalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case Str:
		return json.Marshal(string(val))
	case Int:
		return json.Marshal(int64(val))
	case Bool:
		return json.Marshal(bool(val))
	case Sym:
		return json.Marshal(struct {
			Sym string `json:"sym"`
		}{val.Name})
	case Witness:
		return json.Marshal(val)
	default:
		return nil, fmt.Errorf("unknown Value type: %T", v)
	}
}

// UnmarshalValue decodes a JSON value into a Value. Floats and null are
// rejected.
func UnmarshalValue(data []byte) (Value, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty JSON value")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return Str(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case 'n':
		return nil, fmt.Errorf("null is forbidden as an element value")
	case '{':
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		if sym, ok := raw["sym"]; ok {
			var name string
			if err := json.Unmarshal(sym, &name); err != nil {
				return nil, err
			}
			return Sym{Name: name}, nil
		}
		if _, ok := raw["existential"]; ok {
			var w Witness
			if err := json.Unmarshal(data, &w); err != nil {
				return nil, err
			}
			return w, nil
		}
		return nil, fmt.Errorf("unrecognized element object: %s", string(data))
	case '[':
		return nil, fmt.Errorf("arrays are not element values")
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("floats are forbidden as element values: %s", string(data))
		}
		return Int(i), nil
	}
}

// String renders a Value for logs and error messages. Not canonical - use
// ValueKey for identity.
func String(v Value) string {
	switch val := v.(type) {
	case Str:
		return fmt.Sprintf("%q", string(val))
	case Int:
		return fmt.Sprintf("%d", int64(val))
	case Bool:
		return fmt.Sprintf("%t", bool(val))
	case Sym:
		return val.Name
	case Witness:
		return fmt.Sprintf("%s/%s#%d", val.Existential, val.Sort, val.N)
	default:
		return fmt.Sprintf("<%T>", v)
	}
}

// StringTuple renders a Tuple for logs and error messages.
func StringTuple(t Tuple) string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = String(v)
	}
	return "(" + strings.Join(parts, ",") + ")"
}
