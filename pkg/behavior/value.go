package behavior

import (
	"encoding/json"
	"fmt"
)

// ValueKind tags the shape of a captured element value.
type ValueKind uint8

const (
	ValueText ValueKind = iota
	ValueBool
	ValueList
)

// Value is the capture-time value of an element: a string for text-like
// inputs, a bool for checkboxes and radios, a string list for multi-selects.
// An absent value is represented by a nil *Value on the event.
type Value struct {
	Kind ValueKind
	Text string
	Bool bool
	List []string
}

func TextValue(s string) *Value {
	return &Value{Kind: ValueText, Text: s}
}

func BoolValue(b bool) *Value {
	return &Value{Kind: ValueBool, Bool: b}
}

func ListValue(items []string) *Value {
	return &Value{Kind: ValueList, List: items}
}

// String renders the value for heuristics that operate on text. Bool and
// list values render to their obvious textual forms.
func (v *Value) String() string {
	if v == nil {
		return ""
	}
	switch v.Kind {
	case ValueBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case ValueList:
		out := ""
		for i, item := range v.List {
			if i > 0 {
				out += ","
			}
			out += item
		}
		return out
	}
	return v.Text
}

// MarshalJSON emits the native JSON shape (string, bool or array) so
// persisted snapshots stay readable by other consumers of the storage key.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueBool:
		return json.Marshal(v.Bool)
	case ValueList:
		if v.List == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.List)
	}
	return json.Marshal(v.Text)
}

// UnmarshalJSON restores the variant from its native JSON shape.
func (v *Value) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty value payload")
	}
	switch data[0] {
	case 't', 'f':
		v.Kind = ValueBool
		return json.Unmarshal(data, &v.Bool)
	case '[':
		v.Kind = ValueList
		return json.Unmarshal(data, &v.List)
	default:
		v.Kind = ValueText
		return json.Unmarshal(data, &v.Text)
	}
}
