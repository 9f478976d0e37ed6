package fixjson

import "encoding/json"

// Kind classifies a decoded JSON value by its runtime shape.
type Kind int

const (
	KindUnknown Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Classify maps the dynamic types produced by encoding/json to a Kind.
func Classify(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case float64, json.Number, int, int64:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	default:
		return KindUnknown
	}
}

// matchesKind reports whether v terminates the unwrap loop. An empty
// expected set means any non-string value is acceptable.
func matchesKind(v any, expected []Kind) bool {
	kind := Classify(v)
	if len(expected) == 0 {
		return kind != KindString
	}
	for _, k := range expected {
		if kind == k {
			return true
		}
	}
	return false
}
