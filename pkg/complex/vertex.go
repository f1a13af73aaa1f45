package complex

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Vertex is an opaque, comparable vertex token.
//
// The zero value is the integer token 0. Vertex values can be used as map
// keys and compared with ==.
type Vertex struct {
	str   string
	num   int64
	isStr bool
}

// Int returns an integer vertex token.
func Int(n int64) Vertex { return Vertex{num: n} }

// Str returns a string vertex token.
func Str(s string) Vertex { return Vertex{str: s, isStr: true} }

// IsString reports whether v is a string token.
func (v Vertex) IsString() bool { return v.isStr }

// Int64 returns the integer value of v and whether v is an integer token.
func (v Vertex) Int64() (int64, bool) { return v.num, !v.isStr }

// String returns the canonical text form of v: the decimal representation
// for integer tokens and the raw string for string tokens.
func (v Vertex) String() string {
	if v.isStr {
		return v.str
	}
	return strconv.FormatInt(v.num, 10)
}

// Compare orders vertex tokens: integers before strings, integers
// numerically, strings lexicographically. It returns -1, 0 or +1.
func Compare(a, b Vertex) int {
	switch {
	case a.isStr && !b.isStr:
		return 1
	case !a.isStr && b.isStr:
		return -1
	case a.isStr:
		return cmp.Compare(a.str, b.str)
	default:
		return cmp.Compare(a.num, b.num)
	}
}

// MarshalJSON encodes integer tokens as JSON numbers and string tokens as
// JSON strings.
func (v Vertex) MarshalJSON() ([]byte, error) {
	if v.isStr {
		return json.Marshal(v.str)
	}
	return []byte(strconv.FormatInt(v.num, 10)), nil
}

// UnmarshalJSON accepts a JSON string or an integral JSON number.
func (v *Vertex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Str(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("vertex token must be a string or integer: %s", data)
	}
	i, err := n.Int64()
	if err != nil {
		return fmt.Errorf("vertex token must be an integer, got %s", n)
	}
	*v = Int(i)
	return nil
}

// FromAny converts a decoded value (from JSON, TOML, YAML or BSON) into a
// vertex token. Integral floats are accepted; anything else is an error.
func FromAny(x any) (Vertex, error) {
	switch t := x.(type) {
	case Vertex:
		return t, nil
	case string:
		return Str(t), nil
	case int:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint32:
		return Int(int64(t)), nil
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) || math.IsNaN(t) {
			return Vertex{}, fmt.Errorf("vertex token must be integral, got %v", t)
		}
		return Int(int64(t)), nil
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return Vertex{}, fmt.Errorf("vertex token must be an integer, got %s", t)
		}
		return Int(i), nil
	default:
		return Vertex{}, fmt.Errorf("unsupported vertex token type %T", x)
	}
}
