package material

import (
	"encoding/json"
	"maps"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/simplexsight/pkg/errors"
)

// Props is an open set of material properties.
type Props map[string]any

// Clone returns a shallow copy of p. Cloning nil yields nil.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	return maps.Clone(p)
}

// Merge layers props left to right into a fresh map.
func Merge(layers ...Props) Props {
	out := make(Props)
	for _, l := range layers {
		maps.Copy(out, l)
	}
	return out
}

// colorKeys are normalized to integers when stored.
var colorKeys = []string{"color", "emissive"}

// ColorHash maps s onto the 24-bit color range with xxhash64. The result
// depends only on the UTF-8 bytes of s.
func ColorHash(s string) int {
	return int(xxhash.Sum64String(s) % 0xFFFFFF)
}

// normalize returns a copy of p with color values converted to integers.
func normalize(p Props) (Props, error) {
	out := make(Props, len(p))
	maps.Copy(out, p)
	for _, k := range colorKeys {
		v, ok := out[k]
		if !ok {
			continue
		}
		c, err := ParseColor(v)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "property %q", k)
		}
		out[k] = c
	}
	return out, nil
}

// ParseColor converts a color value to a 24-bit integer. It accepts integer
// and integral float numbers and strings in "#rrggbb", "0xrrggbb" or decimal
// form.
func ParseColor(v any) (int, error) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint32:
		n = int64(x)
	case uint64:
		if x > 0xFFFFFF {
			return 0, errors.New(errors.ErrCodeInvalidInput, "color %d out of range", x)
		}
		n = int64(x)
	case float64:
		if x != float64(int64(x)) {
			return 0, errors.New(errors.ErrCodeInvalidInput, "color %v is not an integer", x)
		}
		n = int64(x)
	case json.Number:
		parsed, err := x.Int64()
		if err != nil {
			return 0, errors.New(errors.ErrCodeInvalidInput, "invalid color %s", x)
		}
		n = parsed
	case string:
		s := strings.TrimSpace(x)
		base := 10
		switch {
		case strings.HasPrefix(s, "#"):
			s, base = s[1:], 16
		case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
			s, base = s[2:], 16
		}
		parsed, err := strconv.ParseInt(s, base, 64)
		if err != nil {
			return 0, errors.New(errors.ErrCodeInvalidInput, "invalid color %q", x)
		}
		n = parsed
	default:
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid color type %T", v)
	}
	if n < 0 || n > 0xFFFFFF {
		return 0, errors.New(errors.ErrCodeInvalidInput, "color %d out of range", n)
	}
	return int(n), nil
}
