package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces the deterministic JSON form used for
// hashing: object keys sorted bytewise after NFC normalization, string
// values NFC normalized, numbers in shortest round-trip form, no HTML
// escaping, no insignificant whitespace. Object members whose value is
// null are dropped so a spelled-out null and an absent field hash
// identically; array elements are positional and keep their nulls.
//
// Accepted values are the generic JSON shapes produced by decoding
// with json.Decoder.UseNumber: nil, bool, string, json.Number,
// float64, int variants, []any and map[string]any.
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case string:
		return writeCanonicalString(buf, val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return fmt.Errorf("canonical JSON: bad number %q: %w", val.String(), err)
		}
		return writeCanonicalNumber(buf, f)
	case float64:
		return writeCanonicalNumber(buf, val)
	case float32:
		return writeCanonicalNumber(buf, float64(val))
	case int:
		return writeCanonicalNumber(buf, float64(val))
	case int64:
		return writeCanonicalNumber(buf, float64(val))
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]any:
		return writeCanonicalObject(buf, val)
	default:
		return fmt.Errorf("canonical JSON: unsupported type %T", v)
	}
}

func writeCanonicalObject(buf *bytes.Buffer, m map[string]any) error {
	// Normalize keys before sorting; two distinct spellings that
	// normalize to the same key would silently shadow each other.
	normalized := make(map[string]any, len(m))
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		nk := norm.NFC.String(k)
		if _, dup := normalized[nk]; dup {
			return fmt.Errorf("canonical JSON: duplicate key %q after normalization", nk)
		}
		normalized[nk] = v
		keys = append(keys, nk)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeCanonicalString(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := writeCanonical(buf, normalized[k]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeCanonicalString(buf *bytes.Buffer, s string) error {
	var sb bytes.Buffer
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return fmt.Errorf("canonical JSON: encode string: %w", err)
	}
	// Encode appends a newline.
	buf.Write(bytes.TrimRight(sb.Bytes(), "\n"))
	return nil
}

func writeCanonicalNumber(buf *bytes.Buffer, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("canonical JSON: non-finite number %v", f)
	}
	if f == 0 {
		// Collapse negative zero.
		buf.WriteByte('0')
		return nil
	}
	buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	return nil
}
