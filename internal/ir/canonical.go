package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// Canonical encoding is the single identity oracle for the chase: change
// detection, tuple dedup, and content hashing all go through it. It follows
// RFC 8785 canonical JSON:
//
//  1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized
//  4. No floats, no null

// CanonicalValue encodes an element value canonically.
func CanonicalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case Str:
		return canonicalString(string(val))
	case Int:
		return []byte(fmt.Sprintf("%d", int64(val))), nil
	case Bool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case Sym:
		return canonicalObject(map[string][]byte{"sym": mustCanonicalString(val.Name)})
	case Witness:
		return canonicalObject(map[string][]byte{
			"existential": mustCanonicalString(val.Existential),
			"n":           []byte(fmt.Sprintf("%d", val.N)),
			"sort":        mustCanonicalString(val.Sort),
		})
	case nil:
		return nil, fmt.Errorf("nil element value")
	default:
		return nil, fmt.Errorf("unsupported element type: %T", v)
	}
}

// CanonicalTuple encodes a tuple as a canonical JSON array.
func CanonicalTuple(t Tuple) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, v := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := CanonicalValue(v)
		if err != nil {
			return nil, fmt.Errorf("tuple[%d]: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// canonicalObject renders pre-encoded field values under RFC 8785 key order.
func canonicalObject(fields map[string][]byte) ([]byte, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, CompareKeysUTF16)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := canonicalString(k)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(fields[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// canonicalString produces a canonical JSON string: NFC normalized, no HTML
// escaping, and U+2028/U+2029 left literal (Go's encoder escapes them for
// JavaScript embedding, which RFC 8785 forbids).
func canonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}
	return unescapeLineSeparators(result), nil
}

func mustCanonicalString(s string) []byte {
	b, err := canonicalString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// unescapeLineSeparators rewrites   and   escapes back to literal
// characters. A single linear scan tracks JSON escape state so that an
// escaped backslash followed by the text "u2028" is left alone.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	var out []byte
	escaped := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if escaped {
			// Inside an escape sequence started by the previous backslash.
			if c == 'u' && i+4 < len(data) && string(data[i+1:i+4]) == "202" &&
				(data[i+4] == '8' || data[i+4] == '9') {
				if out == nil {
					out = append(out, data[:i-1]...)
				} else {
					out = out[:len(out)-1] // drop the backslash
				}
				if data[i+4] == '8' {
					out = append(out, " "...)
				} else {
					out = append(out, " "...)
				}
				i += 4
				escaped = false
				continue
			}
			escaped = false
		} else if c == '\\' {
			escaped = true
		}
		if out != nil {
			out = append(out, c)
		}
	}
	if out == nil {
		return data
	}
	return out
}

// CompareKeysUTF16 compares strings by UTF-16 code units as RFC 8785
// requires. Go's native string comparison is UTF-8 and orders supplementary
// characters differently.
func CompareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := len(a16)
	if len(b16) < n {
		n = len(b16)
	}
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}
