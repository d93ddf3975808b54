package shade

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownBlendMode is returned by ParseBlendMode for names that are
// neither a known mode nor an integer selector.
var ErrUnknownBlendMode = errors.New("shade: unknown blend mode")

// BlendMode selects how the primary and lightmap samples combine into the
// fragment color. Its numeric value is the i32 selector written into the
// draw-params uniform.
//
// The set of modes is closed, but any int32 is representable so that a
// selector read back from a uniform or config survives unchanged. Values
// outside the enumeration composite exactly like BlendRaw; see Resolve.
type BlendMode int32

const (
	// BlendRaw outputs the primary texture sample unchanged.
	BlendRaw BlendMode = 0

	// BlendReplace outputs the lightmap color with the primary alpha.
	BlendReplace BlendMode = 1

	// BlendMultiply outputs primary rgb times lightmap rgb with the
	// primary alpha.
	BlendMultiply BlendMode = 2
)

// String returns the blend mode name.
func (m BlendMode) String() string {
	switch m {
	case BlendRaw:
		return "raw"
	case BlendReplace:
		return "replace"
	case BlendMultiply:
		return "multiply"
	default:
		return "BlendMode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Valid reports whether m is one of the enumerated modes.
func (m BlendMode) Valid() bool {
	return m == BlendRaw || m == BlendReplace || m == BlendMultiply
}

// Resolve returns the mode the fragment stage actually applies.
// Enumerated modes resolve to themselves. Every other value is the
// fallback arm and resolves to BlendRaw; it is never an error.
func (m BlendMode) Resolve() BlendMode {
	if m.Valid() {
		return m
	}
	return BlendRaw
}

// Next cycles raw -> replace -> multiply -> raw. Unknown values restart
// the cycle at replace, the successor of their resolved mode.
func (m BlendMode) Next() BlendMode {
	switch m.Resolve() {
	case BlendRaw:
		return BlendReplace
	case BlendReplace:
		return BlendMultiply
	default:
		return BlendRaw
	}
}

// ParseBlendMode parses a mode name ("raw", "replace", "multiply",
// case-insensitive) or an integer selector. Integer selectors are
// accepted even when they are outside the enumeration.
func ParseBlendMode(s string) (BlendMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "raw", "texture":
		return BlendRaw, nil
	case "replace", "lightmap":
		return BlendReplace, nil
	case "multiply", "lit":
		return BlendMultiply, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return BlendRaw, fmt.Errorf("%w: %q", ErrUnknownBlendMode, s)
	}
	return BlendMode(n), nil
}

// MarshalText implements encoding.TextMarshaler.
func (m BlendMode) MarshalText() ([]byte, error) {
	if m.Valid() {
		return []byte(m.String()), nil
	}
	return []byte(strconv.Itoa(int(m))), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *BlendMode) UnmarshalText(text []byte) error {
	v, err := ParseBlendMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
