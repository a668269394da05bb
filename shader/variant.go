package shader

import (
	"fmt"
	"strconv"
	"strings"
)

// Variant selects the shape drawn by the shape blur effect. The value is
// injected as the VAR define.
type Variant int

const (
	RoundedRect Variant = iota
	Circle
	CircleOutline
	Triangle
)

var variantNames = []string{"rounded-rect", "circle", "circle-outline", "triangle"}

func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return "variant(" + strconv.Itoa(int(v)) + ")"
	}
	return variantNames[v]
}

// Define returns the value used for the VAR define.
func (v Variant) Define() string { return strconv.Itoa(int(v)) }

// ParseVariant accepts a variant name or its numeric value. The empty string
// is RoundedRect.
func ParseVariant(s string) (Variant, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RoundedRect, nil
	}
	for i, name := range variantNames {
		if s == name {
			return Variant(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < len(variantNames) {
		return Variant(n), nil
	}
	return 0, fmt.Errorf("unknown shape variant %q", s)
}

func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
