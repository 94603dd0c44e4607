package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a 24-bit RGB color, 0xRRGGBB.
type Color uint32

var namedColors = map[string]Color{
	"white": 0xffffff,
	"black": 0x000000,
	"red":   0xff0000,
	"green": 0x00ff00,
	"blue":  0x0000ff,
}

// ParseColor accepts "#rrggbb", "#rgb", "0xrrggbb" and a few color names.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(strings.TrimPrefix(s, "#"), "0x")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, fmt.Errorf("scene: invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("scene: invalid color %q: %w", s, err)
	}
	return Color(v), nil
}

// MustParseColor is like ParseColor but panics on error. Use it for
// constants only.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// MarshalText encodes the color as "#rrggbb" so it reaches JSON consumers
// in the form CSS and three.js accept.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
