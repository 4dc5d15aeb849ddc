package xlmap

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Color is a field status color persisted as cell background fill in the
// mapping workbook. The set is closed: default, green, red, yellow.
type Color int

const (
	ColorDefault Color = iota
	ColorGreen         // mapped indicator, never manually selectable
	ColorRed
	ColorYellow
)

// Canonical RGB codes for each status color.
const (
	codeYellow = "E6A700"
	codeRed    = "F44336"
	codeGreen  = "90EE90"
	codeWhite  = "FFFFFF"
)

// String returns a human-readable name for the Color.
func (c Color) String() string {
	switch c {
	case ColorGreen:
		return "green"
	case ColorRed:
		return "red"
	case ColorYellow:
		return "yellow"
	default:
		return "default"
	}
}

// Code returns the canonical RGB code for the color. The default color maps
// to white, which renders as no tint.
func (c Color) Code() string {
	switch c {
	case ColorGreen:
		return codeGreen
	case ColorRed:
		return codeRed
	case ColorYellow:
		return codeYellow
	default:
		return codeWhite
	}
}

// IsTint reports whether the color is a manual row tint (yellow or red).
func (c Color) IsTint() bool {
	return c == ColorYellow || c == ColorRed
}

// ParseColor converts a color name to a Color. Unknown names resolve to
// ColorDefault.
func ParseColor(name string) Color {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "green":
		return ColorGreen
	case "red":
		return ColorRed
	case "yellow":
		return ColorYellow
	default:
		return ColorDefault
	}
}

// MarshalYAML encodes the color by name so catalogs stay hand-editable.
func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}

// UnmarshalYAML decodes a color name; unknown names fall back to default.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	*c = ParseColor(value.Value)
	return nil
}

// ColorFromFill matches a cell fill color code against the canonical status
// codes. Matching is case-insensitive and tolerates a leading "#" as well as
// an 8-digit ARGB form with an opaque alpha prefix ("FFE6A700"). Unrecognized
// codes return (ColorDefault, false); there is no error path.
func ColorFromFill(code string) (Color, bool) {
	c := NormalizeFill(code)
	switch c {
	case codeYellow:
		return ColorYellow, true
	case codeRed:
		return ColorRed, true
	case codeGreen:
		return ColorGreen, true
	}
	return ColorDefault, false
}

// NormalizeFill converts a hex fill code to the internal 6-digit upper-case
// RGB form, stripping "#" and an opaque alpha channel when present.
func NormalizeFill(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	c = strings.TrimPrefix(c, "#")
	if len(c) == 8 {
		c = c[2:]
	}
	return c
}
