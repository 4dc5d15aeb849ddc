package xlmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColor_Code(t *testing.T) {
	assert.Equal(t, "E6A700", ColorYellow.Code())
	assert.Equal(t, "F44336", ColorRed.Code())
	assert.Equal(t, "90EE90", ColorGreen.Code())
	assert.Equal(t, "FFFFFF", ColorDefault.Code())
}

func TestColorFromFill_Variants(t *testing.T) {
	tests := []struct {
		code  string
		want  Color
		match bool
	}{
		{"E6A700", ColorYellow, true},
		{"e6a700", ColorYellow, true},
		{"#E6A700", ColorYellow, true},
		{"FFE6A700", ColorYellow, true}, // opaque alpha prefix
		{"#ffe6a700", ColorYellow, true},
		{"F44336", ColorRed, true},
		{"90EE90", ColorGreen, true},
		{"FFFFFF", ColorDefault, false},
		{"123456", ColorDefault, false},
		{"", ColorDefault, false},
	}
	for _, tt := range tests {
		got, ok := ColorFromFill(tt.code)
		assert.Equal(t, tt.want, got, "code %q", tt.code)
		assert.Equal(t, tt.match, ok, "code %q", tt.code)
	}
}

func TestColor_RoundTripThroughCode(t *testing.T) {
	for _, c := range []Color{ColorYellow, ColorRed, ColorGreen} {
		got, ok := ColorFromFill(c.Code())
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}
}

func TestParseColor(t *testing.T) {
	assert.Equal(t, ColorYellow, ParseColor("yellow"))
	assert.Equal(t, ColorYellow, ParseColor(" Yellow "))
	assert.Equal(t, ColorRed, ParseColor("red"))
	assert.Equal(t, ColorGreen, ParseColor("green"))
	assert.Equal(t, ColorDefault, ParseColor("default"))
	assert.Equal(t, ColorDefault, ParseColor("purple"))
}

func TestColor_IsTint(t *testing.T) {
	assert.True(t, ColorYellow.IsTint())
	assert.True(t, ColorRed.IsTint())
	assert.False(t, ColorGreen.IsTint())
	assert.False(t, ColorDefault.IsTint())
}
