package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Palette maps render roles (e.g. "wall", "key") to hex colours.
type Palette struct {
	Colors map[string]string `json:"colors"`
}

// LoadPalette loads the embedded palette.json.
func LoadPalette() (Palette, error) {
	return Load[Palette]("palette.json")
}

// Color returns the tcell colour for a role, or fallback when the role is
// missing or its value does not parse.
func (p Palette) Color(role string, fallback tcell.Color) tcell.Color {
	hex, ok := p.Colors[role]
	if !ok {
		return fallback
	}
	c, err := ParseHexColor(hex)
	if err != nil {
		return fallback
	}
	return c
}

// ParseHexColor converts "#RRGGBB", "RRGGBB" or the "#RGB" shorthand to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	hex = strings.TrimPrefix(hex, "#")

	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %s", hex)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color %s: %w", hex, err)
	}

	return tcell.NewRGBColor(int32(v>>16&0xFF), int32(v>>8&0xFF), int32(v&0xFF)), nil
}
