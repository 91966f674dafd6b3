package domain

import (
	"fmt"
	"image/color"
	"strings"
)

// Color is a pen color from the fixed palette.
type Color string

const (
	ColorBlack Color = "black"
	ColorRed   Color = "red"
	ColorWhite Color = "white"
	ColorTeal  Color = "teal"
)

// Palette lists the selectable pen colors in display order.
var Palette = []Color{ColorBlack, ColorRed, ColorWhite, ColorTeal}

var paletteRGBA = map[Color]color.RGBA{
	ColorBlack: {0x00, 0x00, 0x00, 0xff},
	ColorRed:   {0xff, 0x00, 0x00, 0xff},
	ColorWhite: {0xff, 0xff, 0xff, 0xff},
	ColorTeal:  {0x00, 0x80, 0x80, 0xff},
}

// ParseColor resolves a palette name (case-insensitive).
func ParseColor(name string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := paletteRGBA[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColor, name)
	}
	return c, nil
}

// RGBA returns the display color. Unknown colors render black.
func (c Color) RGBA() color.RGBA {
	if v, ok := paletteRGBA[c]; ok {
		return v
	}
	return paletteRGBA[ColorBlack]
}
