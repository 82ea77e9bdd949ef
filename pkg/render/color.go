package render

import (
	"image/color"
	"math"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack       = color.RGBA{0, 0, 0, 255}
	ColorWhite       = color.RGBA{255, 255, 255, 255}
	ColorTransparent = color.RGBA{}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{r, g, b, a}
}

// FloatColor converts 0-1 components to a Color, clamping out of range values.
func FloatColor(r, g, b, a float64) Color {
	return Color{toByte(r), toByte(g), toByte(b), toByte(a)}
}

func toByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
