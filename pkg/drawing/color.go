package drawing

import (
	"fmt"
	"strings"
)

// withOpacity appends an alpha channel to a #RRGGBB color string. Colors
// that already carry an alpha channel, or non-hex colors, pass through.
func withOpacity(color string, opacity float64) string {
	if !strings.HasPrefix(color, "#") || len(color) != 7 {
		return color
	}
	if opacity < 0 {
		opacity = 0
	}
	if opacity >= 1 {
		return color
	}

	return fmt.Sprintf("%s%02x", color, uint8(opacity*255))
}
