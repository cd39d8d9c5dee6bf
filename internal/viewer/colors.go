package viewer

import (
	"fmt"
	"strconv"
	"strings"
)

var namedColors = map[string][3]float32{
	"black":   {0, 0, 0},
	"white":   {1, 1, 1},
	"red":     {1, 0, 0},
	"green":   {0, 0.5, 0},
	"blue":    {0, 0, 1},
	"yellow":  {1, 1, 0},
	"cyan":    {0, 1, 1},
	"magenta": {1, 0, 1},
	"gray":    {0.5, 0.5, 0.5},
	"grey":    {0.5, 0.5, 0.5},
	"orange":  {1, 0.65, 0},
	"purple":  {0.5, 0, 0.5},
}

// ParseColor parses a CSS-style color: #rgb, #rrggbb, rgb(r, g, b) with
// 0-255 components, or a small set of named colors.
func ParseColor(s string) ([3]float32, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if c, ok := namedColors[s]; ok {
		return c, nil
	}

	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}

	if strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")") {
		return parseRGBColor(s[4 : len(s)-1])
	}

	return [3]float32{}, fmt.Errorf("unrecognized color %q", s)
}

func parseHexColor(hex string) ([3]float32, error) {
	var c [3]float32

	switch len(hex) {
	case 3:
		for i := 0; i < 3; i++ {
			n, err := strconv.ParseUint(string(hex[i]), 16, 8)
			if err != nil {
				return c, fmt.Errorf("invalid hex color %q", hex)
			}
			c[i] = float32(n*17) / 255
		}
	case 6:
		for i := 0; i < 3; i++ {
			n, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
			if err != nil {
				return c, fmt.Errorf("invalid hex color %q", hex)
			}
			c[i] = float32(n) / 255
		}
	default:
		return c, fmt.Errorf("hex color %q must have 3 or 6 digits", hex)
	}

	return c, nil
}

func parseRGBColor(body string) ([3]float32, error) {
	var c [3]float32

	parts := strings.Split(body, ",")
	if len(parts) != 3 {
		return c, fmt.Errorf("rgb() needs 3 components, got %d", len(parts))
	}
	for i, p := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return c, fmt.Errorf("rgb() component %q: %w", p, err)
		}
		if n < 0 || n > 255 {
			return c, fmt.Errorf("rgb() component %v out of range", n)
		}
		c[i] = float32(n) / 255
	}

	return c, nil
}
