package ggsurface

import (
	"strconv"
	"strings"

	"github.com/gogpu/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor parses a CSS color: #rgb, #rgba, #rrggbb, #rrggbbaa, rgb(),
// rgba(), hsl(), hsla(), a named color or "transparent".
func ParseColor(s string) (gg.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return gg.RGBA{}, false
	case s == "transparent":
		return gg.Transparent, true
	case s[0] == '#':
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgb"):
		return parseRGB(s)
	case strings.HasPrefix(s, "hsl"):
		return parseHSL(s)
	}
	if c, ok := colornames.Map[s]; ok {
		return gg.FromColor(c), true
	}
	return gg.RGBA{}, false
}

func parseHex(h string) (gg.RGBA, bool) {
	switch len(h) {
	case 3, 4, 6, 8:
	default:
		return gg.RGBA{}, false
	}
	if _, err := strconv.ParseUint(h, 16, 64); err != nil {
		return gg.RGBA{}, false
	}
	return gg.Hex(h), true
}

// args splits "fn(a, b c / d)" into its numeric arguments.
func args(s string) ([]string, bool) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return nil, false
	}
	inner := strings.NewReplacer(",", " ", "/", " ").Replace(s[open+1 : end])
	return strings.Fields(inner), true
}

// channel parses a number or percentage and scales it to [0,1] given the
// value that means "full".
func channel(s string, full float64) (float64, bool) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(p, 64)
		return clamp01(v / 100), err == nil
	}
	v, err := strconv.ParseFloat(s, 64)
	return clamp01(v / full), err == nil
}

func alpha(parts []string, n int) (float64, bool) {
	if len(parts) == n {
		return 1, true
	}
	if len(parts) != n+1 {
		return 0, false
	}
	return channel(parts[n], 1)
}

func parseRGB(s string) (gg.RGBA, bool) {
	parts, ok := args(s)
	if !ok || len(parts) < 3 {
		return gg.RGBA{}, false
	}
	var c [3]float64
	for i := range c {
		if c[i], ok = channel(parts[i], 255); !ok {
			return gg.RGBA{}, false
		}
	}
	a, ok := alpha(parts, 3)
	if !ok {
		return gg.RGBA{}, false
	}
	return gg.RGBA{R: c[0], G: c[1], B: c[2], A: a}, true
}

func parseHSL(s string) (gg.RGBA, bool) {
	parts, ok := args(s)
	if !ok || len(parts) < 3 {
		return gg.RGBA{}, false
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(parts[0], "deg"), 64)
	if err != nil {
		return gg.RGBA{}, false
	}
	sat, ok1 := channel(parts[1], 100)
	light, ok2 := channel(parts[2], 100)
	a, ok3 := alpha(parts, 3)
	if !ok1 || !ok2 || !ok3 {
		return gg.RGBA{}, false
	}
	for h < 0 {
		h += 360
	}
	c := colorful.Hsl(h-360*float64(int(h/360)), sat, light).Clamped()
	return gg.RGBA{R: c.R, G: c.G, B: c.B, A: a}, true
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
