package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vango-dev/scenesync/pkg/native"
	"golang.org/x/image/colornames"
)

// ParseColor parses a CSS-like color: #rgb, #rgba, #rrggbb, #rrggbbaa,
// rgb(r, g, b), rgba(r, g, b, a), "transparent" or a named color.
func ParseColor(s string) (native.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case s == "":
		return native.Color{}, fmt.Errorf("empty color")
	case s == "transparent":
		return native.Color{}, nil
	case s[0] == '#':
		return parseHex(s[1:])
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseRGB(s[5:len(s)-1], true)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseRGB(s[4:len(s)-1], false)
	}
	if c, ok := colornames.Map[s]; ok {
		return native.Color{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return native.Color{}, fmt.Errorf("unknown color %q", s)
}

func parseHex(h string) (native.Color, error) {
	switch len(h) {
	case 3, 4:
		// Expand #rgb(a) to #rrggbb(aa).
		var b strings.Builder
		for _, r := range h {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		h = b.String()
	case 6, 8:
	default:
		return native.Color{}, fmt.Errorf("bad hex color length %d", len(h))
	}
	if len(h) == 6 {
		h += "ff"
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return native.Color{}, fmt.Errorf("bad hex color: %w", err)
	}
	return native.Color{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

func parseRGB(args string, alpha bool) (native.Color, error) {
	parts := strings.Split(args, ",")
	want := 3
	if alpha {
		want = 4
	}
	if len(parts) != want {
		return native.Color{}, fmt.Errorf("expected %d color components, got %d", want, len(parts))
	}
	var ch [4]uint8
	ch[3] = 255
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if i == 3 {
			a, err := strconv.ParseFloat(p, 64)
			if err != nil || a < 0 || a > 1 {
				return native.Color{}, fmt.Errorf("bad alpha %q", p)
			}
			ch[3] = uint8(a*255 + 0.5)
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > 255 {
			return native.Color{}, fmt.Errorf("bad color component %q", p)
		}
		ch[i] = uint8(v)
	}
	return native.Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}
