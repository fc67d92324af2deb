package highlight

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"page-pilot/internal/application/port/output"
)

const (
	// neutralSaturation is the HSL saturation below which a background is
	// treated as near-neutral and gets the plain default outline.
	neutralSaturation = 0.10
	// lightnessMargin is how far lightness is pushed away from the 50%
	// midline when synthesizing the contrast color.
	lightnessMargin = 0.30
)

var defaultOutline = colorful.Color{R: 1, G: 0, B: 0}

// ContrastColor synthesizes an outline color guaranteed to stand out against
// bg: rotate hue by 180 degrees, force full saturation, and push lightness
// past the midline by a fixed margin. Near-neutral backgrounds keep the plain
// red default.
func ContrastColor(bg colorful.Color) colorful.Color {
	h, s, l := bg.Hsl()
	if s < neutralSaturation {
		return defaultOutline
	}
	h = math.Mod(h+180, 360)
	if l < 0.5 {
		l = math.Min(l+lightnessMargin, 1)
	} else {
		l = math.Max(l-lightnessMargin, 0)
	}
	return colorful.Hsl(h, 1, l)
}

// EffectiveBackground resolves the best-effort composited background behind
// el: walk up from the element compositing translucent layers until a fully
// opaque one is hit, defaulting to white.
func EffectiveBackground(el output.Element) colorful.Color {
	layers := make([]struct {
		c     colorful.Color
		alpha float64
	}, 0, 4)
	for cur := el; cur != nil; cur = cur.Parent() {
		c, alpha, ok := ParseCSSColor(cur.ComputedStyle("background-color"))
		if !ok || alpha == 0 {
			continue
		}
		layers = append(layers, struct {
			c     colorful.Color
			alpha float64
		}{c, alpha})
		if alpha >= 1 {
			break
		}
	}
	bg := colorful.Color{R: 1, G: 1, B: 1}
	for i := len(layers) - 1; i >= 0; i-- {
		bg = blend(layers[i].c, layers[i].alpha, bg)
	}
	return bg
}

func blend(top colorful.Color, alpha float64, under colorful.Color) colorful.Color {
	return colorful.Color{
		R: top.R*alpha + under.R*(1-alpha),
		G: top.G*alpha + under.G*(1-alpha),
		B: top.B*alpha + under.B*(1-alpha),
	}
}

// ParseCSSColor understands the computed-style color forms: rgb(), rgba(),
// and hex. The second return is the alpha channel.
func ParseCSSColor(s string) (colorful.Color, float64, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case s == "" || s == "transparent":
		return colorful.Color{}, 0, false
	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(s)
		if err != nil {
			return colorful.Color{}, 0, false
		}
		return c, 1, true
	case strings.HasPrefix(s, "rgb"):
		open := strings.Index(s, "(")
		end := strings.Index(s, ")")
		if open < 0 || end < open {
			return colorful.Color{}, 0, false
		}
		fields := strings.FieldsFunc(s[open+1:end], func(r rune) bool {
			return r == ',' || r == ' ' || r == '/'
		})
		if len(fields) < 3 {
			return colorful.Color{}, 0, false
		}
		var ch [3]float64
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return colorful.Color{}, 0, false
			}
			ch[i] = v / 255
		}
		alpha := 1.0
		if len(fields) >= 4 {
			if v, err := strconv.ParseFloat(fields[3], 64); err == nil {
				alpha = v
			}
		}
		return colorful.Color{R: ch[0], G: ch[1], B: ch[2]}, alpha, true
	}
	return colorful.Color{}, 0, false
}

// CSS renders a color as the rgb() string used for the inline outline.
func CSS(c colorful.Color) string {
	r, g, b := c.RGB255()
	return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
}
