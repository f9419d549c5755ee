package colors

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const alphaPattern = `(\d*\.?\d+%?)`

var (
	hexLiteral = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	rgbCallExp = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*` + alphaPattern + `\s*)?\)$`)
	hslCallExp = regexp.MustCompile(`^hsla?\(\s*(\d{1,3}(?:\.\d+)?)(?:deg)?\s*,\s*(\d{1,3}(?:\.\d+)?)%\s*,\s*(\d{1,3}(?:\.\d+)?)%\s*(?:,\s*` + alphaPattern + `\s*)?\)$`)
)

// ParseCallExpression accepts rgb(), rgba(), hsl() and hsla() calls with
// comma separated arguments.
func ParseCallExpression(text string) (Data, bool) {
	if len(text) < 4 {
		return Data{}, false
	}

	switch text[:3] {
	case "rgb":
		return parseRGB(text)
	case "hsl":
		return parseHSL(text)
	default:
		return Data{}, false
	}
}

func parseRGB(text string) (Data, bool) {
	m := rgbCallExp.FindStringSubmatch(text)
	if m == nil {
		return Data{}, false
	}

	var channels [3]float64
	for i := range channels {
		v, err := strconv.Atoi(m[i+1])
		if err != nil || v > 255 {
			return Data{}, false
		}
		channels[i] = float64(v) / 255
	}
	if !validAlpha(m[4]) {
		return Data{}, false
	}

	c := colorful.Color{R: channels[0], G: channels[1], B: channels[2]}
	return Data{Type: TypeRGB, Color: c.Hex(), Alpha: m[4]}, true
}

func parseHSL(text string) (Data, bool) {
	m := hslCallExp.FindStringSubmatch(text)
	if m == nil {
		return Data{}, false
	}

	h, err := strconv.ParseFloat(m[1], 64)
	if err != nil || h > 360 {
		return Data{}, false
	}
	s, err := strconv.ParseFloat(m[2], 64)
	if err != nil || s > 100 {
		return Data{}, false
	}
	l, err := strconv.ParseFloat(m[3], 64)
	if err != nil || l > 100 {
		return Data{}, false
	}
	if !validAlpha(m[4]) {
		return Data{}, false
	}

	c := colorful.Hsl(math.Mod(h, 360), s/100, l/100).Clamped()
	return Data{Type: TypeHSL, Color: c.Hex(), Alpha: m[4]}, true
}

func validAlpha(alpha string) bool {
	if alpha == "" {
		return true
	}
	limit := 1.0
	if strings.HasSuffix(alpha, "%") {
		alpha = strings.TrimSuffix(alpha, "%")
		limit = 100
	}
	v, err := strconv.ParseFloat(alpha, 64)
	return err == nil && v <= limit
}

// ParseColorLiteral accepts #rgb, #rgba, #rrggbb and #rrggbbaa.
func ParseColorLiteral(text string) (Data, bool) {
	if !hexLiteral.MatchString(text) {
		return Data{}, false
	}

	digits := strings.ToLower(text[1:])
	alpha := ""
	switch len(digits) {
	case 4:
		alpha = strings.Repeat(digits[3:], 2)
		digits = digits[:3]
	case 8:
		alpha = digits[6:]
		digits = digits[:6]
	}

	colour := chroma.ParseColour("#" + digits)
	if !colour.IsSet() {
		return Data{}, false
	}
	return Data{Type: TypeHex, Color: colour.String(), Alpha: alpha}, true
}
