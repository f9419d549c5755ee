package report

import (
	"fmt"
	"sort"
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/lucasb-eyer/go-colorful"
)

const DefaultTheme = "nord"

type Palette struct {
	Name     string
	Text     string
	Dim      string
	PathDir  string
	PathFile string
	PathMeta string
	Accent   string
	Type     string
	String   string
	Number   string
}

func LoadPalette(name string) (Palette, error) {
	requested := strings.TrimSpace(name)
	if requested == "" {
		requested = DefaultTheme
	}

	lookup := normalizeThemeName(requested)
	names := styles.Names()
	available := make(map[string]struct{}, len(names))
	for _, n := range names {
		available[n] = struct{}{}
	}
	unknownThemeErr := func() error {
		sort.Strings(names)
		return fmt.Errorf("unknown theme %q. try one of: %s", requested, strings.Join(themeHints(names), ", "))
	}
	if _, ok := available[lookup]; !ok {
		return Palette{}, unknownThemeErr()
	}

	style := styles.Get(lookup)
	if style == nil {
		return Palette{}, unknownThemeErr()
	}

	baseFG := pickForeground(style, "#d8dee9", chroma.Text, chroma.Background)
	comment := pickForeground(style, adjustTone(baseFG, -60), chroma.Comment)

	return Palette{
		Name:     lookup,
		Text:     baseFG,
		Dim:      pickForeground(style, adjustTone(comment, -10), chroma.Comment),
		PathDir:  pickForeground(style, comment, chroma.Comment),
		PathFile: pickForeground(style, adjustTone(baseFG, -30), chroma.Name, chroma.NameNamespace),
		PathMeta: pickForeground(style, adjustTone(baseFG, -40), chroma.LineNumbers, chroma.Comment),
		Accent:   pickForeground(style, baseFG, chroma.NameFunction, chroma.Keyword),
		Type:     pickForeground(style, baseFG, chroma.KeywordType, chroma.NameClass),
		String:   pickForeground(style, baseFG, chroma.LiteralString),
		Number:   pickForeground(style, baseFG, chroma.LiteralNumber),
	}, nil
}

func normalizeThemeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "solarized":
		return "solarized-dark"
	case "one-dark":
		return "onedark"
	default:
		return n
	}
}

func pickForeground(style *chroma.Style, fallback string, types ...chroma.TokenType) string {
	for _, tt := range types {
		entry := style.Get(tt)
		if entry.Colour.IsSet() {
			return entry.Colour.String()
		}
	}
	return fallback
}

func themeHints(all []string) []string {
	wanted := []string{"nord", "dracula", "monokai", "github", "github-dark", "solarized-dark", "solarized-light", "gruvbox", "onedark"}
	set := map[string]bool{}
	for _, n := range all {
		set[n] = true
	}
	out := make([]string, 0, len(wanted))
	for _, name := range wanted {
		if set[name] {
			out = append(out, name)
		}
	}
	if len(out) == 0 {
		return all[:min(8, len(all))]
	}
	return out
}

func adjustTone(hex string, delta int) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	d := float64(delta) / 255
	return colorful.Color{R: c.R + d, G: c.G + d, B: c.B + d}.Clamped().Hex()
}

// labelColor picks black or white text for a label drawn on bg.
func labelColor(bg string) string {
	c, err := colorful.Hex(bg)
	if err != nil {
		return "#ffffff"
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return "#000000"
	}
	return "#ffffff"
}
