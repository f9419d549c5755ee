package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

const maxExcerptWidth = 48

func (p *Printer) colored() bool {
	return p.renderer.ColorProfile() != termenv.Ascii
}

func (p *Printer) fg(hex string) lipgloss.Style {
	return p.renderer.NewStyle().Foreground(lipgloss.Color(hex))
}

// swatch is empty without a color profile so plain output stays aligned.
func (p *Printer) swatch(hex string) string {
	if !p.colored() {
		return ""
	}
	return p.renderer.NewStyle().
		Background(lipgloss.Color(hex)).
		Foreground(lipgloss.Color(labelColor(hex))).
		Render("  ") + " "
}

func (p *Printer) location(r MatchRecord) (string, int) {
	dir, file := filepath.Split(r.File)
	meta := fmt.Sprintf(":%d:%d", r.Line, r.Column)
	plain := dir + file + meta
	styled := p.fg(p.palette.PathDir).Render(dir) +
		p.fg(p.palette.PathFile).Render(file) +
		p.fg(p.palette.PathMeta).Render(meta)
	return styled, runewidth.StringWidth(plain)
}

func padRight(styled string, width int, target int) string {
	if width >= target {
		return styled
	}
	return styled + strings.Repeat(" ", target-width)
}

func (p *Printer) writeMatchText(records []MatchRecord) error {
	widest := 0
	for _, r := range records {
		_, w := p.location(r)
		widest = max(widest, w)
	}

	var b strings.Builder
	for _, r := range records {
		loc, w := p.location(r)
		b.WriteString(padRight(loc, w, widest))
		b.WriteString("  ")
		b.WriteString(p.swatch(r.Color))
		b.WriteString(p.fg(p.palette.Type).Render(runewidth.FillRight(r.Type, 5)))
		b.WriteString("  ")
		b.WriteString(p.fg(p.palette.Accent).Render(r.Color))
		if r.Alpha != "" {
			b.WriteString(" ")
			b.WriteString(p.fg(p.palette.Number).Render("alpha=" + r.Alpha))
		}
		b.WriteString("  ")
		b.WriteString(p.fg(p.palette.String).Render(runewidth.Truncate(r.Text, maxExcerptWidth, "…")))
		b.WriteString("\n")
	}

	_, err := fmt.Fprint(p.w, b.String())
	return err
}

func (p *Printer) writeEntryText(entries []Entry) error {
	widest := 0
	for _, e := range entries {
		widest = max(widest, runewidth.StringWidth(e.Name))
	}

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(p.swatch(e.Color))
		b.WriteString(p.fg(p.palette.Text).Render(runewidth.FillRight(e.Name, widest)))
		b.WriteString("  ")
		b.WriteString(p.fg(p.palette.Accent).Render(e.Color))
		b.WriteString("  ")
		b.WriteString(p.fg(p.palette.Dim).Render(e.Table))
		b.WriteString("\n")
	}

	_, err := fmt.Fprint(p.w, b.String())
	return err
}

func (p *Printer) writeRuleText(records []RuleRecord) error {
	widest := 0
	for _, r := range records {
		widest = max(widest, runewidth.StringWidth(r.Language))
	}

	var b strings.Builder
	for _, r := range records {
		b.WriteString(p.fg(p.palette.Accent).Render(runewidth.FillRight(r.Language, widest)))
		b.WriteString("  ")
		b.WriteString(p.fg(p.palette.Type).Render(strings.Join(r.NodeTypes, ", ")))
		b.WriteString("  ")
		b.WriteString(p.fg(p.palette.Dim).Render("[" + r.Span + "]"))
		b.WriteString("  ")
		b.WriteString(p.fg(p.palette.Text).Render(strings.Join(r.Extensions, " ")))
		b.WriteString("\n")
	}

	_, err := fmt.Fprint(p.w, b.String())
	return err
}
