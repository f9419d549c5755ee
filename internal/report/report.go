// Package report renders scan results, palette entries and the language
// table as colored text, JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"colorprobe/internal/discover"
	"colorprobe/internal/lang"
	"colorprobe/internal/scan"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(v string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(v))) {
	case "", FormatText:
		return FormatText, true
	case FormatJSON:
		return FormatJSON, true
	case FormatYAML, "yml":
		return FormatYAML, true
	default:
		return "", false
	}
}

type Options struct {
	Format     Format
	Theme      string
	NoColor    bool
	ForceColor bool
}

type Printer struct {
	w        io.Writer
	format   Format
	palette  Palette
	renderer *lipgloss.Renderer
}

func NewPrinter(w io.Writer, opts Options) (*Printer, error) {
	format := opts.Format
	if format == "" {
		format = FormatText
	}

	palette, err := LoadPalette(opts.Theme)
	if err != nil {
		return nil, err
	}

	renderer := lipgloss.NewRenderer(w)
	switch {
	case opts.NoColor:
		renderer.SetColorProfile(termenv.Ascii)
	case opts.ForceColor:
		renderer.SetColorProfile(termenv.TrueColor)
	}

	return &Printer{w: w, format: format, palette: palette, renderer: renderer}, nil
}

type MatchRecord struct {
	File     string `json:"file" yaml:"file"`
	Language string `json:"language" yaml:"language"`
	Line     int    `json:"line" yaml:"line"`
	Column   int    `json:"column" yaml:"column"`
	From     int    `json:"from" yaml:"from"`
	To       int    `json:"to" yaml:"to"`
	Type     string `json:"type" yaml:"type"`
	Color    string `json:"color" yaml:"color"`
	Alpha    string `json:"alpha" yaml:"alpha"`
	Text     string `json:"text" yaml:"text"`
}

type Entry struct {
	Table string `json:"table" yaml:"table"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

type RuleRecord struct {
	Language   string   `json:"language" yaml:"language"`
	NodeTypes  []string `json:"node_types" yaml:"node_types"`
	Span       string   `json:"span" yaml:"span"`
	Extensions []string `json:"extensions" yaml:"extensions"`
}

func Records(results []scan.Result) []MatchRecord {
	records := make([]MatchRecord, 0, len(results))
	for _, res := range results {
		for _, m := range res.Matches {
			records = append(records, MatchRecord{
				File:     res.File,
				Language: string(res.Language),
				Line:     m.Line,
				Column:   m.Column,
				From:     m.From,
				To:       m.To,
				Type:     strings.ToLower(string(m.Type)),
				Color:    m.Color,
				Alpha:    m.Alpha,
				Text:     m.Text,
			})
		}
	}
	return records
}

func RuleRecords(rules []discover.Rule) []RuleRecord {
	records := make([]RuleRecord, 0, len(rules))
	for _, rule := range rules {
		records = append(records, RuleRecord{
			Language:   string(rule.Language),
			NodeTypes:  append([]string(nil), rule.NodeTypes...),
			Span:       rule.Span.String(),
			Extensions: lang.Extensions(rule.Language),
		})
	}
	return records
}

func (p *Printer) Results(results []scan.Result) error {
	records := Records(results)
	switch p.format {
	case FormatJSON:
		return p.writeJSON(records)
	case FormatYAML:
		return p.writeYAML(records)
	default:
		return p.writeMatchText(records)
	}
}

func (p *Printer) Entries(entries []Entry) error {
	switch p.format {
	case FormatJSON:
		return p.writeJSON(entries)
	case FormatYAML:
		return p.writeYAML(entries)
	default:
		return p.writeEntryText(entries)
	}
}

func (p *Printer) Rules(rules []discover.Rule) error {
	records := RuleRecords(rules)
	switch p.format {
	case FormatJSON:
		return p.writeJSON(records)
	case FormatYAML:
		return p.writeYAML(records)
	default:
		return p.writeRuleText(records)
	}
}

func (p *Printer) writeJSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func (p *Printer) writeYAML(v any) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return nil
}
