// Package discover maps a syntax node of a source document to the color
// literal it contains, if any.
package discover

import (
	"fmt"

	"colorprobe/internal/colors"
	"colorprobe/internal/lang"
)

type Document interface {
	SliceString(from, to int) string
	Len() int
}

// Tree is the host syntax tree the node belongs to. No rule inspects it yet,
// so callers may pass nil.
type Tree interface {
	NodeAt(from, to int) (string, bool)
}

// Text is a Document backed by a string.
type Text string

func (t Text) SliceString(from, to int) string { return string(t)[from:to] }

func (t Text) Len() int { return len(t) }

type Match struct {
	Type  colors.Type
	Color string
	Alpha string
	From  int
	To    int
}

type Options struct {
	MatplotlibTableau bool
}

func DefaultOptions() Options {
	return Options{MatplotlibTableau: true}
}

type Func func(tree Tree, from, to int, nodeType string, doc Document, language lang.ID) (Match, bool)

// New returns a discovery function configured once with opts. The returned
// function keeps no state between calls and is safe for concurrent use.
func New(opts Options) Func {
	chains := make(map[lang.ID]colors.Chain, len(rules))
	for _, rule := range rules {
		chains[rule.Language] = rule.Chain(opts)
	}

	return func(_ Tree, from, to int, nodeType string, doc Document, language lang.ID) (Match, bool) {
		checkRange(from, to, doc)

		rule, ok := ruleFor(language, nodeType)
		if !ok {
			return Match{}, false
		}

		start, end, ok := rule.Span.Adjust(doc, from, to)
		if !ok {
			return Match{}, false
		}

		data, ok := chains[rule.Language].Parse(doc.SliceString(start, end))
		if !ok {
			return Match{}, false
		}

		return Match{
			Type:  data.Type,
			Color: data.Color,
			Alpha: data.Alpha,
			From:  start,
			To:    end,
		}, true
	}
}

func checkRange(from, to int, doc Document) {
	if from < 0 || from > to || to > doc.Len() {
		panic(fmt.Sprintf("discover: node range [%d, %d) outside document of length %d", from, to, doc.Len()))
	}
}
