package discover

import (
	"fmt"
	"strings"

	"colorprobe/internal/colors"
	"colorprobe/internal/lang"
)

// Span describes how much lexical decoration surrounds the literal inside a
// node. Adjust only ever shrinks the node range.
type Span struct {
	// SkipToQuote starts the literal just past the first ' or " in the node,
	// which also skips string prefixes such as r, f, u and b. Lead is
	// ignored when it is set.
	SkipToQuote bool
	Lead        int
	Trail       int
	// MinWidth is the smallest raw node width that is considered at all.
	MinWidth int
}

func (s Span) Adjust(doc Document, from, to int) (int, int, bool) {
	if to-from < s.MinWidth {
		return 0, 0, false
	}

	start := from + s.Lead
	if s.SkipToQuote {
		offset := strings.IndexAny(doc.SliceString(from, to), `'"`)
		if offset < 0 {
			return 0, 0, false
		}
		start = from + offset + 1
	}

	end := to - s.Trail
	if start > end {
		return 0, 0, false
	}
	return start, end, true
}

func (s Span) String() string {
	var parts []string
	if s.MinWidth > 0 {
		parts = append(parts, fmt.Sprintf("min width %d", s.MinWidth))
	}
	if s.SkipToQuote {
		parts = append(parts, "skip to quote")
	} else {
		parts = append(parts, fmt.Sprintf("lead %d", s.Lead))
	}
	parts = append(parts, fmt.Sprintf("trail %d", s.Trail))
	return strings.Join(parts, ", ")
}

type Rule struct {
	Language  lang.ID
	NodeTypes []string
	Span      Span
	Chain     func(Options) colors.Chain
}

func (r Rule) Accepts(nodeType string) bool {
	for _, t := range r.NodeTypes {
		if t == nodeType {
			return true
		}
	}
	return false
}

var rules = []Rule{
	{
		Language:  lang.Python,
		NodeTypes: []string{"String", "FormatString"},
		Span:      Span{SkipToQuote: true, Trail: 1},
		Chain:     pythonChain,
	},
	{
		Language:  lang.R,
		NodeTypes: []string{"string"},
		Span:      Span{Lead: 1, Trail: 1, MinWidth: 2},
		Chain:     rChain,
	},
	{
		Language:  lang.Julia,
		NodeTypes: []string{"string"},
		Span:      Span{Lead: 1},
		Chain:     juliaChain,
	},
	{
		Language:  lang.JavaScript,
		NodeTypes: []string{"string"},
		Span:      Span{Lead: 1, Trail: 1},
		Chain:     genericChain,
	},
	{
		Language:  lang.TypeScript,
		NodeTypes: []string{"string"},
		Span:      Span{Lead: 1, Trail: 1},
		Chain:     genericChain,
	},
}

func genericChain(Options) colors.Chain {
	return colors.GenericChain()
}

// The matplotlib palette goes last: its keys cannot shadow a generic match.
func pythonChain(opts Options) colors.Chain {
	chain := colors.GenericChain()
	if opts.MatplotlibTableau {
		chain = chain.With(colors.ParseNamedTableauColor)
	}
	return chain
}

// Julia string nodes keep their closing quote, so the literal parsers see
// the text without it. Names still match exactly.
func juliaChain(Options) colors.Chain {
	return colors.Chain{
		withoutClosingQuote(colors.ParseCallExpression),
		withoutClosingQuote(colors.ParseColorLiteral),
		colors.ParseNamedColor,
	}
}

func withoutClosingQuote(parse colors.Parser) colors.Parser {
	return func(text string) (colors.Data, bool) {
		if n := len(text); n > 1 && (text[n-1] == '"' || text[n-1] == '\'') {
			text = text[:n-1]
		}
		return parse(text)
	}
}

// R names win over CSS names where the two palettes disagree.
func rChain(Options) colors.Chain {
	return colors.Chain{colors.ParseNamedRColor}.With(colors.GenericChain()...)
}

func ruleFor(language lang.ID, nodeType string) (Rule, bool) {
	for _, rule := range rules {
		if rule.Language == language && rule.Accepts(nodeType) {
			return rule, true
		}
	}
	return Rule{}, false
}

func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

func Supports(language lang.ID) bool {
	for _, rule := range rules {
		if rule.Language == language {
			return true
		}
	}
	return false
}
