// Package colors recognizes single color literals: CSS functional notation,
// hex codes and names from a fixed set of palettes.
package colors

type Type string

const (
	TypeNamed Type = "NAMED"
	TypeHex   Type = "HEX"
	TypeRGB   Type = "RGB"
	TypeHSL   Type = "HSL"
)

// Data is a parsed literal. Color is always a lowercase #rrggbb string; Alpha
// is empty when the literal carries no alpha channel.
type Data struct {
	Type  Type
	Color string
	Alpha string
}

type Parser func(text string) (Data, bool)

type Chain []Parser

// Parse returns the result of the first parser that accepts text.
func (c Chain) Parse(text string) (Data, bool) {
	for _, parse := range c {
		if data, ok := parse(text); ok {
			return data, true
		}
	}
	return Data{}, false
}

func (c Chain) With(parsers ...Parser) Chain {
	out := make(Chain, 0, len(c)+len(parsers))
	out = append(out, c...)
	return append(out, parsers...)
}

func GenericChain() Chain {
	return Chain{ParseCallExpression, ParseColorLiteral, ParseNamedColor}
}
