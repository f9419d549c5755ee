package syntax

import (
	"errors"
	"fmt"

	"colorprobe/internal/lang"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

var ErrUnsupportedLanguage = errors.New("no lexer for language")

var chromaLexerNames = map[lang.ID]string{
	lang.Python:     "python",
	lang.R:          "r",
	lang.Julia:      "julia",
	lang.JavaScript: "javascript",
	lang.TypeScript: "typescript",
}

// Token types that sit in the string category but never hold a quoted
// literal the discovery rules can read.
var nonLiteralStrings = map[chroma.TokenType]bool{
	chroma.LiteralStringAtom:     true,
	chroma.LiteralStringBacktick: true,
	chroma.LiteralStringBoolean:  true,
	chroma.LiteralStringChar:     true,
	chroma.LiteralStringDoc:      true,
	chroma.LiteralStringHeredoc:  true,
	chroma.LiteralStringRegex:    true,
	chroma.LiteralStringSymbol:   true,
}

func chromaLexer(id lang.ID) (chroma.Lexer, error) {
	name, ok := chromaLexerNames[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, id)
	}
	lexer := lexers.Get(name)
	if lexer == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, id)
	}
	return lexer, nil
}

func isLiteralBody(t chroma.TokenType) bool {
	return t.InSubCategory(chroma.LiteralString) && t != chroma.LiteralStringAffix && !nonLiteralStrings[t]
}

// Escapes and interpolations only continue a literal that is already open.
func continuesOnly(t chroma.TokenType) bool {
	return t == chroma.LiteralStringEscape || t == chroma.LiteralStringInterpol
}

// chromaNodes merges runs of adjacent string tokens into one node per
// literal. A python prefix such as rb or f belongs to the node; in the other
// languages the node starts at the opening quote.
func chromaNodes(id lang.ID, src string) ([]Node, error) {
	lexer, err := chromaLexer(id)
	if err != nil {
		return nil, err
	}

	it, err := lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, src)
	if err != nil {
		return nil, fmt.Errorf("tokenise %s: %w", id, err)
	}

	var (
		nodes  []Node
		offset int
		affix  = -1
		open   bool
		cur    Node
	)

	flush := func() {
		if !open {
			return
		}
		open = false
		cur.To = min(cur.To, len(src))
		if cur.From >= cur.To {
			return
		}
		cur.Type = "string"
		if id == lang.Python {
			cur.Type = pythonNodeType(src[cur.From:cur.To])
		}
		nodes = append(nodes, cur)
	}

	for tok := it(); tok != chroma.EOF; tok = it() {
		start := offset
		offset += len(tok.Value)

		switch {
		case tok.Type == chroma.LiteralStringAffix:
			flush()
			affix = start
		case isLiteralBody(tok.Type) && (open || !continuesOnly(tok.Type)):
			if !open {
				open = true
				cur = Node{From: start}
				if id == lang.Python && affix >= 0 {
					cur.From = affix
				}
			}
			cur.To = offset
			affix = -1
		default:
			flush()
			affix = -1
		}
	}
	flush()

	return nodes, nil
}
