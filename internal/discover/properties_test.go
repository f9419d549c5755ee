package discover

import (
	"testing"

	"colorprobe/internal/lang"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var (
	docRunes  = []rune(`"'#abcdef0123456789rgbhsla(),% :tbuer` + "\n")
	nodeTypes = []string{"String", "FormatString", "string", "Comment", "CallExpression", ""}
	languages = []lang.ID{lang.Python, lang.R, lang.Julia, lang.JavaScript, lang.TypeScript, lang.Plain, "go", ""}
)

func drawNode(rt *rapid.T) (Text, int, int) {
	doc := rapid.StringOf(rapid.RuneFrom(docRunes)).Draw(rt, "doc")
	from := rapid.IntRange(0, len(doc)).Draw(rt, "from")
	to := rapid.IntRange(from, len(doc)).Draw(rt, "to")
	return Text(doc), from, to
}

func TestDiscoverMatchStaysInsideNode(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		doc, from, to := drawNode(rt)
		nodeType := rapid.SampledFrom(nodeTypes).Draw(rt, "nodeType")
		language := rapid.SampledFrom(languages).Draw(rt, "language")
		opts := Options{MatplotlibTableau: rapid.Bool().Draw(rt, "tableau")}

		got, ok := New(opts)(nil, from, to, nodeType, doc, language)
		if !ok {
			return
		}
		require.LessOrEqual(rt, 0, got.From)
		require.LessOrEqual(rt, got.From, got.To)
		require.LessOrEqual(rt, got.To, doc.Len())
		require.GreaterOrEqual(rt, got.From, from)
		require.LessOrEqual(rt, got.To, to)
		require.Regexp(rt, `^#[0-9a-f]{6}$`, got.Color)
	})
}

func TestDiscoverIsIdempotent(t *testing.T) {
	discover := New(DefaultOptions())
	rapid.Check(t, func(rt *rapid.T) {
		doc, from, to := drawNode(rt)
		nodeType := rapid.SampledFrom(nodeTypes).Draw(rt, "nodeType")
		language := rapid.SampledFrom(languages).Draw(rt, "language")

		first, firstOK := discover(nil, from, to, nodeType, doc, language)
		second, secondOK := discover(nil, from, to, nodeType, doc, language)
		require.Equal(rt, firstOK, secondOK)
		require.Equal(rt, first, second)
	})
}

func TestDiscoverUnknownLanguageNeverMatches(t *testing.T) {
	discover := New(DefaultOptions())
	rapid.Check(t, func(rt *rapid.T) {
		doc, from, to := drawNode(rt)
		nodeType := rapid.SampledFrom(nodeTypes).Draw(rt, "nodeType")
		language := lang.ID(rapid.StringMatching(`[a-z]{0,8}`).Draw(rt, "language"))
		if Supports(language) {
			rt.Skip("supported language")
		}

		_, ok := discover(nil, from, to, nodeType, doc, language)
		require.False(rt, ok)
	})
}

func TestDiscoverSingleCharacterRNodeNeverMatches(t *testing.T) {
	discover := New(DefaultOptions())
	rapid.Check(t, func(rt *rapid.T) {
		doc := rapid.StringOfN(rapid.RuneFrom(docRunes), 1, 32, -1).Draw(rt, "doc")
		from := rapid.IntRange(0, len(doc)-1).Draw(rt, "from")

		_, ok := discover(nil, from, from+1, "string", Text(doc), lang.R)
		require.False(rt, ok)
	})
}
