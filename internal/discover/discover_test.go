package discover

import (
	"strings"
	"testing"

	"colorprobe/internal/colors"
	"colorprobe/internal/lang"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nodeOf returns the byte range of the first occurrence of literal in src.
func nodeOf(t *testing.T, src string, literal string) (int, int) {
	t.Helper()
	i := strings.Index(src, literal)
	require.GreaterOrEqual(t, i, 0, "literal %q not in source", literal)
	return i, i + len(literal)
}

func TestDiscoverPythonHex(t *testing.T) {
	src := `plt.plot(x, y, color="#1f77b4")`
	from, to := nodeOf(t, src, `"#1f77b4"`)

	got, ok := New(DefaultOptions())(nil, from, to, "String", Text(src), lang.Python)
	require.True(t, ok)
	assert.Equal(t, Match{Type: colors.TypeHex, Color: "#1f77b4", From: from + 1, To: to - 1}, got)
	assert.Equal(t, "#1f77b4", src[got.From:got.To])
}

func TestDiscoverPythonPrefixes(t *testing.T) {
	tests := []struct {
		name     string
		literal  string
		nodeType string
		color    string
	}{
		{name: "raw", literal: `r"#abc"`, nodeType: "String", color: "#aabbcc"},
		{name: "bytes single quote", literal: `b'red'`, nodeType: "String", color: "#ff0000"},
		{name: "raw bytes", literal: `Rb'#00ff00'`, nodeType: "String", color: "#00ff00"},
		{name: "unicode", literal: `u"rgb(0, 0, 255)"`, nodeType: "String", color: "#0000ff"},
		{name: "f-string", literal: `f"hsl(0, 100%, 50%)"`, nodeType: "FormatString", color: "#ff0000"},
		{name: "raw f-string", literal: `rf'#123456'`, nodeType: "FormatString", color: "#123456"},
	}

	discover := New(DefaultOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "c = " + tt.literal + "\n"
			from, to := nodeOf(t, src, tt.literal)

			got, ok := discover(nil, from, to, tt.nodeType, Text(src), lang.Python)
			require.True(t, ok)
			assert.Equal(t, tt.color, got.Color)

			quote := strings.IndexAny(tt.literal, `'"`)
			assert.Equal(t, from+quote+1, got.From)
			assert.Equal(t, to-1, got.To)
		})
	}
}

func TestDiscoverPythonWithoutQuote(t *testing.T) {
	src := "red"
	_, ok := New(DefaultOptions())(nil, 0, len(src), "String", Text(src), lang.Python)
	assert.False(t, ok)
}

func TestDiscoverPythonLoneQuote(t *testing.T) {
	src := `x = "`
	from, to := nodeOf(t, src, `"`)
	_, ok := New(DefaultOptions())(nil, from, to, "String", Text(src), lang.Python)
	assert.False(t, ok)
}

func TestDiscoverTableauGate(t *testing.T) {
	src := `ax.bar(x, h, color='tab:blue')`
	from, to := nodeOf(t, src, `'tab:blue'`)

	got, ok := New(Options{MatplotlibTableau: true})(nil, from, to, "String", Text(src), lang.Python)
	require.True(t, ok)
	assert.Equal(t, Match{Type: colors.TypeNamed, Color: "#1f77b4", From: from + 1, To: to - 1}, got)

	_, ok = New(Options{MatplotlibTableau: false})(nil, from, to, "String", Text(src), lang.Python)
	assert.False(t, ok)
}

func TestDiscoverTableauOnlyForPython(t *testing.T) {
	src := `const c = "tab:blue";`
	from, to := nodeOf(t, src, `"tab:blue"`)

	discover := New(Options{MatplotlibTableau: true})
	for _, language := range []lang.ID{lang.JavaScript, lang.TypeScript, lang.R} {
		_, ok := discover(nil, from, to, "string", Text(src), language)
		assert.False(t, ok, "language %q", language)
	}
}

func TestDiscoverRNamedPrecedence(t *testing.T) {
	src := `plot(x, col = "green")`
	from, to := nodeOf(t, src, `"green"`)

	got, ok := New(DefaultOptions())(nil, from, to, "string", Text(src), lang.R)
	require.True(t, ok)

	rHex, _ := colors.RColors.Lookup("green")
	cssHex, _ := colors.CSS.Lookup("green")
	require.NotEqual(t, rHex, cssHex)
	assert.Equal(t, Match{Type: colors.TypeNamed, Color: rHex, From: from + 1, To: to - 1}, got)
}

func TestDiscoverRFallsBackToGenericChain(t *testing.T) {
	src := `c("#FF000080", "rgb(0, 128, 0)", "rebeccapurple")`
	discover := New(DefaultOptions())

	tests := []struct {
		literal string
		want    colors.Data
	}{
		{literal: `"#FF000080"`, want: colors.Data{Type: colors.TypeHex, Color: "#ff0000", Alpha: "80"}},
		{literal: `"rgb(0, 128, 0)"`, want: colors.Data{Type: colors.TypeRGB, Color: "#008000"}},
		{literal: `"rebeccapurple"`, want: colors.Data{Type: colors.TypeNamed, Color: "#663399"}},
	}
	for _, tt := range tests {
		from, to := nodeOf(t, src, tt.literal)
		got, ok := discover(nil, from, to, "string", Text(src), lang.R)
		require.True(t, ok, tt.literal)
		assert.Equal(t, tt.want, colors.Data{Type: got.Type, Color: got.Color, Alpha: got.Alpha})
	}
}

func TestDiscoverRDegenerateNode(t *testing.T) {
	discover := New(DefaultOptions())
	for _, src := range []string{`"`, `'`, "a", "#"} {
		_, ok := discover(nil, 0, 1, "string", Text(src), lang.R)
		assert.False(t, ok, "%q", src)
	}

	_, ok := discover(nil, 0, 2, "string", Text(`""`), lang.R)
	assert.False(t, ok)
}

func TestDiscoverJuliaKeepsTrailingDelimiter(t *testing.T) {
	src := `scatter(x, y, color = "#ff0000")`
	from, to := nodeOf(t, src, `"#ff0000"`)

	got, ok := New(DefaultOptions())(nil, from, to, "string", Text(src), lang.Julia)
	require.True(t, ok)
	assert.Equal(t, from+1, got.From)
	assert.Equal(t, to, got.To)
	assert.Equal(t, "#ff0000", got.Color)
	assert.Equal(t, `#ff0000"`, src[got.From:got.To])
}

func TestDiscoverQuoteInsideLiteralOnlyToleratedInJulia(t *testing.T) {
	discover := New(DefaultOptions())
	tests := []struct {
		language lang.ID
		nodeType string
		literal  string
	}{
		{language: lang.Python, nodeType: "String", literal: `'#fff"'`},
		{language: lang.Python, nodeType: "FormatString", literal: `f"rgb(1, 2, 3)'"`},
		{language: lang.R, nodeType: "string", literal: `"rgb(1,2,3)'"`},
		{language: lang.JavaScript, nodeType: "string", literal: `'#fff"'`},
		{language: lang.TypeScript, nodeType: "string", literal: `"#00ff00'"`},
	}
	for _, tt := range tests {
		src := "c = " + tt.literal
		from, to := nodeOf(t, src, tt.literal)
		_, ok := discover(nil, from, to, tt.nodeType, Text(src), tt.language)
		assert.False(t, ok, "%s %s", tt.language, tt.literal)
	}

	src := `c = "#fff"`
	from, to := nodeOf(t, src, `"#fff"`)
	got, ok := discover(nil, from, to, "string", Text(src), lang.Julia)
	require.True(t, ok)
	assert.Equal(t, "#ffffff", got.Color)

	_, ok = discover(nil, from, to-1, "string", Text(src), lang.Julia)
	assert.True(t, ok, "julia node without its closing quote still parses")
}

func TestDiscoverJuliaCallExpression(t *testing.T) {
	src := `c = "rgba(255, 255, 0, 0.3)"`
	from, to := nodeOf(t, src, `"rgba(255, 255, 0, 0.3)"`)

	got, ok := New(DefaultOptions())(nil, from, to, "string", Text(src), lang.Julia)
	require.True(t, ok)
	assert.Equal(t, Match{Type: colors.TypeRGB, Color: "#ffff00", Alpha: "0.3", From: from + 1, To: to}, got)
}

func TestDiscoverJavaScriptAndTypeScript(t *testing.T) {
	discover := New(DefaultOptions())
	for _, language := range []lang.ID{lang.JavaScript, lang.TypeScript} {
		t.Run(string(language), func(t *testing.T) {
			src := `const accent = 'hsl(120, 100%, 25%)', bg = "tomato";`

			from, to := nodeOf(t, src, `'hsl(120, 100%, 25%)'`)
			got, ok := discover(nil, from, to, "string", Text(src), language)
			require.True(t, ok)
			assert.Equal(t, Match{Type: colors.TypeHSL, Color: "#008000", From: from + 1, To: to - 1}, got)

			from, to = nodeOf(t, src, `"tomato"`)
			got, ok = discover(nil, from, to, "string", Text(src), language)
			require.True(t, ok)
			assert.Equal(t, Match{Type: colors.TypeNamed, Color: "#ff6347", From: from + 1, To: to - 1}, got)
		})
	}
}

func TestDiscoverJavaScriptUsesCSSNames(t *testing.T) {
	src := `"green"`
	got, ok := New(DefaultOptions())(nil, 0, len(src), "string", Text(src), lang.JavaScript)
	require.True(t, ok)
	assert.Equal(t, "#008000", got.Color)
}

func TestDiscoverRejectsUnknownPairs(t *testing.T) {
	src := `"#ff0000"`
	discover := New(DefaultOptions())

	tests := []struct {
		language lang.ID
		nodeType string
	}{
		{language: lang.Plain, nodeType: "string"},
		{language: "", nodeType: "String"},
		{language: "go", nodeType: "string"},
		{language: "css", nodeType: "ColorLiteral"},
		{language: lang.Python, nodeType: "string"},
		{language: lang.Python, nodeType: "Comment"},
		{language: lang.R, nodeType: "String"},
		{language: lang.JavaScript, nodeType: "String"},
		{language: lang.TypeScript, nodeType: "template_string"},
		{language: lang.Julia, nodeType: "FormatString"},
	}
	for _, tt := range tests {
		_, ok := discover(nil, 0, len(src), tt.nodeType, Text(src), tt.language)
		assert.False(t, ok, "%q/%q", tt.language, tt.nodeType)
	}
}

func TestDiscoverNonColorText(t *testing.T) {
	discover := New(DefaultOptions())
	for _, literal := range []string{`"hello"`, `"#"`, `"# heading"`, `"rgb"`, `"Red"`, `""`, `"#fff and more"`} {
		_, ok := discover(nil, 0, len(literal), "string", Text(literal), lang.JavaScript)
		assert.False(t, ok, literal)
	}
}

func TestDiscoverPanicsOnInvalidRange(t *testing.T) {
	discover := New(DefaultOptions())
	doc := Text(`"red"`)

	assert.Panics(t, func() { discover(nil, 3, 2, "string", doc, lang.JavaScript) })
	assert.Panics(t, func() { discover(nil, -1, 2, "string", doc, lang.JavaScript) })
	assert.Panics(t, func() { discover(nil, 0, 99, "string", doc, lang.JavaScript) })
	assert.Panics(t, func() { discover(nil, 3, 2, "string", doc, "cobol") })
}

func TestSpanAdjust(t *testing.T) {
	doc := Text(`xx"abc"`)

	tests := []struct {
		name       string
		span       Span
		from, to   int
		start, end int
		ok         bool
	}{
		{name: "strip both", span: Span{Lead: 1, Trail: 1}, from: 2, to: 7, start: 3, end: 6, ok: true},
		{name: "lead only", span: Span{Lead: 1}, from: 2, to: 7, start: 3, end: 7, ok: true},
		{name: "skip to quote", span: Span{SkipToQuote: true, Trail: 1}, from: 0, to: 7, start: 3, end: 6, ok: true},
		{name: "no quote", span: Span{SkipToQuote: true, Trail: 1}, from: 0, to: 2, ok: false},
		{name: "below min width", span: Span{Lead: 1, Trail: 1, MinWidth: 2}, from: 2, to: 3, ok: false},
		{name: "crossing", span: Span{Lead: 1, Trail: 1}, from: 2, to: 3, ok: false},
		{name: "empty node", span: Span{}, from: 4, to: 4, start: 4, end: 4, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := tt.span.Adjust(doc, tt.from, tt.to)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestRulesTable(t *testing.T) {
	seen := map[lang.ID]bool{}
	for _, rule := range Rules() {
		require.False(t, seen[rule.Language], "duplicate rule for %q", rule.Language)
		seen[rule.Language] = true
		require.NotEmpty(t, rule.NodeTypes)
		require.NotNil(t, rule.Chain)
		assert.True(t, Supports(rule.Language))
	}
	assert.ElementsMatch(t, lang.All, keys(seen))
	assert.False(t, Supports("go"))
}

func keys(m map[lang.ID]bool) []lang.ID {
	out := make([]lang.ID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestSpanString(t *testing.T) {
	assert.Equal(t, "skip to quote, trail 1", Span{SkipToQuote: true, Trail: 1}.String())
	assert.Equal(t, "min width 2, lead 1, trail 1", Span{Lead: 1, Trail: 1, MinWidth: 2}.String())
	assert.Equal(t, "lead 1, trail 0", Span{Lead: 1}.String())
}
