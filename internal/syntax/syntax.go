// Package syntax builds the host-side syntax trees that feed color discovery:
// the string-literal nodes of a document, named the way the discovery rules
// expect them.
package syntax

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"colorprobe/internal/lang"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	tsxlang "github.com/smacker/go-tree-sitter/typescript/tsx"
	tslang "github.com/smacker/go-tree-sitter/typescript/typescript"
)

type Backend string

const (
	BackendAuto   Backend = "auto"
	BackendChroma Backend = "chroma"
)

func ParseBackend(v string) (Backend, error) {
	switch strings.TrimSpace(strings.ToLower(v)) {
	case "", string(BackendAuto):
		return BackendAuto, nil
	case string(BackendChroma):
		return BackendChroma, nil
	default:
		return "", fmt.Errorf("invalid lexer %q (use auto or chroma)", v)
	}
}

type Node struct {
	Type string
	From int
	To   int
}

// Tree holds the candidate nodes of one document in source order.
type Tree struct {
	Language lang.ID
	Nodes    []Node
}

func (t *Tree) NodeAt(from, to int) (string, bool) {
	i := sort.Search(len(t.Nodes), func(i int) bool { return t.Nodes[i].From >= from })
	for ; i < len(t.Nodes) && t.Nodes[i].From == from; i++ {
		if t.Nodes[i].To == to {
			return t.Nodes[i].Type, true
		}
	}
	return "", false
}

// Builder is not safe for concurrent use; each worker owns one.
type Builder struct {
	parser  *sitter.Parser
	backend Backend
	langs   map[lang.ID]*sitter.Language
}

func NewBuilder(backend Backend) *Builder {
	if backend == "" {
		backend = BackendAuto
	}
	return &Builder{
		parser:  sitter.NewParser(),
		backend: backend,
		langs: map[lang.ID]*sitter.Language{
			lang.Python:     python.GetLanguage(),
			lang.JavaScript: javascript.GetLanguage(),
			lang.TypeScript: tslang.GetLanguage(),
		},
	}
}

func (b *Builder) Close() {
	b.parser.Close()
}

func (b *Builder) Build(ctx context.Context, id lang.ID, path string, src string) (*Tree, error) {
	var (
		nodes []Node
		err   error
	)

	language := b.treeSitterLanguage(id, path)
	if b.backend == BackendChroma || language == nil {
		nodes, err = chromaNodes(id, src)
	} else {
		nodes, err = b.treeSitterNodes(ctx, language, id, []byte(src))
	}
	if err != nil {
		return nil, err
	}

	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].From < nodes[j].From })
	return &Tree{Language: id, Nodes: nodes}, nil
}

// Dialect names the grammar variant path selects within a language, or ""
// for the language's default grammar.
func Dialect(id lang.ID, path string) string {
	if id == lang.TypeScript && strings.EqualFold(filepath.Ext(path), ".tsx") {
		return "tsx"
	}
	return ""
}

func (b *Builder) treeSitterLanguage(id lang.ID, path string) *sitter.Language {
	if Dialect(id, path) == "tsx" {
		return tsxlang.GetLanguage()
	}
	return b.langs[id]
}

// pythonNodeType names a python string node after its prefix letters.
func pythonNodeType(literal string) string {
	quote := strings.IndexAny(literal, `'"`)
	if quote < 0 {
		quote = len(literal)
	}
	if strings.ContainsAny(literal[:quote], "fF") {
		return "FormatString"
	}
	return "String"
}
