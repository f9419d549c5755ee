package syntax

import (
	"context"
	"fmt"

	"colorprobe/internal/lang"

	sitter "github.com/smacker/go-tree-sitter"
)

func (b *Builder) treeSitterNodes(ctx context.Context, language *sitter.Language, id lang.ID, src []byte) ([]Node, error) {
	b.parser.SetLanguage(language)

	tree, err := b.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", id, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("parse %s: no tree", id)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("parse %s: no root node", id)
	}

	nodes := make([]Node, 0, 32)
	collectStringNodes(root, id, src, &nodes)
	return nodes, nil
}

func collectStringNodes(node *sitter.Node, id lang.ID, src []byte, out *[]Node) {
	if node == nil {
		return
	}

	if node.IsNamed() && node.Type() == "string" {
		start := int(node.StartByte())
		end := int(node.EndByte())
		if start < end && end <= len(src) {
			*out = append(*out, Node{Type: treeSitterNodeType(id, src[start:end]), From: start, To: end})
		}
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collectStringNodes(node.Child(i), id, src, out)
	}
}

func treeSitterNodeType(id lang.ID, literal []byte) string {
	if id == lang.Python {
		return pythonNodeType(string(literal))
	}
	return "string"
}
