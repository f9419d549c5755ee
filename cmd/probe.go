package cmd

import (
	"errors"
	"fmt"
	"strings"

	"colorprobe/internal/discover"
	"colorprobe/internal/lang"
	"colorprobe/internal/scan"

	"github.com/spf13/cobra"
)

var errNoMatch = errors.New("no color found")

func newProbeCommand(a *app) *cobra.Command {
	var (
		language string
		nodeType string
	)

	c := &cobra.Command{
		Use:   "probe --language LANG TEXT...",
		Short: "run discovery on literal node text",
		Long: `Run color discovery on each argument as if it were one syntax node
spanning a whole document. Include the quotes the host language would
have around a string node.

Examples:
  colorprobe probe -l python '"#1f77b4"'
  colorprobe probe -l r '"green"'
  colorprobe probe -l julia '"#f00"' '"rgb(0, 0, 255)"'
  colorprobe probe -l python --matplotlib-tableau=false "'tab:blue'"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSettings(cmd)
			if err != nil {
				return err
			}
			id, ok := lang.Parse(language)
			if !ok {
				return fmt.Errorf("unknown language %q (use %s)", language, languageNames())
			}
			if nodeType == "" {
				nodeType = defaultNodeType(id)
			}
			printer, err := a.printer(cmd, s)
			if err != nil {
				return err
			}

			results := probe(discover.New(discover.Options{MatplotlibTableau: s.MatplotlibTableau}), id, nodeType, args)
			if err := printer.Results(results); err != nil {
				return err
			}
			if len(results) == 0 {
				return errNoMatch
			}
			return nil
		},
	}

	c.Flags().StringVarP(&language, "language", "l", "", "language of the text: "+languageNames())
	c.Flags().StringVarP(&nodeType, "node-type", "n", "", "syntax node type (default: the language's first string node type)")
	_ = c.MarkFlagRequired("language")
	return c
}

func probe(fn discover.Func, id lang.ID, nodeType string, texts []string) []scan.Result {
	var results []scan.Result
	for i, text := range texts {
		m, ok := fn(nil, 0, len(text), nodeType, discover.Text(text), id)
		if !ok {
			continue
		}
		results = append(results, scan.Result{
			File:     fmt.Sprintf("arg%d", i+1),
			Language: id,
			Matches: []scan.Match{{
				Match:  m,
				Line:   1,
				Column: m.From + 1,
				Text:   scan.Excerpt(text[m.From:m.To]),
			}},
		})
	}
	return results
}

func defaultNodeType(id lang.ID) string {
	for _, rule := range discover.Rules() {
		if rule.Language == id && len(rule.NodeTypes) > 0 {
			return rule.NodeTypes[0]
		}
	}
	return ""
}

func languageNames() string {
	names := make([]string, len(lang.All))
	for i, id := range lang.All {
		names[i] = string(id)
	}
	return strings.Join(names, ", ")
}
