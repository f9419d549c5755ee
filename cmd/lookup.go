package cmd

import (
	"errors"
	"fmt"
	"strings"

	"colorprobe/internal/colors"
	"colorprobe/internal/report"

	"github.com/spf13/cobra"
)

var errUnknownColor = errors.New("unknown color")

func newLookupCommand(a *app) *cobra.Command {
	var table string

	c := &cobra.Command{
		Use:   "lookup [names...]",
		Short: "resolve color names, or list a color table",
		Long: `Resolve color names against the css, r and tableau tables. Names are
matched exactly. Without names, every entry of the selected tables is listed.

Examples:
  colorprobe lookup tomato
  colorprobe lookup --table r green darkseagreen4
  colorprobe lookup --table tableau`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSettings(cmd)
			if err != nil {
				return err
			}
			tables, err := lookupTables(table)
			if err != nil {
				return err
			}
			printer, err := a.printer(cmd, s)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				return printer.Entries(tableEntries(tables))
			}

			entries, missing := lookupNames(tables, args)
			if err := printer.Entries(entries); err != nil {
				return err
			}
			if len(missing) > 0 {
				return fmt.Errorf("%w: %s", errUnknownColor, strings.Join(missing, ", "))
			}
			return nil
		},
	}

	c.Flags().StringVarP(&table, "table", "t", "all", "table to use: css, r, tableau or all")
	return c
}

func lookupTables(name string) ([]colors.Table, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "all" {
		return colors.Tables(), nil
	}
	t, ok := colors.TableByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown table %q (use css, r, tableau or all)", name)
	}
	return []colors.Table{t}, nil
}

func tableEntries(tables []colors.Table) []report.Entry {
	var n int
	for _, t := range tables {
		n += t.Len()
	}
	entries := make([]report.Entry, 0, n)
	for _, t := range tables {
		for _, name := range t.Names() {
			hex, _ := t.Lookup(name)
			entries = append(entries, report.Entry{Table: t.Name(), Name: name, Color: hex})
		}
	}
	return entries
}

// lookupNames reports a name once per table that knows it.
func lookupNames(tables []colors.Table, names []string) ([]report.Entry, []string) {
	entries := []report.Entry{}
	var missing []string
	for _, name := range names {
		found := false
		for _, t := range tables {
			if hex, ok := t.Lookup(name); ok {
				entries = append(entries, report.Entry{Table: t.Name(), Name: name, Color: hex})
				found = true
			}
		}
		if !found {
			missing = append(missing, name)
		}
	}
	return entries, missing
}
