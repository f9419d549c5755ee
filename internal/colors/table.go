package colors

import "sort"

// Table is a read-only name to #rrggbb mapping. Lookups are exact; callers
// that want case folding must fold before calling.
type Table struct {
	name    string
	entries map[string]string
}

var (
	CSS     = Table{name: "css", entries: namedColors}
	RColors = Table{name: "r", entries: namedRColors}
	Tableau = Table{name: "tableau", entries: tableauColors}
)

var tableauColors = map[string]string{
	"tab:blue":   "#1f77b4",
	"tab:orange": "#ff7f0e",
	"tab:green":  "#2ca02c",
	"tab:red":    "#d62728",
	"tab:purple": "#9467bd",
	"tab:brown":  "#8c564b",
	"tab:pink":   "#e377c2",
	"tab:gray":   "#7f7f7f",
	"tab:olive":  "#bcbd22",
	"tab:cyan":   "#17becf",
}

func Tables() []Table {
	return []Table{CSS, RColors, Tableau}
}

func TableByName(name string) (Table, bool) {
	for _, t := range Tables() {
		if t.name == name {
			return t, true
		}
	}
	return Table{}, false
}

func (t Table) Name() string { return t.name }

func (t Table) Len() int { return len(t.entries) }

func (t Table) Lookup(name string) (string, bool) {
	hex, ok := t.entries[name]
	return hex, ok
}

func (t Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t Table) Parse(name string) (Data, bool) {
	hex, ok := t.entries[name]
	if !ok {
		return Data{}, false
	}
	return Data{Type: TypeNamed, Color: hex}, true
}

func ParseNamedColor(name string) (Data, bool) {
	return CSS.Parse(name)
}

func ParseNamedRColor(name string) (Data, bool) {
	return RColors.Parse(name)
}

func ParseNamedTableauColor(name string) (Data, bool) {
	return Tableau.Parse(name)
}
