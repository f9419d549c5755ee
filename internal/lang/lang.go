package lang

import (
	"path/filepath"
	"sort"
	"strings"
)

type ID string

const (
	Plain      ID = "plain"
	Python     ID = "python"
	R          ID = "r"
	Julia      ID = "julia"
	JavaScript ID = "javascript"
	TypeScript ID = "typescript"
)

var All = []ID{Python, R, Julia, JavaScript, TypeScript}

var extMap = map[string]ID{
	".py":  Python,
	".pyw": Python,
	".pyi": Python,
	".r":   R,
	".jl":  Julia,
	".js":  JavaScript,
	".jsx": JavaScript,
	".mjs": JavaScript,
	".cjs": JavaScript,
	".ts":  TypeScript,
	".tsx": TypeScript,
	".mts": TypeScript,
	".cts": TypeScript,
}

var fileMap = map[string]ID{
	".Rprofile":   R,
	".Rhistory":   R,
	"SConstruct":  Python,
	"SConscript":  Python,
	"wscript":     Python,
	"Snakefile":   Python,
	"BUCK":        Python,
	"Project.jl":  Julia,
	"Manifest.jl": Julia,
}

// Extensions lists the file extensions mapped to id, sorted.
func Extensions(id ID) []string {
	var out []string
	for ext, v := range extMap {
		if v == id {
			out = append(out, ext)
		}
	}
	sort.Strings(out)
	return out
}

func Detect(path string) ID {
	base := filepath.Base(path)
	if id, ok := fileMap[base]; ok {
		return id
	}
	ext := strings.ToLower(filepath.Ext(base))
	if id, ok := extMap[ext]; ok {
		return id
	}
	return Plain
}

func DetectWithShebang(path string, firstLine string) ID {
	if id := Detect(path); id != Plain {
		return id
	}

	if !strings.HasPrefix(firstLine, "#!") {
		return Plain
	}
	lower := strings.ToLower(firstLine)
	switch {
	case strings.Contains(lower, "python"):
		return Python
	case strings.Contains(lower, "rscript"):
		return R
	case strings.Contains(lower, "julia"):
		return Julia
	case strings.Contains(lower, "ts-node") || strings.Contains(lower, "tsx") || strings.Contains(lower, "deno"):
		return TypeScript
	case strings.Contains(lower, "node"):
		return JavaScript
	default:
		return Plain
	}
}

func Parse(name string) (ID, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "py", "python", "python3":
		return Python, true
	case "r", "rlang":
		return R, true
	case "jl", "julia":
		return Julia, true
	case "js", "javascript", "node":
		return JavaScript, true
	case "ts", "typescript":
		return TypeScript, true
	}
	return Plain, false
}
