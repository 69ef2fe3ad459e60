/*
Copyright (C) 2024-2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// kernelgen reads pixel/presets.go, finds every single-argument
// "func PresetXxx(source *ChainLink) *ChainLink" declaration together with
// the doc comment above it, and regenerates pixel/registry_generated.go —
// the NamedPreset table the CLI's list-kernels/repl commands walk.
//
// Usage:
//
//	go run ./tools/kernelgen pixel/presets.go pixel/registry_generated.go
package main

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"strings"

	"golang.org/x/tools/imports"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "usage: kernelgen <presets.go> <registry_generated.go>\n")
		os.Exit(1)
	}
	srcPath, dstPath := os.Args[1], os.Args[2]

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, srcPath, nil, parser.ParseComments)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse %s: %v\n", srcPath, err)
		os.Exit(1)
	}

	entries := collectPresets(f)
	if len(entries) == 0 {
		fmt.Fprintf(os.Stderr, "no presets found in %s\n", srcPath)
		os.Exit(1)
	}

	out := render(entries)
	formatted, err := imports.Process(dstPath, []byte(out), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "format: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(dstPath, formatted, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", dstPath, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d presets)\n", dstPath, len(entries))
}

type presetEntry struct {
	funcName string
	regName  string
	doc      string
}

// collectPresets walks the top-level declarations, picking out every
// "func PresetXxx(source *ChainLink) *ChainLink" — single-argument presets
// only; parametric builders like PresetShift take extra arguments and are
// deliberately skipped, the same convention registry_generated.go already
// documents.
func collectPresets(f *ast.File) []presetEntry {
	var entries []presetEntry
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil {
			continue
		}
		if !strings.HasPrefix(fn.Name.Name, "Preset") {
			continue
		}
		if fn.Type.Params == nil || len(fn.Type.Params.List) != 1 {
			continue // skip parametric builders (e.g. PresetShift)
		}
		doc := ""
		if fn.Doc != nil {
			doc = strings.TrimSpace(fn.Doc.Text())
			if i := strings.IndexByte(doc, '\n'); i >= 0 {
				doc = doc[:i]
			}
		}
		entries = append(entries, presetEntry{
			funcName: fn.Name.Name,
			regName:  kebabName(strings.TrimPrefix(fn.Name.Name, "Preset")),
			doc:      doc,
		})
	}
	return entries
}

// kebabName turns "SobelMagnitude" into "sobel-magnitude".
func kebabName(camel string) string {
	var b strings.Builder
	for i, r := range camel {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

const header = `/*
Copyright (C) 2024-2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Code generated by tools/kernelgen from presets.go; DO NOT EDIT.

package pixel

// NamedPreset pairs a preset's registry name with the single-source chain
// builder from presets.go it was generated from.
type NamedPreset struct {
	Name        string
	Description string
	Build       func(source *ChainLink) *ChainLink
}

// presetRegistry lists every single-argument preset builder in presets.go,
// in declaration order. PresetShift is parametric (takes dx, dy) and has no
// entry here.
var presetRegistry = []NamedPreset{
`

const footer = `}

// PresetNames returns every registered preset name, in registry order.
func PresetNames() []string {
	names := make([]string, len(presetRegistry))
	for i, p := range presetRegistry {
		names[i] = p.Name
	}
	return names
}

// LookupPreset resolves a preset by name, reporting ok=false if unknown.
func LookupPreset(name string) (NamedPreset, bool) {
	for _, p := range presetRegistry {
		if p.Name == name {
			return p, true
		}
	}
	return NamedPreset{}, false
}
`

func render(entries []presetEntry) string {
	var b strings.Builder
	b.WriteString(header)
	for _, e := range entries {
		fmt.Fprintf(&b, "\t{%q, %q, %s},\n", e.regName, e.doc, e.funcName)
	}
	b.WriteString(footer)
	return b.String()
}
