package splay

/*
BSD 3-Clause License

Copyright (c) 2021–22, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Palette maps node roles to display colors for terminal dumps.
type Palette struct {
	Anchor    *color.Color // tree-resident records
	Duplicate *color.Color // ring members of a multimap
	Glyph     *color.Color // branch drawing characters
}

func makeDefaultPalette() *Palette {
	return &Palette{
		Anchor:    color.New(color.FgCyan),
		Duplicate: color.New(color.FgYellow),
		Glyph:     color.New(color.Faint),
	}
}

// ConsolePrinter dumps map structures to a terminal: one record per line,
// indented by tree depth and colored by role. Lines are clamped to the
// terminal width when stdout is interactive.
type ConsolePrinter struct {
	colors *Palette
	width  int
}

// NewConsolePrinter creates a printer. colors may be nil, selecting a
// default palette; the line width is taken from the current terminal when
// stdout is interactive, 80 otherwise.
func NewConsolePrinter(colors *Palette) *ConsolePrinter {
	cp := &ConsolePrinter{colors: colors, width: 80}
	if cp.colors == nil {
		cp.colors = makeDefaultPalette()
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		cp.width = w
	}
	return cp
}

func (cp *ConsolePrinter) line(w io.Writer, depth int, colored *color.Color, text string) {
	glyph := strings.Repeat("│  ", max(depth-1, 0))
	if depth > 0 {
		glyph += "├─ "
	}
	budget := cp.width - len([]rune(glyph))
	runes := []rune(text)
	if budget > 1 && len(runes) > budget {
		text = string(runes[:budget-1]) + "…"
	}
	fmt.Fprintln(w, cp.colors.Glyph.Sprint(glyph)+colored.Sprint(text))
}

// PrintMap writes an indented view of a Map to w, greatest keys first so
// the output reads like a tree fallen on its left side.
func PrintMap[K, V any](m *Map[K, V], cp *ConsolePrinter, w io.Writer) {
	if cp == nil {
		cp = NewConsolePrinter(nil)
	}
	var walk func(n *Node[K, V], depth int)
	walk = func(n *Node[K, V], depth int) {
		if n == nil {
			return
		}
		walk(n.down[rgt], depth+1)
		cp.line(w, depth, cp.colors.Anchor, fmt.Sprintf("%v = %v", n.key, n.value))
		walk(n.down[lft], depth+1)
	}
	if m == nil || m.root == nil {
		cp.line(w, 0, cp.colors.Glyph, "(empty map)")
		return
	}
	walk(m.root, 0)
}

// PrintMultiMap writes an indented view of a MultiMap to w. Duplicates
// follow their anchor on the same depth, oldest first.
func PrintMultiMap[K, V any](m *MultiMap[K, V], cp *ConsolePrinter, w io.Writer) {
	if cp == nil {
		cp = NewConsolePrinter(nil)
	}
	var walk func(n *MultiNode[K, V], depth int)
	walk = func(n *MultiNode[K, V], depth int) {
		if n == nil {
			return
		}
		walk(n.down[rgt], depth+1)
		cp.line(w, depth, cp.colors.Anchor, fmt.Sprintf("%v = %v", n.key, n.value))
		for d := n.next; d != nil && d != n; d = d.next {
			cp.line(w, depth, cp.colors.Duplicate, fmt.Sprintf("%v = %v (dup)", d.key, d.value))
		}
		walk(n.down[lft], depth+1)
	}
	if m == nil || m.root == nil {
		cp.line(w, 0, cp.colors.Glyph, "(empty map)")
		return
	}
	walk(m.root, 0)
}
