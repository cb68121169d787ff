package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`              _ _               _              `, "#4ade80"},
	{`  _ __   ___ | (_) ___ _   _  | |_ _ __ ___  ___ `, "#34d399"},
	{` | '_ \ / _ \| | |/ __| | | | | __| '__/ _ \/ _ \`, "#2dd4bf"},
	{` | |_) | (_) | | | (__| |_| | | |_| | |  __/  __/`, "#22d3ee"},
	{` | .__/ \___/|_|_|\___|\__, |  \__|_|  \___|\___|`, "#38bdf8"},
	{` |_|                   |___/                     `, "#60a5fa"},
}

// PrintBanner writes the policytree ASCII banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()

	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line.text).Foreground(p.Color(line.color)))
	}
	fmt.Fprintln(w)
}
