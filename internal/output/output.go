// Package output renders CLI results. Styling is applied only when the
// destination is a terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/reoring/docskema"
)

// Printer writes styled lines to one destination.
type Printer struct {
	w io.Writer

	ok    lipgloss.Style
	fail  lipgloss.Style
	warn  lipgloss.Style
	path  lipgloss.Style
	faint lipgloss.Style
}

// New returns a Printer for w. Colors are enabled only when w is a terminal
// file descriptor.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	if !isTerminal(w) {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{
		w:     w,
		ok:    r.NewStyle().Foreground(lipgloss.Color("green")).Bold(true),
		fail:  r.NewStyle().Foreground(lipgloss.Color("red")).Bold(true),
		warn:  r.NewStyle().Foreground(lipgloss.Color("yellow")),
		path:  r.NewStyle().Foreground(lipgloss.Color("cyan")),
		faint: r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Pass reports a document that validated cleanly.
func (p *Printer) Pass(name string) {
	fmt.Fprintln(p.w, p.ok.Render("ok")+"   "+name)
}

// Fail reports a document and its issues, one per line.
func (p *Printer) Fail(name string, iss docskema.Issues) {
	fmt.Fprintln(p.w, p.fail.Render("FAIL")+" "+name)
	width := 0
	for _, it := range iss {
		width = max(width, len(it.Path))
	}
	for _, it := range iss {
		line := "  " + p.path.Render(it.Path+strings.Repeat(" ", width-len(it.Path))) + "  " + it.Code
		if it.Message != "" {
			line += p.faint.Render(": " + it.Message)
		}
		fmt.Fprintln(p.w, line)
	}
}

// Warn prints a non-fatal note.
func (p *Printer) Warn(msg string) {
	fmt.Fprintln(p.w, p.warn.Render("warning: ")+msg)
}

// Row prints a path followed by a description, aligned on the path column.
func (p *Printer) Row(path string, width int, desc string) {
	pad := ""
	if n := width - len(path); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	fmt.Fprintln(p.w, p.path.Render(path)+pad+"  "+desc)
}
