// Package help renders usage pages for the dispatch layer. Pages are
// plain data so the command package can build them without knowing how
// they are styled.
package help

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Entry is one row of a help section: a command or flag name, its
// description, and an optional trailing detail such as a default value.
type Entry struct {
	Name        string
	Description string
	Detail      string
}

// Page is everything needed to render one help screen.
type Page struct {
	Program     string
	Usage       string
	Description string
	Commands    []Entry
	Flags       []Entry
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	nameStyle    = lipgloss.NewStyle().Bold(true).PaddingLeft(2)
	detailStyle  = lipgloss.NewStyle().Faint(true)
)

// Render writes the page to w.
func Render(w io.Writer, page Page) {
	var b strings.Builder

	if page.Description != "" {
		b.WriteString(page.Description)
		b.WriteString("\n\n")
	}

	b.WriteString(headingStyle.Render("Usage:"))
	b.WriteString("\n  ")
	b.WriteString(page.Usage)
	b.WriteString("\n")

	if len(page.Commands) > 0 {
		b.WriteString("\n")
		b.WriteString(headingStyle.Render("Commands:"))
		b.WriteString("\n")
		renderSection(&b, page.Commands)
	}

	if len(page.Flags) > 0 {
		b.WriteString("\n")
		b.WriteString(headingStyle.Render("Flags:"))
		b.WriteString("\n")
		renderSection(&b, page.Flags)
	}

	fmt.Fprint(w, b.String())
}

func renderSection(b *strings.Builder, entries []Entry) {
	width := 0
	for _, e := range entries {
		if len(e.Name) > width {
			width = len(e.Name)
		}
	}

	for _, e := range entries {
		b.WriteString(nameStyle.Render(e.Name))
		if e.Description != "" || e.Detail != "" {
			b.WriteString(strings.Repeat(" ", width-len(e.Name)+2))
			b.WriteString(e.Description)
			if e.Detail != "" {
				if e.Description != "" {
					b.WriteString(" ")
				}
				b.WriteString(detailStyle.Render("(" + e.Detail + ")"))
			}
		}
		b.WriteString("\n")
	}
}
