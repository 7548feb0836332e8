// Package report is the console reporter used by the lint and size stages.
package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/vk/assetgrid/internal/stage"
)

// Console writes human readable lint and size reports to a writer.
type Console struct {
	mu       sync.Mutex
	w        io.Writer
	path     lipgloss.Style
	errStyle lipgloss.Style
	warn     lipgloss.Style
	dim      lipgloss.Style
	title    lipgloss.Style
	size     lipgloss.Style
}

var _ stage.Reporter = (*Console)(nil)

// NewConsole creates a reporter writing to w. Colors are only emitted when w is
// a terminal that supports them.
func NewConsole(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	return &Console{
		w:        w,
		path:     r.NewStyle().Underline(true),
		errStyle: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		warn:     r.NewStyle().Foreground(lipgloss.Color("11")),
		dim:      r.NewStyle().Foreground(lipgloss.Color("8")),
		title:    r.NewStyle().Foreground(lipgloss.Color("6")),
		size:     r.NewStyle().Foreground(lipgloss.Color("13")),
	}
}

// Lint prints the diagnostics of one file, one per line, followed by a
// summary. Files without findings print nothing.
func (c *Console) Lint(path string, diags []stage.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.w, c.path.Render(path))
	var errs, warns int
	for _, d := range diags {
		sev := c.warn.Render("⚠")
		if d.Severity == stage.SeverityError {
			sev = c.errStyle.Render("✖")
			errs++
		} else {
			warns++
		}
		loc := c.dim.Render(fmt.Sprintf("line %d col %d", d.Line, d.Column))
		code := ""
		if d.Code != "" {
			code = " " + c.dim.Render("("+d.Code+")")
		}
		fmt.Fprintf(c.w, "  %s  %s  %s%s\n", loc, sev, d.Message, code)
	}
	fmt.Fprintf(c.w, "\n%s\n\n", c.summary(errs, warns))
}

func (c *Console) summary(errs, warns int) string {
	var parts []string
	if errs > 0 {
		parts = append(parts, c.errStyle.Render(fmt.Sprintf("✖ %d %s", errs, plural(errs, "error"))))
	}
	if warns > 0 {
		parts = append(parts, c.warn.Render(fmt.Sprintf("⚠ %d %s", warns, plural(warns, "warning"))))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, joinSpaced(parts)...)
}

// Size prints a gulp-size style line: title and total bytes.
func (c *Console) Size(title string, bytes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "%s %s\n", c.title.Render(title), c.size.Render(humanize.Bytes(uint64(bytes))))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func joinSpaced(parts []string) []string {
	out := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			out = append(out, "  ")
		}
		out = append(out, p)
	}
	return out
}
