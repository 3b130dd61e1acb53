// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/arthur-debert/fixlinks/pkg/types"
	"github.com/charmbracelet/lipgloss"
)

// Renderer provides rich terminal output using lipgloss styles
type Renderer struct {
	output io.Writer
	styles Styles
}

// New creates a new terminal renderer. Color support is detected on w.
func New(w io.Writer) (*Renderer, error) {
	styles, err := LoadStyles(lipgloss.NewRenderer(w), embeddedStyles)
	if err != nil {
		return nil, fmt.Errorf("failed to load styles: %w", err)
	}
	return &Renderer{output: w, styles: styles}, nil
}

func (r *Renderer) RenderHeader(root string) error {
	_, err := fmt.Fprintf(r.output, "%s %s\n",
		r.styles.Get("Header").Render("ROOTFS directory:"),
		r.styles.Get("FilePath").Render(root))
	return err
}

func (r *Renderer) RenderChange(change types.Change) error {
	verb := "linked to:"
	if change.DryRun {
		verb = r.styles.Get("DryRun").Render("would link to:")
	}
	_, err := fmt.Fprintf(r.output, "%s %s %s %s\n",
		r.styles.Get("Depth").Render(fmt.Sprintf("%s[%d]:", change.Kind, change.Depth)),
		r.styles.Get("FilePath").Render(change.Path),
		verb,
		r.styles.Get("Target").Render(change.NewTarget))
	return err
}

func (r *Renderer) RenderSummary(result *types.Result) error {
	var b strings.Builder

	status := r.styles.Get("Success").Render("Done")
	switch {
	case result.Aborted:
		status = r.styles.Get("Error").Render("Aborted")
	case result.HasFailures():
		status = r.styles.Get("Warning").Render("Done with failures")
	}
	if result.DryRun {
		status += " " + r.styles.Get("DryRun").Render("(dry run)")
	}
	b.WriteString(status + "\n")

	counts := fmt.Sprintf("%d rewritten, %d relative, %d unreachable, %d failed",
		len(result.Changes), result.Relative, result.Unreachable, len(result.Failures))
	b.WriteString(counts + " ")
	b.WriteString(r.styles.Get("Muted").Render(
		fmt.Sprintf("(%d entries in %s)", result.Visited, result.Duration.Round(time.Millisecond))))
	b.WriteString("\n")

	failure := r.styles.Get("Failure")
	for _, f := range result.Failures {
		b.WriteString(failure.Render(fmt.Sprintf("%s %s (%s)", f.Code, f.Path, f.Action)))
		b.WriteString("\n")
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "%s %v\n", r.styles.Get("Error").Render("Error:"), err)
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
