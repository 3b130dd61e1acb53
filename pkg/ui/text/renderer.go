// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/fixlinks/pkg/types"
)

// Renderer provides plain text output without colors or styling
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderHeader prints the rootfs directory line
func (r *Renderer) RenderHeader(root string) error {
	_, err := fmt.Fprintf(r.output, "ROOTFS directory: %s\n", root)
	return err
}

// RenderChange prints a "D[depth]: path linked to: target" line
func (r *Renderer) RenderChange(change types.Change) error {
	_, err := fmt.Fprintln(r.output, ChangeLine(change))
	return err
}

// RenderSummary prints the run counts followed by one line per failure
func (r *Renderer) RenderSummary(result *types.Result) error {
	var b strings.Builder
	b.WriteString(SummaryLine(result))
	b.WriteString("\n")
	for _, f := range result.Failures {
		fmt.Fprintf(&b, "  %s %s: %s\n", f.Code, f.Path, f.Action)
	}
	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, err2 := fmt.Fprintf(r.output, "Error: %v\n", err)
	return err2
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}

// ChangeLine formats a change the way progress lines are printed
func ChangeLine(change types.Change) string {
	verb := "linked to"
	if change.DryRun {
		verb = "would link to"
	}
	return fmt.Sprintf("%s[%d]: %s %s: %s", change.Kind, change.Depth, change.Path, verb, change.NewTarget)
}

// SummaryLine formats the counts of a finished run
func SummaryLine(result *types.Result) string {
	verb := "rewritten"
	if result.DryRun {
		verb = "to rewrite"
	}
	line := fmt.Sprintf("%d %s, %d relative, %d unreachable, %d failed (%d entries visited)",
		len(result.Changes), verb, result.Relative, result.Unreachable, len(result.Failures), result.Visited)
	if result.Aborted {
		line += ", aborted"
	}
	return line
}
