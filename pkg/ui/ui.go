// Package ui renders the progress and outcome of a fixlinks run.
// It supports terminal (rich), text (plain), and JSON output formats.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/fixlinks/pkg/types"
	"github.com/arthur-debert/fixlinks/pkg/ui/json"
	"github.com/arthur-debert/fixlinks/pkg/ui/terminal"
	"github.com/arthur-debert/fixlinks/pkg/ui/text"
)

// Renderer is the common interface for all output renderers.
// A run renders one header, a change line per rewritten link and a summary.
type Renderer interface {
	// RenderHeader announces the rootfs directory about to be walked
	RenderHeader(root string) error

	// RenderChange renders a single rewritten (or planned) link
	RenderChange(change types.Change) error

	// RenderSummary renders the end-of-run counts and failures
	RenderSummary(result *types.Result) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		// If not a file, default to plain text
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return terminal.New(output)
	case FormatText:
		return text.New(output)
	case FormatJSON:
		return json.New(output)
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}
