// Package json provides machine-readable JSON output.
// Every call writes one JSON object on its own line.
package json

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/fixlinks/pkg/types"
)

// Event is a single line of JSON output
type Event struct {
	Event   string        `json:"event"`
	Root    string        `json:"root,omitempty"`
	Change  *types.Change `json:"change,omitempty"`
	Result  *types.Result `json:"result,omitempty"`
	Error   string        `json:"error,omitempty"`
	Message string        `json:"message,omitempty"`
}

// Renderer provides JSON output for machine consumption
type Renderer struct {
	output  io.Writer
	encoder *json.Encoder
}

// New creates a new JSON renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{
		output:  output,
		encoder: json.NewEncoder(output),
	}, nil
}

func (r *Renderer) RenderHeader(root string) error {
	return r.encoder.Encode(Event{Event: "start", Root: root})
}

func (r *Renderer) RenderChange(change types.Change) error {
	return r.encoder.Encode(Event{Event: "change", Change: &change})
}

func (r *Renderer) RenderSummary(result *types.Result) error {
	return r.encoder.Encode(Event{Event: "summary", Root: result.Root, Result: result})
}

// RenderError renders an error as JSON
func (r *Renderer) RenderError(err error) error {
	return r.encoder.Encode(Event{Event: "error", Error: err.Error()})
}

// RenderMessage renders a simple message as JSON
func (r *Renderer) RenderMessage(msg string) error {
	return r.encoder.Encode(Event{Event: "message", Message: msg})
}
