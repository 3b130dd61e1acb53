package fixlinks

import (
	"fmt"
	"io"

	fxerrors "github.com/arthur-debert/fixlinks/pkg/errors"
	"github.com/arthur-debert/fixlinks/pkg/ui"
)

// ReportError renders err to w in the given format, followed by the usage
// line when err came from argument validation.
func ReportError(w io.Writer, err error, format ui.Format) {
	renderer, rerr := ui.NewRenderer(format, w)
	if rerr != nil {
		renderer, _ = ui.NewRenderer(ui.FormatText, w)
	}
	if werr := renderer.RenderError(err); werr != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	if usage, ok := fxerrors.GetErrorDetails(err)["usage"].(string); ok {
		_ = renderer.RenderMessage(usage)
	}
}
