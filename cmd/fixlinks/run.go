package fixlinks

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/fixlinks/pkg/config"
	"github.com/arthur-debert/fixlinks/pkg/filesystem"
	fx "github.com/arthur-debert/fixlinks/pkg/fixlinks"
	"github.com/arthur-debert/fixlinks/pkg/logging"
	"github.com/arthur-debert/fixlinks/pkg/types"
	"github.com/arthur-debert/fixlinks/pkg/ui"
	"github.com/spf13/cobra"
)

// runFix walks root with the effective configuration, rendering a line per
// rewritten link and a summary at the end.
func runFix(cmd *cobra.Command, cfg *config.Config, root string) error {
	logger := logging.GetLogger("cmd.fix")

	format, err := ui.ParseFormat(cfg.Output.Format)
	if err != nil {
		return fmt.Errorf(MsgErrRender, err)
	}
	renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf(MsgErrRender, err)
	}

	mode, err := fx.ParseMode(cfg.Fixer.OnError)
	if err != nil {
		return fmt.Errorf(MsgErrPolicy, err)
	}

	fixer := fx.New(fx.Options{
		FS: filesystem.NewOS(),
		Policy: fx.Policy{
			Mode:        mode,
			FailOnError: cfg.Fixer.FailOnError,
		},
		MaxPathLength: cfg.Fixer.MaxPathLength,
		DryRun:        cfg.Fixer.DryRun,
		Reporter: fx.ReporterFunc(func(change types.Change) {
			if err := renderer.RenderChange(change); err != nil {
				logger.Warn().Err(err).Str("path", change.Path).Msg("Failed to render change")
			}
		}),
	})

	logger.Info().
		Str("root", root).
		Str("onError", string(mode)).
		Bool("failOnError", cfg.Fixer.FailOnError).
		Bool("dryRun", cfg.Fixer.DryRun).
		Int("maxPathLength", cfg.Fixer.MaxPathLength).
		Msg("Fixing links")

	if err := renderer.RenderHeader(root); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, runErr := fixer.Run(ctx, root)
	if result != nil {
		if err := renderer.RenderSummary(result); err != nil {
			logger.Warn().Err(err).Msg("Failed to render summary")
		}
	}
	return runErr
}
