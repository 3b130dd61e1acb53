package fixlinks

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/fixlinks/internal/version"
	"github.com/arthur-debert/fixlinks/pkg/config"
	fxerrors "github.com/arthur-debert/fixlinks/pkg/errors"
	"github.com/arthur-debert/fixlinks/pkg/logging"
	"github.com/arthur-debert/fixlinks/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// rootFlags holds the raw flag values; only flags the user set are
// turned into config overrides.
type rootFlags struct {
	configFile  string
	verbosity   int
	dryRun      bool
	onError     string
	failOnError bool
	maxPath     int
	format      string
	noLogFile   bool
}

// cliState is what a single invocation learns while parsing flags and
// loading configuration.
type cliState struct {
	flags rootFlags
	cfg   *config.Config
}

// outputFormat is the format errors are reported in: the loaded config's
// when there is one, otherwise whatever --format says.
func (s *cliState) outputFormat() ui.Format {
	name := s.flags.format
	if s.cfg != nil {
		name = s.cfg.Output.Format
	}
	format, err := ui.ParseFormat(name)
	if err != nil {
		return ui.FormatAuto
	}
	return format
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&cliState{})
}

// Execute runs the command line in args and reports any error through the
// selected renderer. JSON errors go to stdout with the rest of the event
// stream; other formats write them to stderr. It returns the exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	state := &cliState{}
	rootCmd := newRootCmd(state)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if args == nil {
		// nil would make cobra fall back to os.Args
		args = []string{}
	}
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		format := state.outputFormat()
		w := stderr
		if format == ui.FormatJSON {
			w = stdout
		}
		ReportError(w, err, format)
		return 1
	}
	return 0
}

func newRootCmd(state *cliState) *cobra.Command {
	initTemplateFormatting()

	flags := &state.flags

	rootCmd := &cobra.Command{
		Use:     "fixlinks [flags] <rootfs dir>",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    rootfsArg,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadConfiguration(config.LoadOptions{
				ConfigFile: flags.configFile,
				Overrides:  flagOverrides(cmd),
			})
			if err != nil {
				return fmt.Errorf(MsgErrConfig, err)
			}
			state.cfg = loaded

			logging.SetupLoggerWithOptions(logging.Options{
				Verbosity: state.cfg.Logging.Verbosity,
				Console:   cmd.ErrOrStderr(),
				NoFile:    !state.cfg.Logging.File,
				NoColor:   os.Getenv("NO_COLOR") != "",
			})
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := filepath.Abs(args[0])
			if err != nil {
				return fxerrors.Wrapf(err, fxerrors.ErrInvalidInput, MsgErrAbsPath, args[0]).
					WithDetail("usage", MsgUsageLine)
			}
			return runFix(cmd, state.cfg, root)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", MsgFlagConfig)
	pf.CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.BoolVar(&flags.dryRun, "dry-run", false, MsgFlagDryRun)
	pf.StringVar(&flags.onError, "on-error", config.OnErrorContinue, MsgFlagOnError)
	pf.BoolVar(&flags.failOnError, "fail-on-error", false, MsgFlagFailOnError)
	pf.IntVar(&flags.maxPath, "max-path", 4096, MsgFlagMaxPath)
	pf.StringVar(&flags.format, "format", "auto", MsgFlagFormat)
	pf.BoolVar(&flags.noLogFile, "no-log-file", false, MsgFlagNoLogFile)

	_ = rootCmd.RegisterFlagCompletionFunc("on-error", cobra.FixedCompletions(
		[]string{config.OnErrorContinue, config.OnErrorStop}, cobra.ShellCompDirectiveNoFileComp))
	_ = rootCmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"auto", "term", "text", "json"}, cobra.ShellCompDirectiveNoFileComp))
	rootCmd.ValidArgsFunction = func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveFilterDirs
	}

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(func() *config.Config { return state.cfg }))
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

// rootfsArg accepts exactly one argument naming an existing directory
func rootfsArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fxerrors.Newf(fxerrors.ErrInvalidInput, MsgErrArgCount, len(args)).
			WithDetail("usage", MsgUsageLine)
	}

	info, err := os.Stat(args[0])
	switch {
	case os.IsNotExist(err):
		return fxerrors.Wrapf(err, fxerrors.ErrNotFound, MsgErrNotExist, args[0]).
			WithDetail("path", args[0]).
			WithDetail("usage", MsgUsageLine)
	case err != nil:
		return fxerrors.Wrapf(err, fxerrors.ErrInvalidInput, MsgErrStat, args[0]).
			WithDetail("path", args[0]).
			WithDetail("usage", MsgUsageLine)
	case !info.IsDir():
		return fxerrors.Newf(fxerrors.ErrInvalidInput, MsgErrNotDir, args[0]).
			WithDetail("path", args[0]).
			WithDetail("usage", MsgUsageLine)
	}
	return nil
}

// flagOverrides maps the flags set on the command line to config keys
func flagOverrides(cmd *cobra.Command) map[string]interface{} {
	fs := cmd.Flags()
	overrides := make(map[string]interface{})

	if fs.Changed("verbose") {
		v, _ := fs.GetCount("verbose")
		overrides["logging.verbosity"] = v
	}
	if fs.Changed("no-log-file") {
		v, _ := fs.GetBool("no-log-file")
		overrides["logging.file"] = !v
	}
	if fs.Changed("dry-run") {
		v, _ := fs.GetBool("dry-run")
		overrides["fixer.dry_run"] = v
	}
	if fs.Changed("on-error") {
		v, _ := fs.GetString("on-error")
		overrides["fixer.on_error"] = v
	}
	if fs.Changed("fail-on-error") {
		v, _ := fs.GetBool("fail-on-error")
		overrides["fixer.fail_on_error"] = v
	}
	if fs.Changed("max-path") {
		v, _ := fs.GetInt("max-path")
		overrides["fixer.max_path_length"] = v
	}
	if fs.Changed("format") {
		v, _ := fs.GetString("format")
		overrides["output.format"] = v
	}
	return overrides
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newConfigCmd(current func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:       "config [toml|yaml]",
		Short:     MsgConfigShort,
		Long:      MsgConfigLong,
		ValidArgs: []string{"toml", "yaml"},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := "toml"
			if len(args) == 1 {
				format = args[0]
			}
			return config.Dump(current(), format, cmd.OutOrStdout())
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

func newManCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "man",
		Short: MsgManShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fxerrors.Wrapf(err, fxerrors.ErrInvalidInput, "cannot create %s", dir)
			}
			if err := doc.GenManTree(cmd.Root(), ManHeader(), dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgManWritten, dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", MsgFlagManDir)
	return cmd
}

// ManHeader is the header shared by the man subcommand and fixlinks-manpage
func ManHeader() *doc.GenManHeader {
	return &doc.GenManHeader{
		Title:   "FIXLINKS",
		Section: "1",
		Source:  "fixlinks " + version.Version,
		Manual:  "fixlinks manual",
	}
}
