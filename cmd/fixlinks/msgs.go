package fixlinks

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Rewrite absolute symlinks in a rootfs into relative ones"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"
	MsgConfigShort     = "Print the effective configuration"

	// Status messages
	MsgUsageLine     = "Usage: fixlinks <rootfs dir>"
	MsgVersionFormat = "fixlinks version %s\n  commit: %s\n  built:  %s\n"
	MsgManWritten    = "Man pages written to %s\n"

	// Error messages
	MsgErrArgCount = "expected exactly one rootfs directory, got %d arguments"
	MsgErrNotExist = "rootfs directory '%s' does not exist"
	MsgErrNotDir   = "'%s' is not a directory"
	MsgErrStat     = "cannot access rootfs directory '%s'"
	MsgErrAbsPath  = "cannot resolve rootfs directory '%s'"
	MsgErrRender   = "failed to create renderer: %w"
	MsgErrPolicy   = "invalid failure policy: %w"
	MsgErrConfig   = "failed to load configuration: %w"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig      = "Config file (default $XDG_CONFIG_HOME/fixlinks/config.toml)"
	MsgFlagDryRun      = "Check every link but change nothing"
	MsgFlagOnError     = "What to do on a failure: continue or stop"
	MsgFlagFailOnError = "Exit non-zero if any link could not be processed"
	MsgFlagMaxPath     = "Maximum path length, terminator included"
	MsgFlagFormat      = "Output format: auto, term, text or json"
	MsgFlagNoLogFile   = "Do not append to the log file under $XDG_STATE_HOME"
	MsgFlagManDir      = "Directory to write man pages into"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
