package fixlinks

import (
	"fmt"
	"strings"

	fxerrors "github.com/arthur-debert/fixlinks/pkg/errors"
)

// Mode selects how the walk reacts to local failures
type Mode string

const (
	// ModeContinue logs failures and keeps walking (best effort)
	ModeContinue Mode = "continue"
	// ModeStop aborts the walk on the first failure
	ModeStop Mode = "stop"
)

// ParseMode parses a fixer.on_error value
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeContinue, "":
		return ModeContinue, nil
	case ModeStop:
		return ModeStop, nil
	default:
		return ModeContinue, fxerrors.Newf(fxerrors.ErrInvalidInput, "unknown failure mode %q", s)
	}
}

// Action is what the walker does after a failure
type Action int

const (
	// ActionSkipEntry abandons the current entry; a directory is still descended into
	ActionSkipEntry Action = iota
	// ActionAbandonDir abandons the remaining entries of the current directory
	ActionAbandonDir
	// ActionAbort stops the walk
	ActionAbort
)

func (a Action) String() string {
	switch a {
	case ActionSkipEntry:
		return "skip-entry"
	case ActionAbandonDir:
		return "abandon-dir"
	case ActionAbort:
		return "abort"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Policy maps failures to actions.
type Policy struct {
	Mode Mode
	// FailOnError makes a best-effort run with failures return an ErrFailures error
	FailOnError bool
}

// DefaultPolicy is best effort with a zero exit status
func DefaultPolicy() Policy {
	return Policy{Mode: ModeContinue}
}

// Decide returns the action for err.
func (p Policy) Decide(err error) Action {
	if p.Mode == ModeStop {
		return ActionAbort
	}

	switch fxerrors.GetErrorCode(err) {
	case fxerrors.ErrResourceExhausted, fxerrors.ErrListingTooLong:
		return ActionAbandonDir
	default:
		return ActionSkipEntry
	}
}
