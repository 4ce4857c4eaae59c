package runtime

import (
	"log/slog"
	"os"

	"github.com/ardenfx/stagehand/internal/logging"
	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/ardenfx/stagehand/pkg/ports"
)

// WarningShownEnvVar suppresses the above-maximum warning across engine
// restarts in the same process tree.
const WarningShownEnvVar = "SGTK_KATANA_VERSION_WARNING_SHOWN"

// Katana support window.
var (
	MinimumVersion = domain.Version{Major: 3, Minor: 0, Release: 0, Build: 5}
	MaximumVersion = domain.Version{Major: 6, Minor: 0, Release: 1, Build: 4}
)

// Compat enforces the host version support window. Warning suppression is
// explicit state on this object (plus the env var for child processes),
// not an ambient global.
type Compat struct {
	Min domain.Version
	Max domain.Version

	// DialogMinMajor gates the warning dialog: it only shows when the
	// host major version is at least this value.
	DialogMinMajor int

	dialogs ports.Dialogs
	logger  *slog.Logger
	warned  bool

	lookupEnv func(key string) (string, bool)
	setEnv    func(key, value string) error
}

// CompatOption configures a Compat checker.
type CompatOption func(*Compat)

// WithCompatLogger sets the logger.
func WithCompatLogger(logger *slog.Logger) CompatOption {
	return func(c *Compat) { c.logger = logger }
}

// WithCompatWindow overrides the supported version window.
func WithCompatWindow(min, max domain.Version) CompatOption {
	return func(c *Compat) { c.Min, c.Max = min, max }
}

// WithCompatEnv overrides environment access, for tests.
func WithCompatEnv(lookup func(string) (string, bool), set func(string, string) error) CompatOption {
	return func(c *Compat) { c.lookupEnv, c.setEnv = lookup, set }
}

// NewCompat creates a version checker. dialogs may be nil in batch mode.
func NewCompat(dialogs ports.Dialogs, dialogMinMajor int, opts ...CompatOption) *Compat {
	c := &Compat{
		Min:            MinimumVersion,
		Max:            MaximumVersion,
		DialogMinMajor: dialogMinMajor,
		dialogs:        dialogs,
		logger:         logging.NewNop(),
		lookupEnv:      os.LookupEnv,
		setEnv:         os.Setenv,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check validates the host version. Below the minimum major it returns a
// FatalVersionError regardless of UI mode. Above the tested maximum it
// warns exactly once per process: a log line always, plus a modal dialog
// in UI mode when the major version reaches DialogMinMajor.
func (c *Compat) Check(info domain.HostInfo, uiEnabled bool) error {
	v := info.Version

	if v.Major < c.Min.Major {
		return &domain.FatalVersionError{Found: v, Minimum: c.Min}
	}

	aboveMax := v.Major > c.Max.Major || (v.Major == c.Max.Major && v.Minor > c.Max.Minor)
	if !aboveMax {
		return nil
	}

	if c.seen() {
		return nil
	}
	c.markSeen()

	msg := "This version of " + info.Name + " (" + v.String() + ") has not been tested with this " +
		"version of the toolkit. Please use caution and report any issues you encounter."
	c.logger.Warn("untested host version", "host", info.Name, "version", v.String(), "max_tested", c.Max.String())

	if uiEnabled && c.dialogs != nil && v.Major >= c.DialogMinMajor {
		c.dialogs.Warning("Toolkit Warning", msg)
	}
	return nil
}

func (c *Compat) seen() bool {
	if c.warned {
		return true
	}
	_, ok := c.lookupEnv(WarningShownEnvVar)
	return ok
}

func (c *Compat) markSeen() {
	c.warned = true
	if err := c.setEnv(WarningShownEnvVar, "1"); err != nil {
		c.logger.Warn("could not record version warning flag", "error", err)
	}
}
