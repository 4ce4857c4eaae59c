// Package hooks contains the pipeline hooks that run against the host:
// scene operations invoked by the work-file apps and the publish
// version-up step.
package hooks

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardenfx/stagehand/internal/logging"
	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/ardenfx/stagehand/pkg/ports"
)

// Scene operation names, matching the work-file app protocol.
const (
	OpCurrentPath = "current_path"
	OpOpen        = "open"
	OpSave        = "save"
	OpSaveAs      = "save_as"
	OpReset       = "reset"
)

// SceneOperation executes scene-level file operations on behalf of the
// work-file apps. The host performs the actual I/O; this hook adds
// directory creation, the unsaved-changes prompt, and uniform errors.
type SceneOperation struct {
	host    ports.Host
	dialogs ports.Dialogs
	logger  *slog.Logger

	mkdirAll func(path string, perm os.FileMode) error
}

// SceneOption configures a SceneOperation hook.
type SceneOption func(*SceneOperation)

// WithSceneLogger sets the hook logger.
func WithSceneLogger(logger *slog.Logger) SceneOption {
	return func(s *SceneOperation) { s.logger = logger }
}

// WithSceneDialogs sets the dialog facade used by the reset prompt.
// Without one, reset discards unsaved changes silently (batch mode).
func WithSceneDialogs(dialogs ports.Dialogs) SceneOption {
	return func(s *SceneOperation) { s.dialogs = dialogs }
}

// NewSceneOperation creates the hook for the given host.
func NewSceneOperation(host ports.Host, opts ...SceneOption) *SceneOperation {
	s := &SceneOperation{
		host:     host,
		logger:   logging.NewNop(),
		mkdirAll: os.MkdirAll,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute dispatches op. The result depends on the operation:
// current_path returns the scene path string, reset returns whether the
// caller may proceed, and the file operations return nil.
func (s *SceneOperation) Execute(ctx context.Context, op, path string) (any, error) {
	s.logger.Debug("scene operation", "op", op, "path", path)

	switch op {
	case OpCurrentPath:
		return s.host.CurrentFile(), nil
	case OpOpen:
		return nil, s.open(path)
	case OpSave:
		return nil, s.save(path)
	case OpSaveAs:
		return nil, s.save(path)
	case OpReset:
		return s.reset()
	default:
		return nil, domain.ErrUnknownOperation
	}
}

func (s *SceneOperation) open(path string) error {
	path = filepath.Clean(path)
	if err := s.host.LoadFile(path); err != nil {
		return &domain.OperationError{Op: OpOpen, Path: path, Err: err}
	}
	return nil
}

// save writes the scene to path, or back to the current file when path is
// empty. The parent directory is created first; hosts refuse to save into
// a directory that does not exist.
func (s *SceneOperation) save(path string) error {
	if path == "" {
		path = s.host.CurrentFile()
	}
	path = filepath.Clean(path)

	if err := s.mkdirAll(filepath.Dir(path), 0o775); err != nil {
		return &domain.OperationError{Op: OpSave, Path: path, Err: err}
	}
	if err := s.host.SaveFile(path); err != nil {
		return &domain.OperationError{Op: OpSave, Path: path, Err: err}
	}
	return nil
}

// reset prepares the session for a new file. With unsaved changes in UI
// mode the user is asked to save first; answering cancel aborts the whole
// operation and nothing is written.
func (s *SceneOperation) reset() (bool, error) {
	for s.host.IsDirty() {
		if !s.host.UIEnabled() || s.dialogs == nil {
			// Batch runs cannot prompt; the caller asked for a reset, so
			// unsaved changes are dropped.
			s.logger.Warn("discarding unsaved changes", "path", s.host.CurrentFile())
			break
		}

		answer := s.dialogs.Question("Save your scene?",
			"Your scene has unsaved changes. Save before proceeding?")
		switch answer {
		case ports.AnswerCancel:
			return false, nil
		case ports.AnswerNo:
			return true, nil
		case ports.AnswerYes:
			if err := s.save(""); err != nil {
				return false, err
			}
		}
	}
	return true, nil
}
