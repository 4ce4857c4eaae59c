package hooks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ardenfx/stagehand/internal/logging"
	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/ardenfx/stagehand/pkg/ports"
	"github.com/ardenfx/stagehand/pkg/template"
)

// ProgressFunc receives publish progress milestones as a percentage and a
// short description.
type ProgressFunc func(percent int, message string)

// Publisher implements the post-publish version-up step: after a publish
// succeeds, the work file is saved again under the next free version
// number so the artist keeps working without clobbering the published
// version.
type Publisher struct {
	host     ports.Host
	tmpl     *template.Template
	locker   ports.DistributedLocker
	lockTTL  time.Duration
	logger   *slog.Logger
	progress ProgressFunc

	mkdirAll func(path string, perm os.FileMode) error
}

// PublishOption configures a Publisher.
type PublishOption func(*Publisher)

// WithPublishLogger sets the hook logger.
func WithPublishLogger(logger *slog.Logger) PublishOption {
	return func(p *Publisher) { p.logger = logger }
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) PublishOption {
	return func(p *Publisher) { p.progress = fn }
}

// WithLocker guards the scan-then-save against concurrent farm processes
// publishing into the same template.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) PublishOption {
	return func(p *Publisher) { p.locker, p.lockTTL = locker, ttl }
}

// NewPublisher creates the version-up hook for a work-file template.
func NewPublisher(host ports.Host, tmpl *template.Template, opts ...PublishOption) *Publisher {
	p := &Publisher{
		host:     host,
		tmpl:     tmpl,
		lockTTL:  30 * time.Second,
		logger:   logging.NewNop(),
		progress: func(int, string) {},
		mkdirAll: os.MkdirAll,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NextVersion computes the version the work file moves to: one past the
// highest of the current version and every version already on disk. Gaps
// in the existing sequence are never reused.
func NextVersion(current int, existing []int) int {
	next := current
	for _, v := range existing {
		if v > next {
			next = v
		}
	}
	return next + 1
}

// NextVersionFor computes the version a VersionUp of path would claim,
// without saving anything. Remote adapters use it for dry-run queries.
func (p *Publisher) NextVersionFor(ctx context.Context, path string) (int, error) {
	fields, err := p.tmpl.GetFields(path)
	if err != nil {
		return 0, fmt.Errorf("work file does not match the template: %w", err)
	}
	return p.nextVersion(fields)
}

func (p *Publisher) nextVersion(fields template.Fields) (int, error) {
	existing, err := p.tmpl.Paths(fields, template.VersionField)
	if err != nil {
		return 0, err
	}
	return NextVersion(fields.Version(), p.tmpl.Versions(existing)), nil
}

// VersionUp saves the scene at path under the next free version number
// and returns the new path. Progress is reported at 0, 25, 50 and 100
// percent.
func (p *Publisher) VersionUp(ctx context.Context, path string) (string, error) {
	p.progress(0, "Versioning up the scene file")

	fields, err := p.tmpl.GetFields(path)
	if err != nil {
		return "", fmt.Errorf("work file does not match the template: %w", err)
	}

	if p.locker != nil {
		unlock, err := p.locker.Lock(ctx, "versionup:"+p.tmpl.String(), p.lockTTL)
		if err != nil {
			return "", fmt.Errorf("failed to acquire version lock: %w", err)
		}
		defer func() {
			if uerr := unlock(ctx); uerr != nil {
				p.logger.Warn("failed to release version lock", "error", uerr)
			}
		}()
	}

	p.progress(25, "Finding next version number")
	next, err := p.nextVersion(fields)
	if err != nil {
		return "", err
	}
	p.progress(50, "Saving the scene file")

	newFields := fields.Clone()
	newFields[template.VersionField] = next
	newPath, err := p.tmpl.ApplyFields(newFields)
	if err != nil {
		return "", err
	}

	if err := p.mkdirAll(filepath.Dir(newPath), 0o775); err != nil {
		return "", &domain.OperationError{Op: "version_up", Path: newPath, Err: err}
	}
	if err := p.host.SaveFile(newPath); err != nil {
		return "", &domain.OperationError{Op: "version_up", Path: newPath, Err: err}
	}

	p.logger.Info("versioned up work file", "from", path, "to", newPath)
	p.progress(100, "Version up complete")
	return newPath, nil
}
