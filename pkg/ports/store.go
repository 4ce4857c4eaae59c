package ports

import (
	"context"

	"github.com/ardenfx/stagehand/pkg/domain"
)

// ContextStore persists pipeline contexts keyed by session. Launchers use
// it to hand large contexts to freshly spawned host processes when the
// environment-variable channel is impractical.
type ContextStore interface {
	// Save persists the context under key.
	Save(ctx context.Context, key string, pipelineCtx *domain.Context) error

	// Load retrieves the context for key.
	// Returns domain.ErrContextNotFound if it does not exist.
	Load(ctx context.Context, key string) (*domain.Context, error)

	// Delete removes the context for key.
	Delete(ctx context.Context, key string) error

	// List returns all known keys.
	List(ctx context.Context) ([]string, error)
}
