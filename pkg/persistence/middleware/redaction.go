package middleware

import (
	"context"

	"github.com/ardenfx/stagehand/pkg/domain"
	"github.com/ardenfx/stagehand/pkg/ports"
)

type redactionMiddleware struct {
	next ports.ContextStore
}

// NewRedactionMiddleware creates a middleware that strips derived data
// (filesystem locations, web URLs) before persisting. Shared stores may
// be readable by other projects; identity fields are enough to rebuild
// the rest on load.
func NewRedactionMiddleware() Middleware {
	return func(next ports.ContextStore) ports.ContextStore {
		return &redactionMiddleware{next: next}
	}
}

func (m *redactionMiddleware) Save(ctx context.Context, key string, pipelineCtx *domain.Context) error {
	// Copy so the caller's in-memory context keeps its locations.
	cloned := *pipelineCtx
	cloned.FilesystemLocations = nil
	cloned.WebURL = ""
	return m.next.Save(ctx, key, &cloned)
}

func (m *redactionMiddleware) Load(ctx context.Context, key string) (*domain.Context, error) {
	return m.next.Load(ctx, key)
}

func (m *redactionMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
