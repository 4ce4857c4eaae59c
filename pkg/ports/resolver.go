package ports

import (
	"context"

	"github.com/ardenfx/stagehand/pkg/domain"
)

// ContextResolver derives a pipeline context from a scene file path.
// The file may belong to a different project than the one currently
// running; resolvers must not assume otherwise.
type ContextResolver interface {
	// FromPath resolves the context for path. current, when non-nil, is
	// the active context whose values may be inherited. A failure to
	// recognize the path is an error; the caller treats it as the
	// recoverable "toolkit disabled" state.
	FromPath(ctx context.Context, path string, current *domain.Context) (*domain.Context, error)
}

// ResolverFunc adapts a plain function to the ContextResolver interface.
type ResolverFunc func(ctx context.Context, path string, current *domain.Context) (*domain.Context, error)

func (f ResolverFunc) FromPath(ctx context.Context, path string, current *domain.Context) (*domain.Context, error) {
	return f(ctx, path, current)
}
