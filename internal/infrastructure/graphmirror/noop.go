package graphmirror

import (
	"context"

	"github.com/unirecords/archive-console/internal/core/domain"
)

// Noop satisfies the graph mirror port when no graph database is configured.
type Noop struct{}

func (Noop) MirrorApproved(context.Context, *domain.Document) error { return nil }

func (Noop) Close(context.Context) error { return nil }
