package ports

import (
	"context"

	"github.com/replywatch/replywatch/internal/domain"
)

// FetchResult carries whatever the feed delivered together with a
// completeness flag. Complete is false when pagination stopped early on a
// timeout, transport error, malformed page or the page ceiling, so callers
// can tell "no traffic" from "fetch degraded".
type FetchResult struct {
	Events   []domain.Event
	Complete bool
}

// EventFeed retrieves CRM timeline events of the given types created
// within [from, to] epoch seconds. Implementations never fail the caller:
// transport problems degrade to a partial (possibly empty) result.
type EventFeed interface {
	FetchEvents(ctx context.Context, types []domain.EventType, from, to int64) FetchResult
}
