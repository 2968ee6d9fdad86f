package ports

import (
	"context"

	"github.com/sepeiunido/plataforma/internal/core/domain"
)

// Notifier fans a poll-published event out to the membership. Calls are
// best-effort: implementations log failures and never block the caller's
// request path.
type Notifier interface {
	PollPublished(ctx context.Context, poll *domain.Poll)
}
