// Package notifier carries best-effort fan-out of platform events to the
// membership. The production platform forwards these to mail and Telegram;
// this adapter records them to the log, which is also what integration
// environments want.
package notifier

import (
	"context"
	"log/slog"

	"github.com/sepeiunido/plataforma/internal/core/domain"
	"github.com/sepeiunido/plataforma/internal/core/ports"
)

type logNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) ports.Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &logNotifier{log: log}
}

func (n *logNotifier) PollPublished(ctx context.Context, poll *domain.Poll) {
	n.log.InfoContext(ctx, "poll published",
		"poll_id", poll.ID,
		"title", poll.Title,
		"kind", poll.Kind,
		"opens_at", poll.OpensAt,
		"closes_at", poll.ClosesAt,
	)
}
