package notify

import (
	"context"

	"github.com/rs/zerolog"

	"campfind/internal/adapters/observability"
	"campfind/internal/domain"
)

// LogSink writes notifications to a zerolog logger.
type LogSink struct{ l zerolog.Logger }

func NewLogSink(l zerolog.Logger) *LogSink { return &LogSink{l: l} }

func (s *LogSink) Notify(ctx context.Context, n domain.Notification) {
	ev := s.l.Info()
	if n.Severity == domain.SeverityDestructive {
		ev = s.l.Warn()
	}
	ev.Str("title", n.Title).
		Str("description", n.Description).
		Str("severity", string(n.Severity)).
		Str("identity", n.IdentityID).
		Msg("notification")
	observability.ObserveNotification("log", string(n.Severity), nil)
}

// Fanout delivers to every sink in order.
type Fanout []domain.Notifier

func (f Fanout) Notify(ctx context.Context, n domain.Notification) {
	for _, s := range f {
		s.Notify(ctx, n)
	}
}
