package mail

import (
	"context"
	"log/slog"

	"github.com/avalonfair/gatehouse/pkg/slogx"
)

// noopMailer logs instead of sending. Default for local development so the
// flow can be exercised with the code visible in the logs.
type noopMailer struct{}

func (n *noopMailer) Send(ctx context.Context, to, subject, html, text string) error {
	slogx.FromContext(ctx).Info("email would be sent (noop)",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("text", text),
	)
	return nil
}
