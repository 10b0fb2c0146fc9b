package survey

import (
	"context"

	"github.com/promoloop/promoloop/internal/observability/metrics"
	"github.com/promoloop/promoloop/pkg/logging"
)

// ReplySender delivers a reply best-effort; it never fails the caller.
type ReplySender interface {
	SendReply(ctx context.Context, to, inboundText, replyText string)
}

// CompletionNotifier is told about each completed brief.
type CompletionNotifier interface {
	NotifyCompleted(ctx context.Context, resp *CompletedResponse)
}

// Responder glues the engine to outbound dispatch: it advances the
// conversation for an inbound message and sends whatever reply the engine
// produced. Engine failures are logged and swallowed here so the webhook can
// always acknowledge the delivery.
type Responder struct {
	engine   *Engine
	sender   ReplySender
	notifier CompletionNotifier
	logger   *logging.Logger
	metrics  *metrics.WebhookMetrics
}

// NewResponder creates a responder. notifier may be nil.
func NewResponder(engine *Engine, sender ReplySender, notifier CompletionNotifier, logger *logging.Logger, m *metrics.WebhookMetrics) *Responder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Responder{
		engine:   engine,
		sender:   sender,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
	}
}

// Handle processes one inbound message end to end.
func (r *Responder) Handle(ctx context.Context, from, body string) {
	result, err := r.engine.Advance(ctx, from, body)
	if err != nil {
		r.logger.Error("failed to advance conversation", "sender", from, "error", err)
		r.metrics.ObserveInbound("error")
		return
	}
	r.metrics.ObserveInbound("ok")

	if result.Reply == "" {
		return
	}
	r.sender.SendReply(ctx, from, body, result.Reply)

	if result.Completed && r.notifier != nil {
		r.notifier.NotifyCompleted(ctx, result.Response)
	}
}
