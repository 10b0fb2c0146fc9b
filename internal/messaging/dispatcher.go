package messaging

import (
	"context"

	"github.com/promoloop/promoloop/internal/observability/metrics"
	"github.com/promoloop/promoloop/pkg/logging"
)

// Sender delivers a single text message over a channel such as WhatsApp.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
}

// Dispatcher sends replies best-effort and records every exchange in the
// message log. A delivery failure never propagates to the caller; the
// conversation state has already moved and the webhook must still be
// acknowledged.
type Dispatcher struct {
	sender  Sender
	store   Store
	logger  *logging.Logger
	metrics *metrics.WebhookMetrics
}

// NewDispatcher creates a dispatcher. store may be nil to disable logging
// exchanges.
func NewDispatcher(sender Sender, store Store, logger *logging.Logger, m *metrics.WebhookMetrics) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		sender:  sender,
		store:   store,
		logger:  logger,
		metrics: m,
	}
}

// SendReply delivers replyText to the sender of inboundText. Failures are
// logged and reflected in the exchange record, not returned.
func (d *Dispatcher) SendReply(ctx context.Context, to, inboundText, replyText string) {
	err := d.sender.SendText(ctx, to, replyText)
	if err != nil {
		d.logger.Error("failed to send reply", "to", to, "error", err)
		d.metrics.ObserveReply("error")
	} else {
		d.metrics.ObserveReply("ok")
	}

	if d.store == nil {
		return
	}
	rec := &ExchangeRecord{
		SenderID:  to,
		Inbound:   inboundText,
		Reply:     replyText,
		Delivered: err == nil,
	}
	if err := d.store.InsertExchange(ctx, rec); err != nil {
		d.logger.Error("failed to record exchange", "to", to, "error", err)
	}
}
