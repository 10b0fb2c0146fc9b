package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/promoloop/promoloop/internal/survey"
	"github.com/promoloop/promoloop/pkg/logging"
)

// BriefNotifier emails a summary of each completed marketing brief to the
// operator. Delivery is best-effort; a failed email never affects the
// conversation flow.
type BriefNotifier struct {
	sender    EmailSender
	questions survey.Questions
	to        string
	logger    *logging.Logger
}

// NewBriefNotifier creates a notifier, or nil when there is no sender or no
// recipient configured.
func NewBriefNotifier(sender EmailSender, questions survey.Questions, to string, logger *logging.Logger) *BriefNotifier {
	if sender == nil || strings.TrimSpace(to) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &BriefNotifier{
		sender:    sender,
		questions: questions,
		to:        to,
		logger:    logger,
	}
}

var _ survey.CompletionNotifier = (*BriefNotifier)(nil)

// NotifyCompleted formats the brief as question/answer pairs and emails it.
func (n *BriefNotifier) NotifyCompleted(ctx context.Context, resp *survey.CompletedResponse) {
	if resp == nil {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New marketing brief from %s\n\n", resp.SenderID)
	for i, q := range n.questions {
		answer := resp.Answers[i]
		if answer == "" {
			answer = "(no answer)"
		}
		fmt.Fprintf(&b, "%d. %s\n   %s\n\n", i+1, q, answer)
	}
	fmt.Fprintf(&b, "Completed at %s\n", resp.CompletedAt.UTC().Format("2006-01-02 15:04:05 MST"))

	msg := EmailMessage{
		To:      n.to,
		Subject: fmt.Sprintf("New marketing brief from %s", resp.SenderID),
		Body:    b.String(),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		n.logger.Error("failed to email completed brief", "sender", resp.SenderID, "error", err)
	}
}
