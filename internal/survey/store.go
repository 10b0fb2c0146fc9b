package survey

import "context"

// Store persists conversation states and completed responses.
//
// AdvanceState and ArchiveState are conditional on fromStep matching the
// stored current step; implementations return ErrConcurrentUpdate when the
// condition fails so two racing transitions can never both succeed.
type Store interface {
	// GetState returns the active state for a sender, or ErrNotFound.
	GetState(ctx context.Context, senderID string) (*State, error)

	// CreateState creates a state at step 0 with no answers, or
	// ErrAlreadyExists if the sender already has one.
	CreateState(ctx context.Context, senderID string) (*State, error)

	// AdvanceState records the answer for fromStep and moves the state to
	// fromStep+1.
	AdvanceState(ctx context.Context, senderID string, fromStep int, answer string) (*State, error)

	// ArchiveState records the final answer, copies the state into a
	// CompletedResponse, and deletes the state in one atomic step.
	ArchiveState(ctx context.Context, senderID string, fromStep int, finalAnswer string) (*CompletedResponse, error)

	// ListCompleted returns the most recent completed responses.
	ListCompleted(ctx context.Context, limit int) ([]CompletedResponse, error)
}
