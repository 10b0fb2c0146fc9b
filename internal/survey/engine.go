package survey

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/promoloop/promoloop/pkg/logging"
)

// Result is the outcome of advancing a conversation by one inbound message.
// An empty Reply means nothing should be sent.
type Result struct {
	Reply     string
	Completed bool
	Response  *CompletedResponse
}

// Engine advances one sender's conversation by exactly one step per inbound
// message. The question sequence is injected and immutable; nothing in the
// engine inspects answer content.
type Engine struct {
	store      Store
	questions  Questions
	completion string
	locks      keyedMutex
	logger     *logging.Logger
}

// NewEngine creates an engine over the given store and question sequence.
func NewEngine(store Store, questions Questions, logger *logging.Logger) (*Engine, error) {
	if store == nil {
		return nil, errors.New("survey: store is required")
	}
	if len(questions) == 0 {
		return nil, errors.New("survey: at least one question is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		store:      store,
		questions:  questions,
		completion: DefaultCompletionMessage,
		logger:     logger,
	}, nil
}

// WithCompletionMessage overrides the message sent when a brief completes.
func (e *Engine) WithCompletionMessage(msg string) *Engine {
	if strings.TrimSpace(msg) != "" {
		e.completion = msg
	}
	return e
}

// Advance processes one inbound message for senderID.
//
// Blank bodies are ignored entirely: no state change, no reply. The first
// message from an unseen sender only initializes the conversation; its text
// is not recorded as an answer.
func (e *Engine) Advance(ctx context.Context, senderID, incomingText string) (Result, error) {
	senderID = strings.TrimSpace(senderID)
	if senderID == "" {
		return Result{}, errors.New("survey: sender id is required")
	}
	if strings.TrimSpace(incomingText) == "" {
		return Result{}, nil
	}

	// Serialize transitions per sender within this process. The store's
	// step-conditioned updates cover races across processes.
	unlock := e.locks.lock(senderID)
	defer unlock()

	st, err := e.store.GetState(ctx, senderID)
	switch {
	case errors.Is(err, ErrNotFound):
		if _, cerr := e.store.CreateState(ctx, senderID); cerr == nil {
			return Result{Reply: e.questions[0]}, nil
		} else if !errors.Is(cerr, ErrAlreadyExists) {
			return Result{}, fmt.Errorf("survey: create state: %w", cerr)
		}
		// Another writer created the state first; reload and fall through.
		st, err = e.store.GetState(ctx, senderID)
		if err != nil {
			return Result{}, fmt.Errorf("survey: reload state: %w", err)
		}
	case err != nil:
		return Result{}, fmt.Errorf("survey: load state: %w", err)
	}

	step := st.CurrentStep
	if step+1 >= len(e.questions) {
		resp, err := e.store.ArchiveState(ctx, senderID, step, incomingText)
		if err != nil {
			return Result{}, fmt.Errorf("survey: archive state: %w", err)
		}
		e.logger.Info("brief completed", "sender", senderID, "answers", len(resp.Answers))
		return Result{Reply: e.completion, Completed: true, Response: resp}, nil
	}

	if _, err := e.store.AdvanceState(ctx, senderID, step, incomingText); err != nil {
		return Result{}, fmt.Errorf("survey: advance state: %w", err)
	}
	return Result{Reply: e.questions[step+1]}, nil
}

// keyedMutex serializes work per string key. Mutexes are retained for the
// process lifetime; cardinality is bounded by distinct senders seen.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
