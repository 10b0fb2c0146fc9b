package survey

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu        sync.Mutex
	states    map[string]*State
	completed []CompletedResponse
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]*State)}
}

func (s *MemoryStore) GetState(_ context.Context, senderID string) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[senderID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneState(st), nil
}

func (s *MemoryStore) CreateState(_ context.Context, senderID string) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.states[senderID]; ok {
		return nil, ErrAlreadyExists
	}
	now := time.Now().UTC()
	st := &State{
		SenderID:    senderID,
		CurrentStep: 0,
		Answers:     make(map[int]string),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.states[senderID] = st
	return cloneState(st), nil
}

func (s *MemoryStore) AdvanceState(_ context.Context, senderID string, fromStep int, answer string) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[senderID]
	if !ok {
		return nil, ErrNotFound
	}
	if st.CurrentStep != fromStep {
		return nil, ErrConcurrentUpdate
	}
	st.Answers[fromStep] = answer
	st.CurrentStep = fromStep + 1
	st.UpdatedAt = time.Now().UTC()
	return cloneState(st), nil
}

func (s *MemoryStore) ArchiveState(_ context.Context, senderID string, fromStep int, finalAnswer string) (*CompletedResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[senderID]
	if !ok {
		return nil, ErrNotFound
	}
	if st.CurrentStep != fromStep {
		return nil, ErrConcurrentUpdate
	}
	answers := make(map[int]string, len(st.Answers)+1)
	for k, v := range st.Answers {
		answers[k] = v
	}
	answers[fromStep] = finalAnswer

	resp := CompletedResponse{
		ID:          uuid.New(),
		SenderID:    senderID,
		Answers:     answers,
		CompletedAt: time.Now().UTC(),
	}
	delete(s.states, senderID)
	s.completed = append(s.completed, resp)
	return &resp, nil
}

func (s *MemoryStore) ListCompleted(_ context.Context, limit int) ([]CompletedResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.completed) {
		limit = len(s.completed)
	}
	out := make([]CompletedResponse, 0, limit)
	// newest first
	for i := len(s.completed) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.completed[i])
	}
	return out, nil
}

func cloneState(st *State) *State {
	answers := make(map[int]string, len(st.Answers))
	for k, v := range st.Answers {
		answers[k] = v
	}
	clone := *st
	clone.Answers = answers
	return &clone
}
