package survey

import "errors"

var (
	// ErrNotFound indicates no active conversation state for the sender.
	ErrNotFound = errors.New("survey: state not found")

	// ErrAlreadyExists indicates a conversation state already exists for the sender.
	ErrAlreadyExists = errors.New("survey: state already exists")

	// ErrConcurrentUpdate indicates the expected step no longer matched at
	// update time; another transition for the same sender won the race.
	ErrConcurrentUpdate = errors.New("survey: concurrent update")
)
