package survey

import (
	"time"

	"github.com/google/uuid"
)

// State tracks one sender's progress through the question sequence.
// Answers are keyed by step index so editing question wording never
// invalidates stored records.
type State struct {
	SenderID    string         `json:"senderId"`
	CurrentStep int            `json:"currentStep"`
	Answers     map[int]string `json:"answers"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// CompletedResponse is the immutable archive of a finished brief.
type CompletedResponse struct {
	ID          uuid.UUID      `json:"id"`
	SenderID    string         `json:"senderId"`
	Answers     map[int]string `json:"answers"`
	CompletedAt time.Time      `json:"completedAt"`
}

// Questions is an immutable ordered sequence of prompts.
type Questions []string

// DefaultQuestions returns the marketing brief intake sequence.
func DefaultQuestions() Questions {
	return Questions{
		"Welcome! Let's put together your marketing brief. What's your business called?",
		"What product or service do you want to promote?",
		"Who is your target audience?",
		"What's your monthly marketing budget?",
		"Which channels do you prefer? (e.g. Instagram, Google Ads, Facebook)",
	}
}

// DefaultCompletionMessage closes a finished conversation.
const DefaultCompletionMessage = "Thanks, that's everything we need! Your marketing brief is complete and our team will follow up with your campaign plan."
