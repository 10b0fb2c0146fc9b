package campaign

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// ErrNotFound means no campaign exists with the requested id.
var ErrNotFound = errors.New("campaign: not found")

// ErrNotConfigured means no model credentials were provided at startup.
var ErrNotConfigured = errors.New("campaign: text generator not configured")

// ErrRateLimited marks a generation attempt rejected by the model's quota.
// Real API calls surface this as a googleapi 429; fakes can return the
// sentinel directly.
var ErrRateLimited = errors.New("campaign: rate limited")

func isRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests
}

// ParseError means the model output could not be read as a plan. Raw keeps
// the offending text for debugging.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("campaign: parse model output: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
