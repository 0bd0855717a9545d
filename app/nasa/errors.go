package nasa

import "fmt"

const (
	authErrorMessage      = "API key is invalid or rate limit exceeded. Please check your NASA API key."
	rateLimitErrorMessage = "API rate limit exceeded. Please try again later."
	fallbackErrorMessage  = "Failed to fetch data from NASA API"
)

// AuthError is returned when upstream rejects the API key (HTTP 403).
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// RateLimitError is returned on HTTP 429.
type RateLimitError struct {
	Message string
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// FetchError covers every other failure: transport errors, non-2xx statuses
// and undecodable bodies. StatusCode is 0 when no response was received.
type FetchError struct {
	StatusCode int
	Message    string
	Timeout    bool
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
