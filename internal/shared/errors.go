package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Remote API errors
	ErrAPIRequest     = fmt.Errorf("API request failed")
	ErrRateLimited    = fmt.Errorf("rate limited by Spotify")
	ErrNoActiveDevice = fmt.Errorf("no active playback device")

	// Input errors
	ErrInvalidChoice = fmt.Errorf("invalid choice")
)
