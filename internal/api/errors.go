package api

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication reports a login that failed on its final attempt.
	ErrAuthentication = errors.New("user authentication failed")
	// ErrScopeFetch reports that the authorized buoy list could not be read.
	ErrScopeFetch = errors.New("buoy id list request failed")
	// ErrScope reports a buoy id outside the authorized set. It is raised
	// locally, before any network call.
	ErrScope = errors.New("buoy not in authorized set")
	// ErrStatusFetch reports a failed current-status request.
	ErrStatusFetch = errors.New("current status request failed")
	// ErrHistoricalFetch reports a failed historical-data request.
	ErrHistoricalFetch = errors.New("historical data request failed")
	// ErrInvalidVariable reports a requested variable the buoy does not offer.
	ErrInvalidVariable = errors.New("requested variable not available")
	// ErrEmptyRequest reports a fleet operation invoked with no buoy ids.
	ErrEmptyRequest = errors.New("no buoy ids supplied")
	// ErrLogout reports a failed logout. Local session state is invalidated
	// regardless, so it is non-fatal to results already produced.
	ErrLogout = errors.New("logout failed")
)

// RequestError carries the transport outcome of a failed API call: the HTTP
// status code, its reason phrase, and the response body. Kind is one of the
// sentinel errors above, exposed through Unwrap so errors.Is matches.
type RequestError struct {
	Kind       error
	StatusCode int
	Reason     string
	Body       string
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%v: HTTP %d - %s, message: %s", e.Kind, e.StatusCode, e.Reason, e.Body)
}

func (e *RequestError) Unwrap() error { return e.Kind }
