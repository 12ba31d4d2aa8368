package api

import "errors"

var (
	ErrRatingRequired = errors.New("rating must be between 1 and 5")
	ErrEmptyMessage   = errors.New("message is empty")
)

// StatusError carries the backend's failure message alongside its HTTP
// status code.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}
