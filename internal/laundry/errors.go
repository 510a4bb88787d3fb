package laundry

import (
	"errors"
	"net/http"
)

// Kind classifies a rejected operation.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidTransition
	KindResourceBusy
	KindInvalidInput
	KindConflict
)

// Error is a rejection with a message that can be shown to staff as is.
// A rejected operation never changes the load.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrLoadNotFound      = &Error{Kind: KindNotFound, Message: "load not found"}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition, Message: "action not allowed for the current status"}
	ErrCycleRunning      = &Error{Kind: KindInvalidTransition, Message: "cycle still running"}
	ErrWasherOccupied    = &Error{Kind: KindResourceBusy, Message: "washer occupied"}
	ErrDryersOccupied    = &Error{Kind: KindResourceBusy, Message: "both dryers occupied"}
	ErrInvalidLoadType   = &Error{Kind: KindInvalidInput, Message: "invalid load type"}
	ErrInvalidAction     = &Error{Kind: KindInvalidInput, Message: "unknown action"}
	ErrInvalidDryer      = &Error{Kind: KindInvalidInput, Message: "dryer number must be 1 or 2"}
	ErrInvalidDuration   = &Error{Kind: KindInvalidInput, Message: "duration is not one of the dryer presets"}
	ErrConcurrentUpdate  = &Error{Kind: KindConflict, Message: "load was changed by someone else, refresh and retry"}
)

// KindOf returns the kind of err, or KindInternal for errors that did not come from this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StatusCode maps an error to the HTTP status used by the API.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidTransition, KindInvalidInput:
		return http.StatusBadRequest
	case KindResourceBusy, KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
