package session

import (
	"errors"

	"github.com/jackzampolin/docview/internal/providers"
	"github.com/jackzampolin/docview/internal/upload"
)

var (
	// ErrNotFound is returned for an unknown document id.
	ErrNotFound = errors.New("document not found")
	// ErrBusy is returned while the same action is already in flight.
	ErrBusy = errors.New("action already in progress")
	// ErrNoDocument is returned when an action needs extracted content
	// the session does not have yet.
	ErrNoDocument = errors.New("document has no extracted content")
	// ErrPageOutOfRange is returned for a page outside the document.
	ErrPageOutOfRange = errors.New("page out of range")
)

// ErrorKind classifies a failed extraction.
type ErrorKind string

const (
	KindTransport  ErrorKind = "transport"
	KindAPI        ErrorKind = "api"
	KindValidation ErrorKind = "validation"
	KindInternal   ErrorKind = "internal"
)

// ErrorState is the page-level error shown in place of the content view.
type ErrorState struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	// Status is the upstream HTTP status for api errors.
	Status int `json:"status,omitempty"`
}

// Classify maps an error to the kind shown to the user.
func Classify(err error) ErrorState {
	var apiErr *providers.APIError
	var te *providers.TransportError
	switch {
	case errors.As(err, &apiErr):
		return ErrorState{Kind: KindAPI, Message: apiErr.Detail, Status: apiErr.Status}
	case errors.As(err, &te):
		return ErrorState{Kind: KindTransport, Message: te.Error()}
	case errors.Is(err, upload.ErrUnsupportedType),
		errors.Is(err, upload.ErrTooLarge),
		errors.Is(err, upload.ErrTooManyPages),
		errors.Is(err, upload.ErrEmpty):
		return ErrorState{Kind: KindValidation, Message: err.Error()}
	default:
		return ErrorState{Kind: KindInternal, Message: err.Error()}
	}
}
