package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the services; the HTTP layer maps them onto the
// API error surface.
var (
	// ErrInvalidSource means the source tag is not one of the known slots.
	ErrInvalidSource = errors.New("invalid inventory source")

	// ErrInventoryNotFound means the requested slot has no upload yet.
	ErrInventoryNotFound = errors.New("no inventory uploaded for this source")

	// ErrSessionIncomplete means compare or report ran before both slots
	// were populated.
	ErrSessionIncomplete = errors.New("both inventories must be uploaded before comparing")
)

// UploadValidationError rejects an upload before parsing: bad extension,
// oversize, empty file.
type UploadValidationError struct {
	Reason string
}

func (e *UploadValidationError) Error() string {
	return fmt.Sprintf("upload rejected: %s", e.Reason)
}

// IsUploadValidationError reports whether err is an UploadValidationError.
func IsUploadValidationError(err error) bool {
	var ve *UploadValidationError
	return errors.As(err, &ve)
}
