// Package apperr holds the sentinel errors shared across layers. Callers wrap
// them with fmt.Errorf("...: %w") and handlers match with errors.Is.
package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrUploadMissing means the form carried no file, or an empty one.
	ErrUploadMissing = errors.New("no audio file submitted")

	// ErrTooLarge means the request body exceeded the upload limit.
	ErrTooLarge = errors.New("upload too large")

	// ErrDecode means the uploaded content could not be read as audio.
	ErrDecode = errors.New("could not decode audio")

	// ErrLoad means a startup artifact (model, encoder, knowledge sheet) is
	// missing or corrupt.
	ErrLoad = errors.New("could not load artifact")
)
