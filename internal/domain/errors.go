package domain

import "errors"

var (
	// ErrAcquisition marks a RecordSource failure; it aborts the whole run.
	ErrAcquisition = errors.New("acquisition failed")

	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	ErrJournalDisabled = errors.New("run journal disabled")
)
