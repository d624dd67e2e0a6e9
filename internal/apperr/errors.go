// Package apperr defines the sentinel errors recognised at operation boundaries.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrCollectorUnavailable means the collector note could not be
	// resolved, created, or read; the triggering operation is aborted with
	// no state change.
	ErrCollectorUnavailable = errors.New("collector unavailable")

	// ErrSourceIsCollector rejects relocating text out of the collector
	// note into itself.
	ErrSourceIsCollector = errors.New("source is the collector note")

	// ErrInvalidTitle means an archive title was empty after sanitizing.
	ErrInvalidTitle = errors.New("invalid archive title")

	// ErrInvalidSpan means a relocation request addressed a position that
	// does not exist in the source document, or an empty selection.
	ErrInvalidSpan = errors.New("invalid span")

	// ErrDuplicateArchive means a note already exists at the computed
	// archive path; the collector is left untouched.
	ErrDuplicateArchive = errors.New("archive target already exists")

	// ErrAppendFailed wraps a write failure inside a queued append task.
	// The queue keeps running; the failure is surfaced once.
	ErrAppendFailed = errors.New("append failed")
)
