package api

import (
	"github.com/ujupatipanno/trash-note/internal/collector"
	"github.com/ujupatipanno/trash-note/internal/ledger"
	"github.com/ujupatipanno/trash-note/internal/settings"
	"github.com/ujupatipanno/trash-note/internal/vault"
)

// Position is a line/rune coordinate in a note (aliased from the domain layer).
type Position = collector.Position

// AppendRequest is the request body for a direct capture.
type AppendRequest struct {
	Content string `json:"content" example:"buy milk" validate:"required"`
}

// AppendResponse reports where the capture landed.
type AppendResponse struct {
	Path string `json:"path" example:"trash.md" validate:"required"`
}

// CollectorResponse is the collector note with its resolved path.
type CollectorResponse struct {
	Path    string `json:"path" example:"trash.md" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// RelocateRequest cuts a selection or a whole line out of a source note.
// Either from and to, or line, must be set.
type RelocateRequest struct {
	Path string    `json:"path" example:"daily.md" validate:"required"`
	From *Position `json:"from,omitempty"`
	To   *Position `json:"to,omitempty"`
	Line *int      `json:"line,omitempty" example:"3"`
}

// RelocateResponse reports what was cut and where it is headed.
type RelocateResponse struct {
	Text      string `json:"text" validate:"required"`
	Collector string `json:"collector" example:"trash.md" validate:"required"`
}

// ArchiveRequest names the archive note. An empty title falls back to the
// placeholder format from the settings.
type ArchiveRequest struct {
	Title string `json:"title" example:"Weekly review"`
}

// ArchiveResponse is the created archive note (aliased from the domain layer).
type ArchiveResponse = collector.ArchiveResult

// HistoryResponse wraps the recorded operations.
type HistoryResponse struct {
	Entries []ledger.Entry `json:"entries" validate:"required"`
	Stats   ledger.Stats   `json:"stats" validate:"required"`
}

// SettingsResponse is the persisted collector settings (aliased from the domain layer).
type SettingsResponse = settings.Settings

// UpdateSettingsRequest carries a partial settings update; absent fields keep
// their current values.
type UpdateSettingsRequest struct {
	CollectorPath     *string `json:"collector_path,omitempty" example:"trash.md"`
	AddTimestamp      *bool   `json:"add_timestamp,omitempty" example:"true"`
	TimestampFormat   *string `json:"timestamp_format,omitempty" example:"YYYY-MM-DD HH:mm"`
	DestinationFolder *string `json:"destination_folder,omitempty" example:"archive"`
	PlaceholderFormat *string `json:"placeholder_format,omitempty" example:"YYYY-MM-DD HH-mm"`
}

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Path    string `json:"path" example:"notes/hello.md" validate:"required"`
	Content string `json:"content" example:"# Hello\nWorld" validate:"required"`
}

// UpdateNoteRequest is the request body for replacing a note's content.
type UpdateNoteRequest struct {
	Content string `json:"content" validate:"required"`
}

// MoveNoteRequest renames a note. Moving the collector note this way keeps
// the configured path in sync through the rename observers.
type MoveNoteRequest struct {
	From string `json:"from" example:"trash.md" validate:"required"`
	To   string `json:"to" example:"notes/trash.md" validate:"required"`
}

// NoteResponse is a full note.
type NoteResponse struct {
	Path    string `json:"path" example:"notes/hello.md" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []vault.NoteMeta `json:"notes" validate:"required"`
	Total int              `json:"total" example:"42" validate:"required"`
}
