package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ujupatipanno/trash-note/internal/collector"
	"github.com/ujupatipanno/trash-note/internal/ledger"
	"github.com/ujupatipanno/trash-note/internal/settings"
	"github.com/ujupatipanno/trash-note/internal/sse"
	"github.com/ujupatipanno/trash-note/internal/vault"
)

// Handler holds API route handlers.
type Handler struct {
	svc      *collector.Service
	store    vault.Provider
	settings *settings.Store
	history  *ledger.DB
	broker   *sse.Broker
}

// NewHandler creates a new Handler. broker may be nil; history must not be,
// the /history endpoint reads it unguarded.
func NewHandler(svc *collector.Service, store vault.Provider, st *settings.Store, history *ledger.DB, broker *sse.Broker) *Handler {
	return &Handler{svc: svc, store: store, settings: st, history: history, broker: broker}
}

// GetCollector handles GET /api/collector.
//
//	@Summary		Read the collector note, creating it when missing
//	@Tags			collector
//	@Produce		json
//	@Success		200	{object}	CollectorResponse
//	@Failure		503	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/collector [get]
func (h *Handler) GetCollector(w http.ResponseWriter, r *http.Request) {
	path, content, err := h.svc.Content()
	if err != nil {
		status, msg := errStatus(err)
		slog.Error("get collector failed", slog.String("error", err.Error()))
		writeJSON(w, status, errorBody(msg))
		return
	}
	writeJSON(w, http.StatusOK, CollectorResponse{Path: path, Content: content})
}

// Append handles POST /api/collector/append. It waits for the queued task so
// the response carries the task's real outcome.
//
//	@Summary		Append a capture to the collector note
//	@Tags			collector
//	@Accept			json
//	@Produce		json
//	@Param			body	body		AppendRequest	true	"Text to append"
//	@Success		200		{object}	AppendResponse
//	@Failure		400		{object}	errResponse
//	@Failure		503		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/collector/append [post]
func (h *Handler) Append(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req AppendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("content is required"))
		return
	}

	if err := h.svc.Append(r.Context(), req.Content, ""); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// The client is gone. The task still runs; there is nobody to
			// answer.
			return
		}
		status, msg := errStatus(err)
		slog.Error("append failed", slog.String("error", err.Error()))
		writeJSON(w, status, errorBody(msg))
		return
	}
	writeJSON(w, http.StatusOK, AppendResponse{Path: h.svc.Path()})
}

// Relocate handles POST /api/collector/relocate.
//
//	@Summary		Cut a span out of a note and append it to the collector
//	@Tags			collector
//	@Accept			json
//	@Produce		json
//	@Param			body	body		RelocateRequest	true	"Source note and span"
//	@Success		200		{object}	RelocateResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/collector/relocate [post]
func (h *Handler) Relocate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req RelocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}

	res, err := h.svc.Relocate(collector.RelocateRequest{
		Path: req.Path,
		From: req.From,
		To:   req.To,
		Line: req.Line,
	})
	if err != nil {
		status, msg := errStatus(err)
		if status == http.StatusInternalServerError {
			slog.Error("relocate failed", slog.String("path", req.Path), slog.String("error", err.Error()))
		}
		writeJSON(w, status, errorBody(msg))
		return
	}

	// The cut already happened; wait for the queued append so the caller
	// learns whether the text actually landed.
	select {
	case appendErr := <-res.Done:
		if appendErr != nil {
			status, msg := errStatus(appendErr)
			slog.Error("relocate append failed", slog.String("path", req.Path), slog.String("error", appendErr.Error()))
			writeJSON(w, status, errorBody(msg))
			return
		}
	case <-r.Context().Done():
		return
	}
	writeJSON(w, http.StatusOK, RelocateResponse{Text: res.Text, Collector: res.Collector})
}

// Archive handles POST /api/collector/archive.
//
//	@Summary		Snapshot the collector into a new note and empty it
//	@Tags			collector
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ArchiveRequest	true	"Archive title (may be empty)"
//	@Success		201		{object}	ArchiveResponse
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/collector/archive [post]
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req ArchiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	res, err := h.svc.Archive(req.Title)
	if err != nil {
		if res != nil {
			// The archive note was created; only emptying the collector
			// failed.
			slog.Error("archive partially failed", slog.String("path", res.Path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("archive created but collector not emptied"))
			return
		}
		status, msg := errStatus(err)
		if status == http.StatusInternalServerError {
			slog.Error("archive failed", slog.String("error", err.Error()))
		}
		writeJSON(w, status, errorBody(msg))
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// History handles GET /api/history.
//
//	@Summary		List recorded collector operations
//	@Tags			history
//	@Produce		json
//	@Param			limit	query		int	false	"Max entries"
//	@Success		200		{object}	HistoryResponse
//	@Security		BearerAuth
//	@Router			/history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.history.Recent(limit)
	if err != nil {
		slog.Error("history failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	stats, err := h.history.Stats()
	if err != nil {
		slog.Error("history stats failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if entries == nil {
		entries = []ledger.Entry{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Entries: entries, Stats: stats})
}

// GetSettings handles GET /api/settings.
//
//	@Summary		Read the collector settings
//	@Tags			settings
//	@Produce		json
//	@Success		200	{object}	SettingsResponse
//	@Security		BearerAuth
//	@Router			/settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settings.Get())
}

// UpdateSettings handles PUT /api/settings.
//
//	@Summary		Update collector settings
//	@Tags			settings
//	@Accept			json
//	@Produce		json
//	@Param			body	body		UpdateSettingsRequest	true	"Fields to change"
//	@Success		200		{object}	SettingsResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/settings [put]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	err := h.settings.Update(func(v *settings.Settings) {
		if req.CollectorPath != nil {
			v.CollectorPath = *req.CollectorPath
		}
		if req.AddTimestamp != nil {
			v.AddTimestamp = *req.AddTimestamp
		}
		if req.TimestampFormat != nil {
			v.TimestampFormat = *req.TimestampFormat
		}
		if req.DestinationFolder != nil {
			v.DestinationFolder = *req.DestinationFolder
		}
		if req.PlaceholderFormat != nil {
			v.PlaceholderFormat = *req.PlaceholderFormat
		}
	})
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			writeJSON(w, http.StatusBadRequest, errorBody(verrs.Error()))
			return
		}
		slog.Error("update settings failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	cur := h.settings.Get()
	if h.broker != nil {
		h.broker.Publish(sse.Event{Type: "settings.updated", Data: cur})
	}
	writeJSON(w, http.StatusOK, cur)
}
