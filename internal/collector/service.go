// Package collector implements the collector-note workflow: a single
// well-known note that short captures are appended to, plus the operations
// that feed and drain it.
package collector

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/ujupatipanno/trash-note/internal/apperr"
	"github.com/ujupatipanno/trash-note/internal/settings"
	"github.com/ujupatipanno/trash-note/internal/timestamp"
	"github.com/ujupatipanno/trash-note/internal/vault"
)

// Notifier receives user-visible messages and collector change events.
// *sse.Broker satisfies it.
type Notifier interface {
	Notify(message string)
	PublishCollectorEvent(kind, path string)
}

// Recorder persists an operation history entry per successful append and
// archive. *ledger.DB satisfies it.
type Recorder interface {
	RecordAppend(sourcePath string, bytes int) error
	RecordArchive(archivePath, title string, bytes int) error
}

// Service owns the collector note. All content appends go through its queue
// so they never interleave; reads and archive snapshots do not.
type Service struct {
	store    vault.Provider
	settings *settings.Store
	history  Recorder
	notifier Notifier
	queue    *Queue
	logger   *slog.Logger
	now      func() time.Time
}

// New wires a Service and starts its append queue. history and notifier may
// be nil.
func New(store vault.Provider, st *settings.Store, history Recorder, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:    store,
		settings: st,
		history:  history,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
	s.queue = NewQueue(s.performAppend)
	return s
}

// Close drains the append queue. Tasks already accepted still run.
func (s *Service) Close() {
	s.queue.Close()
}

// Path returns the collector path currently in effect: the configured one,
// or the default when none is set. The result is cleaned so alias spellings
// of the same file compare equal.
func (s *Service) Path() string {
	if p := s.settings.Get().CollectorPath; p != "" {
		return path.Clean(p)
	}
	return settings.DefaultCollectorPath
}

// Ensure resolves the collector path and creates the note, empty, when it
// does not exist yet. A freshly resolved default is persisted so every later
// operation and observer agrees on the same path.
func (s *Service) Ensure() (string, error) {
	p := s.Path()
	if !s.store.Exists(p) {
		err := s.store.Create(p, nil)
		switch {
		case err == nil:
			s.logger.Info("collector: created", slog.String("path", p))
			s.notify("Created collector note " + p)
			s.publish("created", p)
		case errors.Is(err, fs.ErrExist):
			// Lost a race with an external creation. The file is there,
			// which is all Ensure promises.
		default:
			s.logger.Warn("collector: create failed", slog.String("path", p), slog.String("error", err.Error()))
			return "", fmt.Errorf("create %s: %w", p, apperr.ErrCollectorUnavailable)
		}
	}
	if s.settings.Get().CollectorPath == "" {
		if err := s.settings.Update(func(v *settings.Settings) { v.CollectorPath = p }); err != nil {
			s.logger.Warn("collector: persist path failed", slog.String("error", err.Error()))
		}
	}
	return p, nil
}

// Content ensures the collector exists and returns its path and text.
func (s *Service) Content() (string, string, error) {
	p, err := s.Ensure()
	if err != nil {
		return "", "", err
	}
	data, err := s.store.Read(p)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", p, apperr.ErrCollectorUnavailable)
	}
	return p, string(data), nil
}

// EnqueueAppend queues content for appending and returns the task's
// completion channel without waiting. The timestamp toggle is captured now
// so a later settings change does not affect tasks already queued. source
// is recorded in the history, "" for direct appends.
func (s *Service) EnqueueAppend(content, source string) <-chan error {
	return s.queue.Enqueue(Task{
		Content: content,
		Stamped: s.settings.Get().AddTimestamp,
		Source:  source,
	})
}

// Append queues content and waits until the task finishes or ctx ends.
// Cancelling ctx abandons the wait only; the task itself still runs.
func (s *Service) Append(ctx context.Context, content, source string) error {
	done := s.EnqueueAppend(content, source)
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// performAppend runs on the queue worker. A failure is surfaced through the
// notifier and the task's completion channel; the queue keeps going either
// way.
func (s *Service) performAppend(t Task) error {
	p, err := s.Ensure()
	if err != nil {
		s.logger.Error("append: collector unavailable", slog.String("error", err.Error()))
		s.notify("Append failed: collector note unavailable")
		return err
	}
	data, err := s.store.Read(p)
	if err != nil {
		s.logger.Error("append: read failed", slog.String("path", p), slog.String("error", err.Error()))
		s.notify("Append failed: could not read " + p)
		return fmt.Errorf("read %s: %w", p, apperr.ErrCollectorUnavailable)
	}

	doc := string(data)
	if doc != "" && !strings.HasSuffix(doc, "\n") {
		doc += "\n"
	}
	var block string
	if t.Stamped {
		stamp := timestamp.Format(s.settings.Get().TimestampFormat, s.now())
		block = "\n" + stamp + "\n" + t.Content + "\n"
	} else {
		block = "\n" + t.Content + "\n"
	}

	if err := s.store.Write(p, []byte(doc+block)); err != nil {
		s.logger.Error("append: write failed", slog.String("path", p), slog.String("error", err.Error()))
		s.notify("Append failed: could not write " + p)
		return fmt.Errorf("write %s: %w", p, apperr.ErrAppendFailed)
	}
	if s.history != nil {
		if recErr := s.history.RecordAppend(t.Source, len(t.Content)); recErr != nil {
			s.logger.Warn("append: record failed", slog.String("error", recErr.Error()))
		}
	}
	s.logger.Debug("append: done", slog.String("path", p), slog.Int("bytes", len(t.Content)))
	s.publish("appended", p)
	return nil
}

// RelocateRequest names a source note and either a selection (From and To
// both set) or a cursor line.
type RelocateRequest struct {
	Path string
	From *Position
	To   *Position
	Line *int
}

// RelocateResult reports what a relocation cut and where it is headed.
type RelocateResult struct {
	// Text is what was cut and queued for appending.
	Text string
	// Collector is the path the text will land in.
	Collector string
	// Done receives the queued append's result exactly once.
	Done <-chan error
}

// Relocate cuts the requested span out of the source note and queues the
// text for appending to the collector. The cut is synchronous, the append is
// not; Done reports how the append went.
func (s *Service) Relocate(req RelocateRequest) (*RelocateResult, error) {
	// The store treats alias spellings such as "./a.md" and "a.md" as the
	// same file, so the guard compares cleaned paths.
	src := path.Clean(req.Path)
	if src == s.Path() {
		return nil, fmt.Errorf("relocate from %s: %w", src, apperr.ErrSourceIsCollector)
	}
	data, err := s.store.Read(src)
	if err != nil {
		return nil, fmt.Errorf("note %s: %w", src, apperr.ErrNotFound)
	}
	doc := string(data)

	var sp span
	switch {
	case req.From != nil && req.To != nil:
		sp, err = resolveSelection(doc, *req.From, *req.To)
	case req.Line != nil:
		sp, err = resolveLine(doc, *req.Line)
	default:
		err = fmt.Errorf("no selection or line given: %w", apperr.ErrInvalidSpan)
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.Write(src, []byte(doc[:sp.start]+doc[sp.end:])); err != nil {
		return nil, fmt.Errorf("write %s: %w", src, err)
	}
	done := s.EnqueueAppend(sp.text, src)
	s.logger.Info("relocate: queued",
		slog.String("from", src),
		slog.Int("bytes", len(sp.text)))
	return &RelocateResult{Text: sp.text, Collector: s.Path(), Done: done}, nil
}

// ArchiveResult describes the note an archive operation created.
type ArchiveResult struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	Bytes int    `json:"bytes"`
}

// Archive snapshots the collector into a brand-new note under the configured
// destination folder and then empties the collector. An empty title falls
// back to a placeholder built from the current time. The snapshot reads the
// collector directly rather than through the queue.
func (s *Service) Archive(title string) (*ArchiveResult, error) {
	p, err := s.Ensure()
	if err != nil {
		return nil, err
	}
	data, err := s.store.Read(p)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, apperr.ErrCollectorUnavailable)
	}

	st := s.settings.Get()
	if strings.TrimSpace(title) == "" {
		title = timestamp.Format(st.PlaceholderFormat, s.now())
	}
	title = SanitizeTitle(title)
	if title == "" {
		return nil, fmt.Errorf("empty title after sanitizing: %w", apperr.ErrInvalidTitle)
	}

	dest := title + ".md"
	if st.DestinationFolder != "" {
		dest = path.Join(st.DestinationFolder, dest)
	}
	if s.store.Exists(dest) {
		return nil, fmt.Errorf("note %s: %w", dest, apperr.ErrDuplicateArchive)
	}
	if err := s.store.Create(dest, data); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("note %s: %w", dest, apperr.ErrDuplicateArchive)
		}
		return nil, fmt.Errorf("create archive %s: %w", dest, err)
	}

	res := &ArchiveResult{Path: dest, Title: title, Bytes: len(data)}
	if err := s.store.Write(p, nil); err != nil {
		// The archive note exists at this point; only the emptying failed.
		s.logger.Error("archive: empty collector failed",
			slog.String("path", p),
			slog.String("error", err.Error()))
		s.notify("Archived to " + dest + " but emptying " + p + " failed")
		return res, fmt.Errorf("empty %s after archiving: %w", p, err)
	}
	if s.history != nil {
		if recErr := s.history.RecordArchive(dest, title, len(data)); recErr != nil {
			s.logger.Warn("archive: record failed", slog.String("error", recErr.Error()))
		}
	}
	s.logger.Info("archive: created", slog.String("path", dest), slog.Int("bytes", len(data)))
	s.publish("archived", dest)
	return res, nil
}

// HandleRename keeps the configured collector path in sync when the note
// moves, whether through the API or externally. Renames of other notes are
// ignored, as is a rename before any collector path was persisted.
func (s *Service) HandleRename(oldPath, newPath string) {
	st := s.settings.Get()
	if st.CollectorPath == "" || path.Clean(st.CollectorPath) != path.Clean(oldPath) {
		return
	}
	newPath = path.Clean(newPath)
	if err := s.settings.Update(func(v *settings.Settings) { v.CollectorPath = newPath }); err != nil {
		s.logger.Error("rename: settings update failed",
			slog.String("from", oldPath),
			slog.String("to", newPath),
			slog.String("error", err.Error()))
		s.notify("Collector moved to " + newPath + " but the setting could not be updated")
		return
	}
	s.logger.Info("rename: collector path updated",
		slog.String("from", oldPath),
		slog.String("to", newPath))
	s.publish("moved", newPath)
}

func (s *Service) notify(message string) {
	if s.notifier != nil {
		s.notifier.Notify(message)
	}
}

func (s *Service) publish(kind, path string) {
	if s.notifier != nil {
		s.notifier.PublishCollectorEvent(kind, path)
	}
}
