package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ujupatipanno/trash-note/internal/collector"
	"github.com/ujupatipanno/trash-note/internal/ledger"
	"github.com/ujupatipanno/trash-note/internal/testutil"
)

// testEnv sets up a temp vault, settings store, ledger, service, and router.
// authToken="" means auth disabled; non-empty means token mode.
func testEnv(t *testing.T, authToken string) http.Handler {
	t.Helper()
	return testEnvFull(t, authToken != "", authToken, nil)
}

func testEnvFull(t *testing.T, authEnabled bool, token string, sseHandler http.Handler) http.Handler {
	t.Helper()

	_, store := testutil.TestVault(t)
	st := testutil.TestSettings(t)
	led := testutil.TestLedger(t)

	svc := collector.New(store, st, led, nil, nil)
	t.Cleanup(svc.Close)
	store.OnRename(svc.HandleRename)

	h := NewHandler(svc, store, st, led, nil)
	return NewRouter(h, authEnabled, token, sseHandler)
}

func TestGetCollectorCreatesDefault(t *testing.T) {
	router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/collector", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get collector = %d, body = %s", w.Code, w.Body.String())
	}
	var resp CollectorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Path != "trash.md" {
		t.Errorf("path = %q, want trash.md", resp.Path)
	}
	if resp.Content != "" {
		t.Errorf("content = %q, want empty", resp.Content)
	}

	// The resolved path must be persisted.
	req = httptest.NewRequest(http.MethodGet, "/settings", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var s SettingsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &s)
	if s.CollectorPath != "trash.md" {
		t.Errorf("persisted collector_path = %q, want trash.md", s.CollectorPath)
	}
}

func TestAppendEndpoint(t *testing.T) {
	router := testEnv(t, "")

	body, _ := json.Marshal(map[string]string{"content": "buy milk"})
	req := httptest.NewRequest(http.MethodPost, "/collector/append", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("append = %d, body = %s", w.Code, w.Body.String())
	}
	var resp AppendResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Path != "trash.md" {
		t.Errorf("path = %q, want trash.md", resp.Path)
	}

	req = httptest.NewRequest(http.MethodGet, "/collector", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var coll CollectorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &coll)
	if coll.Content != "\nbuy milk\n" {
		t.Errorf("collector content = %q, want %q", coll.Content, "\nbuy milk\n")
	}
}

func TestAppendValidation(t *testing.T) {
	router := testEnv(t, "")

	// Empty content.
	body, _ := json.Marshal(map[string]string{"content": ""})
	req := httptest.NewRequest(http.MethodPost, "/collector/append", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty content = %d, want 400", w.Code)
	}

	// Broken JSON.
	req = httptest.NewRequest(http.MethodPost, "/collector/append", strings.NewReader("{nope"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("broken JSON = %d, want 400", w.Code)
	}
}

func TestRelocateLineEndpoint(t *testing.T) {
	router := testEnv(t, "")

	body, _ := json.Marshal(map[string]string{"path": "daily.md", "content": "keep\ncut me\nrest\n"})
	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create note = %d", w.Code)
	}

	body, _ = json.Marshal(map[string]any{"path": "daily.md", "line": 1})
	req = httptest.NewRequest(http.MethodPost, "/collector/relocate", bytes.NewReader(body))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("relocate = %d, body = %s", w.Code, w.Body.String())
	}
	var resp RelocateResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Text != "cut me" || resp.Collector != "trash.md" {
		t.Errorf("resp = %+v, want text %q into trash.md", resp, "cut me")
	}

	// Source lost the line, collector gained it.
	req = httptest.NewRequest(http.MethodGet, "/notes/daily.md", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var note NoteResponse
	_ = json.Unmarshal(w.Body.Bytes(), &note)
	if note.Content != "keep\nrest\n" {
		t.Errorf("source = %q, want %q", note.Content, "keep\nrest\n")
	}

	req = httptest.NewRequest(http.MethodGet, "/collector", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var coll CollectorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &coll)
	if coll.Content != "\ncut me\n" {
		t.Errorf("collector = %q, want %q", coll.Content, "\ncut me\n")
	}
}

func TestRelocateSelectionEndpoint(t *testing.T) {
	router := testEnv(t, "")

	body, _ := json.Marshal(map[string]string{"path": "s.md", "content": "alpha beta gamma\n"})
	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	body, _ = json.Marshal(map[string]any{
		"path": "s.md",
		"from": map[string]int{"line": 0, "ch": 6},
		"to":   map[string]int{"line": 0, "ch": 10},
	})
	req = httptest.NewRequest(http.MethodPost, "/collector/relocate", bytes.NewReader(body))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("relocate = %d, body = %s", w.Code, w.Body.String())
	}
	var resp RelocateResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Text != "beta" {
		t.Errorf("text = %q, want beta", resp.Text)
	}
}

func TestRelocateErrors(t *testing.T) {
	router := testEnv(t, "")

	// Ensure the collector exists and is configured.
	req := httptest.NewRequest(http.MethodGet, "/collector", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	body, _ := json.Marshal(map[string]string{"path": "real.md", "content": "text\n"})
	req = httptest.NewRequest(http.MethodPost, "/notes", bytes.NewReader(body))
	router.ServeHTTP(httptest.NewRecorder(), req)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"from the collector itself", map[string]any{"path": "trash.md", "line": 0}, http.StatusBadRequest},
		{"from the collector by alias", map[string]any{"path": "./trash.md", "line": 0}, http.StatusBadRequest},
		{"missing note", map[string]any{"path": "ghost.md", "line": 0}, http.StatusNotFound},
		{"no span", map[string]any{"path": "real.md"}, http.StatusBadRequest},
		{"missing path", map[string]any{"line": 1}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/collector/relocate", bytes.NewReader(body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestRelocateLineOutOfRange(t *testing.T) {
	router := testEnv(t, "")

	body, _ := json.Marshal(map[string]string{"path": "short.md", "content": "only\n"})
	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewReader(body))
	router.ServeHTTP(httptest.NewRecorder(), req)

	body, _ = json.Marshal(map[string]any{"path": "short.md", "line": 99})
	req = httptest.NewRequest(http.MethodPost, "/collector/relocate", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("line out of range = %d, want 400", w.Code)
	}
}

func TestArchiveEndpoint(t *testing.T) {
	router := testEnv(t, "")

	body, _ := json.Marshal(map[string]string{"content": "collected"})
	req := httptest.NewRequest(http.MethodPost, "/collector/append", bytes.NewReader(body))
	router.ServeHTTP(httptest.NewRecorder(), req)

	body, _ = json.Marshal(map[string]string{"title": "Weekly"})
	req = httptest.NewRequest(http.MethodPost, "/collector/archive", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("archive = %d, body = %s", w.Code, w.Body.String())
	}
	var resp ArchiveResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Path != "Weekly.md" || resp.Title != "Weekly" {
		t.Errorf("resp = %+v, want Weekly.md", resp)
	}

	// The archive note holds the snapshot, the collector is empty.
	req = httptest.NewRequest(http.MethodGet, "/notes/Weekly.md", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get archive note = %d", w.Code)
	}
	var note NoteResponse
	_ = json.Unmarshal(w.Body.Bytes(), &note)
	if note.Content != "\ncollected\n" {
		t.Errorf("archive content = %q, want %q", note.Content, "\ncollected\n")
	}

	req = httptest.NewRequest(http.MethodGet, "/collector", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var coll CollectorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &coll)
	if coll.Content != "" {
		t.Errorf("collector after archive = %q, want empty", coll.Content)
	}
}

func TestArchiveDuplicate(t *testing.T) {
	router := testEnv(t, "")

	body, _ := json.Marshal(map[string]string{"path": "Taken.md", "content": "occupied"})
	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewReader(body))
	router.ServeHTTP(httptest.NewRecorder(), req)

	body, _ = json.Marshal(map[string]string{"title": "Taken"})
	req = httptest.NewRequest(http.MethodPost, "/collector/archive", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate archive = %d, want 409", w.Code)
	}
}

func TestArchiveEmptyTitleUsesPlaceholder(t *testing.T) {
	router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodPost, "/collector/archive", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("archive = %d, body = %s", w.Code, w.Body.String())
	}
	var resp ArchiveResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Path == "" || !strings.HasSuffix(resp.Path, ".md") {
		t.Errorf("placeholder path = %q, want a .md file", resp.Path)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	router := testEnv(t, "")

	for _, c := range []string{"one", "two"} {
		body, _ := json.Marshal(map[string]string{"content": c})
		req := httptest.NewRequest(http.MethodPost, "/collector/append", bytes.NewReader(body))
		router.ServeHTTP(httptest.NewRecorder(), req)
	}
	body, _ := json.Marshal(map[string]string{"title": "Kept"})
	req := httptest.NewRequest(http.MethodPost, "/collector/archive", bytes.NewReader(body))
	router.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/history", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("history = %d, body = %s", w.Code, w.Body.String())
	}
	var resp HistoryResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Entries) != 3 {
		t.Errorf("entries = %d, want 3", len(resp.Entries))
	}
	if resp.Stats.Appends != 2 || resp.Stats.Archives != 1 {
		t.Errorf("stats = %+v, want 2 appends and 1 archive", resp.Stats)
	}
	if resp.Entries[0].Kind != ledger.KindArchive {
		t.Errorf("newest entry kind = %q, want archive", resp.Entries[0].Kind)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get settings = %d", w.Code)
	}
	var s SettingsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &s)
	if s.TimestampFormat != "YYYY-MM-DD HH:mm" {
		t.Errorf("default timestamp_format = %q", s.TimestampFormat)
	}

	body, _ := json.Marshal(map[string]any{
		"collector_path": "inbox/capture.md",
		"add_timestamp":  true,
	})
	req = httptest.NewRequest(http.MethodPut, "/settings", bytes.NewReader(body))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("put settings = %d, body = %s", w.Code, w.Body.String())
	}
	_ = json.Unmarshal(w.Body.Bytes(), &s)
	if s.CollectorPath != "inbox/capture.md" || !s.AddTimestamp {
		t.Errorf("updated settings = %+v", s)
	}
	// Untouched fields keep their values.
	if s.TimestampFormat != "YYYY-MM-DD HH:mm" {
		t.Errorf("timestamp_format = %q, want unchanged default", s.TimestampFormat)
	}
}

func TestSettingsValidation(t *testing.T) {
	router := testEnv(t, "")

	for _, p := range []string{"/etc/absolute.md", "../escape.md", "noext"} {
		body, _ := json.Marshal(map[string]string{"collector_path": p})
		req := httptest.NewRequest(http.MethodPut, "/settings", bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("collector_path %q = %d, want 400", p, w.Code)
		}
	}
}

func TestMoveNoteSyncsCollectorPath(t *testing.T) {
	router := testEnv(t, "")

	// Resolve and persist the collector.
	req := httptest.NewRequest(http.MethodGet, "/collector", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	body, _ := json.Marshal(map[string]string{"from": "trash.md", "to": "notes/trash.md"})
	req = httptest.NewRequest(http.MethodPost, "/notes/move", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("move = %d, body = %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/settings", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var s SettingsResponse
	_ = json.Unmarshal(w.Body.Bytes(), &s)
	if s.CollectorPath != "notes/trash.md" {
		t.Errorf("collector_path after move = %q, want notes/trash.md", s.CollectorPath)
	}

	// Appends now land at the new path.
	body, _ = json.Marshal(map[string]string{"content": "after move"})
	req = httptest.NewRequest(http.MethodPost, "/collector/append", bytes.NewReader(body))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var resp AppendResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Path != "notes/trash.md" {
		t.Errorf("append path = %q, want notes/trash.md", resp.Path)
	}
}

func TestCreateAndGetNote(t *testing.T) {
	router := testEnv(t, "")

	body, _ := json.Marshal(map[string]string{"path": "hello.md", "content": "# Hello\nWorld"})
	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/notes/hello.md", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var note NoteResponse
	_ = json.Unmarshal(w.Body.Bytes(), &note)
	if note.Path != "hello.md" || note.Content != "# Hello\nWorld" {
		t.Errorf("note = %+v", note)
	}
}

func TestCreateDuplicateNote(t *testing.T) {
	router := testEnv(t, "")

	body, _ := json.Marshal(map[string]string{"path": "dup.md", "content": "a"})
	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("first create = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/notes", bytes.NewReader(body))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate create = %d, want 409", w.Code)
	}
}

func TestUpdateAndDeleteNote(t *testing.T) {
	router := testEnv(t, "")

	body, _ := json.Marshal(map[string]string{"path": "n.md", "content": "v1"})
	req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewReader(body))
	router.ServeHTTP(httptest.NewRecorder(), req)

	updateBody, _ := json.Marshal(map[string]string{"content": "v2"})
	req = httptest.NewRequest(http.MethodPut, "/notes/n.md", bytes.NewReader(updateBody))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("update = %d, body = %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/notes/n.md", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete = %d, want 204", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/notes/n.md", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", w.Code)
	}
}

func TestUpdateNoteNotFound(t *testing.T) {
	router := testEnv(t, "")

	body, _ := json.Marshal(map[string]string{"content": "x"})
	req := httptest.NewRequest(http.MethodPut, "/notes/ghost.md", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("update missing = %d, want 404", w.Code)
	}
}

func TestListNotes(t *testing.T) {
	router := testEnv(t, "")

	for _, name := range []string{"a.md", "b.md"} {
		body, _ := json.Marshal(map[string]string{"path": name, "content": "# " + name})
		req := httptest.NewRequest(http.MethodPost, "/notes", bytes.NewReader(body))
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list = %d", w.Code)
	}
	var resp NoteListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 2 || len(resp.Notes) != 2 {
		t.Errorf("list = %+v, want 2 notes", resp)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/collector", nil)
	req.Header.Set("Authorization", "Bearer secret123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("authed get = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/collector", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthed = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_WrongToken(t *testing.T) {
	router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/collector", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}
}

func TestAuthMiddleware_QueryToken(t *testing.T) {
	router := testEnv(t, "secret123")

	req := httptest.NewRequest(http.MethodGet, "/collector?access_token=secret123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("query token = %d, want 200", w.Code)
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	router := testEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/collector", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("no auth = %d, want 200", w.Code)
	}
}

// SSE endpoint auth tests.

// sseStub writes headers and blocks until the request context is done.
func sseStub() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
	})
}

func TestSSEEvents_AuthProtected(t *testing.T) {
	router := testEnvFull(t, true, "secret", sseStub())

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("SSE no auth = %d, want 401", w.Code)
	}
}

func TestSSEEvents_QueryToken(t *testing.T) {
	router := testEnvFull(t, true, "secret", sseStub())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events?access_token=secret", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE with query token should not 401")
	}
}

func TestSSEEvents_AuthDisabled(t *testing.T) {
	router := testEnvFull(t, false, "", sseStub())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code == http.StatusUnauthorized {
		t.Error("SSE should not require auth when disabled")
	}
}
