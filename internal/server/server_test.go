package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/twistedx/cmdeck/internal/command"
	"github.com/twistedx/cmdeck/internal/config"
	"github.com/twistedx/cmdeck/internal/history"
	"github.com/twistedx/cmdeck/internal/statedb"
)

func newTestServer(t *testing.T) (*Server, *history.Store) {
	t.Helper()
	db, err := statedb.Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	store := history.NewStore(db)
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	dests := command.Destinations([]config.WorkspaceDef{
		{Name: "api", Path: "~/src/api", Tabs: []string{"editor"}},
	})
	cfg := &config.UserConfig{
		Palette: config.PaletteSettings{MaxResults: 12, MaxCandidates: 400},
	}
	source := NewPaletteService(command.Builtins(), dests, command.Context{}, store, cfg)
	return NewServer(Config{Source: source}), store
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["ok"] != true {
		t.Errorf("body = %v", body)
	}
}

func TestResultsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/palette/results?mode=command&q=new+tab", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp resultsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Mode != "command" || resp.Query != "new tab" {
		t.Errorf("echo fields = %+v", resp)
	}
	if len(resp.Results) == 0 || resp.Results[0].ID != "palette.newTab" {
		t.Errorf("results = %+v", resp.Results)
	}
	if resp.Results[0].Score < 1 || len(resp.Results[0].Indices) == 0 {
		t.Errorf("top result missing score or indices: %+v", resp.Results[0])
	}
}

func TestResultsDefaultsToSwitcher(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/palette/results", nil))

	var resp resultsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Empty query in switcher mode lists every destination.
	if resp.Mode != "switcher" || len(resp.Results) != 2 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestResultsRejectsBadMode(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/palette/results?mode=bogus", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestInvokeRecordsUsage(t *testing.T) {
	srv, store := newTestServer(t)
	body := bytes.NewBufferString(`{"id":"palette.newTab"}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/palette/invoke", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	u, ok := store.Get("palette.newTab")
	if !ok || u.UseCount != 1 {
		t.Errorf("usage = %+v, ok = %t", u, ok)
	}
}

func TestInvokeRequiresID(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/palette/invoke", strings.NewReader(`{}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/palette/results", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestEventStreamDeliversInvocations(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var hello eventMessage
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read hello: %v", err)
	}
	if hello.Type != "connected" {
		t.Fatalf("hello = %+v", hello)
	}

	resp, err := http.Post(ts.URL+"/api/palette/invoke", "application/json",
		strings.NewReader(`{"id":"palette.newTab"}`))
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	resp.Body.Close()

	var event eventMessage
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if event.Type != "invoked" || event.ID != "palette.newTab" {
		t.Errorf("event = %+v", event)
	}
}

func TestWSOriginCheck(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws/events", nil)
	r.Host = "127.0.0.1:8427"

	if !allowWSOrigin(r) {
		t.Error("empty origin should be allowed")
	}

	r.Header.Set("Origin", "http://127.0.0.1:8427")
	if !allowWSOrigin(r) {
		t.Error("same-host origin should be allowed")
	}

	r.Header.Set("Origin", "http://evil.example.com")
	if allowWSOrigin(r) {
		t.Error("cross-host origin should be rejected")
	}
}
