package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/mode"
	"github.com/ayusman/mudra/internal/store"
)

// fakeStatus serves a fixed status and lets tests push live updates.
type fakeStatus struct {
	status  app.Status
	updates chan app.Status
}

func newFakeStatus() *fakeStatus {
	return &fakeStatus{
		status: app.Status{
			Snapshot: mode.Snapshot{Mode: "arrows", Hand: true, Gesture: "SWIPE_UP", Direction: "up"},
			Enabled:  true,
			FPS:      29.5,
			Frames:   42,
		},
		updates: make(chan app.Status, 8),
	}
}

func (f *fakeStatus) Status() app.Status { return f.status }

func (f *fakeStatus) Subscribe(int) (<-chan app.Status, func()) {
	return f.updates, func() {}
}

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		contentType := rec.Header().Get("Content-Type")
		if contentType != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", contentType)
		}

		var response map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}

		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		methods := []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

		for _, method := range methods {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	})
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{})

	for _, path := range []string{"/api/nonexistent", "/api/status", "/api/events", "/api/live"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected status %d, got %d", path, http.StatusNotFound, rec.Code)
		}
	}
}

func TestServer_Status(t *testing.T) {
	s := New(Config{Status: newFakeStatus()})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var got struct {
		Mode      string  `json:"mode"`
		Hand      bool    `json:"hand"`
		Gesture   string  `json:"gesture"`
		Direction string  `json:"direction"`
		Enabled   bool    `json:"enabled"`
		FPS       float64 `json:"fps"`
		Frames    int     `json:"frames"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if got.Mode != "arrows" || got.Gesture != "SWIPE_UP" || got.Direction != "up" {
		t.Errorf("unexpected snapshot fields: %+v", got)
	}
	if !got.Hand || !got.Enabled || got.Frames != 42 || got.FPS != 29.5 {
		t.Errorf("unexpected status fields: %+v", got)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/status", nil)
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}

func TestServer_Events(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer st.Close()

	s := New(Config{Store: st})

	t.Run("empty journal returns an empty list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if body := rec.Body.String(); body != "[]\n" {
			t.Errorf("expected empty list, got %q", body)
		}
	})

	sess, err := st.Sessions().Start("arrows", "log")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, dir := range []string{"up", "down", "left"} {
		e := &store.Event{
			SessionID: sess.ID,
			Kind:      "press_key",
			Payload:   json.RawMessage(`{"kind":"press_key","direction":"` + dir + `"}`),
			CreatedAt: at.Add(time.Duration(i) * time.Second),
		}
		if err := st.Events().Record(e); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	t.Run("limit returns newest first", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/events?limit=2", nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		var events []store.Event
		if err := json.NewDecoder(rec.Body).Decode(&events); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("len(events) = %d, want 2", len(events))
		}
		if string(events[0].Payload) != `{"kind":"press_key","direction":"left"}` {
			t.Errorf("unexpected newest payload %s", events[0].Payload)
		}
	})

	t.Run("rejects a bad limit", func(t *testing.T) {
		for _, q := range []string{"limit=0", "limit=-1", "limit=abc"} {
			req := httptest.NewRequest(http.MethodGet, "/api/events?"+q, nil)
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected status %d, got %d", q, http.StatusBadRequest, rec.Code)
			}
		}
	})
}

func TestNew(t *testing.T) {
	t.Run("creates server with config", func(t *testing.T) {
		status := newFakeStatus()
		s := New(Config{Status: status})

		if s == nil {
			t.Fatal("expected non-nil server")
		}

		if s.config.Status != status {
			t.Error("expected status source to be kept")
		}
	})

	t.Run("server implements http.Handler", func(t *testing.T) {
		s := New(Config{})
		var _ http.Handler = s
	})
}
