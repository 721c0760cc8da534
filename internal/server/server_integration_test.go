package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/mode"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPI_HealthCheck(t *testing.T) {
	ts := httptest.NewServer(New(Config{}))
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
}

func TestAPI_LiveFeed(t *testing.T) {
	status := newFakeStatus()
	ts := httptest.NewServer(New(Config{Status: status}))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var first app.Status
	require.NoError(t, conn.ReadJSON(&first), "current status is sent on connect")
	assert.Equal(t, "arrows", first.Mode)
	assert.Equal(t, uint64(42), first.Frames)

	status.updates <- app.Status{
		Snapshot: mode.Snapshot{Mode: "volume", Volume: &mode.VolumeStatus{State: "locked", Level: 40, Percent: 40, Status: "Volume Fixed"}},
		Frames:   43,
	}

	var next app.Status
	require.NoError(t, conn.ReadJSON(&next))
	assert.Equal(t, uint64(43), next.Frames)
	require.NotNil(t, next.Volume)
	assert.Equal(t, "Volume Fixed", next.Volume.Status)
}

func TestServer_ListenAndServeStopsOnCancel(t *testing.T) {
	s := New(Config{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
