package controlplane

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formpilot/pilotd/internal/action"
	"github.com/formpilot/pilotd/internal/injector"
	"github.com/formpilot/pilotd/internal/motion"
	"github.com/formpilot/pilotd/internal/probe"
	"github.com/formpilot/pilotd/internal/store"
)

// fakePort is an in-memory injector.Port for wiring a real Link without
// a physical serial device.
type fakePort struct {
	mu      sync.Mutex
	written [][]byte
}

func (f *fakePort) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, append([]byte(nil), p...))
	return len(p), nil
}
func (f *fakePort) Read(p []byte) (int, error) { return 0, io.EOF }
func (f *fakePort) Close() error               { return nil }

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st := store.New()
	link := injector.NewLink(&fakePort{}, zerolog.Nop())
	t.Cleanup(func() { _ = link.Close() })
	me := motion.New(link, st, 20, zerolog.Nop())
	ae := action.New(st, link, me, zerolog.Nop())
	return New(st, ae, me, link, zerolog.Nop()), st
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestCursorPosition_UpdatesStore(t *testing.T) {
	srv, st := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/cursor-position", probe.CursorPositionEvent{X: 12, Y: 34})
	assert.Equal(t, http.StatusOK, rec.Code)
	x, y, ok := st.Cursor()
	require.True(t, ok)
	assert.Equal(t, 12.0, x)
	assert.Equal(t, 34.0, y)
}

func TestCursorHover_NeverTouchesCursor(t *testing.T) {
	srv, st := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/cursor-position", probe.CursorPositionEvent{X: 500, Y: 500})
	rec := doJSON(t, srv, http.MethodPost, "/cursor-hover", probe.CursorHoverEvent{HoveredID: "a"})
	assert.Equal(t, http.StatusOK, rec.Code)
	x, y, _ := st.Cursor()
	assert.Equal(t, 500.0, x)
	assert.Equal(t, 500.0, y)
}

func TestCoordRequest_EmptyWhenNonePending(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/coord-request", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "{}", rec.Body.String())
}

func TestAutomationThenStart_DispatchesParkedList(t *testing.T) {
	srv, st := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/automation", probe.AutomationRequest{Commands: []string{"DELAY,1"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, st.Automating())

	rec = doJSON(t, srv, http.MethodPost, "/start", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// The run is async; give the goroutine a moment to finish a DELAY,1.
	require.Eventually(t, func() bool { return !st.Automating() }, time.Second, time.Millisecond)
}

func TestStart_BadRequestWhenNothingParked(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/start", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAutomation_MalformedBodyIs400(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/automation", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatus_ReflectsAutomatingFalse(t *testing.T) {
	srv, st := newTestServer(t)
	st.SetAutomating(false)
	rec := doJSON(t, srv, http.MethodGet, "/status", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var body statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Automating)
}
