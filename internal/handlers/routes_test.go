package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/telhawk-relay/internal/engine"
	"github.com/telhawk-systems/telhawk-relay/internal/handlers"
	"github.com/telhawk-systems/telhawk-relay/internal/logging"
	"github.com/telhawk-systems/telhawk-relay/internal/route"
)

type mockHost struct {
	routes    []*route.Route
	stats     []engine.RouteStats
	running   bool
	startedAt time.Time
}

func (m *mockHost) Routes() []*route.Route { return m.routes }
func (m *mockHost) Stats() []engine.RouteStats { return m.stats }
func (m *mockHost) Running() bool { return m.running }
func (m *mockHost) StartedAt() time.Time { return m.startedAt }

func xsltRoute(t *testing.T) *route.Route {
	t.Helper()
	reg := route.NewRegistry(
		route.XSLTComponent(nil, nil),
		route.LogComponent(logging.Discard()),
	)
	r, err := route.Compile(route.XSLT(), reg)
	require.NoError(t, err)
	return r
}

func TestHealth(t *testing.T) {
	host := &mockHost{
		running:   true,
		startedAt: time.Now().Add(-time.Minute),
		stats:     []engine.RouteStats{{RouteID: "xslt", From: "timer:tick?period=1s", Processed: 5, Failed: 1, LastError: "boom"}},
	}
	h := handlers.NewRouteHandler(host)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h.Health(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp handlers.HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Running)
	assert.NotEmpty(t, resp.Uptime)
	require.Len(t, resp.Routes, 1)
	assert.Equal(t, int64(5), resp.Routes[0].Processed)
	assert.Equal(t, "boom", resp.Routes[0].LastError)
}

func TestHealth_Stopped(t *testing.T) {
	h := handlers.NewRouteHandler(&mockHost{})

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var resp handlers.HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "stopped", resp.Status)
	assert.Empty(t, resp.Uptime)
}

func TestListRoutes(t *testing.T) {
	h := handlers.NewRouteHandler(&mockHost{routes: []*route.Route{xsltRoute(t)}})

	w := httptest.NewRecorder()
	h.ListRoutes(w, httptest.NewRequest(http.MethodGet, "/api/v1/routes", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Routes []handlers.RouteView `json:"routes"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Len(t, resp.Routes, 1)
	assert.Equal(t, handlers.RouteView{
		ID:     "xslt",
		From:   "timer:tick?period=1s",
		Period: "1s",
		Steps: []string{
			"setBody(constant, 53 bytes)",
			"to(xslt:xslt/cheese.xsl)",
			"to(log:info)",
		},
	}, resp.Routes[0])
}

func TestMethodNotAllowed(t *testing.T) {
	h := handlers.NewRouteHandler(&mockHost{})

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"health", h.Health},
		{"routes", h.ListRoutes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler(w, httptest.NewRequest(http.MethodPost, "/", nil))

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.Equal(t, http.MethodGet, w.Header().Get("Allow"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, "method_not_allowed", body["code"])
		})
	}
}
