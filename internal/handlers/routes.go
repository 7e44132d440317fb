package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/telhawk-systems/telhawk-relay/internal/engine"
	"github.com/telhawk-systems/telhawk-relay/internal/route"
)

// Host is the view of the engine the handlers need.
type Host interface {
	Routes() []*route.Route
	Stats() []engine.RouteStats
	Running() bool
	StartedAt() time.Time
}

// RouteHandler serves health and route listings.
type RouteHandler struct {
	host Host
	now  func() time.Time
}

// NewRouteHandler constructs a new handler.
func NewRouteHandler(host Host) *RouteHandler {
	return &RouteHandler{host: host, now: time.Now}
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status  string              `json:"status"`
	Running bool                `json:"running"`
	Uptime  string              `json:"uptime"`
	Routes  []engine.RouteStats `json:"routes"`
}

// RouteView describes one route in GET /api/v1/routes.
type RouteView struct {
	ID     string   `json:"id"`
	From   string   `json:"from"`
	Period string   `json:"period"`
	Steps  []string `json:"steps"`
}

// NewRouteView renders a compiled route for listings.
func NewRouteView(r *route.Route) RouteView {
	steps := make([]string, len(r.Definition.Steps))
	for i, s := range r.Definition.Steps {
		steps[i] = s.String()
	}
	return RouteView{
		ID:     r.ID(),
		From:   r.Definition.From,
		Period: r.Timer.Period.String(),
		Steps:  steps,
	}
}

// Health handles GET /healthz.
func (h *RouteHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	resp := HealthResponse{
		Status:  "ok",
		Running: h.host.Running(),
		Routes:  h.host.Stats(),
	}
	if started := h.host.StartedAt(); resp.Running && !started.IsZero() {
		resp.Uptime = h.now().Sub(started).Round(time.Second).String()
	}
	if !resp.Running {
		resp.Status = "stopped"
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListRoutes handles GET /api/v1/routes.
func (h *RouteHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	routes := h.host.Routes()
	views := make([]RouteView, len(routes))
	for i, rt := range routes {
		views[i] = NewRouteView(rt)
	}
	writeJSON(w, http.StatusOK, map[string]any{"routes": views})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	type errorBody struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	writeJSON(w, status, errorBody{Code: code, Message: message})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method is not allowed")
}
