package server

import (
	"encoding/json"
	"net/http"

	"github.com/alfredjeanlab/riskboard/internal/chatbot"
)

// HTTPOptions configures the HTTP handler.
type HTTPOptions struct {
	// AuthToken guards the admin routes. Empty disables auth.
	AuthToken string
	// Limiter, when non-nil, rate-limits every route except /healthz.
	Limiter *RateLimiter
}

// NewHTTPHandler returns an http.Handler with all routes and middleware
// registered.
func (s *RiskServer) NewHTTPHandler(opts HTTPOptions) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/dashboard/main", s.handleDashboard)
	mux.HandleFunc("POST /api/v1/chatbot/query", s.handleChatbotQuery)
	mux.HandleFunc("GET /api/v1/events/stream", s.handleEventStream)
	mux.Handle("POST /api/v1/exports", AuthMiddleware(opts.AuthToken, http.HandlerFunc(s.handleExport)))
	mux.HandleFunc("GET /healthz", s.handleHealth)

	var h http.Handler = mux
	if opts.Limiter != nil {
		h = opts.Limiter.Middleware(h)
	}
	h = AccessLogMiddleware(s.logger, h)
	h = RequestIDMiddleware(h)
	return RecoveryMiddleware(s.logger, h)
}

// handleDashboard handles GET /api/v1/dashboard/main.
func (s *RiskServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.computeDashboard(r.Context(), "http", RequestIDFrom(r.Context()))
	if err != nil {
		s.logger.Error("compute dashboard", "request_id", RequestIDFrom(r.Context()), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch dashboard data")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type chatbotRequest struct {
	Message string `json:"message"`
}

// handleChatbotQuery handles POST /api/v1/chatbot/query.
func (s *RiskServer) handleChatbotQuery(w http.ResponseWriter, r *http.Request) {
	var req chatbotRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	writeJSON(w, http.StatusOK, chatbot.Answer(req.Message))
}

// handleExport handles POST /api/v1/exports.
func (s *RiskServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "exports are not configured")
		return
	}
	res, err := s.exporter.RunNow(r.Context())
	if err != nil {
		s.logger.Error("export", "request_id", RequestIDFrom(r.Context()), "error", err)
		if res != nil && len(res.Destinations) > 0 {
			// Partial failure: at least one destination holds the snapshot.
			writeJSON(w, http.StatusBadGateway, res)
			return
		}
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleHealth handles GET /healthz.
func (s *RiskServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
