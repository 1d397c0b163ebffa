// Package transport implements the MCP Transport: JSON-RPC 2.0 framing over
// HTTP POST, the public health endpoints, and an optional SSE keepalive mode
// (§4.I). It generalizes the teacher's StartRPCServer/httpReadWriteCloser
// net/rpc adapter — which cannot express batches or notifications — into a
// gorilla/mux-routed handler wired directly to the Request Router.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/xid"

	"github.com/dockermcp/gateway/internal/auth"
	"github.com/dockermcp/gateway/internal/dockeradapter"
	"github.com/dockermcp/gateway/internal/router"
)

// Config carries the transport's tunable behavior, generalizing the
// teacher's hard-coded ":1234"/"/rpc" constants into configured values.
type Config struct {
	MaxRequestBytes int64
	Streaming       bool
}

// Server is the gateway's HTTP-level front door.
type Server struct {
	cfg     Config
	authn   *auth.Authenticator
	router  *router.Router
	adapter *dockeradapter.Adapter
	log     *slog.Logger
}

// New builds the top-level http.Handler for the gateway: authenticated
// JSON-RPC framing on /mcp, public health endpoints, permissive CORS.
func New(cfg Config, authn *auth.Authenticator, rt *router.Router, adapter *dockeradapter.Adapter, log *slog.Logger) http.Handler {
	s := &Server{cfg: cfg, authn: authn, router: rt, adapter: adapter, log: log}

	r := mux.NewRouter()
	r.HandleFunc("/mcp/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/mcp/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/mcp", auth.Middleware(authn, s.writeAuthError, http.HandlerFunc(s.handleMCP))).Methods(http.MethodPost)
	r.Handle("/mcp", auth.Middleware(authn, s.writeAuthError, http.HandlerFunc(s.handleMCPGet))).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)

	handler := requestIDMiddleware(r)
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Access-Token"},
	}).Handler(handler)
}

type requestIDKey struct{}

// requestIDMiddleware stamps every response with a stable X-Request-Id
// header (rs/xid, per DESIGN.md) for log correlation, per §4.I rule 5.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := xid.New().String()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// healthDoc is the compact status document returned by the public health
// endpoints (§4.I rule 4), independent of authentication state.
type healthDoc struct {
	Status          string `json:"status"`
	DaemonReachable bool   `json:"daemon_reachable"`
	SwarmManager    bool   `json:"swarm_manager"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	doc := healthDoc{Status: "ok"}
	if s.adapter != nil {
		if caps, err := s.adapter.Capabilities(ctx); err == nil {
			doc.DaemonReachable = true
			doc.SwarmManager = caps[dockeradapter.CapSwarmManager]
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(doc)
}

// handleMCP is the authenticated JSON-RPC entry point: POST /mcp.
func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r.Context())

	if r.Header.Get("Content-Type") != "" && !isJSONContentType(r.Header.Get("Content-Type")) {
		http.Error(w, "Content-Type must be application/json", http.StatusBadRequest)
		return
	}

	limited := http.MaxBytesReader(w, r.Body, s.cfg.MaxRequestBytes)
	body, err := io.ReadAll(limited)
	if err != nil {
		s.log.Warn("request body too large or unreadable", "request_id", requestID, "error", err)
		http.Error(w, "payload too large", http.StatusRequestEntityTooLarge)
		return
	}

	if !json.Valid(body) {
		http.Error(w, "malformed JSON", http.StatusBadRequest)
		return
	}

	out, hasBody := s.router.HandleBody(r.Context(), body)
	if !hasBody {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// handleMCPGet serves GET /mcp: a 405 unless streaming mode is enabled, in
// which case it opens a Server-Sent-Events stream of periodic keepalive
// pings only (§4.I rule 3 / §9 Open Question #2 — never tool-result
// streaming).
func (s *Server) handleMCPGet(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Streaming {
		http.Error(w, "GET /mcp requires streaming mode", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprintf(w, "event: ping\ndata: {}\n\n")
			flusher.Flush()
		}
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "not found", http.StatusNotFound)
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

func (s *Server) writeAuthError(w http.ResponseWriter, status int, err error) {
	s.log.Warn("authentication rejected request", "status", status, "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func isJSONContentType(ct string) bool {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct) == "application/json"
}
