package ipc

import (
	"context"
	"net"
	"net/http"
)

// Server wraps an HTTP server with pea routing.
type Server struct {
	httpServer *http.Server
}

// NewServer creates a Server that binds to the given address.
func NewServer(h *Handler, listenAddr string) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", h.Health)

	// State and care.
	mux.HandleFunc("GET /api/v1/pea", h.GetPea)
	mux.HandleFunc("POST /api/v1/pea/water", h.Water)
	mux.HandleFunc("POST /api/v1/pea/sun", h.Sun)
	mux.HandleFunc("POST /api/v1/pea/soil", h.Soil)

	// Sleep.
	mux.HandleFunc("POST /api/v1/pea/sleep", h.ToggleSleep)
	mux.HandleFunc("POST /api/v1/pea/wake", h.Wake)

	// Mini-games.
	mux.HandleFunc("POST /api/v1/pea/play", h.Play)
	mux.HandleFunc("POST /api/v1/pea/games/{kind}/start", h.StartGame)
	mux.HandleFunc("POST /api/v1/pea/games/finish", h.FinishGame)
	mux.HandleFunc("POST /api/v1/pea/games/close", h.CloseGame)

	// Journal.
	mux.HandleFunc("GET /api/v1/pea/events", h.ListEvents)
	mux.HandleFunc("GET /api/v1/pea/visits", h.ListVisits)
	mux.HandleFunc("GET /api/v1/pea/visits/{visitID}", h.GetVisit)

	mux.HandleFunc("GET /api/v1/pea/stream", h.Stream)

	srv := &http.Server{
		Addr:    listenAddr,
		Handler: corsMiddleware(mux),
	}

	return &Server{
		httpServer: srv,
	}
}

// Start begins listening for HTTP connections. Blocks until the server stops.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server. Open streams end when the engine
// closes.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// corsMiddleware adds CORS headers for a local front end.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// FormatListenURL turns a listen address into a URL a browser can open.
func FormatListenURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
