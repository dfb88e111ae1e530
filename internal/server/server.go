package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/agisilaos/gfare/internal/pricing"
)

const shutdownTimeout = 10 * time.Second

// Pricer is the part of pricing.Service the HTTP surface needs.
type Pricer interface {
	Run(ctx context.Context, q pricing.Query) pricing.Outcome
	Diagnose(ctx context.Context) pricing.Report
}

type Options struct {
	Addr           string
	AllowedOrigins []string
	Logger         *slog.Logger
}

type Server struct {
	pricer     Pricer
	logger     *slog.Logger
	httpServer *http.Server
}

func New(p Pricer, opts Options) *Server {
	s := &Server{pricer: p, logger: opts.Logger}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           corsHandler.Handler(s.routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/flights/search", s.handleSearch)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return s.logRequests(mux)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "address", ln.Addr().String())
		if err := s.httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("failed to shut down http server", "error", err)
		return err
	}
	s.logger.Info("http server gracefully shutdown")
	return <-errCh
}

// ListenAndServe binds the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.httpServer.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

type searchResponse struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
	ErrorKind string `json:"error_kind,omitempty"`
	Response  string `json:"response"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out := s.pricer.Run(r.Context(), pricing.Query{
		Origin:           q.Get("origin"),
		Destination:      q.Get("destination"),
		Date:             q.Get("date"),
		OriginLabel:      q.Get("origin_label"),
		DestinationLabel: q.Get("destination_label"),
	})
	w.Header().Set("X-Request-ID", out.RequestID)
	writeJSON(w, s.logger, http.StatusOK, searchResponse{
		RequestID: out.RequestID,
		Status:    string(out.Status),
		ErrorKind: string(out.ErrorKind),
		Response:  out.Response,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.pricer.Diagnose(r.Context())
	status := http.StatusOK
	if !report.OK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, s.logger, status, report)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("http.write_response", "error", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("http.request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", w.Header().Get("X-Request-ID"),
			"duration", time.Since(start),
		)
	})
}
