// Package server exposes the dispatcher over local HTTP so UIs and scripts
// can drive submissions without linking the binary.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"promptfan/internal/dispatch"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server wraps the HTTP listener and its router.
type Server struct {
	http *http.Server
	log  *zap.Logger
}

// New builds the server over the given dispatcher.
func New(addr string, d *dispatch.Dispatcher, log *zap.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(accessLog(log))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/submit", typedHandler(d, dispatch.TypeSubmitQuery))
		r.Get("/providers", typedHandler(d, dispatch.TypeListProviders))
		r.Get("/history", typedHandler(d, dispatch.TypeListHistory))
		r.Delete("/history", typedHandler(d, dispatch.TypeClearHistory))
		r.Post("/dispatch", rawHandler(d))
	})

	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			// Submissions hold the connection while windows load and inject.
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		log: log,
	}
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start blocks serving requests until an error or Stop.
func (s *Server) Start() error {
	s.log.Info("control server listening", zap.String("addr", s.http.Addr))
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop drains in-flight requests within the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("control server shutting down")
	return s.http.Shutdown(ctx)
}

// typedHandler binds a route to one dispatch type; the request body, if any,
// becomes the payload.
func typedHandler(d *dispatch.Dispatcher, typ string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
			writeResponse(w, dispatch.Response{Error: "malformed payload: " + err.Error()})
			return
		}
		writeResponse(w, d.Dispatch(r.Context(), dispatch.Request{Type: typ, Payload: payload}))
	}
}

// rawHandler accepts a full {type, payload} envelope, mirroring the message
// shape the dispatcher speaks natively.
func rawHandler(d *dispatch.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dispatch.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeResponse(w, dispatch.Response{Error: "malformed request: " + err.Error()})
			return
		}
		writeResponse(w, d.Dispatch(r.Context(), req))
	}
}

func writeResponse(w http.ResponseWriter, res dispatch.Response) {
	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, res)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusWriter captures the status code for access logging.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// accessLog emits one structured line per request.
func accessLog(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w}

			next.ServeHTTP(ww, r)

			log.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.status),
				zap.Int("bytes", ww.bytes),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
