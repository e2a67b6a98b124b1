// Package widget serves schedules as JSON for home-screen widgets.
package widget

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"schedulectl/pkg/schedule"
	"schedulectl/pkg/timetable"
)

// Fetcher returns the schedule of a subject
type Fetcher interface {
	FetchSchedule(ctx context.Context, subjectID string) (schedule.Schedule, error)
}

// Server answers widget requests
type Server struct {
	fetcher      Fetcher
	calls        timetable.CallTable
	now          func() time.Time
	log          *zap.Logger
	maxRequests  int
	fetchTimeout time.Duration
}

// Option customizes a Server
type Option func(*Server)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithRateLimit allows n requests per second and client IP.
func WithRateLimit(n int) Option {
	return func(s *Server) { s.maxRequests = n }
}

// NewServer creates a widget server backed by f.
func NewServer(f Fetcher, calls timetable.CallTable, opts ...Option) *Server {
	s := &Server{
		fetcher:      f,
		calls:        calls,
		now:          time.Now,
		log:          zap.NewNop(),
		maxRequests:  10,
		fetchTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ActiveResponse is the body of the active day endpoint
type ActiveResponse struct {
	Index int                   `json:"index"`
	Day   *schedule.DaySchedule `json:"day"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept"},
		MaxAge:         300,
	}))
	r.Use(httprate.LimitByIP(s.maxRequests, time.Second))
	r.Use(s.requestLogger)

	r.Route("/schedules/{subject}", func(r chi.Router) {
		r.Get("/", s.handleSchedule)
		r.Get("/active", s.handleActive)
	})

	return r
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	sched, ok := s.fetch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func (s *Server) handleActive(w http.ResponseWriter, r *http.Request) {
	sched, ok := s.fetch(w, r)
	if !ok {
		return
	}

	resp := ActiveResponse{Index: timetable.ActiveDay(sched.Days, s.now(), s.calls)}
	if resp.Index < len(sched.Days) {
		resp.Day = &sched.Days[resp.Index]
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) fetch(w http.ResponseWriter, r *http.Request) (schedule.Schedule, bool) {
	subject := chi.URLParam(r, "subject")

	ctx, cancel := context.WithTimeout(r.Context(), s.fetchTimeout)
	defer cancel()

	sched, err := s.fetcher.FetchSchedule(ctx, subject)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusBadGateway {
			s.log.Error("failed to fetch schedule", zap.String("subject", subject), zap.Error(err))
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return schedule.Schedule{}, false
	}
	return sched, true
}

// statusFor maps extraction errors to HTTP statuses. Anything else is an upstream failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, schedule.ErrSubjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, schedule.ErrTableNotFound), errors.Is(err, schedule.ErrMalformedTable):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

// ListenAndServe runs the server until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("widget server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
