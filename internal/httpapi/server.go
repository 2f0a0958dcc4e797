package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/availwatch/internal/domain"
	apimw "github.com/hamed0406/availwatch/internal/httpapi/middleware"
	"github.com/hamed0406/availwatch/internal/repo"
	"github.com/hamed0406/availwatch/internal/runner"
)

type Runner interface {
	Run(ctx context.Context, force bool) (runner.Report, error)
}

type Server struct {
	Logger  *zap.Logger
	Store   repo.SnapshotStore
	Runner  Runner
	Metrics http.Handler // optional
	// RunTimeout bounds a triggered run; the run is detached from the
	// request so a client hang-up does not abort it half way.
	RunTimeout time.Duration

	running sync.Mutex
}

func NewServer(l *zap.Logger, store repo.SnapshotStore, r Runner, metrics http.Handler) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Store: store, Runner: r, Metrics: metrics, RunTimeout: 2 * time.Minute}
}

func (s *Server) Router(keys apimw.Keys, allowedOrigins []string, publicRPM, publicBurst, adminRPM, adminBurst int) http.Handler {
	r := chi.NewRouter()

	if len(allowedOrigins) == 0 {
		r.Use(cors.AllowAll().Handler)
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-API-Key"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(apimw.RateLimit(publicRPM, publicBurst))
		r.Use(apimw.RequireAny(keys))
		r.Get("/api/availability", s.handleAvailability)
	})

	r.Group(func(r chi.Router) {
		r.Use(apimw.RateLimit(adminRPM, adminBurst))
		r.Use(apimw.RequireAdmin(keys))
		r.Post("/api/runs", s.handleRun)
	})

	return r
}

type availabilityResponse struct {
	Results domain.ResultSet `json:"results"`
	SavedAt *time.Time       `json:"saved_at,omitempty"`
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Store.Load(r.Context())
	if err != nil {
		s.Logger.Error("availability_load_failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "snapshot unavailable")
		return
	}
	if snap == nil {
		writeError(w, http.StatusNotFound, "no snapshot yet")
		return
	}

	out := availabilityResponse{Results: repo.Normalize(snap.Results)}
	if !snap.SavedAt.IsZero() {
		out.SavedAt = &snap.SavedAt
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	force := false
	if v := r.URL.Query().Get("force"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "force must be a boolean")
			return
		}
		force = b
	}

	if !s.running.TryLock() {
		writeError(w, http.StatusConflict, "a run is already in progress")
		return
	}
	defer s.running.Unlock()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.RunTimeout)
	defer cancel()

	rep, err := s.Runner.Run(ctx, force)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrFetch) {
			status = http.StatusBadGateway
		}
		s.Logger.Warn("api_run_failed", zap.String("run_id", rep.RunID), zap.Error(err))
		writeJSON(w, status, map[string]any{"error": err.Error(), "report": rep})
		return
	}

	s.Logger.Info("api_run",
		zap.String("run_id", rep.RunID),
		zap.String("state", string(rep.State)),
		zap.Bool("forced", force),
	)
	writeJSON(w, http.StatusOK, rep)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
