package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hamed0406/availwatch/internal/domain"
	apimw "github.com/hamed0406/availwatch/internal/httpapi/middleware"
	"github.com/hamed0406/availwatch/internal/repo/memory"
	"github.com/hamed0406/availwatch/internal/runner"
)

// ---- test helpers ----

type fakeRunner struct {
	calls   atomic.Int32
	forced  atomic.Bool
	release chan struct{}
	started chan struct{}
	err     error
}

func (f *fakeRunner) Run(ctx context.Context, force bool) (runner.Report, error) {
	f.calls.Add(1)
	f.forced.Store(force)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return runner.Report{RunID: "r1", State: runner.StateFailed}, f.err
	}
	return runner.Report{RunID: "r1", State: runner.StateDone, Forced: force, Changed: true}, nil
}

var testKeys = apimw.Keys{
	Public: []string{"pub_test"},
	Admin:  []string{"adm_test"},
}

func setup(t *testing.T, fr *fakeRunner) (*Server, *memory.Store, http.Handler) {
	t.Helper()
	store := memory.New()
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("availwatch_runs_total 0\n"))
	})
	srv := NewServer(zap.NewNop(), store, fr, metrics)
	// very high rate limits to avoid flakiness in tests
	return srv, store, srv.Router(testKeys, nil, 10_000, 10_000, 10_000, 10_000)
}

func do(h http.Handler, method, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// ---- tests ----

func TestHealthzAndMetrics(t *testing.T) {
	_, _, h := setup(t, &fakeRunner{})

	rec := do(h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = do(h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "availwatch_runs_total")
}

func TestAvailability(t *testing.T) {
	_, store, h := setup(t, &fakeRunner{})

	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, "/api/availability", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/api/availability", "pub_test").Code)

	rs := domain.ResultSet{{
		Server: domain.Server{Code: "160sk1", Name: "KS-1"},
		Zone:   domain.Zone{Code: "gra", Location: "Gravelines"},
		Status: "available",
	}}
	require.NoError(t, store.Save(context.Background(), rs))

	rec := do(h, http.MethodGet, "/api/availability", "pub_test")
	require.Equal(t, http.StatusOK, rec.Code)
	var body availabilityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Results.Equal(rs))
	assert.NotNil(t, body.SavedAt)
}

func TestRun_AdminOnly(t *testing.T) {
	fr := &fakeRunner{}
	_, _, h := setup(t, fr)

	assert.Equal(t, http.StatusForbidden, do(h, http.MethodPost, "/api/runs", "pub_test").Code)
	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodPost, "/api/runs", "").Code)
	assert.Zero(t, fr.calls.Load())

	rec := do(h, http.MethodPost, "/api/runs?force=true", "adm_test")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, fr.forced.Load())

	var rep runner.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, runner.StateDone, rep.State)

	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodPost, "/api/runs?force=maybe", "adm_test").Code)
}

func TestRun_FetchFailureIsBadGateway(t *testing.T) {
	_, _, h := setup(t, &fakeRunner{err: domain.ErrFetch})
	rec := do(h, http.MethodPost, "/api/runs", "adm_test")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "fetch")
}

func TestRun_ConcurrentRunConflicts(t *testing.T) {
	fr := &fakeRunner{release: make(chan struct{}), started: make(chan struct{}, 1)}
	_, _, h := setup(t, fr)

	done := make(chan int)
	go func() {
		done <- do(h, http.MethodPost, "/api/runs", "adm_test").Code
	}()

	select {
	case <-fr.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first run never started")
	}
	assert.Equal(t, http.StatusConflict, do(h, http.MethodPost, "/api/runs", "adm_test").Code)

	close(fr.release)
	assert.Equal(t, http.StatusOK, <-done)
	assert.Equal(t, int32(1), fr.calls.Load())
}

func TestCORS_AllowedOrigin(t *testing.T) {
	srv := NewServer(nil, memory.New(), &fakeRunner{}, nil)
	h := srv.Router(apimw.Keys{}, []string{"https://dash.example.com"}, 0, 0, 0, 0)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://dash.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://dash.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/metrics", "").Code)
}
