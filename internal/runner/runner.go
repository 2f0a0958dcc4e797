// Package runner drives one watch cycle: fetch, extract, compare against the
// stored snapshot, then persist and notify when something changed.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/availwatch/internal/change"
	"github.com/hamed0406/availwatch/internal/domain"
	"github.com/hamed0406/availwatch/internal/notify"
	"github.com/hamed0406/availwatch/internal/provider"
	"github.com/hamed0406/availwatch/internal/repo"
)

type State string

const (
	StateFetching   State = "fetching"
	StateExtracting State = "extracting"
	StateComparing  State = "comparing"
	StateIdle       State = "idle"
	StatePersisting State = "persisting"
	StateNotifying  State = "notifying"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, results domain.ResultSet) notify.Outcomes
}

// Recorder receives run and channel outcomes. internal/metrics implements it.
type Recorder interface {
	ObserveRun(state string, records int)
	ObserveOutcome(channel, status string)
}

// Report summarises one run.
type Report struct {
	RunID     string          `json:"run_id"`
	State     State           `json:"state"`
	Forced    bool            `json:"forced"`
	Changed   bool            `json:"changed"`
	Persisted bool            `json:"persisted"`
	Records   int             `json:"records"`
	Outcomes  notify.Outcomes `json:"outcomes,omitempty"`
	Duration  time.Duration   `json:"duration_ns"`
}

type Runner struct {
	Logger     *zap.Logger
	APIURL     string
	Fetcher    Fetcher
	Extractor  provider.Extractor
	Tracking   provider.Tracking
	Store      repo.SnapshotStore
	Detector   change.Detector
	Dispatcher Dispatcher
	Metrics    Recorder // optional
}

// Run executes one cycle. The only error it returns wraps domain.ErrFetch;
// storage and channel faults are logged and reflected in the Report.
func (r *Runner) Run(ctx context.Context, force bool) (Report, error) {
	start := time.Now()
	rep := Report{RunID: uuid.NewString(), Forced: force}
	log := r.logger().With(zap.String("run_id", rep.RunID))

	defer func() {
		rep.Duration = time.Since(start)
		if r.Metrics != nil {
			n := rep.Records
			if rep.State == StateFailed {
				n = -1
			}
			r.Metrics.ObserveRun(string(rep.State), n)
			for _, oc := range rep.Outcomes {
				r.Metrics.ObserveOutcome(oc.Channel, string(oc.Status))
			}
		}
	}()

	rep.State = StateFetching
	body, err := r.Fetcher.Fetch(ctx, r.APIURL)
	if err != nil {
		rep.State = StateFailed
		log.Error("run_fetch_failed", zap.String("url", r.APIURL), zap.Error(err))
		return rep, err
	}

	rep.State = StateExtracting
	resp, err := r.Extractor.Decode(body)
	if err != nil {
		rep.State = StateFailed
		err = fmt.Errorf("%w: decode: %w", domain.ErrFetch, err)
		log.Error("run_fetch_failed", zap.String("url", r.APIURL), zap.Error(err))
		return rep, err
	}
	current := r.Extractor.Extract(resp, r.Tracking)
	rep.Records = len(current)

	rep.State = StateComparing
	previous, err := r.Store.Load(ctx)
	if err != nil {
		log.Warn("snapshot_load_failed", zap.String("stage", "load"), zap.Error(err))
		previous = nil
	}
	if !r.Detector.ShouldNotify(current, previous, force) {
		rep.State = StateIdle
		log.Info("run_no_change", zap.Int("records", rep.Records))
		return rep, nil
	}
	rep.Changed = true

	rep.State = StatePersisting
	if err := r.Store.Save(ctx, current); err != nil {
		log.Error("snapshot_save_failed", zap.String("stage", "persist"), zap.Error(err))
	} else {
		rep.Persisted = true
	}

	rep.State = StateNotifying
	rep.Outcomes = r.Dispatcher.Dispatch(ctx, current)
	if err := rep.Outcomes.Err(); err != nil {
		log.Warn("run_channels_degraded", zap.Error(err))
	}

	rep.State = StateDone
	log.Info("run_done",
		zap.Bool("forced", force),
		zap.Bool("persisted", rep.Persisted),
		zap.Int("records", rep.Records),
		zap.Int("sent", rep.Outcomes.Count(notify.StatusSent)),
	)
	return rep, nil
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
