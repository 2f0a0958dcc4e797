package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/hamed0406/availwatch/internal/domain"
)

type Dispatcher struct {
	Logger   *zap.Logger
	Channels []Channel
	Subject  string
	Closing  string
	// Concurrency > 1 sends through that many channels at once.
	// Outcomes keep channel order either way.
	Concurrency int
}

func NewDispatcher(logger *zap.Logger, channels []Channel, subject, closing string, concurrency int) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	return &Dispatcher{
		Logger:      logger,
		Channels:    channels,
		Subject:     subject,
		Closing:     closing,
		Concurrency: concurrency,
	}
}

// Dispatch sends the report for results to every enabled, ready channel.
// Empty results send nothing and return no outcomes.
func (d *Dispatcher) Dispatch(ctx context.Context, results domain.ResultSet) Outcomes {
	if len(results) == 0 || len(d.Channels) == 0 {
		return nil
	}
	msg := Message{Subject: d.Subject, Body: Render(results, d.Closing)}
	out := make(Outcomes, len(d.Channels))

	if d.Concurrency <= 1 {
		for i, ch := range d.Channels {
			out[i] = d.sendOne(ctx, ch, msg)
		}
		return out
	}

	sem := make(chan struct{}, d.Concurrency)
	var wg sync.WaitGroup
	for i, ch := range d.Channels {
		i, ch := i, ch
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()
			out[i] = d.sendOne(ctx, ch, msg)
		}()
	}
	wg.Wait()
	return out
}

func (d *Dispatcher) sendOne(ctx context.Context, ch Channel, msg Message) Outcome {
	name := ch.Name()
	if !ch.Enabled() {
		d.Logger.Debug("channel_disabled", zap.String("channel", name))
		return Outcome{Channel: name, Status: StatusDisabled}
	}

	if err := ch.Ready(); err != nil {
		d.Logger.Warn("channel_misconfigured", zap.String("channel", name), zap.Error(err))
		return failed(name, StatusMisconfigured, domain.ErrChannelMisconfigured, err)
	}

	if err := ch.Send(ctx, msg); err != nil {
		d.Logger.Error("channel_send_failed", zap.String("channel", name), zap.Error(err))
		return failed(name, StatusFailed, domain.ErrChannelSendFailed, err)
	}

	d.Logger.Info("channel_sent", zap.String("channel", name))
	return Outcome{Channel: name, Status: StatusSent}
}

func failed(name string, status Status, kind, err error) Outcome {
	cerr := &domain.ChannelError{Channel: name, Kind: kind, Err: err}
	return Outcome{Channel: name, Status: status, Error: cerr.Error(), Err: cerr}
}
