// Package app wires configuration into a ready Runner. Both entry points
// (cmd/cli and cmd/api) start here.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/availwatch/internal/change"
	"github.com/hamed0406/availwatch/internal/config"
	"github.com/hamed0406/availwatch/internal/metrics"
	"github.com/hamed0406/availwatch/internal/notify"
	"github.com/hamed0406/availwatch/internal/provider"
	"github.com/hamed0406/availwatch/internal/repo"
	"github.com/hamed0406/availwatch/internal/repo/file"
	"github.com/hamed0406/availwatch/internal/repo/memory"
	"github.com/hamed0406/availwatch/internal/repo/postgres"
	"github.com/hamed0406/availwatch/internal/repo/redis"
	"github.com/hamed0406/availwatch/internal/runner"
)

type App struct {
	Settings *config.Settings
	Provider *config.Provider
	Store    repo.SnapshotStore
	Metrics  *metrics.Metrics // nil unless WithMetrics
	Runner   *runner.Runner

	closeStore func()
}

type options struct {
	metrics bool
}

type Option func(*options)

// WithMetrics gives the runner a Prometheus registry, exposed as
// App.Metrics. Only the API serves it; the CLI leaves it off.
func WithMetrics() Option {
	return func(o *options) { o.metrics = true }
}

// New loads the settings and provider files, opens the snapshot store and
// builds the runner for providerName. Call Close when done.
func New(ctx context.Context, cfg config.Config, providerName string, logger *zap.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := config.Validate(&cfg); err != nil {
		return nil, err
	}

	settings, err := config.LoadSettings(cfg.SettingsFile)
	if err != nil {
		return nil, err
	}
	tracked, err := settings.TrackedFor(providerName)
	if err != nil {
		return nil, err
	}
	prov, err := config.LoadProvider(cfg.ProviderDir, providerName)
	if err != nil {
		return nil, err
	}
	extractor, err := provider.Lookup(prov.Extractor)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", prov.Name, err)
	}

	store, closeStore, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	creds := config.ResolveCredentials(settings, nil)
	dispatcher := notify.NewDispatcher(
		logger,
		BuildChannels(settings, creds, cfg.HTTPTimeout),
		settings.Email.Subject,
		prov.Info,
		cfg.NotifyConcurrency,
	)

	r := &runner.Runner{
		Logger:     logger.With(zap.String("provider", prov.Name)),
		APIURL:     prov.API,
		Fetcher:    provider.NewHTTPFetcher(cfg.HTTPTimeout),
		Extractor:  extractor,
		Tracking:   BuildTracking(tracked, prov),
		Store:      store,
		Detector:   change.Detector{OrderInsensitive: cfg.ChangeOrderInsensitive},
		Dispatcher: dispatcher,
	}
	var m *metrics.Metrics
	if o.metrics {
		m = metrics.New()
		r.Metrics = m
	}

	logger.Info("app_ready",
		zap.String("provider", prov.Name),
		zap.String("extractor", prov.Extractor),
		zap.String("backend", cfg.SnapshotBackend),
		zap.Int("servers", len(tracked.Servers)),
		zap.Int("zones", len(tracked.Zones)),
	)

	return &App{
		Settings:   settings,
		Provider:   prov,
		Store:      store,
		Metrics:    m,
		Runner:     r,
		closeStore: closeStore,
	}, nil
}

func (a *App) Close() {
	if a.closeStore != nil {
		a.closeStore()
	}
}

// OpenStore returns the snapshot backend named by cfg.SnapshotBackend and a
// func releasing its connections.
func OpenStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (repo.SnapshotStore, func(), error) {
	noop := func() {}
	switch cfg.SnapshotBackend {
	case "file", "":
		return file.New(cfg.SnapshotPath), noop, nil
	case "memory":
		return memory.New(), noop, nil
	case "redis":
		s, err := redis.New(ctx, cfg.RedisURL, cfg.SnapshotKey, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("redis snapshot store: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	case "postgres":
		s, err := postgres.New(ctx, cfg.DatabaseURL, cfg.SnapshotKey, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres snapshot store: %w", err)
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown snapshot backend %q", config.ErrInvalidConfig, cfg.SnapshotBackend)
	}
}

// BuildTracking joins the operator's watch list with the provider's maps.
// Names missing from serverMap stay in Entities and simply never match.
func BuildTracking(t config.Tracked, p *config.Provider) provider.Tracking {
	return provider.Tracking{
		Entities:      t.Servers,
		Locations:     t.Zones,
		EntityCodes:   p.ServerMap,
		LocationNames: p.ZoneMap,
	}
}

// BuildChannels returns email, sms and slack in that order. Disabled
// channels are included so every run reports on all three.
func BuildChannels(s *config.Settings, c config.Credentials, timeout time.Duration) []notify.Channel {
	return []notify.Channel{
		notify.NewEmail(notify.EmailConfig{
			Enabled: s.Email.Enabled,
			Host:    c.SMTPHost,
			Port:    c.SMTPPort,
			User:    c.SMTPUser,
			Pass:    c.SMTPPass,
			From:    s.Email.From,
			To:      s.Email.To,
		}),
		notify.NewSMS(notify.SMSConfig{
			Enabled:    s.SMS.Enabled,
			AccountSID: c.TwilioSID,
			AuthToken:  c.TwilioAuth,
			From:       s.SMS.From,
			To:         s.SMS.To,
		}),
		notify.NewSlack(s.Slack.Enabled, c.SlackWebhook, timeout),
	}
}
