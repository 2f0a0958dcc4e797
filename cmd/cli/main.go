package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hamed0406/availwatch/internal/app"
	"github.com/hamed0406/availwatch/internal/config"
	"github.com/hamed0406/availwatch/internal/logging"
)

const (
	exitOK      = 0
	exitFetch   = 1
	exitStartup = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	providerName := flag.String("provider", "kimsufi", "provider definition to poll (providers/<name>.yaml)")
	force := flag.Bool("force", false, "persist and notify even when nothing changed")
	flag.Parse()

	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel, cfg.LogConsole)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		return exitStartup
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, *providerName, logger)
	if err != nil {
		logger.Error("startup_failed", zap.String("provider", *providerName), zap.Error(err))
		return exitStartup
	}
	defer a.Close()

	rep, err := a.Runner.Run(ctx, *force)
	if err != nil {
		// already logged by the runner; only fetch failures get here
		return exitFetch
	}
	logger.Debug("run_report",
		zap.String("run_id", rep.RunID),
		zap.String("state", string(rep.State)),
		zap.Duration("took", rep.Duration),
	)
	return exitOK
}
