// cmd/preflight/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/hamed0406/availwatch/internal/config"
	"github.com/hamed0406/availwatch/internal/provider"
)

func main() {
	providerName := flag.String("provider", "kimsufi", "provider definition to check")
	flag.Parse()

	failed := false
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		failed = true
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg := config.FromEnv()
	if err := config.Validate(&cfg); err != nil {
		fail(err.Error())
	} else {
		ok("environment: backend=" + cfg.SnapshotBackend)
	}

	settings, err := config.LoadSettings(cfg.SettingsFile)
	if err != nil {
		fail(err.Error())
		os.Exit(1)
	}
	ok("settings " + cfg.SettingsFile)

	if _, err := settings.TrackedFor(*providerName); err != nil {
		fail(err.Error())
	}

	prov, err := config.LoadProvider(cfg.ProviderDir, *providerName)
	if err != nil {
		fail(err.Error())
	} else {
		ok("provider " + prov.Name + " -> " + prov.API)
		if _, err := provider.Lookup(prov.Extractor); err != nil {
			fail(err.Error())
		}
	}

	creds := config.ResolveCredentials(settings, nil)
	missing := config.MissingFor(settings, creds)
	channels := make([]string, 0, len(missing))
	for ch := range missing {
		channels = append(channels, ch)
	}
	sort.Strings(channels)
	for _, ch := range channels {
		fail(fmt.Sprintf("%s channel enabled but missing: %s", ch, strings.Join(missing[ch], ", ")))
	}
	if !settings.Email.Enabled && !settings.SMS.Enabled && !settings.Slack.Enabled {
		warn("no notification channel enabled; runs will only update the snapshot.")
	}

	if prov != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		status := provider.ResolveHost(ctx, prov.API)
		cancel()
		if status.Class == "RESOLVES" {
			ok(fmt.Sprintf("api host %s resolves (%d addresses)", status.Host, len(status.IPs)))
		} else {
			warn(fmt.Sprintf("api host %s: %s %s", status.Host, status.Class, status.ResolverError))
		}
	}

	if failed {
		os.Exit(1)
	}
	ok("preflight passed")
}
