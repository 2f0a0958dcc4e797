package provider

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"
)

// HostStatus classifies whether the API host resolves.
type HostStatus struct {
	Host          string
	IPs           []net.IP
	Class         string // "RESOLVES" | "NXDOMAIN" | "SERVFAIL_or_TIMEOUT" | "INVALID_NAME"
	ResolverError string
}

var dnsTimeout = 3 * time.Second

// ResolveHost looks up the host part of rawURL with the OS resolver.
func ResolveHost(ctx context.Context, rawURL string) HostStatus {
	s := HostStatus{Host: hostOf(rawURL)}
	if s.Host == "" || strings.Contains(s.Host, "/") {
		s.Class = "INVALID_NAME"
		return s
	}

	ctx, cancel := context.WithTimeout(ctx, dnsTimeout)
	defer cancel()

	ips, err := net.DefaultResolver.LookupIP(ctx, "ip", s.Host)
	if err == nil && len(ips) > 0 {
		s.IPs = ips
		s.Class = "RESOLVES"
		return s
	}

	s.Class = "SERVFAIL_or_TIMEOUT"
	if err != nil {
		s.ResolverError = err.Error()
		var de *net.DNSError
		if errors.As(err, &de) && de.IsNotFound {
			s.Class = "NXDOMAIN"
		}
	}
	return s
}

func hostOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return u.Hostname()
}
