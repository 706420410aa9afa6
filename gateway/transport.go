package gateway

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
)

const maxRedirects = 10

// SecureURL parses raw and upgrades plain http to https unless the host is
// local (localhost, *.localhost, loopback or unspecified addresses).
func SecureURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInsecureURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInsecureURL, raw)
	}

	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "https"
	case "http":
		if IsLocalHost(u.Hostname()) {
			u.Scheme = "http"
		} else {
			u.Scheme = "https"
		}
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInsecureURL, u.Scheme)
	}
	return u, nil
}

func IsLocalHost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && (ip.IsLoopback() || ip.IsUnspecified())
}

// secureRedirects wraps a CheckRedirect policy so that no hop lands on plain
// http at a non-local host. The credential is copied onto same-host
// redirects regardless of scheme, so such hops are refused outright.
func secureRedirects(next func(*http.Request, []*http.Request) error) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if strings.EqualFold(req.URL.Scheme, "http") && !IsLocalHost(req.URL.Hostname()) {
			return fmt.Errorf("%w: redirect to %s", ErrInsecureURL, req.URL.Redacted())
		}
		if next != nil {
			return next(req, via)
		}
		if len(via) >= maxRedirects {
			return errors.New("stopped after 10 redirects")
		}
		return nil
	}
}
