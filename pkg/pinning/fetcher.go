// Copyright 2026 TaurusAlpha
// SPDX-License-Identifier: MIT

package pinning

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/miekg/dns"
)

const (
	// DefaultFetchTimeout bounds the dial and handshake for one fetch.
	// Evaluations run inside a request-scoped authorization check, so a
	// hanging server must not stall the caller for long.
	DefaultFetchTimeout = 5 * time.Second

	// defaultDNSPort is the standard DNS port, appended when an explicit
	// DNS server is configured without one.
	defaultDNSPort = "53"

	pemCertificateType = "CERTIFICATE"
)

// TLSFetcherConfig configures the production chain fetcher. The zero value
// (or a nil pointer) is usable: system DNS resolution and a 5 second
// timeout.
type TLSFetcherConfig struct {
	// Timeout bounds the TCP dial and TLS handshake. Default: 5s.
	Timeout time.Duration

	// DNSServer optionally names an explicit DNS server ("host" or
	// "host:port") used to resolve the target before dialing. When empty,
	// the system resolver is used. Pinned deployments behind split-horizon
	// DNS set this to the resolver that sees the internal zone.
	DNSServer string

	// RootCAs overrides the trust roots used for handshake path
	// validation. When nil, the system roots are used. Deployments pinning
	// servers issued by a private CA point this at that CA.
	RootCAs *x509.CertPool

	// Logger for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// TLSFetcher retrieves live certificate chains by dialing the target over
// TCP and completing a TLS handshake. The chain returned is the verified
// chain built during the handshake against the system trust roots, leaf
// first; a handshake that fails path validation is a connectivity failure,
// not a crash. Safe for concurrent use.
type TLSFetcher struct {
	timeout   time.Duration
	dnsServer string
	dnsClient *dns.Client
	rootCAs   *x509.CertPool
	logger    *slog.Logger
}

// NewTLSFetcher creates a fetcher, applying defaults for unset fields.
// A nil config selects all defaults.
func NewTLSFetcher(cfg *TLSFetcherConfig) *TLSFetcher {
	if cfg == nil {
		cfg = &TLSFetcherConfig{}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	f := &TLSFetcher{
		timeout: timeout,
		rootCAs: cfg.RootCAs,
		logger:  logger.With("component", "tls_fetcher"),
	}

	if cfg.DNSServer != "" {
		server := cfg.DNSServer
		if !strings.Contains(server, ":") {
			server = server + ":" + defaultDNSPort
		}
		f.dnsServer = server
		f.dnsClient = &dns.Client{Timeout: timeout}
	}

	return f
}

// FetchChain connects to host:port and returns the verified certificate
// chain as PEM text in leaf-first order. Dial, resolution, and handshake
// failures return ErrConnectivity; a handshake that yields no certificates
// returns ErrEmptyChain. One socket per call, closed before return, no
// retries.
func (f *TLSFetcher) FetchChain(ctx context.Context, host string, port int) ([]string, error) {
	dialHost := host
	if f.dnsClient != nil {
		addr, err := f.resolveHost(ctx, host)
		if err != nil {
			return nil, err
		}
		dialHost = addr
	}

	dialer := &net.Dialer{Timeout: f.timeout}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}

	conn, err := tls.DialWithDialer(dialer, "tcp", net.JoinHostPort(dialHost, strconv.Itoa(port)), &tls.Config{
		MinVersion: tls.VersionTLS12,
		RootCAs:    f.rootCAs,
		// The target may have been resolved to an address; SNI and
		// verification still use the configured hostname.
		ServerName: host,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s:%d: %w", ErrConnectivity, host, port, err)
	}
	defer conn.Close()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrConnectivity, ctx.Err())
	default:
	}

	certs := verifiedChain(conn.ConnectionState())
	if len(certs) == 0 {
		return nil, fmt.Errorf("%w: %s:%d", ErrEmptyChain, host, port)
	}

	f.logger.Debug("fetched certificate chain", "host", host, "port", port, "length", len(certs))

	chain := make([]string, 0, len(certs))
	for _, cert := range certs {
		chain = append(chain, encodePEM(cert))
	}
	return chain, nil
}

// verifiedChain picks the chain built during handshake verification, which
// includes the trust-store root even when the server does not present it.
// Falls back to the raw presented certificates if no verified chain exists.
func verifiedChain(state tls.ConnectionState) []*x509.Certificate {
	if len(state.VerifiedChains) > 0 && len(state.VerifiedChains[0]) > 0 {
		return state.VerifiedChains[0]
	}
	return state.PeerCertificates
}

// resolveHost looks up the first A or AAAA record for host through the
// configured DNS server.
func (f *TLSFetcher) resolveHost(ctx context.Context, host string) (string, error) {
	var lastErr error

	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		m := new(dns.Msg)
		m.SetQuestion(dns.Fqdn(host), qtype)
		m.RecursionDesired = true

		resp, _, err := f.dnsClient.ExchangeContext(ctx, m, f.dnsServer)
		if err != nil {
			lastErr = err
			continue
		}

		for _, rr := range resp.Answer {
			switch a := rr.(type) {
			case *dns.A:
				return a.A.String(), nil
			case *dns.AAAA:
				return a.AAAA.String(), nil
			}
		}
	}

	if lastErr != nil {
		return "", fmt.Errorf("%w: resolve %s via %s: %w", ErrConnectivity, host, f.dnsServer, lastErr)
	}
	return "", fmt.Errorf("%w: no address records for %s via %s", ErrConnectivity, host, f.dnsServer)
}

// encodePEM renders a single certificate as PEM text.
func encodePEM(cert *x509.Certificate) string {
	return string(pem.EncodeToMemory(&pem.Block{
		Type:  pemCertificateType,
		Bytes: cert.Raw,
	}))
}
