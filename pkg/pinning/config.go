// Copyright 2026 TaurusAlpha
// SPDX-License-Identifier: MIT

package pinning

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultPort is the port assumed when the reference configuration does not
// specify one.
const DefaultPort = 443

// ReferenceConfig is the trust anchor for an evaluation: the target to
// connect to and the three pinned certificates its presented chain must
// match. Certificate fields are stored with all whitespace stripped, so
// pinning compares content rather than formatting. Treat values as
// immutable once constructed.
//
// The JSON field names match the payload stored in the secret store.
type ReferenceConfig struct {
	// URL is the hostname of the pinned server. Required.
	URL string `json:"URL"`

	// Port is the TCP port to connect to. Defaults to 443.
	Port int `json:"Port"`

	// ServerCert is the pinned leaf certificate, whitespace-stripped PEM.
	// Empty means the position is not yet pinned and can never match.
	ServerCert string `json:"ServerCert"`

	// IntermediateCert is the pinned first intermediate certificate.
	IntermediateCert string `json:"IntermediateCert"`

	// RootCert is the pinned root certificate.
	RootCert string `json:"RootCert"`
}

// NewReferenceConfig builds a validated, normalized ReferenceConfig.
// The three certificate values have all whitespace stripped exactly once
// here; stripping is idempotent, so re-normalizing a stored config is safe.
func NewReferenceConfig(url string, port int, serverCert, intermediateCert, rootCert string) (*ReferenceConfig, error) {
	if port == 0 {
		port = DefaultPort
	}

	cfg := &ReferenceConfig{
		URL:              strings.TrimSpace(url),
		Port:             port,
		ServerCert:       StripWhitespace(serverCert),
		IntermediateCert: StripWhitespace(intermediateCert),
		RootCert:         StripWhitespace(rootCert),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParseReferenceConfig decodes the JSON payload stored in the secret store
// and returns a validated, normalized ReferenceConfig.
func ParseReferenceConfig(data []byte) (*ReferenceConfig, error) {
	var raw ReferenceConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return NewReferenceConfig(raw.URL, raw.Port, raw.ServerCert, raw.IntermediateCert, raw.RootCert)
}

// Validate checks the required fields. It does not inspect the certificate
// values; an empty pin is a valid (if unmatched) configuration state.
func (c *ReferenceConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("%w: URL is required", ErrInvalidConfig)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}
	return nil
}

// Normalized returns a copy with the certificate fields whitespace-stripped.
// Construction already normalizes; the evaluator calls this anyway so the
// comparison never depends on who built the config.
func (c *ReferenceConfig) Normalized() *ReferenceConfig {
	out := *c
	out.ServerCert = StripWhitespace(c.ServerCert)
	out.IntermediateCert = StripWhitespace(c.IntermediateCert)
	out.RootCert = StripWhitespace(c.RootCert)
	return &out
}

// StripWhitespace removes every whitespace character from s, including line
// breaks inside PEM bodies. Idempotent.
func StripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
