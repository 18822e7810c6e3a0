// Copyright 2026 TaurusAlpha
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/TaurusAlpha/aws-lambda-ssl-pinning/pkg/pinning"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Print the certificate chain a server presents",
	Long: `Connect to a server, perform a TLS handshake, and print the verified
certificate chain as concatenated PEM, leaf first.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("host", "", "target hostname")
	fetchCmd.Flags().Int("port", pinning.DefaultPort, "target TCP port")
	fetchCmd.Flags().Duration("timeout", pinning.DefaultFetchTimeout, "dial and handshake timeout")
	fetchCmd.Flags().String("dns-server", "", "explicit DNS server for target resolution (e.g., 10.0.0.2:53)")
	fetchCmd.Flags().String("ca-file", "", "PEM bundle of trust roots for the handshake (default: system roots)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	chain, err := fetchLiveChain(cmd)
	if err != nil {
		return err
	}

	var out []byte
	for _, cert := range chain {
		out = append(out, cert...)
	}
	return writeOutput(out)
}

// fetchLiveChain reads the shared target flags and retrieves the chain the
// server currently presents. Shared by fetch and pin.
func fetchLiveChain(cmd *cobra.Command) ([]string, error) {
	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetInt("port")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	dnsServer, _ := cmd.Flags().GetString("dns-server")
	caFile, _ := cmd.Flags().GetString("ca-file")

	if host == "" {
		return nil, fmt.Errorf("%w: --host is required", ErrInvalidInput)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("%w: --timeout must be positive", ErrInvalidInput)
	}

	rootCAs, err := loadRootCAs(caFile)
	if err != nil {
		return nil, err
	}

	fetcher := pinning.NewTLSFetcher(&pinning.TLSFetcherConfig{
		Timeout:   timeout,
		DNSServer: dnsServer,
		RootCAs:   rootCAs,
	})

	sigCtx, sigStop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer sigStop()

	ctx, cancel := context.WithTimeout(sigCtx, timeout+time.Second)
	defer cancel()

	chain, err := fetcher.FetchChain(ctx, host, port)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return chain, nil
}
