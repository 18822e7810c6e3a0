// Copyright 2026 TaurusAlpha
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/TaurusAlpha/aws-lambda-ssl-pinning/pkg/pinning"
	"github.com/TaurusAlpha/aws-lambda-ssl-pinning/pkg/policy"
	"github.com/TaurusAlpha/aws-lambda-ssl-pinning/pkg/secrets"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate a reference configuration against the live server",
	Long: `Load a reference configuration from a JSON file, fetch the chain the
pinned server currently presents, and run the same comparison the authorizer
runs. Prints the resulting policy document.

Exit code 0 means Allow; exit code 1 means Deny.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("config", "", "reference configuration JSON file")
	checkCmd.Flags().String("principal", "cli", "principal recorded on the decision")
	checkCmd.Flags().String("resource", "cli:check", "resource recorded on the decision")
	checkCmd.Flags().Duration("timeout", pinning.DefaultFetchTimeout, "dial and handshake timeout")
	checkCmd.Flags().String("dns-server", "", "explicit DNS server for target resolution (e.g., 10.0.0.2:53)")
	checkCmd.Flags().String("ca-file", "", "PEM bundle of trust roots for the handshake (default: system roots)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	principal, _ := cmd.Flags().GetString("principal")
	resource, _ := cmd.Flags().GetString("resource")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	dnsServer, _ := cmd.Flags().GetString("dns-server")
	caFile, _ := cmd.Flags().GetString("ca-file")

	if configPath == "" {
		return fmt.Errorf("%w: --config is required", ErrInvalidInput)
	}
	if timeout <= 0 {
		return fmt.Errorf("%w: --timeout must be positive", ErrInvalidInput)
	}

	rootCAs, err := loadRootCAs(caFile)
	if err != nil {
		return err
	}

	source, err := secrets.NewFileSource(configPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	evaluator, err := pinning.NewEvaluator(&pinning.EvaluatorConfig{
		Source: source,
		Fetcher: pinning.NewTLSFetcher(&pinning.TLSFetcherConfig{
			Timeout:   timeout,
			DNSServer: dnsServer,
			RootCAs:   rootCAs,
		}),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	sigCtx, sigStop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer sigStop()

	ctx, cancel := context.WithTimeout(sigCtx, timeout+time.Second)
	defer cancel()

	decision := evaluator.Evaluate(ctx, principal, resource)

	payload, err := json.MarshalIndent(policy.FromDecision(decision), "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileOperation, err)
	}
	payload = append(payload, '\n')

	if err := writeOutput(payload); err != nil {
		return err
	}

	if !decision.Allowed() {
		return fmt.Errorf("%w: %s may not access %s", ErrDenied, decision.PrincipalID, decision.Resource)
	}
	return nil
}
