// Copyright 2026 TaurusAlpha
// SPDX-License-Identifier: MIT

// The authorizer binary is the AWS Lambda entrypoint for the certificate
// pinning custom authorizer. Configuration comes from the environment:
//
//	secret_name   name or ARN of the Secrets Manager secret holding the
//	              reference configuration (required; requests are denied
//	              when unset)
//	logger_level  slog level (DEBUG, INFO, WARN, ERROR; default INFO)
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/TaurusAlpha/aws-lambda-ssl-pinning/pkg/pinning"
	"github.com/TaurusAlpha/aws-lambda-ssl-pinning/pkg/secrets"
)

func main() {
	logger := newLogger()
	slog.SetDefault(logger)

	evaluator := buildEvaluator(context.Background(), logger)

	lambda.Start(NewHandler(evaluator, logger).Handle)
}

// buildEvaluator wires the Secrets Manager source into a pinning evaluator
// at cold start. Misconfiguration is logged, not fatal: the handler denies
// requests when no evaluator exists, so the function stays available.
func buildEvaluator(ctx context.Context, logger *slog.Logger) Evaluator {
	secretName := os.Getenv("secret_name")
	if secretName == "" {
		logger.Error("secret_name environment variable is not set")
		return nil
	}

	source, err := secrets.NewSecretsManagerSource(ctx, &secrets.SecretsManagerConfig{
		SecretName: secretName,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("secrets manager source unavailable", "error", err)
		return nil
	}

	evaluator, err := pinning.NewEvaluator(&pinning.EvaluatorConfig{
		Source: source,
		Logger: logger,
	})
	if err != nil {
		logger.Error("evaluator construction failed", "error", err)
		return nil
	}

	return evaluator
}

// newLogger builds a JSON slog logger at the level named by the
// logger_level environment variable.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToUpper(os.Getenv("logger_level")) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
