// Copyright 2026 TaurusAlpha
// SPDX-License-Identifier: MIT

// Package secrets provides the reference-configuration lookups the pinning
// evaluator depends on. Three implementations of pinning.ConfigSource are
// provided: AWS Secrets Manager (production), a local JSON file (operator
// tooling), and a static in-memory value (tests and embedding). Each Load
// call reads the store fresh; nothing is cached between evaluations.
package secrets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/TaurusAlpha/aws-lambda-ssl-pinning/pkg/pinning"
)

// SecretsManagerAPI is the slice of the Secrets Manager client this package
// uses. The real *secretsmanager.Client satisfies it; tests substitute a
// fake.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerConfig configures the Secrets Manager source.
type SecretsManagerConfig struct {
	// SecretName is the name or ARN of the secret holding the JSON
	// reference-configuration payload. Required.
	SecretName string

	// Client is the Secrets Manager API client. If nil, a client is built
	// from the default AWS configuration chain.
	Client SecretsManagerAPI

	// Logger for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// SecretsManagerSource loads the reference configuration from an AWS
// Secrets Manager secret whose string value is the JSON payload.
type SecretsManagerSource struct {
	secretName string
	client     SecretsManagerAPI
	logger     *slog.Logger
}

// NewSecretsManagerSource creates a Secrets Manager backed source. The
// secret name is required; when no client is supplied one is constructed
// from the ambient AWS configuration (region, credentials).
func NewSecretsManagerSource(ctx context.Context, cfg *SecretsManagerConfig) (*SecretsManagerSource, error) {
	if cfg == nil || cfg.SecretName == "" {
		return nil, fmt.Errorf("%w: secret name required", ErrInvalidSource)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := cfg.Client
	if client == nil {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: load AWS config: %w", ErrInvalidSource, err)
		}
		client = secretsmanager.NewFromConfig(awsCfg)
	}

	return &SecretsManagerSource{
		secretName: cfg.SecretName,
		client:     client,
		logger:     logger.With("component", "secretsmanager_source"),
	}, nil
}

// Load fetches the secret value and parses it into a normalized
// ReferenceConfig.
func (s *SecretsManagerSource) Load(ctx context.Context) (*pinning.ReferenceConfig, error) {
	s.logger.Debug("fetching reference configuration", "secret", s.secretName)

	out, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.secretName),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	if out.SecretString == nil || *out.SecretString == "" {
		return nil, fmt.Errorf("%w: secret %s has no string value", ErrLookupFailed, s.secretName)
	}

	cfg, err := pinning.ParseReferenceConfig([]byte(*out.SecretString))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	return cfg, nil
}
