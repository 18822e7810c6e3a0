// Copyright 2026 TaurusAlpha
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/TaurusAlpha/aws-lambda-ssl-pinning/pkg/pinning"
	"github.com/TaurusAlpha/aws-lambda-ssl-pinning/pkg/policy"
)

// Evaluator is the slice of the pinning evaluator the handler needs.
// Satisfied by *pinning.Evaluator; tests substitute a fake.
type Evaluator interface {
	Evaluate(ctx context.Context, principalID, resource string) pinning.Decision
}

// Handler adapts API Gateway custom-authorizer events to pinning
// evaluations. It never returns an error to the Lambda runtime: a
// well-formed Deny is always preferable to an authorizer failure.
type Handler struct {
	evaluator Evaluator
	logger    *slog.Logger
}

// NewHandler creates a handler. A nil evaluator means the function is
// misconfigured (no secret name); every request is then denied with the
// caller's own identity, matching the configured-but-unreachable contract.
func NewHandler(evaluator Evaluator, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		evaluator: evaluator,
		logger:    logger.With("component", "authorizer_handler"),
	}
}

// Handle evaluates one authorization request. The caller identity is the
// request's source IP; the resource is the invoked method ARN.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayCustomAuthorizerRequestTypeRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
	sourceIP := event.RequestContext.Identity.SourceIP

	h.logger.Info("received authorization request", "source_ip", sourceIP, "method_arn", event.MethodArn)

	if h.evaluator == nil {
		h.logger.Error("no evaluator configured; denying")
		return respond(pinning.Decision{
			PrincipalID: sourceIP,
			Effect:      pinning.EffectDeny,
			Resource:    event.MethodArn,
		}), nil
	}

	decision := h.evaluator.Evaluate(ctx, sourceIP, event.MethodArn)

	h.logger.Info("authorization decision", "principal", decision.PrincipalID, "effect", decision.Effect)

	return respond(decision), nil
}

// respond maps a decision onto the API Gateway authorizer response shape.
func respond(d pinning.Decision) events.APIGatewayCustomAuthorizerResponse {
	doc := policy.FromDecision(d)
	stmt := doc.PolicyDocument.Statement[0]

	return events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: doc.PrincipalID,
		PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
			Version: doc.PolicyDocument.Version,
			Statement: []events.IAMPolicyStatement{
				{
					Action:   []string{stmt.Action},
					Effect:   stmt.Effect,
					Resource: []string{stmt.Resource},
				},
			},
		},
	}
}
