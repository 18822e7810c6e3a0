// Copyright 2026 TaurusAlpha
// SPDX-License-Identifier: MIT

// Package policy builds the IAM policy documents an API Gateway custom
// authorizer returns to the enforcement point. The document shape (version
// string, action name) is fixed by the gateway contract and must not
// change.
package policy

import (
	"github.com/TaurusAlpha/aws-lambda-ssl-pinning/pkg/pinning"
)

const (
	// DocumentVersion is the IAM policy language version understood by
	// API Gateway.
	DocumentVersion = "2012-10-17"

	// InvokeAction is the sole action an authorizer decision covers.
	InvokeAction = "execute-api:Invoke"
)

// Statement is a single IAM policy statement.
type Statement struct {
	Action   string `json:"Action"`
	Effect   string `json:"Effect"`
	Resource string `json:"Resource"`
}

// PolicyDocument is the IAM policy attached to an authorizer response.
type PolicyDocument struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// Response is the full authorizer response: the principal the decision was
// made for, and a one-statement policy granting or denying InvokeAction on
// the requested resource.
type Response struct {
	PrincipalID    string         `json:"principalId"`
	PolicyDocument PolicyDocument `json:"policyDocument"`
}

// Document builds an authorizer response for a single decision.
func Document(principalID string, effect pinning.Effect, resource string) Response {
	return Response{
		PrincipalID: principalID,
		PolicyDocument: PolicyDocument{
			Version: DocumentVersion,
			Statement: []Statement{
				{
					Action:   InvokeAction,
					Effect:   string(effect),
					Resource: resource,
				},
			},
		},
	}
}

// FromDecision builds an authorizer response from an evaluation decision.
func FromDecision(d pinning.Decision) Response {
	return Document(d.PrincipalID, d.Effect, d.Resource)
}
