package intrinsics

import (
	"encoding/json"
)

// Json is a shorthand for map[string]any.
// Used for inline JSON objects like Condition blocks.
//
//	Condition: Json{
//	    Bool: Json{"aws:SecureTransport": "false"},
//	}
type Json = map[string]any

// Any creates a []any slice from the given items.
//
//	Resource: Any(bucket.Arn, Join{Delimiter: "", Values: Any(bucket.Arn, "/*")})
func Any(items ...any) []any {
	return items
}

// PolicyVersion is the IAM policy language version every document uses.
const PolicyVersion = "2012-10-17"

// PolicyDocument represents an IAM policy document.
type PolicyDocument struct {
	Version   string `json:"Version,omitempty"`
	Statement []any  `json:"Statement"`
}

// NewPolicyDocument creates a PolicyDocument with the default version.
func NewPolicyDocument(statements ...any) PolicyDocument {
	return PolicyDocument{Version: PolicyVersion, Statement: statements}
}

// PolicyStatement represents an IAM policy statement.
//
//	PolicyStatement{
//	    Effect:    Allow,
//	    Principal: ServicePrincipal{"cloudfront.amazonaws.com"},
//	    Action:    "s3:GetObject",
//	}
type PolicyStatement struct {
	Sid       string `json:"Sid,omitempty"`
	Effect    string `json:"Effect"`
	Principal any    `json:"Principal,omitempty"`
	Action    any    `json:"Action,omitempty"`
	Resource  any    `json:"Resource,omitempty"`
	Condition Json   `json:"Condition,omitempty"`
}

// Statement effects.
const (
	Allow = "Allow"
	Deny  = "Deny"
)

// ServicePrincipal represents a service principal (e.g., lambda.amazonaws.com).
// Serializes to {"Service": ...} format.
//
//	ServicePrincipal{"cloudfront.amazonaws.com"}
//	ServicePrincipal{"lambda.amazonaws.com", "edgelambda.amazonaws.com"}
type ServicePrincipal []any

// MarshalJSON serializes to {"Service": ...} format.
func (p ServicePrincipal) MarshalJSON() ([]byte, error) {
	if len(p) == 1 {
		return json.Marshal(map[string]any{"Service": p[0]})
	}
	return json.Marshal(map[string]any{"Service": []any(p)})
}

// AWSPrincipal represents an AWS account/role/user principal.
// Serializes to {"AWS": ...} format.
type AWSPrincipal []any

// MarshalJSON serializes to {"AWS": ...} format.
func (p AWSPrincipal) MarshalJSON() ([]byte, error) {
	if len(p) == 1 {
		return json.Marshal(map[string]any{"AWS": p[0]})
	}
	return json.Marshal(map[string]any{"AWS": []any(p)})
}

// AllPrincipal represents the wildcard principal "*".
const AllPrincipal = "*"

// IAM condition operators.
const (
	StringEquals    = "StringEquals"
	StringNotEquals = "StringNotEquals"
	StringLike      = "StringLike"
	ArnEquals       = "ArnEquals"
	ArnLike         = "ArnLike"
	Bool            = "Bool"
)

// IAM condition keys.
const (
	// SourceArnKey is the global condition key carrying the ARN of the
	// resource making a service-to-service request.
	SourceArnKey = "AWS:SourceArn"

	// SecureTransportKey is true when the request was sent over TLS.
	SecureTransportKey = "aws:SecureTransport"
)
