package iam

import (
	wetwire "github.com/lex00/wetwire-mkdocs-go"
)

// Policy represents an AWS::IAM::Policy resource attached to roles.
type Policy struct {
	wetwire.LogicalRef `json:"-"`

	PolicyName     any   `json:"PolicyName"`
	PolicyDocument any   `json:"PolicyDocument"`
	Roles          []any `json:"Roles,omitempty"`
}

// ResourceType returns the CloudFormation type.
func (r Policy) ResourceType() string {
	return "AWS::IAM::Policy"
}
