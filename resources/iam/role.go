package iam

import (
	wetwire "github.com/lex00/wetwire-mkdocs-go"
)

// Role represents an AWS::IAM::Role resource.
type Role struct {
	wetwire.LogicalRef `json:"-"`

	RoleName                 any           `json:"RoleName,omitempty"`
	Description              any           `json:"Description,omitempty"`
	AssumeRolePolicyDocument any           `json:"AssumeRolePolicyDocument"`
	ManagedPolicyArns        []any         `json:"ManagedPolicyArns,omitempty"`
	Policies                 []Role_Policy `json:"Policies,omitempty"`
	Path                     any           `json:"Path,omitempty"`
	Tags                     []any         `json:"Tags,omitempty"`

	// Arn is the ARN of the role.
	Arn wetwire.AttrRef `json:"-"`
	// RoleId is the stable ID of the role.
	RoleId wetwire.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (r Role) ResourceType() string {
	return "AWS::IAM::Role"
}

// SetLogicalName names the role and derives its attribute references.
func (r *Role) SetLogicalName(name string) {
	r.LogicalRef.SetLogicalName(name)
	r.Arn = wetwire.AttrRef{Resource: name, Attribute: "Arn"}
	r.RoleId = wetwire.AttrRef{Resource: name, Attribute: "RoleId"}
}

// Role_Policy is an inline policy embedded in a role.
type Role_Policy struct {
	PolicyName     any `json:"PolicyName"`
	PolicyDocument any `json:"PolicyDocument"`
}
