package lambda

import (
	wetwire "github.com/lex00/wetwire-mkdocs-go"
)

// Version represents an AWS::Lambda::Version resource. A Ref to a version
// resolves to its qualified ARN, which is what CloudFront edge
// associations require.
type Version struct {
	wetwire.LogicalRef `json:"-"`

	FunctionName any `json:"FunctionName"`
	Description  any `json:"Description,omitempty"`

	// Version is the published version number.
	Version wetwire.AttrRef `json:"-"`
	// FunctionArn is the qualified ARN of the version.
	FunctionArn wetwire.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (r Version) ResourceType() string {
	return "AWS::Lambda::Version"
}

// SetLogicalName names the version and derives its attribute references.
func (r *Version) SetLogicalName(name string) {
	r.LogicalRef.SetLogicalName(name)
	r.Version = wetwire.AttrRef{Resource: name, Attribute: "Version"}
	r.FunctionArn = wetwire.AttrRef{Resource: name, Attribute: "FunctionArn"}
}
