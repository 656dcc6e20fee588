package cloudfront

import (
	wetwire "github.com/lex00/wetwire-mkdocs-go"
)

// Origin access control values.
const (
	OriginTypeS3          = "s3"
	SigningBehaviorAlways = "always"
	SigningBehaviorNever  = "never"
	SigningProtocolSigv4  = "sigv4"
)

// OriginAccessControl represents an AWS::CloudFront::OriginAccessControl resource.
type OriginAccessControl struct {
	wetwire.LogicalRef `json:"-"`

	// OriginAccessControlConfig is the origin access control.
	OriginAccessControlConfig *OriginAccessControl_OriginAccessControlConfig `json:"OriginAccessControlConfig"`

	// Id is the unique identifier of the origin access control.
	Id wetwire.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (r OriginAccessControl) ResourceType() string {
	return "AWS::CloudFront::OriginAccessControl"
}

// SetLogicalName names the origin access control and derives its attribute references.
func (r *OriginAccessControl) SetLogicalName(name string) {
	r.LogicalRef.SetLogicalName(name)
	r.Id = wetwire.AttrRef{Resource: name, Attribute: "Id"}
}

// OriginAccessControl_OriginAccessControlConfig describes how CloudFront
// signs requests to the origin.
type OriginAccessControl_OriginAccessControlConfig struct {
	Name                          any `json:"Name"`
	Description                   any `json:"Description,omitempty"`
	OriginAccessControlOriginType any `json:"OriginAccessControlOriginType"`
	SigningBehavior               any `json:"SigningBehavior"`
	SigningProtocol               any `json:"SigningProtocol"`
}
