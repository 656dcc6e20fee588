package cloudfront

import (
	wetwire "github.com/lex00/wetwire-mkdocs-go"
)

// Viewer protocol policies.
const (
	ViewerProtocolPolicyAllowAll        = "allow-all"
	ViewerProtocolPolicyHTTPSOnly       = "https-only"
	ViewerProtocolPolicyRedirectToHTTPS = "redirect-to-https"
)

// HTTP versions.
const (
	HttpVersionHTTP1_1 = "http1.1"
	HttpVersionHTTP2   = "http2"
	HttpVersionHTTP3   = "http3"
)

// Lambda@Edge event types.
const (
	EventTypeViewerRequest  = "viewer-request"
	EventTypeOriginRequest  = "origin-request"
	EventTypeOriginResponse = "origin-response"
	EventTypeViewerResponse = "viewer-response"
)

// Managed cache policy IDs.
const (
	CachePolicyCachingOptimized = "658327ea-f89d-4fab-a63d-7e88639e58f6"
	CachePolicyCachingDisabled  = "4135ea2d-6df8-44a3-9df3-4b5a84be39ad"
)

// AllowGetHead returns the read-only allowed methods list.
func AllowGetHead() []any {
	return []any{"GET", "HEAD"}
}

// Distribution represents an AWS::CloudFront::Distribution resource.
type Distribution struct {
	wetwire.LogicalRef `json:"-"`

	// DistributionConfig is the distribution's configuration.
	DistributionConfig *Distribution_DistributionConfig `json:"DistributionConfig"`

	// Tags are key-value pairs to apply to the distribution.
	Tags []any `json:"Tags,omitempty"`

	// Id is the identifier of the distribution.
	Id wetwire.AttrRef `json:"-"`
	// DomainName is the domain name of the distribution (d111111abcdef8.cloudfront.net).
	DomainName wetwire.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (r Distribution) ResourceType() string {
	return "AWS::CloudFront::Distribution"
}

// SetLogicalName names the distribution and derives its attribute references.
func (r *Distribution) SetLogicalName(name string) {
	r.LogicalRef.SetLogicalName(name)
	r.Id = wetwire.AttrRef{Resource: name, Attribute: "Id"}
	r.DomainName = wetwire.AttrRef{Resource: name, Attribute: "DomainName"}
}

// Distribution_DistributionConfig is the configuration of a distribution.
type Distribution_DistributionConfig struct {
	Enabled              any                                  `json:"Enabled"`
	Comment              any                                  `json:"Comment,omitempty"`
	DefaultRootObject    any                                  `json:"DefaultRootObject,omitempty"`
	HttpVersion          any                                  `json:"HttpVersion,omitempty"`
	IPV6Enabled          any                                  `json:"IPV6Enabled,omitempty"`
	PriceClass           any                                  `json:"PriceClass,omitempty"`
	Origins              []Distribution_Origin                `json:"Origins,omitempty"`
	DefaultCacheBehavior *Distribution_DefaultCacheBehavior   `json:"DefaultCacheBehavior"`
	CustomErrorResponses []Distribution_CustomErrorResponse   `json:"CustomErrorResponses,omitempty"`
}

// Distribution_Origin is an origin the distribution fetches content from.
type Distribution_Origin struct {
	Id                    any                          `json:"Id"`
	DomainName            any                          `json:"DomainName"`
	OriginPath            any                          `json:"OriginPath,omitempty"`
	OriginAccessControlId any                          `json:"OriginAccessControlId,omitempty"`
	S3OriginConfig        *Distribution_S3OriginConfig `json:"S3OriginConfig,omitempty"`
}

// Distribution_S3OriginConfig configures an S3 origin.
type Distribution_S3OriginConfig struct {
	OriginAccessIdentity any `json:"OriginAccessIdentity,omitempty"`
}

// WithoutOriginAccessIdentity returns the S3 origin config used together
// with an origin access control: the legacy identity is explicitly empty.
func WithoutOriginAccessIdentity() *Distribution_S3OriginConfig {
	return &Distribution_S3OriginConfig{OriginAccessIdentity: ""}
}

// Distribution_DefaultCacheBehavior is the behavior used when no other
// cache behavior matches.
type Distribution_DefaultCacheBehavior struct {
	TargetOriginId             any                                     `json:"TargetOriginId"`
	ViewerProtocolPolicy       any                                     `json:"ViewerProtocolPolicy"`
	AllowedMethods             []any                                   `json:"AllowedMethods,omitempty"`
	CachedMethods              []any                                   `json:"CachedMethods,omitempty"`
	Compress                   bool                                    `json:"Compress,omitempty"`
	CachePolicyId              any                                     `json:"CachePolicyId,omitempty"`
	LambdaFunctionAssociations []Distribution_LambdaFunctionAssociation `json:"LambdaFunctionAssociations,omitempty"`
}

// Distribution_LambdaFunctionAssociation attaches a Lambda@Edge function
// version to a cache behavior.
type Distribution_LambdaFunctionAssociation struct {
	EventType         any  `json:"EventType"`
	LambdaFunctionARN any  `json:"LambdaFunctionARN"`
	IncludeBody       bool `json:"IncludeBody,omitempty"`
}

// Distribution_CustomErrorResponse maps an origin error to a custom response.
type Distribution_CustomErrorResponse struct {
	ErrorCode          int `json:"ErrorCode"`
	ResponseCode       int `json:"ResponseCode,omitempty"`
	ResponsePagePath   any `json:"ResponsePagePath,omitempty"`
	ErrorCachingMinTTL int `json:"ErrorCachingMinTTL,omitempty"`
}
