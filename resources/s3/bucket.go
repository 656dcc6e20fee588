package s3

import (
	wetwire "github.com/lex00/wetwire-mkdocs-go"
)

// Canned ACLs.
const (
	AccessControlPrivate = "Private"
)

// Server-side encryption algorithms.
const (
	SSEAlgorithmAES256 = "AES256"
	SSEAlgorithmKMS    = "aws:kms"
)

// Bucket represents an AWS::S3::Bucket resource.
type Bucket struct {
	wetwire.LogicalRef `json:"-"`

	// BucketName is the name of the bucket.
	BucketName any `json:"BucketName,omitempty"`

	// AccessControl is a canned ACL that grants predefined permissions.
	AccessControl any `json:"AccessControl,omitempty"`

	// BucketEncryption configures default server-side encryption.
	BucketEncryption *Bucket_BucketEncryption `json:"BucketEncryption,omitempty"`

	// PublicAccessBlockConfiguration limits public access to the bucket.
	PublicAccessBlockConfiguration *Bucket_PublicAccessBlockConfiguration `json:"PublicAccessBlockConfiguration,omitempty"`

	// VersioningConfiguration enables object versioning.
	VersioningConfiguration *Bucket_VersioningConfiguration `json:"VersioningConfiguration,omitempty"`

	// OwnershipControls configures object ownership.
	OwnershipControls *Bucket_OwnershipControls `json:"OwnershipControls,omitempty"`

	// Tags are key-value pairs to apply to the bucket.
	Tags []any `json:"Tags,omitempty"`

	// Arn is the ARN of the bucket.
	Arn wetwire.AttrRef `json:"-"`
	// DomainName is the IPv4 DNS name of the bucket.
	DomainName wetwire.AttrRef `json:"-"`
	// RegionalDomainName is the regional domain name of the bucket.
	RegionalDomainName wetwire.AttrRef `json:"-"`
	// DualStackDomainName is the IPv6 DNS name of the bucket.
	DualStackDomainName wetwire.AttrRef `json:"-"`
	// WebsiteURL is the Amazon S3 website endpoint of the bucket.
	WebsiteURL wetwire.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (r Bucket) ResourceType() string {
	return "AWS::S3::Bucket"
}

// SetLogicalName names the bucket and derives its attribute references.
func (r *Bucket) SetLogicalName(name string) {
	r.LogicalRef.SetLogicalName(name)
	r.Arn = wetwire.AttrRef{Resource: name, Attribute: "Arn"}
	r.DomainName = wetwire.AttrRef{Resource: name, Attribute: "DomainName"}
	r.RegionalDomainName = wetwire.AttrRef{Resource: name, Attribute: "RegionalDomainName"}
	r.DualStackDomainName = wetwire.AttrRef{Resource: name, Attribute: "DualStackDomainName"}
	r.WebsiteURL = wetwire.AttrRef{Resource: name, Attribute: "WebsiteURL"}
}

// Bucket_BucketEncryption specifies default encryption for a bucket.
type Bucket_BucketEncryption struct {
	ServerSideEncryptionConfiguration []Bucket_ServerSideEncryptionRule `json:"ServerSideEncryptionConfiguration"`
}

// Bucket_ServerSideEncryptionRule specifies the default server-side encryption
// applied to new objects.
type Bucket_ServerSideEncryptionRule struct {
	ServerSideEncryptionByDefault *Bucket_ServerSideEncryptionByDefault `json:"ServerSideEncryptionByDefault,omitempty"`
	BucketKeyEnabled              bool                                  `json:"BucketKeyEnabled,omitempty"`
}

// Bucket_ServerSideEncryptionByDefault describes the default encryption algorithm.
type Bucket_ServerSideEncryptionByDefault struct {
	SSEAlgorithm   any `json:"SSEAlgorithm"`
	KMSMasterKeyID any `json:"KMSMasterKeyID,omitempty"`
}

// Bucket_PublicAccessBlockConfiguration configures the public access block.
type Bucket_PublicAccessBlockConfiguration struct {
	BlockPublicAcls       bool `json:"BlockPublicAcls,omitempty"`
	BlockPublicPolicy     bool `json:"BlockPublicPolicy,omitempty"`
	IgnorePublicAcls      bool `json:"IgnorePublicAcls,omitempty"`
	RestrictPublicBuckets bool `json:"RestrictPublicBuckets,omitempty"`
}

// Bucket_VersioningConfiguration describes the versioning state of a bucket.
type Bucket_VersioningConfiguration struct {
	Status any `json:"Status"`
}

// Bucket_OwnershipControls specifies the container element for object ownership rules.
type Bucket_OwnershipControls struct {
	Rules []Bucket_OwnershipControlsRule `json:"Rules"`
}

// Bucket_OwnershipControlsRule specifies an object ownership rule.
type Bucket_OwnershipControlsRule struct {
	ObjectOwnership any `json:"ObjectOwnership,omitempty"`
}

// BlockAll returns a public access block with every protection enabled.
func BlockAll() *Bucket_PublicAccessBlockConfiguration {
	return &Bucket_PublicAccessBlockConfiguration{
		BlockPublicAcls:       true,
		BlockPublicPolicy:     true,
		IgnorePublicAcls:      true,
		RestrictPublicBuckets: true,
	}
}

// S3Managed returns an encryption configuration using S3-managed keys (SSE-S3).
func S3Managed() *Bucket_BucketEncryption {
	return &Bucket_BucketEncryption{
		ServerSideEncryptionConfiguration: []Bucket_ServerSideEncryptionRule{
			{
				ServerSideEncryptionByDefault: &Bucket_ServerSideEncryptionByDefault{
					SSEAlgorithm: SSEAlgorithmAES256,
				},
			},
		},
	}
}
