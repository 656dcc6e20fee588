package s3

import (
	wetwire "github.com/lex00/wetwire-mkdocs-go"
)

// BucketPolicy represents an AWS::S3::BucketPolicy resource.
type BucketPolicy struct {
	wetwire.LogicalRef `json:"-"`

	// Bucket is the bucket the policy applies to.
	Bucket any `json:"Bucket"`

	// PolicyDocument is the policy to attach.
	PolicyDocument any `json:"PolicyDocument"`
}

// ResourceType returns the CloudFormation type.
func (r BucketPolicy) ResourceType() string {
	return "AWS::S3::BucketPolicy"
}
