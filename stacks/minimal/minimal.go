// Package minimal declares the smallest useful site stack: one private
// bucket named after the deploying account and region.
package minimal

import (
	"github.com/lex00/wetwire-mkdocs-go/intrinsics"
	"github.com/lex00/wetwire-mkdocs-go/resources/s3"
	"github.com/lex00/wetwire-mkdocs-go/stack"
)

// StackID is the logical id the entry point uses for this stack.
const StackID = "MkdocsS3Stack"

// BucketID is the logical id of the bucket.
const BucketID = "MkdocsS3Bucket"

// BucketNameFormat resolves at deploy time to a globally unique name.
const BucketNameFormat = "mkdocs-s3-bucket-${AWS::AccountId}-${AWS::Region}"

// Minimal is the declared stack.
type Minimal struct {
	*stack.Stack
	Bucket *s3.Bucket
}

// New declares the stack under id.
func New(id string) *Minimal {
	st := stack.New(id, "Private S3 bucket for a MkDocs site")

	bucket := &s3.Bucket{
		BucketName:                     intrinsics.Sub{String: BucketNameFormat},
		AccessControl:                  s3.AccessControlPrivate,
		PublicAccessBlockConfiguration: s3.BlockAll(),
	}
	st.Add(BucketID, bucket, stack.Retain())

	return &Minimal{Stack: st, Bucket: bucket}
}
