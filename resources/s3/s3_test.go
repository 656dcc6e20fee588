package s3

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wetwire "github.com/lex00/wetwire-mkdocs-go"
)

func TestResourceTypes(t *testing.T) {
	tests := []struct {
		name     string
		resource wetwire.Resource
		expected string
	}{
		{"Bucket", Bucket{}, "AWS::S3::Bucket"},
		{"BucketPolicy", BucketPolicy{}, "AWS::S3::BucketPolicy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.resource.ResourceType())
		})
	}
}

func TestBucket_SetLogicalName(t *testing.T) {
	bucket := &Bucket{}
	bucket.SetLogicalName("Bucket")

	assert.Equal(t, "Bucket", bucket.LogicalName())
	assert.Equal(t, wetwire.AttrRef{Resource: "Bucket", Attribute: "Arn"}, bucket.Arn)
	assert.Equal(t, wetwire.AttrRef{Resource: "Bucket", Attribute: "RegionalDomainName"}, bucket.RegionalDomainName)
}

func TestBucket_AsValueIsRef(t *testing.T) {
	bucket := &Bucket{BucketName: "site"}
	bucket.SetLogicalName("Bucket")

	policy := BucketPolicy{Bucket: bucket}
	data, err := json.Marshal(policy.Bucket)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Ref": "Bucket"}`, string(data))
}

func TestBlockAll(t *testing.T) {
	block := BlockAll()
	assert.True(t, block.BlockPublicAcls)
	assert.True(t, block.BlockPublicPolicy)
	assert.True(t, block.IgnorePublicAcls)
	assert.True(t, block.RestrictPublicBuckets)

	// Each call returns its own copy.
	block.BlockPublicAcls = false
	assert.True(t, BlockAll().BlockPublicAcls)
}

func TestS3Managed(t *testing.T) {
	enc := S3Managed()
	require.Len(t, enc.ServerSideEncryptionConfiguration, 1)
	assert.Equal(t, SSEAlgorithmAES256, enc.ServerSideEncryptionConfiguration[0].ServerSideEncryptionByDefault.SSEAlgorithm)
}
