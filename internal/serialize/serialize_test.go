package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBucket struct {
	BucketName  string            `json:"BucketName,omitempty"`
	Tags        []Tag             `json:"Tags,omitempty"`
	Versioning  *testVersioning   `json:"VersioningConfiguration,omitempty"`
	Environment map[string]string `json:"Environment,omitempty"`
}

type Tag struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

type testVersioning struct {
	Status string `json:"Status"`
}

func TestResource_SimpleStruct(t *testing.T) {
	bucket := testBucket{
		BucketName: "mkdocs-site",
	}

	props, err := Resource(bucket)
	require.NoError(t, err)

	assert.Equal(t, "mkdocs-site", props["BucketName"])
	assert.NotContains(t, props, "Tags")       // Empty slice should be omitted
	assert.NotContains(t, props, "Versioning") // Nil pointer should be omitted
}

func TestResource_WithNestedStruct(t *testing.T) {
	bucket := testBucket{
		BucketName: "mkdocs-site",
		Versioning: &testVersioning{
			Status: "Enabled",
		},
	}

	props, err := Resource(bucket)
	require.NoError(t, err)

	assert.Equal(t, "mkdocs-site", props["BucketName"])

	versioning := props["VersioningConfiguration"].(map[string]any)
	assert.Equal(t, "Enabled", versioning["Status"])
}

func TestResource_WithSlice(t *testing.T) {
	bucket := testBucket{
		BucketName: "mkdocs-site",
		Tags: []Tag{
			{Key: "Environment", Value: "docs"},
			{Key: "Team", Value: "mkdocs"},
		},
	}

	props, err := Resource(bucket)
	require.NoError(t, err)

	tags := props["Tags"].([]any)
	assert.Len(t, tags, 2)

	tag0 := tags[0].(map[string]any)
	assert.Equal(t, "Environment", tag0["Key"])
	assert.Equal(t, "docs", tag0["Value"])
}

func TestResource_WithMap(t *testing.T) {
	bucket := testBucket{
		BucketName: "mkdocs-site",
		Environment: map[string]string{
			"BUCKET_NAME": "mkdocs-site",
			"REGION":      "us-east-1",
		},
	}

	props, err := Resource(bucket)
	require.NoError(t, err)

	env := props["Environment"].(map[string]any)
	assert.Equal(t, "mkdocs-site", env["BUCKET_NAME"])
	assert.Equal(t, "us-east-1", env["REGION"])
}

func TestResource_OmitsZeroValues(t *testing.T) {
	bucket := testBucket{
		BucketName: "", // Empty string
		Tags:       nil,
		Versioning: nil,
	}

	props, err := Resource(bucket)
	require.NoError(t, err)

	// nothing set, nothing emitted
	assert.Empty(t, props)
}

func TestResource_WithPointer(t *testing.T) {
	bucket := &testBucket{
		BucketName: "mkdocs-site",
	}

	props, err := Resource(bucket)
	require.NoError(t, err)

	assert.Equal(t, "mkdocs-site", props["BucketName"])
}

type refValue struct{ name string }

func (r refValue) MarshalJSON() ([]byte, error) {
	return []byte(`{"Ref":"` + r.name + `"}`), nil
}

type testPolicy struct {
	Bucket any `json:"Bucket"`
	Hidden any `json:"-"`
}

func TestResource_MarshalerAndSkippedField(t *testing.T) {
	props, err := Resource(&testPolicy{Bucket: refValue{"Bucket"}, Hidden: "x"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"Ref": "Bucket"}, props["Bucket"])
	assert.NotContains(t, props, "Hidden")
	assert.Len(t, props, 1)
}

func TestResource_KeepsEmptyStringInInterface(t *testing.T) {
	type origin struct {
		OriginAccessIdentity any `json:"OriginAccessIdentity,omitempty"`
	}
	type wrapper struct {
		S3OriginConfig *origin `json:"S3OriginConfig,omitempty"`
	}

	props, err := Resource(wrapper{S3OriginConfig: &origin{OriginAccessIdentity: ""}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"OriginAccessIdentity": ""}, props["S3OriginConfig"])
}

func TestDigest(t *testing.T) {
	a, err := Digest(map[string]any{"Runtime": "python3.12", "Handler": "index.handler"})
	require.NoError(t, err)
	b, err := Digest(map[string]any{"Handler": "index.handler", "Runtime": "python3.12"})
	require.NoError(t, err)
	c, err := Digest(map[string]any{"Handler": "index.handler", "Runtime": "python3.13"})
	require.NoError(t, err)

	assert.Len(t, a, 16)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
