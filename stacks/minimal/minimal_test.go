package minimal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New(StackID)
	tmpl, err := m.Synth()
	require.NoError(t, err)

	assert.Equal(t, StackID, m.ID())
	require.Len(t, tmpl.Resources, 1)
	assert.Empty(t, tmpl.Parameters)
	assert.Empty(t, tmpl.Outputs)

	bucket, ok := tmpl.Resources[BucketID]
	require.True(t, ok)
	assert.Equal(t, "AWS::S3::Bucket", bucket.Type)
	assert.Equal(t, map[string]any{"Fn::Sub": BucketNameFormat}, bucket.Properties["BucketName"])
	assert.Equal(t, "Retain", bucket.DeletionPolicy)
	assert.Equal(t, map[string]any{
		"BlockPublicAcls":       true,
		"BlockPublicPolicy":     true,
		"IgnorePublicAcls":      true,
		"RestrictPublicBuckets": true,
	}, bucket.Properties["PublicAccessBlockConfiguration"])
}

func TestNew_Deterministic(t *testing.T) {
	a, err := New(StackID).Synth()
	require.NoError(t, err)
	b, err := New(StackID).Synth()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
