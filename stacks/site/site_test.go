package site

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wetwire "github.com/lex00/wetwire-mkdocs-go"
	"github.com/lex00/wetwire-mkdocs-go/config"
	"github.com/lex00/wetwire-mkdocs-go/edge"
	"github.com/lex00/wetwire-mkdocs-go/internal/template"
)

var testConfig = config.Config{Account: "123456789012", Region: "us-east-1"}

func synth(t *testing.T) (*Site, *wetwire.Template) {
	t.Helper()
	s, err := New(StackID, testConfig)
	require.NoError(t, err)
	tmpl, err := s.Synth()
	require.NoError(t, err)
	return s, tmpl
}

func props(t *testing.T, tmpl *wetwire.Template, name string) map[string]any {
	t.Helper()
	res, ok := tmpl.Resources[name]
	require.True(t, ok, "missing resource %s", name)
	return res.Properties
}

func TestNew_RequiresConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		missing []error
	}{
		{"nothing", config.Config{}, []error{config.ErrMissingAccount, config.ErrMissingRegion}},
		{"no account", config.Config{Region: "us-east-1"}, []error{config.ErrMissingAccount}},
		{"no region", config.Config{Account: "123456789012"}, []error{config.ErrMissingRegion}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(StackID, tt.cfg)
			require.Error(t, err)
			assert.Nil(t, s)
			for _, want := range tt.missing {
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestSynth_Resources(t *testing.T) {
	s, tmpl := synth(t)

	types := map[string]string{}
	for name, res := range tmpl.Resources {
		types[name] = res.Type
	}
	assert.Equal(t, map[string]string{
		BucketID:                   "AWS::S3::Bucket",
		RoleID:                     "AWS::IAM::Role",
		GrantID:                    "AWS::IAM::Policy",
		FunctionID:                 "AWS::Lambda::Function",
		s.Version.LogicalName():    "AWS::Lambda::Version",
		OriginAccessID:             "AWS::CloudFront::OriginAccessControl",
		DistributionID:             "AWS::CloudFront::Distribution",
		BucketPolicyID:             "AWS::S3::BucketPolicy",
	}, types)
	assert.True(t, strings.HasPrefix(s.Version.LogicalName(), VersionPrefix))
	assert.Len(t, s.Version.LogicalName(), len(VersionPrefix)+16)
}

func TestSynth_DefaultBucketName(t *testing.T) {
	_, tmpl := synth(t)

	param := tmpl.Parameters[BucketNameParam]
	assert.Equal(t, "mkdocs-bucket-123456789012-us-east-1", param.Default)
	assert.Equal(t, BucketNamePattern, param.AllowedPattern)
	assert.Equal(t, 3, *param.MinLength)
	assert.Equal(t, 63, *param.MaxLength)

	assert.Equal(t, "index.html", tmpl.Parameters[IndexPageParam].Default)
	assert.Equal(t, IndexPagePattern, tmpl.Parameters[IndexPageParam].AllowedPattern)
}

func TestIndexPagePattern(t *testing.T) {
	pattern := regexp.MustCompile(IndexPagePattern)

	tests := []struct {
		value string
		want  bool
	}{
		{"index.html", true},
		{"home.htm", true},
		{"docs/index_v2.html", true},
		{"it's.html", false},
		{"index.html\nimport os", false},
		{"${AWS::Region}", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, pattern.MatchString(tt.value))
		})
	}
}

func TestSynth_BucketIsPrivate(t *testing.T) {
	_, tmpl := synth(t)
	bucket := props(t, tmpl, BucketID)

	assert.Equal(t, map[string]any{"Ref": BucketNameParam}, bucket["BucketName"])
	assert.Equal(t, "Private", bucket["AccessControl"])
	assert.Equal(t, map[string]any{
		"BlockPublicAcls":       true,
		"BlockPublicPolicy":     true,
		"IgnorePublicAcls":      true,
		"RestrictPublicBuckets": true,
	}, bucket["PublicAccessBlockConfiguration"])

	enc := bucket["BucketEncryption"].(map[string]any)
	rules := enc["ServerSideEncryptionConfiguration"].([]any)
	byDefault := rules[0].(map[string]any)["ServerSideEncryptionByDefault"].(map[string]any)
	assert.Equal(t, "AES256", byDefault["SSEAlgorithm"])

	assert.Equal(t, "Retain", tmpl.Resources[BucketID].DeletionPolicy)
	assert.Equal(t, "Retain", tmpl.Resources[BucketID].UpdateReplacePolicy)
}

func TestSynth_BucketIsPrivateForAnyParameters(t *testing.T) {
	for _, cfg := range []config.Config{
		{Account: "111111111111", Region: "eu-west-1"},
		{Account: "222222222222", Region: "ap-southeast-2"},
	} {
		s, err := New(StackID, cfg)
		require.NoError(t, err)
		tmpl, err := s.Synth()
		require.NoError(t, err)

		block := props(t, tmpl, BucketID)["PublicAccessBlockConfiguration"].(map[string]any)
		assert.Len(t, block, 4)
		assert.NotEmpty(t, secureTransportStatement(t, tmpl))
	}
}

func statements(t *testing.T, tmpl *wetwire.Template) []map[string]any {
	t.Helper()
	doc := props(t, tmpl, BucketPolicyID)["PolicyDocument"].(map[string]any)
	var out []map[string]any
	for _, st := range doc["Statement"].([]any) {
		out = append(out, st.(map[string]any))
	}
	return out
}

func secureTransportStatement(t *testing.T, tmpl *wetwire.Template) map[string]any {
	for _, st := range statements(t, tmpl) {
		cond, _ := st["Condition"].(map[string]any)
		boolCond, _ := cond["Bool"].(map[string]any)
		if st["Effect"] == "Deny" && boolCond["aws:SecureTransport"] == "false" {
			return st
		}
	}
	return nil
}

func TestSynth_TLSEnforced(t *testing.T) {
	_, tmpl := synth(t)
	st := secureTransportStatement(t, tmpl)
	require.NotNil(t, st)

	assert.Equal(t, "s3:*", st["Action"])
	assert.Equal(t, map[string]any{"AWS": "*"}, st["Principal"])
	assert.Len(t, st["Resource"], 2)
}

func TestSynth_GrantConditionedOnThisDistribution(t *testing.T) {
	_, tmpl := synth(t)

	var grant map[string]any
	for _, st := range statements(t, tmpl) {
		if st["Effect"] == "Allow" {
			require.Nil(t, grant, "expected a single allow statement")
			grant = st
		}
	}
	require.NotNil(t, grant)

	assert.Equal(t, map[string]any{"Service": "cloudfront.amazonaws.com"}, grant["Principal"])
	assert.Equal(t, "s3:GetObject", grant["Action"])
	assert.Equal(t, map[string]any{
		"Fn::Join": []any{"", []any{
			map[string]any{"Fn::GetAtt": []any{BucketID, "Arn"}},
			"/*",
		}},
	}, grant["Resource"])

	cond := grant["Condition"].(map[string]any)["StringEquals"].(map[string]any)
	assert.Equal(t, map[string]any{
		"Fn::Sub": "arn:${AWS::Partition}:cloudfront::${AWS::AccountId}:distribution/${Distribution}",
	}, cond["AWS:SourceArn"])
}

func TestSynth_OriginAccessControl(t *testing.T) {
	_, tmpl := synth(t)
	cfg := props(t, tmpl, OriginAccessID)["OriginAccessControlConfig"].(map[string]any)

	assert.Equal(t, "mkdocsOAC", cfg["Name"])
	assert.Equal(t, "s3", cfg["OriginAccessControlOriginType"])
	assert.Equal(t, "always", cfg["SigningBehavior"])
	assert.Equal(t, "sigv4", cfg["SigningProtocol"])
}

func TestSynth_Distribution(t *testing.T) {
	s, tmpl := synth(t)
	cfg := props(t, tmpl, DistributionID)["DistributionConfig"].(map[string]any)

	assert.Equal(t, true, cfg["Enabled"])
	assert.Equal(t, "http2", cfg["HttpVersion"])
	assert.Equal(t, map[string]any{"Ref": IndexPageParam}, cfg["DefaultRootObject"])

	origins := cfg["Origins"].([]any)
	require.Len(t, origins, 1)
	origin := origins[0].(map[string]any)
	assert.Equal(t, map[string]any{"Fn::GetAtt": []any{BucketID, "RegionalDomainName"}}, origin["DomainName"])
	assert.Equal(t, map[string]any{"Fn::GetAtt": []any{OriginAccessID, "Id"}}, origin["OriginAccessControlId"])
	assert.Equal(t, map[string]any{"OriginAccessIdentity": ""}, origin["S3OriginConfig"])

	behavior := cfg["DefaultCacheBehavior"].(map[string]any)
	assert.Equal(t, OriginID, behavior["TargetOriginId"])
	assert.Equal(t, "redirect-to-https", behavior["ViewerProtocolPolicy"])
	assert.Equal(t, []any{"GET", "HEAD"}, behavior["AllowedMethods"])
	assert.Equal(t, true, behavior["Compress"])
	assert.Equal(t, "658327ea-f89d-4fab-a63d-7e88639e58f6", behavior["CachePolicyId"])

	assocs := behavior["LambdaFunctionAssociations"].([]any)
	require.Len(t, assocs, 1)
	assoc := assocs[0].(map[string]any)
	assert.Equal(t, "origin-request", assoc["EventType"])
	assert.Equal(t, map[string]any{"Ref": s.Version.LogicalName()}, assoc["LambdaFunctionARN"])
}

func TestSynth_RewriteFunction(t *testing.T) {
	s, tmpl := synth(t)
	fn := props(t, tmpl, FunctionID)

	assert.Equal(t, FunctionName, fn["FunctionName"])
	assert.Equal(t, FunctionDescription, fn["Description"])
	assert.Equal(t, "python3.12", fn["Runtime"])
	assert.Equal(t, "index.handler", fn["Handler"])
	assert.Equal(t, map[string]any{"Fn::GetAtt": []any{RoleID, "Arn"}}, fn["Role"])
	assert.Equal(t, []string{GrantID}, tmpl.Resources[FunctionID].DependsOn)

	code := fn["Code"].(map[string]any)["ZipFile"].(map[string]any)
	sub := code["Fn::Sub"].([]any)
	assert.Equal(t, edge.InlineSource, sub[0])
	assert.Equal(t, map[string]any{edge.IndexVariable: map[string]any{"Ref": IndexPageParam}}, sub[1])

	version := props(t, tmpl, s.Version.LogicalName())
	assert.Equal(t, map[string]any{"Ref": FunctionID}, version["FunctionName"])

	role := props(t, tmpl, RoleID)
	assume := role["AssumeRolePolicyDocument"].(map[string]any)["Statement"].([]any)[0].(map[string]any)
	assert.Equal(t, map[string]any{"Service": []any{"lambda.amazonaws.com", "edgelambda.amazonaws.com"}}, assume["Principal"])
	assert.Equal(t, []any{map[string]any{"Fn::Join": []any{"", []any{
		"arn:",
		map[string]any{"Ref": "AWS::Partition"},
		":iam::aws:policy/service-role/AWSLambdaBasicExecutionRole",
	}}}}, role["ManagedPolicyArns"])

	grant := props(t, tmpl, GrantID)
	assert.Equal(t, []any{map[string]any{"Ref": RoleID}}, grant["Roles"])
	stmt := grant["PolicyDocument"].(map[string]any)["Statement"].([]any)[0].(map[string]any)
	assert.Equal(t, []any{"s3:GetObject*", "s3:GetBucket*", "s3:List*"}, stmt["Action"])
}

func TestSynth_Outputs(t *testing.T) {
	_, tmpl := synth(t)

	assert.Equal(t, wetwire.Output{
		Description: "Name of the S3 bucket",
		Value:       map[string]any{"Ref": BucketID},
	}, tmpl.Outputs[BucketNameOutputID])
	assert.Equal(t, wetwire.Output{
		Description: "CloudFront Distribution ID",
		Value:       map[string]any{"Ref": DistributionID},
	}, tmpl.Outputs[DistributionIdOutput])
	assert.Equal(t, wetwire.Output{
		Description: "CloudFront Distribution Domain Name",
		Value:       map[string]any{"Fn::GetAtt": []any{DistributionID, "DomainName"}},
	}, tmpl.Outputs[DomainNameOutput])
}

func TestSynth_DependencyOrder(t *testing.T) {
	s, err := New(StackID, testConfig)
	require.NoError(t, err)
	resources, err := s.Resources()
	require.NoError(t, err)

	pos := map[string]int{}
	for i, r := range resources {
		pos[r.Name] = i
	}
	version := s.Version.LogicalName()

	assert.Less(t, pos[BucketID], pos[GrantID])
	assert.Less(t, pos[GrantID], pos[FunctionID])
	assert.Less(t, pos[FunctionID], pos[version])
	assert.Less(t, pos[OriginAccessID], pos[DistributionID])
	assert.Less(t, pos[version], pos[DistributionID])
	assert.Less(t, pos[DistributionID], pos[BucketPolicyID])
}

func TestSynth_Deterministic(t *testing.T) {
	render := func() []byte {
		_, tmpl := synth(t)
		data, err := template.ToJSON(tmpl)
		require.NoError(t, err)
		return data
	}
	assert.Equal(t, string(render()), string(render()))
}

func TestSynth_VersionFollowsCode(t *testing.T) {
	a, err := New(StackID, testConfig)
	require.NoError(t, err)
	b, err := New(StackID, config.Config{Account: "999999999999", Region: "us-east-1"})
	require.NoError(t, err)

	// The account only reaches the BucketName default, not the function.
	assert.Equal(t, a.Version.LogicalName(), b.Version.LogicalName())
}
