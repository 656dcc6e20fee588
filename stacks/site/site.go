// Package site declares the complete MkDocs hosting stack: a private
// bucket served only through a CloudFront distribution, with a
// Lambda@Edge function mapping directory URLs to their index document.
package site

import (
	"fmt"

	"github.com/lex00/wetwire-mkdocs-go/config"
	"github.com/lex00/wetwire-mkdocs-go/edge"
	. "github.com/lex00/wetwire-mkdocs-go/intrinsics"
	"github.com/lex00/wetwire-mkdocs-go/resources/cloudfront"
	"github.com/lex00/wetwire-mkdocs-go/resources/iam"
	"github.com/lex00/wetwire-mkdocs-go/resources/lambda"
	"github.com/lex00/wetwire-mkdocs-go/resources/s3"
	"github.com/lex00/wetwire-mkdocs-go/stack"
)

// StackID is the logical id the entry point uses for this stack.
const StackID = "MkdocsS3CloudfrontStack"

// Logical ids.
const (
	BucketNameParam = "BucketName"
	IndexPageParam  = "IndexPage"

	BucketID             = "Bucket"
	RoleID               = "RewriteFunctionServiceRole"
	GrantID              = "RewriteFunctionServiceRoleDefaultPolicy"
	FunctionID           = "RewriteFunction"
	VersionPrefix        = "RewriteFunctionCurrentVersion"
	OriginAccessID       = "OriginAccessControl"
	DistributionID       = "Distribution"
	BucketPolicyID       = "BucketPolicy"
	BucketNameOutputID   = "BucketNameOutput"
	DistributionIdOutput = "DistributionId"
	DomainNameOutput     = "DistributionDomainName"
)

// Fixed names and values.
const (
	FunctionName        = "mkdocs-bucket-edge-function"
	FunctionDescription = "Lambda@Edge function to rewrite URLs for MkDocs"
	OACName             = "mkdocsOAC"
	OriginID            = "BucketOrigin"

	// BucketNamePattern is the S3 bucket naming rule.
	BucketNamePattern = `^[a-z0-9][a-z0-9.-]*[a-z0-9]$`

	// IndexPagePattern keeps the index document safe to embed in the
	// handler's string literal.
	IndexPagePattern = `^[A-Za-z0-9._/-]+$`
)

// Site is the declared stack. The fields are the declared resources.
type Site struct {
	*stack.Stack

	BucketName *Parameter
	IndexPage  *Parameter

	Bucket       *s3.Bucket
	Role         *iam.Role
	Grant        *iam.Policy
	Function     *lambda.Function
	Version      *lambda.Version
	OAC          *cloudfront.OriginAccessControl
	Distribution *cloudfront.Distribution
	BucketPolicy *s3.BucketPolicy
}

// DefaultBucketName is the BucketName parameter default for cfg.
func DefaultBucketName(cfg config.Config) string {
	return fmt.Sprintf("mkdocs-bucket-%s-%s", cfg.Account, cfg.Region)
}

// New declares the stack under id for the deployment target cfg. It
// fails when cfg is incomplete rather than baking placeholder values
// into the template.
func New(id string, cfg config.Config) (*Site, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("site %s: %w", id, err)
	}

	s := &Site{Stack: stack.New(id, "MkDocs site served from a private S3 bucket through CloudFront")}
	s.parameters(cfg)
	s.storage()
	if err := s.rewriteFunction(); err != nil {
		return nil, fmt.Errorf("site %s: %w", id, err)
	}
	s.distribution()
	s.bucketPolicy()
	s.outputs()
	return s, nil
}

func (s *Site) parameters(cfg config.Config) {
	s.BucketName = &Parameter{
		Type:                  "String",
		Description:           "The name for your S3 bucket.",
		Default:               DefaultBucketName(cfg),
		AllowedPattern:        BucketNamePattern,
		ConstraintDescription: "Bucket names use lowercase letters, digits, dots and hyphens.",
		MinLength:             IntPtr(3),
		MaxLength:             IntPtr(63),
	}
	s.Parameter(BucketNameParam, s.BucketName)

	s.IndexPage = &Parameter{
		Type:                  "String",
		Description:           "The page for your index document.",
		Default:               edge.DefaultIndexDocument,
		AllowedPattern:        IndexPagePattern,
		ConstraintDescription: "Index pages use letters, digits, dots, underscores, slashes and hyphens.",
		MinLength:             IntPtr(1),
	}
	s.Parameter(IndexPageParam, s.IndexPage)
}

func (s *Site) storage() {
	s.Bucket = &s3.Bucket{
		BucketName:                     s.BucketName,
		AccessControl:                  s3.AccessControlPrivate,
		BucketEncryption:               s3.S3Managed(),
		PublicAccessBlockConfiguration: s3.BlockAll(),
	}
	s.Add(BucketID, s.Bucket, stack.Retain())
}

func (s *Site) rewriteFunction() error {
	s.Role = &iam.Role{
		AssumeRolePolicyDocument: NewPolicyDocument(PolicyStatement{
			Effect:    Allow,
			Principal: ServicePrincipal{"lambda.amazonaws.com", "edgelambda.amazonaws.com"},
			Action:    "sts:AssumeRole",
		}),
		ManagedPolicyArns: Any(
			Join{Delimiter: "", Values: Any("arn:", AWS_PARTITION, ":iam::aws:policy/service-role/AWSLambdaBasicExecutionRole")},
		),
	}
	s.Add(RoleID, s.Role)

	s.Function = &lambda.Function{
		FunctionName: FunctionName,
		Description:  FunctionDescription,
		Runtime:      lambda.RuntimePython312,
		Handler:      "index.handler",
		Code: &lambda.Function_Code{
			ZipFile: SubWithMap{
				String:    edge.InlineSource,
				Variables: map[string]any{edge.IndexVariable: s.IndexPage},
			},
		},
		Role: s.Role.Arn,
	}
	s.Add(FunctionID, s.Function, stack.DependsOn(GrantID))

	// Read access for the function, as a separate policy on its role.
	s.Grant = &iam.Policy{
		PolicyName: "RewriteFunctionServiceRoleDefaultPolicy",
		PolicyDocument: NewPolicyDocument(PolicyStatement{
			Effect: Allow,
			Action: Any("s3:GetObject*", "s3:GetBucket*", "s3:List*"),
			Resource: Any(
				s.Bucket.Arn,
				Join{Delimiter: "", Values: Any(s.Bucket.Arn, "/*")},
			),
		}),
		Roles: Any(s.Role),
	}
	s.Add(GrantID, s.Grant)

	digest, err := stack.Digest(s.Function)
	if err != nil {
		return fmt.Errorf("hashing %s: %w", FunctionID, err)
	}
	s.Version = &lambda.Version{FunctionName: s.Function}
	s.Add(VersionPrefix+digest, s.Version)
	return nil
}

func (s *Site) distribution() {
	s.OAC = &cloudfront.OriginAccessControl{
		OriginAccessControlConfig: &cloudfront.OriginAccessControl_OriginAccessControlConfig{
			Name:                          OACName,
			Description:                   "Signs CloudFront requests to the MkDocs bucket",
			OriginAccessControlOriginType: cloudfront.OriginTypeS3,
			SigningBehavior:               cloudfront.SigningBehaviorAlways,
			SigningProtocol:               cloudfront.SigningProtocolSigv4,
		},
	}
	s.Add(OriginAccessID, s.OAC)

	s.Distribution = &cloudfront.Distribution{
		DistributionConfig: &cloudfront.Distribution_DistributionConfig{
			Enabled:           true,
			DefaultRootObject: s.IndexPage,
			HttpVersion:       cloudfront.HttpVersionHTTP2,
			Origins: []cloudfront.Distribution_Origin{{
				Id:                    OriginID,
				DomainName:            s.Bucket.RegionalDomainName,
				OriginAccessControlId: s.OAC.Id,
				S3OriginConfig:        cloudfront.WithoutOriginAccessIdentity(),
			}},
			DefaultCacheBehavior: &cloudfront.Distribution_DefaultCacheBehavior{
				TargetOriginId:       OriginID,
				ViewerProtocolPolicy: cloudfront.ViewerProtocolPolicyRedirectToHTTPS,
				AllowedMethods:       cloudfront.AllowGetHead(),
				CachedMethods:        cloudfront.AllowGetHead(),
				Compress:             true,
				CachePolicyId:        cloudfront.CachePolicyCachingOptimized,
				LambdaFunctionAssociations: []cloudfront.Distribution_LambdaFunctionAssociation{{
					EventType:         cloudfront.EventTypeOriginRequest,
					LambdaFunctionARN: s.Version,
				}},
			},
		},
	}
	s.Add(DistributionID, s.Distribution)
}

func (s *Site) bucketPolicy() {
	objects := Join{Delimiter: "", Values: Any(s.Bucket.Arn, "/*")}

	s.BucketPolicy = &s3.BucketPolicy{
		Bucket: s.Bucket,
		PolicyDocument: NewPolicyDocument(
			PolicyStatement{
				Effect:    Deny,
				Principal: AWSPrincipal{AllPrincipal},
				Action:    "s3:*",
				Resource:  Any(s.Bucket.Arn, objects),
				Condition: Json{
					Bool: Json{SecureTransportKey: "false"},
				},
			},
			PolicyStatement{
				Effect:    Allow,
				Principal: ServicePrincipal{"cloudfront.amazonaws.com"},
				Action:    "s3:GetObject",
				Resource:  objects,
				Condition: Json{
					StringEquals: Json{
						SourceArnKey: Sub{String: "arn:${AWS::Partition}:cloudfront::${AWS::AccountId}:distribution/${" + DistributionID + "}"},
					},
				},
			},
		),
	}
	s.Add(BucketPolicyID, s.BucketPolicy)
}

func (s *Site) outputs() {
	s.Output(BucketNameOutputID, stack.Output{
		Description: "Name of the S3 bucket",
		Value:       s.Bucket,
	})
	s.Output(DistributionIdOutput, stack.Output{
		Description: "CloudFront Distribution ID",
		Value:       s.Distribution,
	})
	s.Output(DomainNameOutput, stack.Output{
		Description: "CloudFront Distribution Domain Name",
		Value:       s.Distribution.DomainName,
	})
}
