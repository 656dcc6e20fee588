package checks

import (
	"fmt"
	"strings"

	wetwire "github.com/lex00/wetwire-mkdocs-go"
	"github.com/lex00/wetwire-mkdocs-go/internal/serialize"
)

const (
	typeBucket       = "AWS::S3::Bucket"
	typeBucketPolicy = "AWS::S3::BucketPolicy"
	typeDistribution = "AWS::CloudFront::Distribution"
	typeOAC          = "AWS::CloudFront::OriginAccessControl"
	typeVersion      = "AWS::Lambda::Version"

	cloudfrontService = "cloudfront.amazonaws.com"
)

// Rules returns the guardrail rule set.
func Rules() []Rule {
	rules := make([]Rule, 0, 9)
	rules = append(rules, bucketRules...)
	rules = append(rules, distributionRules...)
	rules = append(rules, edgeRules...)
	return rules
}

var bucketRules = []Rule{
	{
		ID:       "CHK-S3-001",
		Severity: SeverityError,
		Title:    "Bucket blocks all public access",
		Types:    []string{typeBucket},
		Check: func(name string, res wetwire.ResourceDef, _ *wetwire.Template) []string {
			block, _ := res.Properties["PublicAccessBlockConfiguration"].(map[string]any)
			var missing []string
			for _, flag := range []string{"BlockPublicAcls", "BlockPublicPolicy", "IgnorePublicAcls", "RestrictPublicBuckets"} {
				if block[flag] != true {
					missing = append(missing, flag)
				}
			}
			if len(missing) > 0 {
				return []string{"public access block is missing " + strings.Join(missing, ", ")}
			}
			return nil
		},
	},
	{
		ID:       "CHK-S3-002",
		Severity: SeverityWarning,
		Title:    "Bucket encrypts objects at rest",
		Types:    []string{typeBucket},
		Check: func(name string, res wetwire.ResourceDef, _ *wetwire.Template) []string {
			if _, ok := res.Properties["BucketEncryption"]; !ok {
				return []string{"no default server-side encryption"}
			}
			return nil
		},
	},
	{
		ID:       "CHK-S3-003",
		Severity: SeverityWarning,
		Title:    "Bucket denies requests without TLS",
		Types:    []string{typeBucket},
		Check: func(name string, res wetwire.ResourceDef, tmpl *wetwire.Template) []string {
			for _, policy := range policiesFor(name, tmpl) {
				for _, st := range statements(policy) {
					if st["Effect"] == "Deny" && conditionValue(st, "Bool", "aws:SecureTransport") == "false" {
						return nil
					}
				}
			}
			return []string{"no bucket policy denies aws:SecureTransport=false"}
		},
	},
	{
		ID:       "CHK-S3-004",
		Severity: SeverityError,
		Title:    "Bucket policy grants nothing to everyone",
		Types:    []string{typeBucketPolicy},
		Check: func(name string, res wetwire.ResourceDef, _ *wetwire.Template) []string {
			var msgs []string
			for i, st := range statements(res.Properties) {
				if st["Effect"] == "Allow" && isPublicPrincipal(st["Principal"]) {
					msgs = append(msgs, fmt.Sprintf("statement %d allows the public principal", i))
				}
			}
			return msgs
		},
	},
	{
		ID:       "CHK-CF-001",
		Severity: SeverityError,
		Title:    "CloudFront read grant is bound to a distribution of this stack",
		Types:    []string{typeBucketPolicy},
		Check: func(name string, res wetwire.ResourceDef, tmpl *wetwire.Template) []string {
			var msgs []string
			for i, st := range statements(res.Properties) {
				if st["Effect"] != "Allow" || !hasService(st["Principal"], cloudfrontService) {
					continue
				}
				source := sourceArn(st)
				if source == nil {
					msgs = append(msgs, fmt.Sprintf("statement %d grants %s without an AWS:SourceArn condition", i, cloudfrontService))
					continue
				}
				if !referencesType(source, typeDistribution, tmpl) {
					msgs = append(msgs, fmt.Sprintf("statement %d AWS:SourceArn does not reference a distribution in this template", i))
				}
			}
			return msgs
		},
	},
}

var distributionRules = []Rule{
	{
		ID:       "CHK-CF-002",
		Severity: SeverityError,
		Title:    "Viewers are forced onto HTTPS",
		Types:    []string{typeDistribution},
		Check: func(name string, res wetwire.ResourceDef, _ *wetwire.Template) []string {
			behavior := defaultBehavior(res)
			switch behavior["ViewerProtocolPolicy"] {
			case "redirect-to-https", "https-only":
				return nil
			}
			return []string{fmt.Sprintf("default behavior viewer protocol policy is %v", behavior["ViewerProtocolPolicy"])}
		},
	},
	{
		ID:       "CHK-CF-003",
		Severity: SeverityError,
		Title:    "S3 origins authenticate with an origin access control",
		Types:    []string{typeDistribution},
		Check: func(name string, res wetwire.ResourceDef, _ *wetwire.Template) []string {
			var msgs []string
			for _, origin := range origins(res) {
				if _, s3 := origin["S3OriginConfig"]; !s3 {
					continue
				}
				if oac, ok := origin["OriginAccessControlId"]; !ok || oac == "" {
					msgs = append(msgs, fmt.Sprintf("origin %v has no origin access control", origin["Id"]))
				}
			}
			return msgs
		},
	},
	{
		ID:       "CHK-CF-004",
		Severity: SeverityWarning,
		Title:    "Origin access control signs every request with SigV4",
		Types:    []string{typeOAC},
		Check: func(name string, res wetwire.ResourceDef, _ *wetwire.Template) []string {
			cfg, _ := res.Properties["OriginAccessControlConfig"].(map[string]any)
			var msgs []string
			if cfg["SigningBehavior"] != "always" {
				msgs = append(msgs, fmt.Sprintf("signing behavior is %v", cfg["SigningBehavior"]))
			}
			if cfg["SigningProtocol"] != "sigv4" {
				msgs = append(msgs, fmt.Sprintf("signing protocol is %v", cfg["SigningProtocol"]))
			}
			return msgs
		},
	},
}

var edgeRules = []Rule{
	{
		ID:       "CHK-LAM-001",
		Severity: SeverityError,
		Title:    "Edge associations use a published function version",
		Types:    []string{typeDistribution},
		Check: func(name string, res wetwire.ResourceDef, tmpl *wetwire.Template) []string {
			assocs, _ := defaultBehavior(res)["LambdaFunctionAssociations"].([]any)
			var msgs []string
			for i, a := range assocs {
				assoc, _ := a.(map[string]any)
				arn, _ := assoc["LambdaFunctionARN"].(map[string]any)
				target, ok := arn["Ref"].(string)
				if !ok || tmpl.Resources[target].Type != typeVersion {
					msgs = append(msgs, fmt.Sprintf("association %d is not a Ref to an %s", i, typeVersion))
				}
			}
			return msgs
		},
	},
}

// policiesFor returns the documents of bucket policies attached to bucket.
func policiesFor(bucket string, tmpl *wetwire.Template) []map[string]any {
	var out []map[string]any
	for _, res := range tmpl.Resources {
		if res.Type != typeBucketPolicy {
			continue
		}
		if ref, _ := res.Properties["Bucket"].(map[string]any); ref["Ref"] == bucket {
			out = append(out, res.Properties)
		}
	}
	return out
}

func statements(policyProps map[string]any) []map[string]any {
	doc, _ := policyProps["PolicyDocument"].(map[string]any)
	var out []map[string]any
	switch v := doc["Statement"].(type) {
	case []any:
		for _, s := range v {
			if st, ok := s.(map[string]any); ok {
				out = append(out, st)
			}
		}
	case map[string]any:
		out = append(out, v)
	}
	return out
}

func conditionValue(st map[string]any, operator, key string) any {
	cond, _ := st["Condition"].(map[string]any)
	op, _ := cond[operator].(map[string]any)
	for k, v := range op {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return nil
}

func sourceArn(st map[string]any) any {
	for _, op := range []string{"StringEquals", "ArnEquals", "StringLike", "ArnLike"} {
		if v := conditionValue(st, op, "AWS:SourceArn"); v != nil {
			return v
		}
	}
	return nil
}

func referencesType(tree any, resourceType string, tmpl *wetwire.Template) bool {
	for _, ref := range serialize.References(tree) {
		if tmpl.Resources[ref.Name].Type == resourceType {
			return true
		}
	}
	return false
}

func isPublicPrincipal(p any) bool {
	switch v := p.(type) {
	case string:
		return v == "*"
	case map[string]any:
		return containsString(v["AWS"], "*")
	}
	return false
}

func hasService(p any, service string) bool {
	m, _ := p.(map[string]any)
	return containsString(m["Service"], service)
}

func containsString(v any, want string) bool {
	switch x := v.(type) {
	case string:
		return x == want
	case []any:
		for _, item := range x {
			if item == want {
				return true
			}
		}
	}
	return false
}

func distributionConfig(res wetwire.ResourceDef) map[string]any {
	cfg, _ := res.Properties["DistributionConfig"].(map[string]any)
	return cfg
}

func defaultBehavior(res wetwire.ResourceDef) map[string]any {
	b, _ := distributionConfig(res)["DefaultCacheBehavior"].(map[string]any)
	return b
}

func origins(res wetwire.ResourceDef) []map[string]any {
	list, _ := distributionConfig(res)["Origins"].([]any)
	var out []map[string]any
	for _, o := range list {
		if m, ok := o.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
