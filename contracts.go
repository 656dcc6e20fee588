// Package wetwire_mkdocs declares a static MkDocs site on AWS in Go.
//
// Resources are typed Go structs and reference each other directly:
//
//	bucket := &s3.Bucket{BucketName: bucketName}
//	policy := &s3.BucketPolicy{
//	    Bucket:         bucket,      // {"Ref": "Bucket"}
//	    PolicyDocument: doc,
//	}
//	origin := cloudfront.Distribution_Origin{
//	    DomainName: bucket.RegionalDomainName, // {"Fn::GetAtt": ["Bucket", "RegionalDomainName"]}
//	}
//
// A stack collects the declarations and synthesizes a CloudFormation template.
package wetwire_mkdocs

import (
	"encoding/json"
)

// Resource represents a CloudFormation resource.
// All resource types (s3.Bucket, cloudfront.Distribution, etc.) implement this interface.
type Resource interface {
	// ResourceType returns the CloudFormation type (e.g., "AWS::S3::Bucket")
	ResourceType() string
}

// Named is implemented by resources that learn their logical name when
// they are added to a stack. Attribute references are derived from it.
type Named interface {
	Resource
	SetLogicalName(name string)
	LogicalName() string
}

// AttrRef represents a GetAtt reference to a resource attribute.
//
// When serialized to CloudFormation JSON, AttrRef becomes:
//
//	{"Fn::GetAtt": ["MyRole", "Arn"]}
type AttrRef struct {
	// Resource is the logical name of the referenced resource
	Resource string
	// Attribute is the attribute name (e.g., "Arn", "DomainName")
	Attribute string
}

// MarshalJSON serializes AttrRef to CloudFormation GetAtt syntax.
func (a AttrRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][]string{
		"Fn::GetAtt": {a.Resource, a.Attribute},
	})
}

// IsZero returns true if the AttrRef has not been populated.
func (a AttrRef) IsZero() bool {
	return a.Resource == "" && a.Attribute == ""
}

// LogicalRef serializes a logical name as {"Ref": name}.
// Resource types embed it to be usable as property values.
type LogicalRef struct {
	name string
}

// SetLogicalName records the logical name.
func (r *LogicalRef) SetLogicalName(name string) {
	r.name = name
}

// LogicalName returns the recorded logical name.
func (r LogicalRef) LogicalName() string {
	return r.name
}

// MarshalJSON serializes the reference as {"Ref": name}.
func (r LogicalRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"Ref": r.name})
}

// StackResource describes a resource registered in a stack, after
// its references have been resolved.
type StackResource struct {
	// Name is the logical ID
	Name string `json:"name"`
	// Type is the CloudFormation type
	Type string `json:"type"`
	// Dependencies are logical names of referenced resources and parameters
	Dependencies []string `json:"dependencies,omitempty"`
	// AttrRefUsages are the GetAtt references this resource makes
	AttrRefUsages []AttrRef `json:"-"`
}

// Template represents a CloudFormation template.
type Template struct {
	AWSTemplateFormatVersion string                 `json:"AWSTemplateFormatVersion" yaml:"AWSTemplateFormatVersion"`
	Description              string                 `json:"Description,omitempty" yaml:"Description,omitempty"`
	Parameters               map[string]Parameter   `json:"Parameters,omitempty" yaml:"Parameters,omitempty"`
	Resources                map[string]ResourceDef `json:"Resources" yaml:"Resources"`
	Outputs                  map[string]Output      `json:"Outputs,omitempty" yaml:"Outputs,omitempty"`
}

// ResourceDef is a single resource in the CloudFormation template.
type ResourceDef struct {
	Type                string         `json:"Type" yaml:"Type"`
	Properties          map[string]any `json:"Properties,omitempty" yaml:"Properties,omitempty"`
	DependsOn           []string       `json:"DependsOn,omitempty" yaml:"DependsOn,omitempty"`
	DeletionPolicy      string         `json:"DeletionPolicy,omitempty" yaml:"DeletionPolicy,omitempty"`
	UpdateReplacePolicy string         `json:"UpdateReplacePolicy,omitempty" yaml:"UpdateReplacePolicy,omitempty"`
}

// Parameter is a CloudFormation template parameter.
type Parameter struct {
	Type                  string `json:"Type" yaml:"Type"`
	Description           string `json:"Description,omitempty" yaml:"Description,omitempty"`
	Default               any    `json:"Default,omitempty" yaml:"Default,omitempty"`
	AllowedValues         []any  `json:"AllowedValues,omitempty" yaml:"AllowedValues,omitempty"`
	AllowedPattern        string `json:"AllowedPattern,omitempty" yaml:"AllowedPattern,omitempty"`
	ConstraintDescription string `json:"ConstraintDescription,omitempty" yaml:"ConstraintDescription,omitempty"`
	MinLength             *int   `json:"MinLength,omitempty" yaml:"MinLength,omitempty"`
	MaxLength             *int   `json:"MaxLength,omitempty" yaml:"MaxLength,omitempty"`
	NoEcho                bool   `json:"NoEcho,omitempty" yaml:"NoEcho,omitempty"`
}

// Output is a CloudFormation template output.
type Output struct {
	Description string  `json:"Description,omitempty" yaml:"Description,omitempty"`
	Value       any     `json:"Value" yaml:"Value"`
	Export      *Export `json:"Export,omitempty" yaml:"Export,omitempty"`
}

// Export names an output for cross-stack imports.
type Export struct {
	Name any `json:"Name" yaml:"Name"`
}

// BuildResult is written by `wetwire-mkdocs synth --format json` when
// synthesis or a guardrail fails; a successful run writes the template.
type BuildResult struct {
	Success bool     `json:"success"`
	Stack   string   `json:"stack,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// ValidateResult is the JSON output from `wetwire-mkdocs validate`.
type ValidateResult struct {
	Success   bool           `json:"success"`
	Stack     string         `json:"stack"`
	Resources int            `json:"resources"`
	Findings  []CheckFinding `json:"findings,omitempty"`
	Errors    []string       `json:"errors,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
}

// CheckFinding is a single guardrail violation found in a synthesized template.
type CheckFinding struct {
	Rule     string `json:"rule"`
	Resource string `json:"resource"`
	Severity string `json:"severity"` // "error", "warning"
	Message  string `json:"message"`
}

// ListResult is the JSON output from `wetwire-mkdocs list`.
type ListResult struct {
	Stack     string          `json:"stack"`
	Resources []StackResource `json:"resources"`
}

// DiffEntry describes one added, removed or modified template entry.
type DiffEntry struct {
	Resource string   `json:"resource"`
	Type     string   `json:"type,omitempty"`
	Changes  []string `json:"changes,omitempty"`
}

// TemplateDiff groups the entries of a template comparison.
type TemplateDiff struct {
	Added    []DiffEntry `json:"added,omitempty"`
	Removed  []DiffEntry `json:"removed,omitempty"`
	Modified []DiffEntry `json:"modified,omitempty"`
}

// DiffSummary counts the entries of a TemplateDiff.
type DiffSummary struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
	Total    int `json:"total"`
}

// DiffResult is the JSON output from `wetwire-mkdocs diff`.
type DiffResult struct {
	Success bool         `json:"success"`
	Diff    TemplateDiff `json:"diff"`
	Summary DiffSummary  `json:"summary"`
}
