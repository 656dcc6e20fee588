package lambda

import (
	wetwire "github.com/lex00/wetwire-mkdocs-go"
)

// Runtimes supported by Lambda@Edge.
const (
	RuntimePython312 = "python3.12"
	RuntimePython313 = "python3.13"
	RuntimeNodejs20  = "nodejs20.x"
)

// Architectures.
const (
	ArchitectureX86_64 = "x86_64"
	ArchitectureArm64  = "arm64"
)

// Function represents an AWS::Lambda::Function resource.
type Function struct {
	wetwire.LogicalRef `json:"-"`

	FunctionName  any            `json:"FunctionName,omitempty"`
	Description   any            `json:"Description,omitempty"`
	Runtime       any            `json:"Runtime,omitempty"`
	Handler       any            `json:"Handler,omitempty"`
	Code          *Function_Code `json:"Code"`
	Role          any            `json:"Role"`
	MemorySize    int            `json:"MemorySize,omitempty"`
	Timeout       int            `json:"Timeout,omitempty"`
	Architectures []any          `json:"Architectures,omitempty"`
	Tags          []any          `json:"Tags,omitempty"`

	// Arn is the ARN of the function.
	Arn wetwire.AttrRef `json:"-"`
}

// ResourceType returns the CloudFormation type.
func (r Function) ResourceType() string {
	return "AWS::Lambda::Function"
}

// SetLogicalName names the function and derives its attribute references.
func (r *Function) SetLogicalName(name string) {
	r.LogicalRef.SetLogicalName(name)
	r.Arn = wetwire.AttrRef{Resource: name, Attribute: "Arn"}
}

// Function_Code is the deployment package of a function. Either ZipFile
// holds inline source or S3Bucket/S3Key point to an archive.
type Function_Code struct {
	ZipFile         any `json:"ZipFile,omitempty"`
	S3Bucket        any `json:"S3Bucket,omitempty"`
	S3Key           any `json:"S3Key,omitempty"`
	S3ObjectVersion any `json:"S3ObjectVersion,omitempty"`
}
