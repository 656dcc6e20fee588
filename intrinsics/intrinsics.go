// Package intrinsics provides the CloudFormation intrinsic functions used by
// the site stacks.
//
// The core intrinsic types are re-exported from cloudformation-schema-go:
//
//	Ref{LogicalName: "Bucket"}           → {"Ref": "Bucket"}
//	Sub{String: "${AWS::Region}-site"}   → {"Fn::Sub": "${AWS::Region}-site"}
//	Join{Delimiter: "", Values: ...}     → {"Fn::Join": ["", [...]]}
//
// Parameter adds template parameters that serialize as Ref once a stack has
// named them.
package intrinsics

import (
	"encoding/json"

	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

type (
	// Ref represents a CloudFormation Ref intrinsic function.
	Ref = intrinsics.Ref

	// GetAtt represents a CloudFormation Fn::GetAtt intrinsic function.
	GetAtt = intrinsics.GetAtt

	// Sub represents a CloudFormation Fn::Sub intrinsic function.
	Sub = intrinsics.Sub

	// SubWithMap is Fn::Sub with a variable map.
	SubWithMap = intrinsics.SubWithMap

	// Join represents a CloudFormation Fn::Join intrinsic function.
	Join = intrinsics.Join
)

// Parameter defines a CloudFormation template parameter.
// When used as a value in resource properties, it serializes to {"Ref": "ParameterName"}.
//
//	indexPage := &Parameter{
//	    Type:    "String",
//	    Default: "index.html",
//	}
//	st.Parameter("IndexPage", indexPage)
//
//	dist := &cloudfront.Distribution{...DefaultRootObject: indexPage...}
type Parameter struct {
	// Type is the CloudFormation parameter type (String, Number, etc.)
	Type string
	// Description is optional documentation for the parameter
	Description string
	// Default is the default value if none is provided
	Default any
	// AllowedValues restricts the parameter to specific values
	AllowedValues []any
	// AllowedPattern is a regex pattern for String type validation
	AllowedPattern string
	// ConstraintDescription explains validation failures
	ConstraintDescription string
	// MinLength is minimum string length (for String type)
	MinLength *int
	// MaxLength is maximum string length (for String type)
	MaxLength *int
	// NoEcho masks the parameter value in console/logs
	NoEcho bool

	name string
}

// SetName sets the parameter name for Ref serialization.
// The stack calls it when the parameter is registered.
func (p *Parameter) SetName(name string) {
	p.name = name
}

// Name returns the parameter name.
func (p Parameter) Name() string {
	return p.name
}

// MarshalJSON serializes Parameter as a CloudFormation Ref when used as a value.
func (p Parameter) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{"Ref": p.name})
}

// IntPtr returns a pointer to the given int value.
func IntPtr(i int) *int {
	return &i
}
