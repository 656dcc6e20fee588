package intrinsics

import (
	"github.com/lex00/cloudformation-schema-go/intrinsics"
)

// Pseudo-parameters are predefined by CloudFormation and available in every template.
//
//	arn := Join{Delimiter: "", Values: Any("arn:", AWS_PARTITION, ":iam::aws:policy/ReadOnlyAccess")}
var (
	// AWS_PARTITION returns the partition the resource is in (aws, aws-cn, aws-us-gov).
	AWS_PARTITION = intrinsics.AWS_PARTITION
)

// IsPseudoParameter reports whether name is a pseudo-parameter such as
// "AWS::Region" rather than a logical ID.
func IsPseudoParameter(name string) bool {
	return len(name) > 5 && name[:5] == "AWS::"
}
