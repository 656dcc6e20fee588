// Package stack collects resource declarations under a logical stack id
// and synthesizes them into a CloudFormation template.
//
//	st := stack.New("MkdocsS3Stack", "Private bucket for a MkDocs site")
//	bucket := &s3.Bucket{PublicAccessBlockConfiguration: s3.BlockAll()}
//	st.Add("MkdocsS3Bucket", bucket, stack.Retain())
//	tmpl, err := st.Synth()
package stack

import (
	"errors"
	"fmt"
	"regexp"

	wetwire "github.com/lex00/wetwire-mkdocs-go"
	"github.com/lex00/wetwire-mkdocs-go/intrinsics"
	"github.com/lex00/wetwire-mkdocs-go/internal/serialize"
	"github.com/lex00/wetwire-mkdocs-go/internal/template"
)

// Deletion and replace policies.
const (
	PolicyRetain   = "Retain"
	PolicyDelete   = "Delete"
	PolicySnapshot = "Snapshot"
)

var logicalID = regexp.MustCompile(`^[A-Za-z0-9]{1,255}$`)

// Stack is a set of resources, parameters and outputs that synthesize
// into one template.
type Stack struct {
	id      string
	builder *template.Builder
	errs    []error
}

// Output is a value surfaced after deployment.
type Output struct {
	Description string
	Value       any
	ExportName  any
}

// Option adjusts how a resource is declared.
type Option func(*template.Entry)

// DependsOn adds explicit dependencies on other resources by logical id.
func DependsOn(names ...string) Option {
	return func(e *template.Entry) {
		e.DependsOn = append(e.DependsOn, names...)
	}
}

// DeletionPolicy sets what CloudFormation does with the resource when
// the stack is deleted.
func DeletionPolicy(policy string) Option {
	return func(e *template.Entry) { e.DeletionPolicy = policy }
}

// UpdateReplacePolicy sets what CloudFormation does with the old
// resource when an update replaces it.
func UpdateReplacePolicy(policy string) Option {
	return func(e *template.Entry) { e.UpdateReplacePolicy = policy }
}

// Retain keeps the resource on stack deletion and on replacement.
func Retain() Option {
	return func(e *template.Entry) {
		e.DeletionPolicy = PolicyRetain
		e.UpdateReplacePolicy = PolicyRetain
	}
}

// New creates an empty stack.
func New(id, description string) *Stack {
	s := &Stack{id: id, builder: template.NewBuilder(description)}
	if !logicalID.MatchString(id) {
		s.errs = append(s.errs, fmt.Errorf("invalid stack id %q", id))
	}
	return s
}

// ID returns the stack's logical id.
func (s *Stack) ID() string {
	return s.id
}

// Add declares a resource under a logical id. Resources implementing
// wetwire.Named learn the name, which fills in their attribute
// references. Invalid or duplicate ids are reported by Synth.
func (s *Stack) Add(name string, r wetwire.Resource, opts ...Option) {
	if !logicalID.MatchString(name) {
		s.errs = append(s.errs, fmt.Errorf("invalid logical id %q: must be alphanumeric", name))
		return
	}
	if n, ok := r.(wetwire.Named); ok {
		n.SetLogicalName(name)
	}
	entry := template.Entry{Name: name, Value: r}
	for _, opt := range opts {
		opt(&entry)
	}
	if err := s.builder.AddResource(entry); err != nil {
		s.errs = append(s.errs, err)
	}
}

// Parameter declares a template parameter. The parameter serializes as
// a Ref wherever it is used as a property value.
func (s *Stack) Parameter(name string, p *intrinsics.Parameter) {
	if !logicalID.MatchString(name) {
		s.errs = append(s.errs, fmt.Errorf("invalid parameter name %q: must be alphanumeric", name))
		return
	}
	p.SetName(name)
	err := s.builder.AddParameter(name, wetwire.Parameter{
		Type:                  p.Type,
		Description:           p.Description,
		Default:               p.Default,
		AllowedValues:         p.AllowedValues,
		AllowedPattern:        p.AllowedPattern,
		ConstraintDescription: p.ConstraintDescription,
		MinLength:             p.MinLength,
		MaxLength:             p.MaxLength,
		NoEcho:                p.NoEcho,
	})
	if err != nil {
		s.errs = append(s.errs, err)
	}
}

// Output declares a template output.
func (s *Stack) Output(name string, o Output) {
	if !logicalID.MatchString(name) {
		s.errs = append(s.errs, fmt.Errorf("invalid output name %q: must be alphanumeric", name))
		return
	}
	err := s.builder.AddOutput(name, template.OutputEntry{
		Description: o.Description,
		Value:       o.Value,
		ExportName:  o.ExportName,
	})
	if err != nil {
		s.errs = append(s.errs, err)
	}
}

// Synth builds the template. Declaration errors and build errors are
// returned together.
func (s *Stack) Synth() (*wetwire.Template, error) {
	if len(s.errs) > 0 {
		return nil, fmt.Errorf("stack %s: %w", s.id, errors.Join(s.errs...))
	}
	tmpl, err := s.builder.Build()
	if err != nil {
		return nil, fmt.Errorf("stack %s: %w", s.id, err)
	}
	return tmpl, nil
}

// Resources synthesizes the stack and describes its resources in
// dependency order.
func (s *Stack) Resources() ([]wetwire.StackResource, error) {
	if _, err := s.Synth(); err != nil {
		return nil, err
	}
	return s.builder.Resources(), nil
}

// Digest hashes a resource's serialized properties. Resources whose
// replacement must follow their content (function versions) put it in
// their logical id.
func Digest(r wetwire.Resource) (string, error) {
	props, err := serialize.Resource(r)
	if err != nil {
		return "", err
	}
	return serialize.Digest(props)
}
