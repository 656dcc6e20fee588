// Package template builds CloudFormation templates from registered resources.
package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	wetwire "github.com/lex00/wetwire-mkdocs-go"
	"github.com/lex00/wetwire-mkdocs-go/internal/serialize"
)

// FormatVersion is the only template format version CloudFormation knows.
const FormatVersion = "2010-09-09"

// Entry is a resource registered with the builder.
type Entry struct {
	Name                string
	Value               wetwire.Resource
	DependsOn           []string
	DeletionPolicy      string
	UpdateReplacePolicy string
}

// OutputEntry is an output registered with the builder. Value may hold
// resources, attribute references or intrinsics.
type OutputEntry struct {
	Description string
	Value       any
	ExportName  any
}

// Builder constructs CloudFormation templates from registered entries.
type Builder struct {
	description string
	resources   map[string]Entry
	parameters  map[string]wetwire.Parameter
	outputs     map[string]OutputEntry

	// filled by Build
	props map[string]map[string]any
	deps  map[string][]string
	attrs map[string][]wetwire.AttrRef
	order []string
}

// NewBuilder creates an empty template builder.
func NewBuilder(description string) *Builder {
	return &Builder{
		description: description,
		resources:   make(map[string]Entry),
		parameters:  make(map[string]wetwire.Parameter),
		outputs:     make(map[string]OutputEntry),
	}
}

// AddResource registers a resource. Names must be unique across
// resources and parameters.
func (b *Builder) AddResource(e Entry) error {
	if e.Value == nil {
		return fmt.Errorf("resource %s: nil value", e.Name)
	}
	if b.taken(e.Name) {
		return fmt.Errorf("duplicate logical id %q", e.Name)
	}
	b.resources[e.Name] = e
	return nil
}

// AddParameter registers a template parameter.
func (b *Builder) AddParameter(name string, p wetwire.Parameter) error {
	if b.taken(name) {
		return fmt.Errorf("duplicate logical id %q", name)
	}
	if p.Type == "" {
		p.Type = "String"
	}
	b.parameters[name] = p
	return nil
}

// AddOutput registers a template output.
func (b *Builder) AddOutput(name string, o OutputEntry) error {
	if _, ok := b.outputs[name]; ok {
		return fmt.Errorf("duplicate output %q", name)
	}
	b.outputs[name] = o
	return nil
}

func (b *Builder) taken(name string) bool {
	_, res := b.resources[name]
	_, param := b.parameters[name]
	return res || param
}

// Build constructs the CloudFormation template. Every problem found
// (undefined references, unknown DependsOn targets, cycles) is returned
// joined into one error.
func (b *Builder) Build() (*wetwire.Template, error) {
	b.props = make(map[string]map[string]any, len(b.resources))
	b.deps = make(map[string][]string, len(b.resources))
	b.attrs = make(map[string][]wetwire.AttrRef, len(b.resources))

	var errs []error
	for _, name := range sortedKeys(b.resources) {
		e := b.resources[name]
		props, err := serialize.Resource(e.Value)
		if err != nil {
			errs = append(errs, fmt.Errorf("serializing %s: %w", name, err))
			continue
		}
		b.props[name] = props

		deps, attrs, err := b.resolve(name, props)
		if err != nil {
			errs = append(errs, err)
		}
		for _, dep := range e.DependsOn {
			if _, ok := b.resources[dep]; !ok {
				errs = append(errs, fmt.Errorf("%s: DependsOn unknown resource %q", name, dep))
				continue
			}
			deps = appendUnique(deps, dep)
		}
		b.deps[name] = deps
		b.attrs[name] = attrs
	}

	template := &wetwire.Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              b.description,
		Resources:                make(map[string]wetwire.ResourceDef, len(b.resources)),
	}

	if len(b.parameters) > 0 {
		template.Parameters = make(map[string]wetwire.Parameter, len(b.parameters))
		for name, p := range b.parameters {
			if p.Default != nil {
				def, err := serialize.Value(p.Default)
				if err != nil {
					errs = append(errs, fmt.Errorf("parameter %s: %w", name, err))
				}
				p.Default = def
			}
			template.Parameters[name] = p
		}
	}

	if len(b.outputs) > 0 {
		template.Outputs = make(map[string]wetwire.Output, len(b.outputs))
		for _, name := range sortedKeys(b.outputs) {
			out, err := b.output(name, b.outputs[name])
			if err != nil {
				errs = append(errs, err)
				continue
			}
			template.Outputs[name] = out
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	order, err := b.topologicalSort()
	if err != nil {
		return nil, err
	}
	b.order = order

	for _, name := range order {
		e := b.resources[name]
		template.Resources[name] = wetwire.ResourceDef{
			Type:                e.Value.ResourceType(),
			Properties:          b.props[name],
			DependsOn:           e.DependsOn,
			DeletionPolicy:      e.DeletionPolicy,
			UpdateReplacePolicy: e.UpdateReplacePolicy,
		}
	}

	return template, nil
}

func (b *Builder) output(name string, o OutputEntry) (wetwire.Output, error) {
	value, err := serialize.Value(o.Value)
	if err != nil {
		return wetwire.Output{}, fmt.Errorf("output %s: %w", name, err)
	}
	if value == nil {
		return wetwire.Output{}, fmt.Errorf("output %s: no value", name)
	}
	if _, _, err := b.resolve("output "+name, value); err != nil {
		return wetwire.Output{}, err
	}
	out := wetwire.Output{Description: o.Description, Value: value}
	if o.ExportName != nil {
		exportName, err := serialize.Value(o.ExportName)
		if err != nil {
			return wetwire.Output{}, fmt.Errorf("output %s export: %w", name, err)
		}
		out.Export = &wetwire.Export{Name: exportName}
	}
	return out, nil
}

// resolve checks the references of a property tree against the
// registered resources and parameters. It returns the referenced names
// in first-seen order and the GetAtt usages.
func (b *Builder) resolve(owner string, tree any) ([]string, []wetwire.AttrRef, error) {
	var deps []string
	var attrs []wetwire.AttrRef
	var errs []error

	for _, ref := range serialize.References(tree) {
		_, isResource := b.resources[ref.Name]
		_, isParam := b.parameters[ref.Name]
		switch {
		case isResource:
			deps = appendUnique(deps, ref.Name)
			if ref.Attribute != "" {
				attrs = append(attrs, wetwire.AttrRef{Resource: ref.Name, Attribute: ref.Attribute})
			}
		case isParam && ref.Attribute == "":
			deps = appendUnique(deps, ref.Name)
		case isParam:
			errs = append(errs, fmt.Errorf("%s: parameter %s has no attribute %s", owner, ref.Name, ref.Attribute))
		default:
			errs = append(errs, fmt.Errorf("%s: undefined reference %q", owner, ref.Name))
		}
	}
	return deps, attrs, errors.Join(errs...)
}

// Order returns the resource names in dependency order. It is empty
// until Build succeeds.
func (b *Builder) Order() []string {
	return b.order
}

// Resources describes the built resources in dependency order.
func (b *Builder) Resources() []wetwire.StackResource {
	out := make([]wetwire.StackResource, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, wetwire.StackResource{
			Name:          name,
			Type:          b.resources[name].Value.ResourceType(),
			Dependencies:  b.deps[name],
			AttrRefUsages: b.attrs[name],
		})
	}
	return out
}

// topologicalSort returns resources in dependency order. Only
// resource-to-resource edges count; parameters are always available.
func (b *Builder) topologicalSort() ([]string, error) {
	graph := make(map[string][]string)
	inDegree := make(map[string]int)

	for name := range b.resources {
		graph[name] = nil
		inDegree[name] = 0
	}

	for name, deps := range b.deps {
		for _, dep := range deps {
			if _, exists := b.resources[dep]; exists {
				graph[dep] = append(graph[dep], name)
				inDegree[name]++
			}
		}
	}

	// Kahn's algorithm
	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range graph[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(b.resources) {
		return nil, b.detectCycle()
	}

	return result, nil
}

// detectCycle finds and reports a cycle in the dependency graph.
func (b *Builder) detectCycle() error {
	visited := make(map[string]bool)
	path := make(map[string]bool)

	var cycle []string
	var findCycle func(node string) bool
	findCycle = func(node string) bool {
		visited[node] = true
		path[node] = true

		for _, dep := range b.deps[node] {
			if _, exists := b.resources[dep]; !exists {
				continue
			}
			if !visited[dep] {
				if findCycle(dep) {
					cycle = append([]string{node}, cycle...)
					return true
				}
			} else if path[dep] {
				cycle = append([]string{dep, node}, cycle...)
				return true
			}
		}

		path[node] = false
		return false
	}

	for _, name := range sortedKeys(b.resources) {
		if !visited[name] && findCycle(name) {
			break
		}
	}

	if len(cycle) > 0 {
		return fmt.Errorf("circular dependency detected: %s", strings.Join(cycle, " → "))
	}
	return errors.New("circular dependency detected")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}

// ToJSON serializes the template to indented JSON.
func ToJSON(t *wetwire.Template) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToYAML serializes the template to YAML.
func ToYAML(t *wetwire.Template) ([]byte, error) {
	return yaml.Marshal(t)
}
