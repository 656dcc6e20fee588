// Package differ compares CloudFormation templates semantically:
// resources, parameters and outputs, down to the property path.
package differ

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"

	wetwire "github.com/lex00/wetwire-mkdocs-go"
)

// Entry types for parameters and outputs; resources carry their
// CloudFormation type.
const (
	TypeParameter = "Parameter"
	TypeOutput    = "Output"
)

// ErrNoResources is returned for a document without a Resources section.
var ErrNoResources = errors.New("not a CloudFormation template: no Resources")

// Options configures the differ.
type Options struct {
	// IgnoreOrder ignores array element order in comparisons
	IgnoreOrder bool
}

// Result contains the difference between two templates.
type Result struct {
	Diff    wetwire.TemplateDiff
	Summary wetwire.DiffSummary
}

// Empty reports whether the templates are equivalent.
func (r *Result) Empty() bool {
	return r.Summary.Total == 0
}

// Compare compares two templates. Both are normalized through JSON
// first, so a synthesized template compares equal to its stored copy.
func Compare(template1, template2 *wetwire.Template, opts Options) (*Result, error) {
	t1, err := Normalize(template1)
	if err != nil {
		return nil, err
	}
	t2, err := Normalize(template2)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	diffSection(&result.Diff, t1.Resources, t2.Resources, func(r wetwire.ResourceDef) string { return r.Type },
		func(a, b wetwire.ResourceDef) []string { return compareResources(a, b, opts) })
	diffSection(&result.Diff, t1.Parameters, t2.Parameters, func(wetwire.Parameter) string { return TypeParameter },
		func(a, b wetwire.Parameter) []string { return compareAny(a, b, opts) })
	diffSection(&result.Diff, t1.Outputs, t2.Outputs, func(wetwire.Output) string { return TypeOutput },
		func(a, b wetwire.Output) []string { return compareAny(a, b, opts) })

	sortEntries(result.Diff.Added)
	sortEntries(result.Diff.Removed)
	sortEntries(result.Diff.Modified)

	result.Summary = wetwire.DiffSummary{
		Added:    len(result.Diff.Added),
		Removed:  len(result.Diff.Removed),
		Modified: len(result.Diff.Modified),
	}
	result.Summary.Total = result.Summary.Added + result.Summary.Removed + result.Summary.Modified

	return result, nil
}

func diffSection[V any](diff *wetwire.TemplateDiff, a, b map[string]V, typeOf func(V) string, changed func(V, V) []string) {
	for name, def := range b {
		if _, exists := a[name]; !exists {
			diff.Added = append(diff.Added, wetwire.DiffEntry{Resource: name, Type: typeOf(def)})
		}
	}
	for name, def := range a {
		other, exists := b[name]
		if !exists {
			diff.Removed = append(diff.Removed, wetwire.DiffEntry{Resource: name, Type: typeOf(def)})
			continue
		}
		if changes := changed(def, other); len(changes) > 0 {
			diff.Modified = append(diff.Modified, wetwire.DiffEntry{Resource: name, Type: typeOf(def), Changes: changes})
		}
	}
}

// CompareFiles compares two template files.
func CompareFiles(file1, file2 string, opts Options) (*Result, error) {
	t1, err := LoadTemplate(file1)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file1, err)
	}

	t2, err := LoadTemplate(file2)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file2, err)
	}

	return Compare(t1, t2, opts)
}

// LoadTemplate loads a CloudFormation template from a JSON or YAML file.
func LoadTemplate(path string) (*wetwire.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTemplate(data)
}

// ParseTemplate parses a JSON or YAML template. A document without
// Resources is rejected: CloudFormation requires the section.
func ParseTemplate(data []byte) (*wetwire.Template, error) {
	var template wetwire.Template
	if err := json.Unmarshal(data, &template); err != nil {
		template = wetwire.Template{}
		if err := yaml.Unmarshal(data, &template); err != nil {
			return nil, fmt.Errorf("failed to parse as JSON or YAML: %w", err)
		}
	}
	if len(template.Resources) == 0 {
		return nil, ErrNoResources
	}
	return &template, nil
}

// Normalize round-trips a template through JSON so that values have
// their decoded types (float64 numbers, []any lists).
func Normalize(t *wetwire.Template) (*wetwire.Template, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("normalizing template: %w", err)
	}
	var out wetwire.Template
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("normalizing template: %w", err)
	}
	return &out, nil
}

func compareResources(def1, def2 wetwire.ResourceDef, opts Options) []string {
	var changes []string

	if def1.Type != def2.Type {
		changes = append(changes, fmt.Sprintf("Type changed: %s → %s", def1.Type, def2.Type))
	}

	changes = append(changes, compareProperties("", def1.Properties, def2.Properties, opts)...)

	if !equalStringSlices(def1.DependsOn, def2.DependsOn) {
		changes = append(changes, "DependsOn changed")
	}
	if def1.DeletionPolicy != def2.DeletionPolicy {
		changes = append(changes, fmt.Sprintf("DeletionPolicy changed: %q → %q", def1.DeletionPolicy, def2.DeletionPolicy))
	}
	if def1.UpdateReplacePolicy != def2.UpdateReplacePolicy {
		changes = append(changes, fmt.Sprintf("UpdateReplacePolicy changed: %q → %q", def1.UpdateReplacePolicy, def2.UpdateReplacePolicy))
	}

	return changes
}

// compareAny compares two values by their JSON object form.
func compareAny(a, b any, opts Options) []string {
	return compareProperties("", toMap(a), toMap(b), opts)
}

func toMap(v any) map[string]any {
	data, _ := json.Marshal(v)
	var m map[string]any
	_ = json.Unmarshal(data, &m)
	return m
}

// compareProperties recursively compares property maps and reports
// the dotted path of every difference.
func compareProperties(prefix string, props1, props2 map[string]any, opts Options) []string {
	var changes []string

	for key, val2 := range props2 {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		val1, exists := props1[key]
		if !exists {
			changes = append(changes, fmt.Sprintf("%s added", path))
			continue
		}
		m1, ok1 := val1.(map[string]any)
		m2, ok2 := val2.(map[string]any)
		if ok1 && ok2 && !isIntrinsic(m1) && !isIntrinsic(m2) {
			changes = append(changes, compareProperties(path, m1, m2, opts)...)
			continue
		}
		if !deepEqual(val1, val2, opts) {
			changes = append(changes, fmt.Sprintf("%s modified", path))
		}
	}

	for key := range props1 {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		if _, exists := props2[key]; !exists {
			changes = append(changes, fmt.Sprintf("%s removed", path))
		}
	}

	sort.Strings(changes)
	return changes
}

// isIntrinsic reports whether m is a single-key intrinsic ({"Ref": ...},
// {"Fn::Sub": ...}); those are compared as one value.
func isIntrinsic(m map[string]any) bool {
	if len(m) != 1 {
		return false
	}
	for k := range m {
		return k == "Ref" || len(k) > 4 && k[:4] == "Fn::"
	}
	return false
}

// deepEqual compares two values deeply, optionally ignoring order.
func deepEqual(a, b any, opts Options) bool {
	if opts.IgnoreOrder {
		a = normalizeValue(a)
		b = normalizeValue(b)
	}
	return reflect.DeepEqual(a, b)
}

// normalizeValue sorts lists by their JSON encoding, recursively.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = normalizeValue(item)
		}
		sort.SliceStable(result, func(i, j int) bool {
			return encodeKey(result[i]) < encodeKey(result[j])
		})
		return result
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[k] = normalizeValue(v)
		}
		return result
	default:
		return v
	}
}

func encodeKey(v any) string {
	data, _ := json.Marshal(v)
	return string(data)
}

// equalStringSlices compares two string slices for equality.
func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sortEntries sorts diff entries by name, then type.
func sortEntries(entries []wetwire.DiffEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Resource != entries[j].Resource {
			return entries[i].Resource < entries[j].Resource
		}
		return entries[i].Type < entries[j].Type
	})
}
