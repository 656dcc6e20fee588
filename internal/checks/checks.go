// Package checks evaluates guardrail rules against a synthesized
// template. The rules encode the site's security posture: the bucket
// is private, readable only by this distribution over TLS.
package checks

import (
	"errors"
	"fmt"
	"sort"

	wetwire "github.com/lex00/wetwire-mkdocs-go"
)

// Severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rule is a guardrail applied to every resource of the listed types.
type Rule struct {
	ID       string
	Severity string
	Title    string
	Types    []string
	// Check returns one message per violation.
	Check func(name string, res wetwire.ResourceDef, tmpl *wetwire.Template) []string
}

// Summary counts findings by severity.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// Result contains the findings of a run, ordered by resource then rule.
type Result struct {
	Findings []wetwire.CheckFinding
	Summary  Summary
}

// Run applies every rule to the template.
func Run(tmpl *wetwire.Template) Result {
	return RunRules(tmpl, Rules())
}

// RunRules applies the given rules to the template.
func RunRules(tmpl *wetwire.Template, rules []Rule) Result {
	var result Result

	names := make([]string, 0, len(tmpl.Resources))
	for name := range tmpl.Resources {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		res := tmpl.Resources[name]
		for _, rule := range rules {
			if !appliesTo(rule, res.Type) {
				continue
			}
			for _, msg := range rule.Check(name, res, tmpl) {
				result.Findings = append(result.Findings, wetwire.CheckFinding{
					Rule:     rule.ID,
					Resource: name,
					Severity: rule.Severity,
					Message:  msg,
				})
				if rule.Severity == SeverityError {
					result.Summary.Errors++
				} else {
					result.Summary.Warnings++
				}
			}
		}
	}
	return result
}

func appliesTo(rule Rule, resourceType string) bool {
	for _, t := range rule.Types {
		if t == resourceType {
			return true
		}
	}
	return false
}

// HasErrors reports whether any error-severity finding was produced.
func (r Result) HasErrors() bool {
	return r.Summary.Errors > 0
}

// Err joins the error-severity findings, or returns nil.
func (r Result) Err() error {
	var errs []error
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			errs = append(errs, fmt.Errorf("%s %s: %s", f.Rule, f.Resource, f.Message))
		}
	}
	return errors.Join(errs...)
}
