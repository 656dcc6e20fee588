package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-mkdocs-go"
	"github.com/lex00/wetwire-mkdocs-go/internal/checks"
	"github.com/lex00/wetwire-mkdocs-go/internal/validation"
)

var errValidationFailed = errors.New("validation failed")

type validateOptions struct {
	stack  stackFlags
	format string
	noLint bool
}

// newValidateCmd creates the "validate" subcommand for checking the synthesized template.
func newValidateCmd() *cobra.Command {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run guardrails and cfn-lint over the template",
		Long: `Validate synthesizes the stack and checks the template.

Checks performed:
  - Guardrails: private bucket, TLS-only bucket policy, CloudFront grant
    conditioned on the distribution ARN, Origin Access Control, HTTPS
    viewers, versioned Lambda@Edge association
  - cfn-lint: CloudFormation schema and best-practice rules

Examples:
    wetwire-mkdocs validate
    wetwire-mkdocs validate --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	addStackFlags(cmd, &opts.stack)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&opts.noLint, "no-lint", false, "Skip cfn-lint")

	return cmd
}

func runValidate(ctx context.Context, out io.Writer, opts validateOptions) error {
	st, err := loadStack(ctx, opts.stack)
	if err != nil {
		return err
	}

	result := wetwire.ValidateResult{Stack: st.ID()}

	tmpl, err := st.Synth()
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return outputValidateResult(out, result, opts.format)
	}
	result.Resources = len(tmpl.Resources)

	checked := checks.Run(tmpl)
	result.Findings = checked.Findings

	lintErrors := 0
	if !opts.noLint {
		lint, err := validation.LintTemplate(tmpl)
		if err != nil {
			return fmt.Errorf("cfn-lint: %w", err)
		}
		result.Errors = append(result.Errors, lint.Errors...)
		result.Warnings = append(result.Warnings, lint.Warnings...)
		lintErrors = len(lint.Errors)
	}

	result.Success = !checked.HasErrors() && lintErrors == 0
	return outputValidateResult(out, result, opts.format)
}

func outputValidateResult(out io.Writer, result wetwire.ValidateResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))

	case "text":
		if result.Success {
			fmt.Fprintf(out, "Validation passed: %s, %d resources OK\n", result.Stack, result.Resources)
		} else {
			fmt.Fprintf(out, "Validation FAILED: %s\n", result.Stack)
		}
		for _, f := range result.Findings {
			fmt.Fprintf(out, "  %s: %s: %s [%s]\n", severityLabel(f.Severity), f.Resource, f.Message, f.Rule)
		}
		for _, errMsg := range result.Errors {
			fmt.Fprintf(out, "  ERROR: %s\n", errMsg)
		}
		for _, warnMsg := range result.Warnings {
			fmt.Fprintf(out, "  WARNING: %s\n", warnMsg)
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if !result.Success {
		return errValidationFailed
	}
	return nil
}

func severityLabel(severity string) string {
	if severity == checks.SeverityError {
		return "ERROR"
	}
	return "WARNING"
}
