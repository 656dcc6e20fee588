package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-mkdocs-go"
	"github.com/lex00/wetwire-mkdocs-go/internal/checks"
	"github.com/lex00/wetwire-mkdocs-go/internal/log"
	"github.com/lex00/wetwire-mkdocs-go/internal/template"
)

type synthOptions struct {
	stack      stackFlags
	format     string
	outputFile string
	noChecks   bool
}

func addSynthFlags(cmd *cobra.Command, opts *synthOptions) {
	addStackFlags(cmd, &opts.stack)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&opts.outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.noChecks, "no-checks", false, "Skip guardrail checks")
}

func newSynthCmd() *cobra.Command {
	var opts synthOptions

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Synthesize the CloudFormation template",
		Long: `Synth declares the selected stack and writes its CloudFormation template.

Guardrail errors (a publicly readable bucket, an unconditioned CloudFront
grant, plain HTTP viewers) abort synthesis unless --no-checks is given.

Examples:
    wetwire-mkdocs synth
    wetwire-mkdocs synth -o template.json
    wetwire-mkdocs synth --format yaml --stack minimal`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynth(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	addSynthFlags(cmd, &opts)
	return cmd
}

func runSynth(ctx context.Context, out io.Writer, opts synthOptions) error {
	st, err := loadStack(ctx, opts.stack)
	if err != nil {
		return err
	}
	return synthesize(ctx, out, st, opts)
}

// synthesize renders the template of st. With --format json a failed
// synthesis is reported as a BuildResult on out.
func synthesize(ctx context.Context, out io.Writer, st synthesizer, opts synthOptions) error {
	logger := log.FromContext(ctx)

	tmpl, err := st.Synth()
	if err != nil {
		return buildFailure(out, st.ID(), opts.format, "synth failed", errorList(err))
	}

	if !opts.noChecks {
		result := checks.Run(tmpl)
		var failed []string
		for _, f := range result.Findings {
			if f.Severity == checks.SeverityWarning {
				logger.Warn(ctx, f.Message, "rule", f.Rule, "resource", f.Resource)
				continue
			}
			failed = append(failed, fmt.Sprintf("%s %s: %s", f.Rule, f.Resource, f.Message))
		}
		if len(failed) > 0 {
			return buildFailure(out, st.ID(), opts.format, "guardrail checks failed", failed)
		}
	}

	data, err := renderTemplate(tmpl, opts.format)
	if err != nil {
		return err
	}

	if opts.outputFile == "" {
		_, err := out.Write(data)
		return err
	}
	if err := os.WriteFile(opts.outputFile, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", opts.outputFile, err)
	}
	logger.Info(ctx, "template written", "stack", st.ID(), "file", opts.outputFile, "resources", len(tmpl.Resources))
	return nil
}

// buildFailure writes a BuildResult for json output and returns the
// error the command exits with.
func buildFailure(out io.Writer, stackID, format, reason string, errs []string) error {
	if format != "json" {
		return fmt.Errorf("%s: %s", reason, strings.Join(errs, "; "))
	}

	data, err := json.MarshalIndent(wetwire.BuildResult{
		Success: false,
		Stack:   stackID,
		Errors:  errs,
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data))
	return errors.New(reason)
}

// errorList flattens joined errors into one message each.
func errorList(err error) []string {
	var msgs []string
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, errorList(e)...)
		}
		return msgs
	}
	return []string{err.Error()}
}

func renderTemplate(tmpl *wetwire.Template, format string) ([]byte, error) {
	switch format {
	case "json":
		return template.ToJSON(tmpl)
	case "yaml":
		return template.ToYAML(tmpl)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}
