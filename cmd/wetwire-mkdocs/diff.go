package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-mkdocs-go"
	"github.com/lex00/wetwire-mkdocs-go/internal/differ"
)

var errTemplatesDiffer = errors.New("templates differ")

type diffOptions struct {
	stack       stackFlags
	format      string
	ignoreOrder bool
}

func newDiffCmd() *cobra.Command {
	var opts diffOptions

	cmd := &cobra.Command{
		Use:   "diff <template1> [template2]",
		Short: "Compare templates semantically",
		Long: `Diff compares CloudFormation templates resource by resource.

With one argument the stored template is compared against a fresh
synthesis of the stack, which shows what a deploy would change. With two
arguments the two files are compared. JSON and YAML are both accepted.

Exits non-zero when the templates differ.

Examples:
    wetwire-mkdocs diff deployed.json
    wetwire-mkdocs diff old.yaml new.json --ignore-order
    wetwire-mkdocs diff deployed.json --format json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.Context(), cmd.OutOrStdout(), args, opts)
		},
	}

	addStackFlags(cmd, &opts.stack)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&opts.ignoreOrder, "ignore-order", false, "Ignore array element order")

	return cmd
}

func runDiff(ctx context.Context, out io.Writer, args []string, opts diffOptions) error {
	dopts := differ.Options{IgnoreOrder: opts.ignoreOrder}

	var (
		result *differ.Result
		err    error
	)
	if len(args) == 2 {
		result, err = differ.CompareFiles(args[0], args[1], dopts)
	} else {
		result, err = diffAgainstStack(ctx, args[0], opts.stack, dopts)
	}
	if err != nil {
		return err
	}

	return outputDiffResult(out, result, opts.format)
}

func diffAgainstStack(ctx context.Context, path string, flags stackFlags, opts differ.Options) (*differ.Result, error) {
	stored, err := differ.LoadTemplate(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	st, err := loadStack(ctx, flags)
	if err != nil {
		return nil, err
	}
	current, err := st.Synth()
	if err != nil {
		return nil, err
	}

	return differ.Compare(stored, current, opts)
}

func outputDiffResult(out io.Writer, result *differ.Result, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(wetwire.DiffResult{
			Success: true,
			Diff:    result.Diff,
			Summary: result.Summary,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))

	case "text":
		if result.Empty() {
			fmt.Fprintln(out, "No differences.")
			return nil
		}
		printEntries(out, "+", result.Diff.Added)
		printEntries(out, "-", result.Diff.Removed)
		printEntries(out, "~", result.Diff.Modified)
		fmt.Fprintf(out, "\n%d added, %d removed, %d modified\n",
			result.Summary.Added, result.Summary.Removed, result.Summary.Modified)

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	if !result.Empty() {
		return errTemplatesDiffer
	}
	return nil
}

func printEntries(out io.Writer, marker string, entries []wetwire.DiffEntry) {
	for _, e := range entries {
		fmt.Fprintf(out, "%s %s (%s)\n", marker, e.Resource, e.Type)
		if len(e.Changes) > 0 {
			fmt.Fprintf(out, "    %s\n", strings.Join(e.Changes, "\n    "))
		}
	}
}
