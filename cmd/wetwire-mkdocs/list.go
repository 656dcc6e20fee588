package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-mkdocs-go"
)

func newListCmd() *cobra.Command {
	var (
		flags        stackFlags
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the resources of a stack",
		Long: `List declares the stack and displays its resources in dependency order.

Examples:
    wetwire-mkdocs list
    wetwire-mkdocs list --stack minimal --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), cmd.OutOrStdout(), flags, outputFormat)
		},
	}

	addStackFlags(cmd, &flags)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format: text or json")

	return cmd
}

func runList(ctx context.Context, out io.Writer, flags stackFlags, format string) error {
	st, err := loadStack(ctx, flags)
	if err != nil {
		return err
	}

	resources, err := st.Resources()
	if err != nil {
		return err
	}

	return outputListResult(out, wetwire.ListResult{Stack: st.ID(), Resources: resources}, format)
}

func outputListResult(out io.Writer, result wetwire.ListResult, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))

	case "text":
		if len(result.Resources) == 0 {
			fmt.Fprintln(out, "No resources found.")
			return nil
		}

		fmt.Fprintf(out, "%s resources (%d):\n\n", result.Stack, len(result.Resources))
		for _, res := range result.Resources {
			if len(res.Dependencies) == 0 {
				fmt.Fprintf(out, "  %s: %s\n", res.Name, res.Type)
				continue
			}
			fmt.Fprintf(out, "  %s: %s -> %s\n", res.Name, res.Type, strings.Join(res.Dependencies, ", "))
		}

	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
