package main

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-mkdocs-go/internal/graph"
)

type graphOptions struct {
	stack             stackFlags
	format            string
	includeParameters bool
	clusterByType     bool
}

func newGraphCmd() *cobra.Command {
	var opts graphOptions

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Generate DOT graph of resource dependencies",
		Long: `Generate a DOT or Mermaid format graph showing resource dependencies.

The output can be rendered with Graphviz:
    wetwire-mkdocs graph | dot -Tpng -o deps.png

Or used in GitHub markdown (Mermaid format):
    wetwire-mkdocs graph -f mermaid

Examples:
    wetwire-mkdocs graph
    wetwire-mkdocs graph -p              # include parameters
    wetwire-mkdocs graph -c              # cluster by service
    wetwire-mkdocs graph -f mermaid      # mermaid format`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	addStackFlags(cmd, &opts.stack)
	cmd.Flags().StringVarP(&opts.format, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVarP(&opts.includeParameters, "include-parameters", "p", false, "Include parameter nodes in the graph")
	cmd.Flags().BoolVarP(&opts.clusterByType, "cluster", "c", false, "Cluster resources by AWS service type")

	return cmd
}

func runGraph(ctx context.Context, out io.Writer, opts graphOptions) error {
	var graphFormat graph.Format
	switch opts.format {
	case "dot":
		graphFormat = graph.FormatDOT
	case "mermaid":
		graphFormat = graph.FormatMermaid
	default:
		return fmt.Errorf("unknown format: %s (use 'dot' or 'mermaid')", opts.format)
	}

	st, err := loadStack(ctx, opts.stack)
	if err != nil {
		return err
	}

	tmpl, err := st.Synth()
	if err != nil {
		return err
	}
	resources, err := st.Resources()
	if err != nil {
		return err
	}

	parameters := make([]string, 0, len(tmpl.Parameters))
	for name := range tmpl.Parameters {
		parameters = append(parameters, name)
	}
	sort.Strings(parameters)

	gen := &graph.Generator{
		Format:            graphFormat,
		IncludeParameters: opts.includeParameters,
		ClusterByType:     opts.clusterByType,
	}
	return gen.Generate(resources, parameters, out)
}
