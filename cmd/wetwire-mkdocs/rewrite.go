package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-mkdocs-go/edge"
)

type rewriteOptions struct {
	index     string
	eventFile string
}

func newRewriteCmd() *cobra.Command {
	var opts rewriteOptions

	cmd := &cobra.Command{
		Use:   "rewrite [uri...]",
		Short: "Run the edge URL rewrite locally",
		Long: `Rewrite applies the Lambda@Edge origin-request rewrite without deploying it.

A URI ending in "/" gets the index document appended; anything else is
returned unchanged. With --event the CloudFront event envelope in FILE
("-" for stdin) is handled and the resulting request printed.

Examples:
    wetwire-mkdocs rewrite / /guide/ /assets/main.css
    wetwire-mkdocs rewrite --index home.html /docs/
    wetwire-mkdocs rewrite --event event.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.eventFile == "" && len(args) == 0 {
				return fmt.Errorf("rewrite needs at least one uri or --event")
			}
			return runRewrite(cmd.InOrStdin(), cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.index, "index", edge.DefaultIndexDocument, "Index document appended to directory URIs")
	cmd.Flags().StringVar(&opts.eventFile, "event", "", "CloudFront event JSON file, - for stdin")

	return cmd
}

func runRewrite(in io.Reader, out io.Writer, uris []string, opts rewriteOptions) error {
	if opts.eventFile != "" {
		var (
			data []byte
			err  error
		)
		if opts.eventFile == "-" {
			data, err = io.ReadAll(in)
		} else {
			data, err = os.ReadFile(opts.eventFile)
		}
		if err != nil {
			return fmt.Errorf("reading event: %w", err)
		}

		req, err := edge.HandleJSON(data, opts.index)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(req))
		return nil
	}

	for _, uri := range uris {
		fmt.Fprintf(out, "%s -> %s\n", uri, edge.Rewrite(uri, opts.index))
	}
	return nil
}
