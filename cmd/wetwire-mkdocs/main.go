// Command wetwire-mkdocs synthesizes the CloudFormation template for a
// MkDocs site served from a private S3 bucket through CloudFront.
//
// Usage:
//
//	wetwire-mkdocs                     Synthesize the site template to stdout
//	wetwire-mkdocs synth -o site.json  Write the template to a file
//	wetwire-mkdocs validate            Run guardrails and cfn-lint
//	wetwire-mkdocs publish --bucket B  Upload the built site
//	wetwire-mkdocs version             Show version
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-mkdocs-go/internal/log"
)

const appName = "wetwire-mkdocs"

type globalFlags struct {
	logLevel string
	logJSON  bool
}

func newRootCmd() *cobra.Command {
	var (
		global globalFlags
		synth  synthOptions
	)

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Synthesize the CloudFormation template for a MkDocs site",
		Long: `wetwire-mkdocs declares a static MkDocs site on AWS and synthesizes it
as a CloudFormation template.

The site stack holds a private S3 bucket, a CloudFront distribution that
reads it through an Origin Access Control, and a Lambda@Edge function that
rewrites directory URLs to their index document.

Deployment target is read from .env and the process environment:

    CDK_DEFAULT_ACCOUNT=123456789012
    CDK_DEFAULT_REGION=us-east-1

Run without a subcommand to synthesize the site template to stdout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(global.logLevel)
			if err != nil {
				return err
			}
			logger := log.New(log.Options{
				App:        appName,
				Version:    getVersion(),
				Level:      level,
				JSONFormat: global.logJSON,
				Writer:     cmd.ErrOrStderr(),
			})
			cmd.SetContext(log.WithContext(cmd.Context(), logger))
			return nil
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynth(cmd.Context(), cmd.OutOrStdout(), synth)
		},
	}

	rootCmd.PersistentFlags().StringVar(&global.logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&global.logJSON, "log-json", false, "Emit logs as JSON")
	addSynthFlags(rootCmd, &synth)

	rootCmd.AddCommand(
		newSynthCmd(),
		newValidateCmd(),
		newListCmd(),
		newGraphCmd(),
		newDiffCmd(),
		newRewriteCmd(),
		newPublishCmd(),
		newWatchCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, getVersion())
		},
	}
}
