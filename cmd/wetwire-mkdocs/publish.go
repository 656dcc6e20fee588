package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-mkdocs-go/config"
	"github.com/lex00/wetwire-mkdocs-go/internal/log"
	"github.com/lex00/wetwire-mkdocs-go/internal/publish"
)

type publishOptions struct {
	dir          string
	bucket       string
	prefix       string
	concurrency  int
	cacheControl string
	dryRun       bool
	envFile      string
	format       string
}

func newPublishCmd() *cobra.Command {
	var opts publishOptions

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload a built MkDocs site to the bucket",
		Long: `Publish uploads every file of a built MkDocs site (mkdocs build) to the
site bucket, with content types derived from file extensions.

The bucket name is the BucketNameOutput of the deployed stack. Credentials
come from the default AWS chain; the region from the env file.

Examples:
    wetwire-mkdocs publish --bucket mkdocs-bucket-123456789012-us-east-1
    wetwire-mkdocs publish --bucket B --dir build/site --cache-control max-age=300
    wetwire-mkdocs publish --bucket B --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.dir, "dir", "d", "site", "Built site directory")
	cmd.Flags().StringVarP(&opts.bucket, "bucket", "b", "", "Destination bucket")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "Key prefix inside the bucket")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "j", publish.DefaultConcurrency, "Parallel uploads")
	cmd.Flags().StringVar(&opts.cacheControl, "cache-control", "", "Cache-Control header for every object")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "List the uploads without performing them")
	cmd.Flags().StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "Env file with CDK_DEFAULT_REGION")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text or json")
	_ = cmd.MarkFlagRequired("bucket")

	return cmd
}

func runPublish(ctx context.Context, out io.Writer, opts publishOptions) error {
	info, err := os.Stat(opts.dir)
	if err != nil {
		return fmt.Errorf("site directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("site directory: %s is not a directory", opts.dir)
	}

	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	popts := publish.Options{
		Bucket:       opts.bucket,
		Prefix:       opts.prefix,
		Concurrency:  opts.concurrency,
		CacheControl: opts.cacheControl,
		DryRun:       opts.dryRun,
		Logger:       log.FromContext(ctx).With("component", "publish"),
	}

	var p *publish.Publisher
	if opts.dryRun {
		p, err = publish.New(nil, popts)
	} else {
		p, err = publish.NewFromEnv(ctx, cfg.Region, popts)
	}
	if err != nil {
		return err
	}

	result, err := p.Publish(ctx, os.DirFS(opts.dir))
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	return outputPublishResult(out, result, opts.format)
}

func outputPublishResult(out io.Writer, result *publish.Result, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))

	case "text":
		verb := "Uploaded"
		if result.DryRun {
			verb = "Would upload"
		}
		for _, obj := range result.Objects {
			fmt.Fprintf(out, "  s3://%s/%s (%s, %d bytes)\n", result.Bucket, obj.Key, obj.ContentType, obj.Size)
		}
		fmt.Fprintf(out, "%s %d objects to %s\n", verb, len(result.Objects), result.Bucket)

	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}
