package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	wetwire "github.com/lex00/wetwire-mkdocs-go"
	"github.com/lex00/wetwire-mkdocs-go/config"
	"github.com/lex00/wetwire-mkdocs-go/internal/log"
	"github.com/lex00/wetwire-mkdocs-go/stacks/minimal"
	"github.com/lex00/wetwire-mkdocs-go/stacks/site"
)

// Stack names accepted by --stack.
const (
	stackSite    = "site"
	stackMinimal = "minimal"
)

// synthesizer is what the commands need from a declared stack.
type synthesizer interface {
	ID() string
	Synth() (*wetwire.Template, error)
	Resources() ([]wetwire.StackResource, error)
}

type stackFlags struct {
	name    string
	envFile string
}

func addStackFlags(cmd *cobra.Command, f *stackFlags) {
	cmd.Flags().StringVarP(&f.name, "stack", "s", stackSite, "Stack to synthesize: site or minimal")
	cmd.Flags().StringVar(&f.envFile, "env-file", config.DefaultEnvFile, "Env file with CDK_DEFAULT_ACCOUNT and CDK_DEFAULT_REGION")
}

// loadStack loads and validates the deployment target, then declares
// the selected stack.
func loadStack(ctx context.Context, f stackFlags) (synthesizer, error) {
	logger := log.FromContext(ctx)

	cfg, err := config.Load(f.envFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.EnvFile != "" {
		logger.Debug(ctx, "config loaded", "env_file", cfg.EnvFile, "account", cfg.Account, "region", cfg.Region)
	}

	switch f.name {
	case stackSite:
		if !cfg.IsEdgeRegion() {
			logger.Warn(ctx, "Lambda@Edge functions must be created in "+config.EdgeRegion, "region", cfg.Region)
		}
		st, err := site.New(site.StackID, cfg)
		if err != nil {
			return nil, err
		}
		return st, nil
	case stackMinimal:
		return minimal.New(minimal.StackID), nil
	default:
		return nil, fmt.Errorf("unknown stack %q (valid stacks are %s|%s)", f.name, stackSite, stackMinimal)
	}
}
