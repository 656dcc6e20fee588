package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wetwire "github.com/lex00/wetwire-mkdocs-go"
	"github.com/lex00/wetwire-mkdocs-go/config"
	"github.com/lex00/wetwire-mkdocs-go/stacks/minimal"
	"github.com/lex00/wetwire-mkdocs-go/stacks/site"
)

// writeEnv clears the process environment keys and writes an env file
// with the given contents, returning its path.
func writeEnv(t *testing.T, contents string) string {
	t.Helper()
	t.Setenv(config.EnvAccount, "")
	t.Setenv(config.EnvRegion, "")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func validEnv(t *testing.T) string {
	return writeEnv(t, "CDK_DEFAULT_ACCOUNT=123456789012\nCDK_DEFAULT_REGION=us-east-1\n")
}

func siteSynth(envFile string) synthOptions {
	return synthOptions{stack: stackFlags{name: stackSite, envFile: envFile}, format: "json"}
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"synth", "validate", "list", "graph", "diff", "rewrite", "publish", "watch", "version"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"log-level", "log-json"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
	for _, flag := range []string{"stack", "format", "output", "env-file", "no-checks"} {
		assert.NotNil(t, root.Flags().Lookup(flag), flag)
	}
}

func TestRootCmd_DefaultsToSynth(t *testing.T) {
	env := validEnv(t)

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--env-file", env})

	require.NoError(t, root.ExecuteContext(context.Background()))

	var tmpl wetwire.Template
	require.NoError(t, json.Unmarshal(out.Bytes(), &tmpl))
	assert.Contains(t, tmpl.Resources, site.DistributionID)
}

func TestRootCmd_InvalidLogLevel(t *testing.T) {
	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--log-level", "loud", "version"})

	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestRunSynth_Site(t *testing.T) {
	env := validEnv(t)

	var out bytes.Buffer
	require.NoError(t, runSynth(context.Background(), &out, siteSynth(env)))

	var tmpl wetwire.Template
	require.NoError(t, json.Unmarshal(out.Bytes(), &tmpl))

	assert.Equal(t, "2010-09-09", tmpl.AWSTemplateFormatVersion)
	for _, id := range []string{site.BucketID, site.OriginAccessID, site.FunctionID, site.DistributionID, site.BucketPolicyID} {
		assert.Contains(t, tmpl.Resources, id)
	}
	assert.Equal(t, "mkdocs-bucket-123456789012-us-east-1", tmpl.Parameters[site.BucketNameParam].Default)
	assert.Len(t, tmpl.Outputs, 3)
}

func TestRunSynth_ProcessEnvOverridesFile(t *testing.T) {
	env := writeEnv(t, "CDK_DEFAULT_ACCOUNT=111111111111\nCDK_DEFAULT_REGION=eu-west-1\n")
	t.Setenv(config.EnvAccount, "222222222222")

	var out bytes.Buffer
	require.NoError(t, runSynth(context.Background(), &out, siteSynth(env)))
	assert.Contains(t, out.String(), "mkdocs-bucket-222222222222-eu-west-1")
}

func TestRunSynth_MissingConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		missing []string
	}{
		{"both", "", []string{config.EnvAccount, config.EnvRegion}},
		{"account", "CDK_DEFAULT_REGION=us-east-1\n", []string{config.EnvAccount}},
		{"region", "CDK_DEFAULT_ACCOUNT=123456789012\n", []string{config.EnvRegion}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := writeEnv(t, tt.env)

			var out bytes.Buffer
			err := runSynth(context.Background(), &out, siteSynth(env))
			require.Error(t, err)
			for _, key := range tt.missing {
				assert.Contains(t, err.Error(), key)
			}
			assert.Empty(t, out.String())
		})
	}
}

func TestRunSynth_MissingEnvFileUsesProcessEnv(t *testing.T) {
	t.Setenv(config.EnvAccount, "123456789012")
	t.Setenv(config.EnvRegion, "us-east-1")

	opts := siteSynth(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, runSynth(context.Background(), io.Discard, opts))
}

func TestRunSynth_MinimalYAMLToFile(t *testing.T) {
	env := validEnv(t)
	path := filepath.Join(t.TempDir(), "template.yaml")

	var out bytes.Buffer
	err := runSynth(context.Background(), &out, synthOptions{
		stack:      stackFlags{name: stackMinimal, envFile: env},
		format:     "yaml",
		outputFile: path,
	})
	require.NoError(t, err)
	assert.Empty(t, out.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), minimal.BucketID+":")
	assert.Contains(t, string(data), "Fn::Sub")
	assert.Contains(t, string(data), minimal.BucketNameFormat)
}

func TestRunSynth_Errors(t *testing.T) {
	env := validEnv(t)

	err := runSynth(context.Background(), io.Discard, synthOptions{stack: stackFlags{name: "blog", envFile: env}, format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown stack "blog"`)

	err = runSynth(context.Background(), io.Discard, synthOptions{stack: stackFlags{name: stackSite, envFile: env}, format: "toml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format: toml")
}

func TestRunValidate(t *testing.T) {
	env := validEnv(t)

	var out bytes.Buffer
	err := runValidate(context.Background(), &out, validateOptions{
		stack:  stackFlags{name: stackSite, envFile: env},
		format: "json",
		noLint: true,
	})
	require.NoError(t, err)

	var result wetwire.ValidateResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, site.StackID, result.Stack)
	assert.Positive(t, result.Resources)
}

func TestRunList(t *testing.T) {
	env := validEnv(t)

	var out bytes.Buffer
	require.NoError(t, runList(context.Background(), &out, stackFlags{name: stackSite, envFile: env}, "text"))

	text := out.String()
	assert.Contains(t, text, site.StackID)
	assert.Contains(t, text, "Distribution: AWS::CloudFront::Distribution")
	assert.Less(t, strings.Index(text, "  Bucket:"), strings.Index(text, "  Distribution:"))
}

func TestRunList_JSON(t *testing.T) {
	env := validEnv(t)

	var out bytes.Buffer
	require.NoError(t, runList(context.Background(), &out, stackFlags{name: stackMinimal, envFile: env}, "json"))

	var result wetwire.ListResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	require.Len(t, result.Resources, 1)
	assert.Equal(t, minimal.BucketID, result.Resources[0].Name)
}

func TestRunGraph(t *testing.T) {
	env := validEnv(t)

	var out bytes.Buffer
	err := runGraph(context.Background(), &out, graphOptions{
		stack:  stackFlags{name: stackSite, envFile: env},
		format: "dot",
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "digraph")
	assert.Contains(t, out.String(), site.DistributionID)

	err = runGraph(context.Background(), io.Discard, graphOptions{format: "svg"})
	assert.Error(t, err)
}

func TestRunDiff_AgainstStack(t *testing.T) {
	env := validEnv(t)
	dir := t.TempDir()
	stored := filepath.Join(dir, "deployed.json")

	opts := siteSynth(env)
	opts.outputFile = stored
	require.NoError(t, runSynth(context.Background(), io.Discard, opts))

	var out bytes.Buffer
	err := runDiff(context.Background(), &out, []string{stored}, diffOptions{stack: opts.stack, format: "text"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No differences.")
}

func TestRunDiff_TwoFiles(t *testing.T) {
	env := validEnv(t)
	dir := t.TempDir()
	a := filepath.Join(dir, "site.json")
	b := filepath.Join(dir, "minimal.json")

	require.NoError(t, runSynth(context.Background(), io.Discard, synthOptions{stack: stackFlags{name: stackSite, envFile: env}, format: "json", outputFile: a}))
	require.NoError(t, runSynth(context.Background(), io.Discard, synthOptions{stack: stackFlags{name: stackMinimal, envFile: env}, format: "json", outputFile: b}))

	var out bytes.Buffer
	err := runDiff(context.Background(), &out, []string{a, b}, diffOptions{format: "json"})
	assert.ErrorIs(t, err, errTemplatesDiffer)

	var result wetwire.DiffResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Positive(t, result.Summary.Added)
	assert.Positive(t, result.Summary.Removed)
}

func TestRunRewrite(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runRewrite(nil, &out, []string{"/", "/guide/", "/assets/main.css"}, rewriteOptions{index: "index.html"}))

	assert.Equal(t, "/ -> /index.html\n/guide/ -> /guide/index.html\n/assets/main.css -> /assets/main.css\n", out.String())
}

func TestRunRewrite_Event(t *testing.T) {
	event := `{"Records":[{"cf":{"config":{"eventType":"origin-request"},"request":{"uri":"/docs/","method":"GET"}}}]}`

	var out bytes.Buffer
	require.NoError(t, runRewrite(strings.NewReader(event), &out, nil, rewriteOptions{index: "home.html", eventFile: "-"}))
	assert.Contains(t, out.String(), `"uri": "/docs/home.html"`)

	err := runRewrite(strings.NewReader(`{"Records":[]}`), io.Discard, nil, rewriteOptions{eventFile: "-"})
	assert.Error(t, err)
}

func TestRunPublish_DryRun(t *testing.T) {
	env := validEnv(t)
	siteDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(siteDir, "index.html"), []byte("<html></html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(siteDir, "guide"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(siteDir, "guide", "index.html"), []byte("<html></html>"), 0o644))

	var out bytes.Buffer
	err := runPublish(context.Background(), &out, publishOptions{
		dir:     siteDir,
		bucket:  "mkdocs-bucket",
		dryRun:  true,
		envFile: env,
		format:  "text",
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "s3://mkdocs-bucket/guide/index.html")
	assert.Contains(t, out.String(), "Would upload 2 objects to mkdocs-bucket")
}

func TestRunPublish_MissingDir(t *testing.T) {
	err := runPublish(context.Background(), io.Discard, publishOptions{dir: filepath.Join(t.TempDir(), "site"), bucket: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "site directory")
}

func TestNewPublishCmd(t *testing.T) {
	cmd := newPublishCmd()

	assert.Equal(t, "publish", cmd.Use)
	for _, flag := range []string{"dir", "bucket", "prefix", "concurrency", "cache-control", "dry-run"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), flag)
	}
	assert.Equal(t, "site", cmd.Flags().Lookup("dir").DefValue)
}

func TestNewDiffCmd(t *testing.T) {
	cmd := newDiffCmd()

	assert.Equal(t, "diff <template1> [template2]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotNil(t, cmd.Flags().Lookup("format"))
	assert.NotNil(t, cmd.Flags().Lookup("ignore-order"))
}

func TestNewWatchCmd(t *testing.T) {
	cmd := newWatchCmd()

	assert.Equal(t, "watch", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	flag := cmd.Flags().Lookup("debounce")
	require.NotNil(t, flag)
	assert.Equal(t, "500ms", flag.DefValue)
	assert.NotNil(t, cmd.Flags().Lookup("env-file"))
}

func TestIsEnvChange(t *testing.T) {
	env := "/work/.env"

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: env, Op: fsnotify.Write}, true},
		{"create after rename", fsnotify.Event{Name: env, Op: fsnotify.Create}, true},
		{"remove", fsnotify.Event{Name: env, Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: env, Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: "/work/mkdocs.yml", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isEnvChange(tt.event, env))
		})
	}
}

type fakeStack struct {
	tmpl *wetwire.Template
	err  error
}

func (f fakeStack) ID() string { return "BrokenStack" }
func (f fakeStack) Synth() (*wetwire.Template, error) { return f.tmpl, f.err }
func (f fakeStack) Resources() ([]wetwire.StackResource, error) {
	return nil, f.err
}

func TestSynthesize_FailureReport(t *testing.T) {
	st := fakeStack{err: errors.Join(
		errors.New(`Bucket: undefined reference "Missing"`),
		errors.New("circular dependency detected: A → B"),
	)}

	var out bytes.Buffer
	err := synthesize(context.Background(), &out, st, synthOptions{format: "json"})
	require.Error(t, err)
	assert.Equal(t, "synth failed", err.Error())

	var result wetwire.BuildResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, "BrokenStack", result.Stack)
	assert.Equal(t, []string{`Bucket: undefined reference "Missing"`, "circular dependency detected: A → B"}, result.Errors)
}

func TestSynthesize_GuardrailReport(t *testing.T) {
	st := fakeStack{tmpl: &wetwire.Template{
		AWSTemplateFormatVersion: "2010-09-09",
		Resources: map[string]wetwire.ResourceDef{
			"Bucket": {Type: "AWS::S3::Bucket", Properties: map[string]any{"BucketName": "public"}},
		},
	}}

	var out bytes.Buffer
	err := synthesize(context.Background(), &out, st, synthOptions{format: "json"})
	require.Error(t, err)
	assert.Equal(t, "guardrail checks failed", err.Error())

	var result wetwire.BuildResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.False(t, result.Success)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "CHK-S3-001 Bucket")
}

func TestSynthesize_FailureTextFormat(t *testing.T) {
	st := fakeStack{err: errors.New("duplicate resource Bucket")}

	var out bytes.Buffer
	err := synthesize(context.Background(), &out, st, synthOptions{format: "yaml"})
	require.Error(t, err)
	assert.Equal(t, "synth failed: duplicate resource Bucket", err.Error())
	assert.Empty(t, out.String())
}
