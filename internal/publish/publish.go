// Package publish uploads a built MkDocs site directory to the site bucket.
package publish

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"

	"github.com/lex00/wetwire-mkdocs-go/internal/log"
)

const (
	// DefaultConcurrency bounds the number of uploads in flight.
	DefaultConcurrency = 8
	// DefaultContentType is used when the extension is unknown.
	DefaultContentType = "application/octet-stream"
)

// ErrNoBucket is returned when no bucket name is given.
var ErrNoBucket = errors.New("bucket is required")

// PutObjectAPI is the subset of the S3 API used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ PutObjectAPI = (*s3.Client)(nil)

// Options configures a publish run.
type Options struct {
	Bucket       string
	Prefix       string
	Concurrency  int
	CacheControl string
	DryRun       bool
	Logger       log.Logger
}

// Object is one uploaded (or, on a dry run, planned) file.
type Object struct {
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Result lists the objects of a publish run, sorted by key.
type Result struct {
	Bucket  string   `json:"bucket"`
	DryRun  bool     `json:"dryRun,omitempty"`
	Objects []Object `json:"objects"`
}

// Publisher uploads files from a file system to S3.
type Publisher struct {
	client PutObjectAPI
	opts   Options
	logger log.Logger
}

// New returns a Publisher that uploads with client.
func New(client PutObjectAPI, opts Options) (*Publisher, error) {
	if opts.Bucket == "" {
		return nil, ErrNoBucket
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	opts.Prefix = strings.Trim(opts.Prefix, "/")
	logger := opts.Logger
	if logger == nil {
		logger = log.Nop()
	}
	return &Publisher{client: client, opts: opts, logger: logger}, nil
}

// NewFromEnv builds a Publisher with an S3 client from the default AWS
// credential chain. An empty region keeps the chain's own region.
func NewFromEnv(ctx context.Context, region string, opts Options) (*Publisher, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return New(s3.NewFromConfig(awsCfg), opts)
}

// Key returns the object key for a slash-separated relative path.
func (p *Publisher) Key(rel string) string {
	if p.opts.Prefix == "" {
		return rel
	}
	return p.opts.Prefix + "/" + rel
}

// Publish uploads every regular file in fsys. The first failing upload
// cancels the rest.
func (p *Publisher) Publish(ctx context.Context, fsys fs.FS) (*Result, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking site: %w", err)
	}

	objects := make([]Object, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)

	for i, name := range files {
		g.Go(func() error {
			obj, err := p.upload(gctx, fsys, name)
			if err != nil {
				return err
			}
			objects[i] = obj
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	p.logger.Info(ctx, "publish complete", "bucket", p.opts.Bucket, "objects", len(objects), "dry_run", p.opts.DryRun)
	return &Result{Bucket: p.opts.Bucket, DryRun: p.opts.DryRun, Objects: objects}, nil
}

func (p *Publisher) upload(ctx context.Context, fsys fs.FS, name string) (Object, error) {
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return Object{}, fmt.Errorf("stat %s: %w", name, err)
	}
	obj := Object{Key: p.Key(name), ContentType: ContentType(name), Size: info.Size()}

	if p.opts.DryRun {
		p.logger.Debug(ctx, "would upload", "key", obj.Key, "content_type", obj.ContentType)
		return obj, nil
	}

	f, err := fsys.Open(name)
	if err != nil {
		return Object{}, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	input := &s3.PutObjectInput{
		Bucket:        aws.String(p.opts.Bucket),
		Key:           aws.String(obj.Key),
		Body:          f,
		ContentType:   aws.String(obj.ContentType),
		ContentLength: aws.Int64(obj.Size),
	}
	if p.opts.CacheControl != "" {
		input.CacheControl = aws.String(p.opts.CacheControl)
	}
	if _, err := p.client.PutObject(ctx, input); err != nil {
		return Object{}, fmt.Errorf("put s3://%s/%s: %w", p.opts.Bucket, obj.Key, err)
	}
	p.logger.Debug(ctx, "uploaded", "key", obj.Key, "size", obj.Size)
	return obj, nil
}

// ContentType returns the MIME type for a file name.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return DefaultContentType
}
