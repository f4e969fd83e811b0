package objstore

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store implements ObjectStore against an S3-compatible endpoint.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
}

type s3Options struct {
	region      string
	accessKeyID string
	secret      string
	httpClient  *http.Client
	applyS3s    []func(*s3.Options)
}

// S3Option configures NewS3Store.
type S3Option func(*s3Options)

// WithRegion sets the signing region. R2 expects "auto".
func WithRegion(region string) S3Option {
	return func(o *s3Options) {
		o.region = region
	}
}

// WithStaticCredentials uses a fixed access key pair instead of the default
// credential chain.
func WithStaticCredentials(accessKeyID, secretAccessKey string) S3Option {
	return func(o *s3Options) {
		o.accessKeyID = accessKeyID
		o.secret = secretAccessKey
	}
}

// WithEndpoint forces a custom S3 endpoint (R2, MinIO).
func WithEndpoint(url string) S3Option {
	return func(o *s3Options) {
		o.applyS3s = append(o.applyS3s, func(so *s3.Options) {
			so.BaseEndpoint = aws.String(url)
		})
	}
}

// WithPathStyle uses path-style addressing instead of virtual-host.
func WithPathStyle() S3Option {
	return func(o *s3Options) {
		o.applyS3s = append(o.applyS3s, func(so *s3.Options) {
			so.UsePathStyle = true
		})
	}
}

// WithHTTPClient overrides the transport used for storage calls.
func WithHTTPClient(c *http.Client) S3Option {
	return func(o *s3Options) {
		o.httpClient = c
	}
}

// NewS3Store builds a store. Checksums are only computed when the operation
// requires them; R2 rejects some of the newer default checksum headers.
func NewS3Store(ctx context.Context, opts ...S3Option) (*S3Store, error) {
	o := &s3Options{region: "auto"}
	for _, opt := range opts {
		opt(o)
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(o.region),
	}
	if o.accessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.accessKeyID, o.secret, ""),
		))
	}
	if o.httpClient != nil {
		loadOpts = append(loadOpts, awsconfig.WithHTTPClient(o.httpClient))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	cfg.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	cfg.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired

	client := s3.NewFromConfig(cfg, o.applyS3s...)
	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

// NewS3StoreFromConfig builds a store from environment settings.
func NewS3StoreFromConfig(ctx context.Context, cfg Config) (*S3Store, error) {
	opts := []S3Option{WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, WithStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, WithEndpoint(cfg.Endpoint), WithPathStyle())
	}
	return NewS3Store(ctx, opts...)
}

// PutObject uploads the whole body in one request (multipart for large
// bodies, handled by the upload manager).
func (s *S3Store) PutObject(ctx context.Context, in PutObjectInput) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(in.Bucket),
		Key:           aws.String(in.Key),
		Body:          bytes.NewReader(in.Body),
		ContentLength: aws.Int64(int64(len(in.Body))),
	}
	if in.ContentType != "" {
		input.ContentType = aws.String(in.ContentType)
	}
	if in.CacheControl != "" {
		input.CacheControl = aws.String(in.CacheControl)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return newUploadError("put", in.Bucket, in.Key, err)
	}
	return nil
}

// DeleteObject removes a single object.
func (s *S3Store) DeleteObject(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return newUploadError("delete", bucket, key, err)
	}
	return nil
}
