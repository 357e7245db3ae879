package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Client is the subset of *s3.Client used by S3Storage.
type S3Client interface {
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Config configures the S3 backend. Endpoint and ForcePathStyle point it
// at MinIO or another S3-compatible service.
type S3Config struct {
	Region         string `env:"S3_REGION"           envDefault:"us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`
	BaseURL        string `env:"S3_BASE_URL"`
	BucketPrefix   string `env:"S3_BUCKET_PREFIX"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE"`
}

// S3Storage maps every logical bucket to its own S3 bucket, named by
// BucketName. It is safe for concurrent use.
type S3Storage struct {
	client        S3Client
	region        string
	bucketPrefix  string
	baseURL       string
	uploadTimeout time.Duration
}

type S3Option func(*s3Settings)

type s3Settings struct {
	client        S3Client
	httpClient    *http.Client
	clientOptions []func(*s3.Options)
	uploadTimeout time.Duration
}

// WithS3Client replaces the SDK client, typically with a mock.
func WithS3Client(c S3Client) S3Option {
	return func(s *s3Settings) { s.client = c }
}

func WithHTTPClient(c *http.Client) S3Option {
	return func(s *s3Settings) { s.httpClient = c }
}

func WithS3ClientOption(fn func(*s3.Options)) S3Option {
	return func(s *s3Settings) { s.clientOptions = append(s.clientOptions, fn) }
}

// WithS3UploadTimeout bounds each Put call.
func WithS3UploadTimeout(d time.Duration) S3Option {
	return func(s *s3Settings) { s.uploadTimeout = d }
}

// NewS3Storage builds the backend. Without WithS3Client the SDK client is
// created from the default AWS credential chain, overridden by the static
// keys in cfg when both are set.
func NewS3Storage(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Storage, error) {
	if cfg.Region == "" {
		return nil, ErrInvalidConfig
	}

	var set s3Settings
	for _, opt := range opts {
		opt(&set)
	}

	client := set.client
	if client == nil {
		c, err := newS3Client(ctx, cfg, set)
		if err != nil {
			return nil, err
		}
		client = c
	}

	return &S3Storage{
		client:        client,
		region:        cfg.Region,
		bucketPrefix:  cfg.BucketPrefix,
		baseURL:       publicBaseURL(cfg),
		uploadTimeout: set.uploadTimeout,
	}, nil
}

func newS3Client(ctx context.Context, cfg S3Config, set s3Settings) (*s3.Client, error) {
	load := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		load = append(load, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}
	if set.httpClient != nil {
		load = append(load, awsconfig.WithHTTPClient(set.httpClient))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, load...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToLoadConfig, err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
		for _, fn := range set.clientOptions {
			fn(o)
		}
	}), nil
}

// publicBaseURL is BaseURL, else the endpoint, else the regional AWS host,
// always with a trailing slash.
func publicBaseURL(cfg S3Config) string {
	base := cfg.BaseURL
	switch {
	case base != "":
	case cfg.Endpoint != "":
		base = cfg.Endpoint
	default:
		base = "https://s3." + cfg.Region + ".amazonaws.com"
	}
	return strings.TrimSuffix(base, "/") + "/"
}

// BucketName maps a logical bucket id to a DNS-compatible S3 bucket name:
// "videos_bucket" becomes "<prefix>videos-bucket".
func (s *S3Storage) BucketName(bucket string) string {
	return s.bucketPrefix + strings.ReplaceAll(strings.ToLower(bucket), "_", "-")
}

func (s *S3Storage) bucket(bucket string) *string {
	return aws.String(s.BucketName(bucket))
}

// apiErrors maps S3 error codes to package errors.
var apiErrors = map[string]error{
	"AccessDenied":        ErrAccessDenied,
	"Forbidden":           ErrAccessDenied,
	"RequestTimeout":      ErrRequestTimeout,
	"SlowDown":            ErrServiceUnavailable,
	"ServiceUnavailable":  ErrServiceUnavailable,
	"NoSuchKey":           ErrFileNotFound,
	"NoSuchBucket":        ErrBucketNotFound,
	"BucketAlreadyExists": ErrBucketTaken,
}

// s3Error wraps err with the package error matching its cause, tagged with op.
func s3Error(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s", ErrOperationTimeout, op)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %s", ErrOperationCanceled, op)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if known, ok := apiErrors[apiErr.ErrorCode()]; ok {
			return fmt.Errorf("%w: %s: %s", known, op, apiErr.ErrorCode())
		}
		return fmt.Errorf("%s: %s: %w", op, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func hasCode(err error, codes ...string) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, c := range codes {
		if apiErr.ErrorCode() == c {
			return true
		}
	}
	return false
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	return errors.As(err, &nf) || hasCode(err, "NotFound", "NoSuchBucket", "NoSuchKey")
}

// EnsureBucket creates the bucket. One already owned by this account is not
// an error and reports created=false.
func (s *S3Storage) EnsureBucket(ctx context.Context, bucket string) (bool, error) {
	if err := ValidateBucket(bucket); err != nil {
		return false, err
	}

	in := &s3.CreateBucketInput{Bucket: s.bucket(bucket)}
	if s.region != "us-east-1" {
		in.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}

	_, err := s.client.CreateBucket(ctx, in)
	switch {
	case err == nil:
		return true, nil
	case hasCode(err, "BucketAlreadyOwnedByYou"):
		return false, nil
	default:
		return false, s3Error("create bucket", err)
	}
}

func (s *S3Storage) BucketExists(ctx context.Context, bucket string) (bool, error) {
	if err := ValidateBucket(bucket); err != nil {
		return false, err
	}

	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: s.bucket(bucket)})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, s3Error("head bucket", err)
	}
	return true, nil
}

func (s *S3Storage) Put(ctx context.Context, bucket, name string, r io.Reader, size int64) (*Object, error) {
	if err := ValidateBucket(bucket); err != nil {
		return nil, err
	}
	if err := validateObjectName(name); err != nil {
		return nil, err
	}
	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	obj := &Object{Bucket: bucket, Name: name, Size: size, MIMEType: MIMEType(name)}
	in := &s3.PutObjectInput{
		Bucket:      s.bucket(bucket),
		Key:         aws.String(name),
		Body:        r,
		ContentType: aws.String(obj.MIMEType),
	}
	if size >= 0 {
		in.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return nil, s3Error("put object", err)
	}
	obj.ModTime = time.Now()
	return obj, nil
}

// Open streams an object. The caller closes the reader.
func (s *S3Storage) Open(ctx context.Context, bucket, name string) (io.ReadCloser, error) {
	if err := validateObjectName(name); err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: s.bucket(bucket), Key: aws.String(name)})
	if err != nil {
		return nil, s3Error("get object", err)
	}
	return out.Body, nil
}

// Delete removes an object. S3 deletes are idempotent, so a HEAD first
// reports ErrFileNotFound for missing objects the way the local backend does.
func (s *S3Storage) Delete(ctx context.Context, bucket, name string) error {
	if err := validateObjectName(name); err != nil {
		return err
	}
	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: s.bucket(bucket), Key: aws.String(name)}); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s/%s", ErrFileNotFound, bucket, name)
		}
		return s3Error("head object", err)
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: s.bucket(bucket), Key: aws.String(name)}); err != nil {
		return s3Error("delete object", err)
	}
	return nil
}

func (s *S3Storage) Exists(ctx context.Context, bucket, name string) bool {
	if validateObjectName(name) != nil {
		return false
	}
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: s.bucket(bucket), Key: aws.String(name)})
	return err == nil
}

// List returns every object in the bucket across all result pages.
func (s *S3Storage) List(ctx context.Context, bucket string) ([]Object, error) {
	if err := ValidateBucket(bucket); err != nil {
		return nil, err
	}

	var objects []Object
	pages := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{Bucket: s.bucket(bucket)})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, s3Error("list objects", err)
		}
		for _, o := range page.Contents {
			name := aws.ToString(o.Key)
			objects = append(objects, Object{
				Bucket:   bucket,
				Name:     name,
				Size:     aws.ToInt64(o.Size),
				MIMEType: MIMEType(name),
				ModTime:  aws.ToTime(o.LastModified),
			})
		}
	}
	return objects, nil
}

// URL returns the path-style public URL of an object.
func (s *S3Storage) URL(bucket, name string) string {
	return s.baseURL + s.BucketName(bucket) + "/" + url.PathEscape(name)
}
