package assets

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStoreConfig addresses a bucket on an S3-compatible server.
type ObjectStoreConfig struct {
	Endpoint  string // host[:port]
	Bucket    string
	Prefix    string // optional key prefix, no leading slash
	AccessKey string // empty reads MINIO_ACCESS_KEY / MINIO_SECRET_KEY from the environment
	SecretKey string
	Secure    bool
}

// ParseObjectStoreURL parses "s3://[access:secret@]host[:port]/bucket[/prefix][?secure=false]".
// TLS is on unless secure=false.
func ParseObjectStoreURL(raw string) (ObjectStoreConfig, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ObjectStoreConfig{}, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	if u.Scheme != "s3" {
		return ObjectStoreConfig{}, fmt.Errorf("%w: %q is not an s3:// URL", ErrInvalidLocation, raw)
	}
	if u.Host == "" {
		return ObjectStoreConfig{}, fmt.Errorf("%w: %q has no endpoint", ErrInvalidLocation, raw)
	}

	bucket, prefix, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
	if bucket == "" {
		return ObjectStoreConfig{}, fmt.Errorf("%w: %q has no bucket", ErrInvalidLocation, raw)
	}

	cfg := ObjectStoreConfig{
		Endpoint: u.Host,
		Bucket:   bucket,
		Prefix:   strings.Trim(prefix, "/"),
		Secure:   true,
	}
	if u.User != nil {
		cfg.AccessKey = u.User.Username()
		cfg.SecretKey, _ = u.User.Password()
	}
	if s := u.Query().Get("secure"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return ObjectStoreConfig{}, fmt.Errorf("%w: secure=%q", ErrInvalidLocation, s)
		}
		cfg.Secure = v
	}
	return cfg, nil
}

// objectGetter is the subset of *minio.Client the loader uses.
type objectGetter interface {
	GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (*minio.Object, error)
}

// ObjectStoreLoader loads templates from {bucket}/{prefix}/{name}.
type ObjectStoreLoader struct {
	client objectGetter
	bucket string
	prefix string
}

// NewObjectStoreLoader creates a MinIO client for cfg. No request is made
// until the first LoadTemplate.
func NewObjectStoreLoader(cfg ObjectStoreConfig) (*ObjectStoreLoader, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: endpoint and bucket are required", ErrInvalidLocation)
	}

	creds := credentials.NewEnvMinio()
	if cfg.AccessKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	return &ObjectStoreLoader{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Key returns the object key for a template name.
func (o *ObjectStoreLoader) Key(name string) string {
	if o.prefix == "" {
		return name
	}
	return path.Join(o.prefix, name)
}

// LoadTemplate downloads the template object.
func (o *ObjectStoreLoader) LoadTemplate(ctx context.Context, name string) ([]byte, error) {
	if err := ValidateTemplateName(name); err != nil {
		return nil, err
	}

	obj, err := o.client.GetObject(ctx, o.bucket, o.Key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, classifyObjectError(name, err)
	}
	defer func() { _ = obj.Close() }()

	// GetObject is lazy; Stat surfaces missing keys and auth failures.
	if _, err := obj.Stat(); err != nil {
		return nil, classifyObjectError(name, err)
	}
	return readLimited(obj, name)
}

func classifyObjectError(name string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return fmt.Errorf("%w: %q: %v", ErrAssetRead, name, err)
}

// Compile-time interface check.
var _ TemplateLoader = (*ObjectStoreLoader)(nil)
