package fetcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig addresses an S3-compatible bucket.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// MinioSource reads the objects under a bucket prefix.
type MinioSource struct {
	client *minio.Client
	cfg    MinioConfig
}

func NewMinioSource(cfg MinioConfig) (*MinioSource, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "localhost:9000"
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return &MinioSource{client: client, cfg: cfg}, nil
}

func (s *MinioSource) Describe() string {
	return fmt.Sprintf("s3://%s/%s", s.cfg.Bucket, s.cfg.Prefix)
}

func (s *MinioSource) List(ctx context.Context) ([]RemoteFile, error) {
	var out []RemoteFile
	for obj := range s.client.ListObjects(ctx, s.cfg.Bucket, minio.ListObjectsOptions{Prefix: s.cfg.Prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		out = append(out, RemoteFile{
			ID:           obj.Key,
			Name:         objectName(s.cfg.Prefix, obj.Key),
			MimeType:     obj.ContentType,
			Size:         obj.Size,
			ModifiedTime: obj.LastModified,
		})
	}
	return out, nil
}

func (s *MinioSource) Download(ctx context.Context, file RemoteFile, dst string) error {
	return s.client.FGetObject(ctx, s.cfg.Bucket, file.ID, dst, minio.GetObjectOptions{})
}

// objectName is the key relative to prefix; nested keys keep their subfolders, joined by '_'.
func objectName(prefix, key string) string {
	name := strings.TrimPrefix(strings.TrimPrefix(key, prefix), "/")
	return strings.ReplaceAll(name, "/", "_")
}
