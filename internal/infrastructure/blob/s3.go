package blob

import (
	"context"
	"fmt"
	"io"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/pkg/utils"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// S3Config holds connection settings for an S3-compatible object store.
type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// S3Store keeps blobs in an S3-compatible bucket. Uploads land under a
// tmp/ prefix and are published by server-side copy, so a partially
// written object is never visible under a final key. Range reads map
// directly onto S3 GET ranges.
type S3Store struct {
	client *minio.Client
	bucket string
	logger *zap.SugaredLogger
}

func NewS3Store(ctx context.Context, cfg S3Config, logger *zap.SugaredLogger) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", cfg.Bucket)
	}

	return &S3Store{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

func (s *S3Store) Stat(ctx context.Context, loc domain.Locator) (ports.BlobInfo, error) {
	info, err := s.client.StatObject(ctx, s.bucket, string(loc), minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return ports.BlobInfo{}, domain.ErrResourceNotFound
		}
		return ports.BlobInfo{}, fmt.Errorf("stat object %s: %w", loc, err)
	}
	return ports.BlobInfo{TotalBytes: uint64(info.Size), ContentType: info.ContentType}, nil
}

func (s *S3Store) ReadRange(ctx context.Context, loc domain.Locator, start, end uint64) (io.ReadCloser, error) {
	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(int64(start), int64(end)); err != nil {
		return nil, fmt.Errorf("invalid range %d-%d: %w", start, end, err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, string(loc), opts)
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", loc, err)
	}

	// GetObject is lazy; surface NoSuchKey now instead of mid-stream.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, domain.ErrResourceNotFound
		}
		return nil, fmt.Errorf("stat object %s: %w", loc, err)
	}

	return obj, nil
}

func (s *S3Store) Put(ctx context.Context, r io.Reader, contentType string) (domain.Locator, uint64, error) {
	loc := domain.Locator(utils.GenerateLocator())
	tmpKey := "tmp/" + string(loc)

	info, err := s.client.PutObject(ctx, s.bucket, tmpKey, r, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		// Multipart abort is handled by the client; the tmp key never
		// becomes a complete object on failure.
		return "", 0, fmt.Errorf("staging upload: %w", err)
	}

	_, err = s.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: s.bucket, Object: string(loc)},
		minio.CopySrcOptions{Bucket: s.bucket, Object: tmpKey},
	)
	if err != nil {
		s.removeQuietly(ctx, tmpKey)
		return "", 0, fmt.Errorf("publishing blob: %w", err)
	}
	s.removeQuietly(ctx, tmpKey)

	s.logger.Debugw("blob published", "locator", loc, "bytes", info.Size)
	return loc, uint64(info.Size), nil
}

func (s *S3Store) removeQuietly(ctx context.Context, key string) {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Warnw("failed to remove staging object", "key", key, "error", err)
	}
}
