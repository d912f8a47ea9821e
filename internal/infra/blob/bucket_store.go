// Package blob stores listing images in a gocloud.dev bucket.
package blob

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"cafeadmin/config"
	"cafeadmin/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"
)

var (
	ErrObjectExists   = service.ErrBlobExists
	ErrObjectNotFound = service.ErrBlobNotFound
)

// BucketStore implements service.BlobStore on top of a gocloud bucket.
type BucketStore struct {
	bucket       *blob.Bucket
	publicBase   string
	cacheControl string
	upsert       bool
}

// Params holds dependencies for New, injected by Fx.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured bucket and closes it on shutdown.
func New(params Params) (service.BlobStore, error) {
	cfg := params.Config.Blob

	bucket, err := blob.OpenBucket(context.Background(), cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", cfg.BucketURL)
	}
	params.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return bucket.Close()
		},
	})
	params.Logger.Info("Blob store ready", slog.String("bucket", redactBucketURL(cfg.BucketURL)))

	return NewBucketStore(bucket, cfg), nil
}

func NewBucketStore(bucket *blob.Bucket, cfg config.BlobConfig) *BucketStore {
	return &BucketStore{
		bucket:       bucket,
		publicBase:   strings.TrimRight(cfg.PublicBaseURL, "/"),
		cacheControl: cfg.CacheControl,
		upsert:       cfg.Upsert,
	}
}

func (s *BucketStore) Upload(ctx context.Context, path string, data []byte, opts service.UploadOptions) error {
	if !s.upsert && !opts.UpsertAllowed {
		exists, err := s.bucket.Exists(ctx, path)
		if err != nil {
			return errors.Wrapf(err, "check %s", path)
		}
		if exists {
			return errors.Wrap(ErrObjectExists, path)
		}
	}

	err := s.bucket.WriteAll(ctx, path, data, &blob.WriterOptions{
		ContentType:  opts.ContentType,
		CacheControl: s.cacheControl,
	})

	return errors.Wrapf(err, "upload %s", path)
}

func (s *BucketStore) Open(ctx context.Context, path string) (io.ReadCloser, string, error) {
	r, err := s.bucket.NewReader(ctx, path, nil)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil, "", errors.Wrap(ErrObjectNotFound, path)
	}
	if err != nil {
		return nil, "", errors.Wrapf(err, "open %s", path)
	}

	return r, r.ContentType(), nil
}

func (s *BucketStore) PublicURL(path string) string {
	if s.publicBase == "" || path == "" {
		return ""
	}

	return s.publicBase + "/" + strings.TrimLeft(path, "/")
}

func redactBucketURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid>"
	}
	u.User = nil
	u.RawQuery = ""

	return u.String()
}
