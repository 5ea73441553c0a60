package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/pkg/utils"

	"go.uber.org/zap"
)

// FSStore keeps blobs as flat files under a root directory. Uploads are
// staged in root/tmp and published with a rename, which is atomic on the
// same filesystem: a crashed upload leaves nothing readable. Published
// files are never rewritten, so concurrent range reads need no locking.
type FSStore struct {
	root   string
	logger *zap.SugaredLogger
}

func NewFSStore(root string, logger *zap.SugaredLogger) (*FSStore, error) {
	for _, dir := range []string{root, filepath.Join(root, "tmp")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create blob directory %s: %w", dir, err)
		}
	}
	return &FSStore{root: root, logger: logger}, nil
}

func (s *FSStore) blobPath(loc domain.Locator) string {
	return filepath.Join(s.root, string(loc))
}

func (s *FSStore) typePath(loc domain.Locator) string {
	return filepath.Join(s.root, string(loc)+".type")
}

func (s *FSStore) Stat(ctx context.Context, loc domain.Locator) (ports.BlobInfo, error) {
	fi, err := os.Stat(s.blobPath(loc))
	if os.IsNotExist(err) {
		return ports.BlobInfo{}, domain.ErrResourceNotFound
	}
	if err != nil {
		return ports.BlobInfo{}, fmt.Errorf("stat blob %s: %w", loc, err)
	}

	contentType := "application/octet-stream"
	if ct, err := os.ReadFile(s.typePath(loc)); err == nil {
		contentType = strings.TrimSpace(string(ct))
	}

	return ports.BlobInfo{TotalBytes: uint64(fi.Size()), ContentType: contentType}, nil
}

func (s *FSStore) ReadRange(ctx context.Context, loc domain.Locator, start, end uint64) (io.ReadCloser, error) {
	f, err := os.Open(s.blobPath(loc))
	if os.IsNotExist(err) {
		return nil, domain.ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open blob %s: %w", loc, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat blob %s: %w", loc, err)
	}
	if end >= uint64(fi.Size()) || start > end {
		f.Close()
		return nil, fmt.Errorf("range %d-%d outside blob %s of %d bytes", start, end, loc, fi.Size())
	}

	// SectionReader reads via ReadAt, so concurrent ranges share one
	// descriptor per request without seeking over each other.
	section := io.NewSectionReader(f, int64(start), int64(end-start+1))
	return &ctxReader{ctx: ctx, r: section, closer: f}, nil
}

func (s *FSStore) Put(ctx context.Context, r io.Reader, contentType string) (domain.Locator, uint64, error) {
	tmp, err := os.CreateTemp(filepath.Join(s.root, "tmp"), "upload-*")
	if err != nil {
		return "", 0, fmt.Errorf("create staging file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	n, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: r})
	if err != nil {
		cleanup()
		return "", 0, fmt.Errorf("staging upload: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return "", 0, fmt.Errorf("syncing staged upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", 0, fmt.Errorf("closing staged upload: %w", err)
	}

	loc := domain.Locator(utils.GenerateLocator())

	// Sidecar first: when the data file appears, its type is already there.
	if err := os.WriteFile(s.typePath(loc), []byte(contentType), 0o644); err != nil {
		os.Remove(tmpName)
		return "", 0, fmt.Errorf("writing content type: %w", err)
	}
	if err := os.Rename(tmpName, s.blobPath(loc)); err != nil {
		os.Remove(tmpName)
		os.Remove(s.typePath(loc))
		return "", 0, fmt.Errorf("publishing blob: %w", err)
	}

	s.logger.Debugw("blob published", "locator", loc, "bytes", n)
	return loc, uint64(n), nil
}

// ctxReader aborts reads once the request context is cancelled, so a
// disconnected client stops consuming storage bandwidth promptly.
type ctxReader struct {
	ctx    context.Context
	r      io.Reader
	closer io.Closer
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func (c *ctxReader) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
