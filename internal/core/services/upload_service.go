package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	apperrors "mediagate/pkg/errors"
	"mediagate/pkg/utils"
	"mediagate/pkg/validation"

	"go.uber.org/zap"
)

var errPayloadTooLarge = errors.New("payload exceeds configured ceiling")

// uploadService publishes uploads as immutable resources. Rejections happen
// before any byte reaches the published namespace; the blob store's
// temp-write/atomic-publish contract makes a mid-write failure invisible.
type uploadService struct {
	blobs        ports.BlobStore
	catalog      ports.ResourceCatalog
	maxBytes     int64
	allowedTypes []string
	logger       *zap.SugaredLogger
}

func NewUploadService(
	blobs ports.BlobStore,
	catalog ports.ResourceCatalog,
	maxBytes int64,
	allowedTypes []string,
	logger *zap.SugaredLogger,
) ports.UploadService {
	return &uploadService{
		blobs:        blobs,
		catalog:      catalog,
		maxBytes:     maxBytes,
		allowedTypes: allowedTypes,
		logger:       logger,
	}
}

func (s *uploadService) Receive(ctx context.Context, owner domain.Principal, kind domain.ContentKind, entityID domain.EntityID, contentType string, declaredSize int64, r io.Reader) (*ports.UploadResult, error) {
	if owner.IsAnonymous() {
		return nil, apperrors.NewUnauthorizedError("authentication required")
	}
	if err := validation.ValidateEntityID(string(entityID)); err != nil {
		return nil, apperrors.NewInvalidInputError(err.Error())
	}
	if err := validation.ValidateContentType(contentType, s.allowedTypes); err != nil {
		return nil, apperrors.NewUnsupportedMediaError(err.Error())
	}
	if declaredSize > s.maxBytes {
		return nil, apperrors.NewPayloadTooLargeError(
			fmt.Sprintf("payload of %d bytes exceeds %d byte ceiling", declaredSize, s.maxBytes))
	}

	// The declared size is a client claim; the ceiling is enforced on the
	// actual byte stream too. Overflow aborts the Put before publication.
	limited := &ceilingReader{r: r, remaining: s.maxBytes}

	locator, total, err := s.blobs.Put(ctx, limited, contentType)
	if errors.Is(err, errPayloadTooLarge) {
		return nil, apperrors.NewPayloadTooLargeError(
			fmt.Sprintf("payload exceeds %d byte ceiling", s.maxBytes))
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeServiceUnavailable,
			"storage backend unavailable", http.StatusServiceUnavailable)
	}

	res := &domain.Resource{
		ID:          domain.ResourceID(utils.GenerateResourceID()),
		EntityID:    entityID,
		Kind:        kind,
		OwnerID:     owner.ID,
		TotalBytes:  total,
		ContentType: contentType,
		Locator:     locator,
	}
	if err := s.catalog.Put(ctx, res); err != nil {
		// The blob is published but unreachable without catalog metadata,
		// so the upload still reads as failed to the caller.
		s.logger.Errorw("catalog write failed after blob publish",
			"resource_id", res.ID, "locator", locator, "error", err)
		return nil, apperrors.Wrap(err, apperrors.ErrCodeServiceUnavailable,
			"resource catalog unavailable", http.StatusServiceUnavailable)
	}

	s.logger.Infow("resource published",
		"resource_id", res.ID,
		"kind", kind,
		"entity_id", entityID,
		"owner_id", owner.ID,
		"total_bytes", total,
	)

	return &ports.UploadResult{ResourceID: res.ID, TotalBytes: total}, nil
}

// ceilingReader fails the stream once more than remaining bytes have been
// read, so an oversized body can never be fully staged.
type ceilingReader struct {
	r         io.Reader
	remaining int64
}

func (c *ceilingReader) Read(p []byte) (int, error) {
	if c.remaining < 0 {
		return 0, errPayloadTooLarge
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		return 0, errPayloadTooLarge
	}
	return n, err
}
