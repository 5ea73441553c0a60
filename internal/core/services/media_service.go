package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	apperrors "mediagate/pkg/errors"
	"mediagate/pkg/httprange"
	"mediagate/pkg/tracing"

	"go.uber.org/zap"
)

// Response headers set on every media response. Protected content is
// per-principal, so it must never land in a shared cache: a replayed 200
// would leak bytes to an unauthorized second caller.
const (
	headerAcceptRanges = "Accept-Ranges"
	headerCacheControl = "Cache-Control"
	headerAccessType   = "X-Access-Type"

	cacheControlValue = "private, no-store"
)

// mediaService turns (principal, content ref, Range header) into a fully
// decided response plan. Access is resolved before any byte of the resource
// is touched; the two layers never leak into each other.
type mediaService struct {
	resolver    ports.AccessResolver
	catalog     ports.ResourceCatalog
	blobs       ports.BlobStore
	metrics     ports.StreamMetrics
	idleTimeout time.Duration
	logger      *zap.SugaredLogger
}

func NewMediaService(
	resolver ports.AccessResolver,
	catalog ports.ResourceCatalog,
	blobs ports.BlobStore,
	metrics ports.StreamMetrics,
	idleTimeout time.Duration,
	logger *zap.SugaredLogger,
) ports.MediaService {
	return &mediaService{
		resolver:    resolver,
		catalog:     catalog,
		blobs:       blobs,
		metrics:     metrics,
		idleTimeout: idleTimeout,
		logger:      logger,
	}
}

func (s *mediaService) PlanStream(ctx context.Context, p domain.Principal, ref domain.ContentRef, rangeHeader string) (*ports.StreamPlan, error) {
	decision, err := s.resolver.Resolve(ctx, p, ref, time.Now())
	if err != nil {
		// "Can't tell" maps to 503, never 403: a store outage must not be
		// presented as a permanent denial.
		return nil, apperrors.Wrap(err, apperrors.ErrCodeServiceUnavailable,
			"access could not be resolved", http.StatusServiceUnavailable)
	}
	if s.metrics != nil {
		s.metrics.RecordAccessDecision(decision)
	}
	if !decision.Granted {
		if p.IsAnonymous() {
			return nil, apperrors.NewUnauthorizedError("authentication required")
		}
		return nil, apperrors.NewForbiddenError(string(decision.Reason))
	}

	res, err := s.catalog.Get(ctx, ref.Kind, ref.EntityID)
	if errors.Is(err, domain.ErrResourceNotFound) {
		return nil, apperrors.NewNotFoundError("media")
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeServiceUnavailable,
			"resource catalog unavailable", http.StatusServiceUnavailable)
	}

	headers := map[string]string{
		headerAcceptRanges: "bytes",
		headerCacheControl: cacheControlValue,
		headerAccessType:   string(decision.Reason),
		"Content-Type":     res.ContentType,
	}

	outcome := httprange.Parse(rangeHeader, res.TotalBytes)
	if s.metrics != nil {
		s.metrics.RecordRangeKind(outcome.Kind.String())
	}
	switch outcome.Kind {
	case httprange.Unsatisfiable:
		headers["Content-Range"] = httprange.ContentRangeUnsatisfied(res.TotalBytes)
		return &ports.StreamPlan{
			Status:  http.StatusRequestedRangeNotSatisfiable,
			Headers: headers,
		}, nil

	case httprange.Partial:
		rng := outcome.Range
		body, err := s.openRange(ctx, res, rng.Start, rng.End)
		if err != nil {
			return nil, err
		}
		headers["Content-Range"] = rng.ContentRange()
		return &ports.StreamPlan{
			Status:        http.StatusPartialContent,
			Headers:       headers,
			Body:          body,
			ContentLength: rng.Length(),
		}, nil

	default:
		// Full response, which also covers malformed Range headers: bad
		// ranges are ignored rather than rejected, matching how naive
		// clients expect origins to behave.
		if outcome.Kind == httprange.Malformed {
			s.logger.Debugw("ignoring malformed range header",
				"range", rangeHeader, "entity_id", ref.EntityID)
		}
		var body io.ReadCloser
		if res.TotalBytes > 0 {
			body, err = s.openRange(ctx, res, 0, res.TotalBytes-1)
			if err != nil {
				return nil, err
			}
		} else {
			body = io.NopCloser(bytes.NewReader(nil))
		}
		return &ports.StreamPlan{
			Status:        http.StatusOK,
			Headers:       headers,
			Body:          body,
			ContentLength: res.TotalBytes,
		}, nil
	}
}

func (s *mediaService) openRange(ctx context.Context, res *domain.Resource, start, end uint64) (io.ReadCloser, error) {
	ctx, span := tracing.TraceBlobRead(ctx, string(res.Locator), start, end)
	defer span.End()

	body, err := s.blobs.ReadRange(ctx, res.Locator, start, end)
	if errors.Is(err, domain.ErrResourceNotFound) {
		// Catalog says published but the blob is gone; treat as missing
		// media rather than pretending the backend is merely slow.
		return nil, apperrors.NewNotFoundError("media")
	}
	if err != nil {
		tracing.RecordError(ctx, err)
		return nil, apperrors.Wrap(err, apperrors.ErrCodeServiceUnavailable,
			"storage backend unavailable", http.StatusServiceUnavailable)
	}

	if s.idleTimeout > 0 {
		body = newIdleTimeoutReader(body, s.idleTimeout)
	}
	return body, nil
}

// idleTimeoutReader force-closes the underlying reader when no read
// completes within the window, freeing connections stuck on a dead storage
// backend. Large files are fine: any progress resets the clock.
type idleTimeoutReader struct {
	rc    io.ReadCloser
	timer *time.Timer
	d     time.Duration
}

func newIdleTimeoutReader(rc io.ReadCloser, d time.Duration) io.ReadCloser {
	r := &idleTimeoutReader{rc: rc, d: d}
	r.timer = time.AfterFunc(d, func() { rc.Close() })
	return r
}

func (r *idleTimeoutReader) Read(p []byte) (int, error) {
	n, err := r.rc.Read(p)
	if err == nil {
		r.timer.Reset(r.d)
	}
	return n, err
}

func (r *idleTimeoutReader) Close() error {
	r.timer.Stop()
	return r.rc.Close()
}
