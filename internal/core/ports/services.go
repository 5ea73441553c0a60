package ports

import (
	"context"
	"io"
	"time"

	"mediagate/internal/core/domain"
)

// AccessResolver decides whether a principal may view a piece of protected
// content. Pure decision logic over the injected stores; never touches bytes.
type AccessResolver interface {
	Resolve(ctx context.Context, p domain.Principal, ref domain.ContentRef, now time.Time) (domain.AccessDecision, error)
}

// StreamPlan is the fully decided shape of a media response: status, headers
// and a bounded body reader. Body is nil for 416 and error statuses.
type StreamPlan struct {
	Status        int
	Headers       map[string]string
	Body          io.ReadCloser
	ContentLength uint64
}

// StreamMetrics receives streaming telemetry from the media pipeline. A nil
// StreamMetrics disables recording.
type StreamMetrics interface {
	RecordAccessDecision(decision domain.AccessDecision)
	RecordRangeKind(kind string)
}

// MediaService orchestrates access resolution, range parsing and blob reads
// into a single response plan.
type MediaService interface {
	PlanStream(ctx context.Context, p domain.Principal, ref domain.ContentRef, rangeHeader string) (*StreamPlan, error)
}

// UploadResult reports a published upload.
type UploadResult struct {
	ResourceID domain.ResourceID
	TotalBytes uint64
}

// UploadService accepts a bounded binary payload and publishes it as an
// immutable resource. All-or-nothing: a failure leaves nothing readable.
type UploadService interface {
	Receive(ctx context.Context, owner domain.Principal, kind domain.ContentKind, entityID domain.EntityID, contentType string, declaredSize int64, r io.Reader) (*UploadResult, error)
}
