package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	apperrors "mediagate/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubResolver struct {
	decision domain.AccessDecision
	err      error
}

func (s *stubResolver) Resolve(ctx context.Context, p domain.Principal, ref domain.ContentRef, now time.Time) (domain.AccessDecision, error) {
	return s.decision, s.err
}

type fakeCatalog struct {
	resources map[string]*domain.Resource
}

func (f *fakeCatalog) key(kind domain.ContentKind, id domain.EntityID) string {
	return string(kind) + "/" + string(id)
}

func (f *fakeCatalog) Get(ctx context.Context, kind domain.ContentKind, id domain.EntityID) (*domain.Resource, error) {
	res, ok := f.resources[f.key(kind, id)]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	return res, nil
}

func (f *fakeCatalog) Put(ctx context.Context, res *domain.Resource) error {
	if f.resources == nil {
		f.resources = make(map[string]*domain.Resource)
	}
	f.resources[f.key(res.Kind, res.EntityID)] = res
	return nil
}

type fakeBlobStore struct {
	blobs map[domain.Locator][]byte
	err   error
}

func (f *fakeBlobStore) Stat(ctx context.Context, loc domain.Locator) (ports.BlobInfo, error) {
	b, ok := f.blobs[loc]
	if !ok {
		return ports.BlobInfo{}, domain.ErrResourceNotFound
	}
	return ports.BlobInfo{TotalBytes: uint64(len(b))}, nil
}

func (f *fakeBlobStore) ReadRange(ctx context.Context, loc domain.Locator, start, end uint64) (io.ReadCloser, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.blobs[loc]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	return io.NopCloser(bytes.NewReader(b[start : end+1])), nil
}

func (f *fakeBlobStore) Put(ctx context.Context, r io.Reader, contentType string) (domain.Locator, uint64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	if f.blobs == nil {
		f.blobs = make(map[domain.Locator][]byte)
	}
	loc := domain.Locator("blob-1")
	f.blobs[loc] = data
	return loc, uint64(len(data)), nil
}

func grantedMedia(t *testing.T, payload []byte) (ports.MediaService, domain.ContentRef) {
	t.Helper()

	ref := domain.ContentRef{Kind: domain.KindWorkshop, EntityID: "w1", CreatorID: "creator"}
	blobs := &fakeBlobStore{blobs: map[domain.Locator][]byte{"loc-1": payload}}
	catalog := &fakeCatalog{resources: map[string]*domain.Resource{
		"workshop/w1": {
			ID:          "res-1",
			EntityID:    "w1",
			Kind:        domain.KindWorkshop,
			TotalBytes:  uint64(len(payload)),
			ContentType: "video/mp4",
			Locator:     "loc-1",
		},
	}}
	resolver := &stubResolver{decision: domain.AccessDecision{Granted: true, Reason: domain.GrantPurchase}}

	return NewMediaService(resolver, catalog, blobs, nil, 0, zaptest.NewLogger(t).Sugar()), ref
}

func payloadOf(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 251)
	}
	return b
}

func TestPlanStreamFull(t *testing.T) {
	payload := payloadOf(500)
	svc, ref := grantedMedia(t, payload)

	plan, err := svc.PlanStream(context.Background(), viewer, ref, "")
	require.NoError(t, err)
	defer plan.Body.Close()

	assert.Equal(t, http.StatusOK, plan.Status)
	assert.Equal(t, uint64(500), plan.ContentLength)
	assert.Equal(t, "bytes", plan.Headers["Accept-Ranges"])
	assert.Equal(t, "private, no-store", plan.Headers["Cache-Control"])
	assert.Equal(t, "video/mp4", plan.Headers["Content-Type"])
	assert.Equal(t, "purchase", plan.Headers["X-Access-Type"])

	got, err := io.ReadAll(plan.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestPlanStreamPartial(t *testing.T) {
	payload := payloadOf(1000)
	svc, ref := grantedMedia(t, payload)

	plan, err := svc.PlanStream(context.Background(), viewer, ref, "bytes=200-299")
	require.NoError(t, err)
	defer plan.Body.Close()

	assert.Equal(t, http.StatusPartialContent, plan.Status)
	assert.Equal(t, "bytes 200-299/1000", plan.Headers["Content-Range"])
	assert.Equal(t, uint64(100), plan.ContentLength)

	got, err := io.ReadAll(plan.Body)
	require.NoError(t, err)
	assert.Equal(t, payload[200:300], got)
}

func TestPlanStreamMalformedRangeServesFull(t *testing.T) {
	payload := payloadOf(500)
	svc, ref := grantedMedia(t, payload)

	plan, err := svc.PlanStream(context.Background(), viewer, ref, "bytes=abc")
	require.NoError(t, err)
	defer plan.Body.Close()

	assert.Equal(t, http.StatusOK, plan.Status)
	got, err := io.ReadAll(plan.Body)
	require.NoError(t, err)
	assert.Len(t, got, 500)
}

func TestPlanStreamUnsatisfiable(t *testing.T) {
	svc, ref := grantedMedia(t, payloadOf(1000))

	plan, err := svc.PlanStream(context.Background(), viewer, ref, "bytes=1000-1005")
	require.NoError(t, err)

	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, plan.Status)
	assert.Equal(t, "bytes */1000", plan.Headers["Content-Range"])
	assert.Nil(t, plan.Body)
}

func TestPlanStreamDeniedAuthenticated(t *testing.T) {
	svc := NewMediaService(
		&stubResolver{decision: domain.AccessDecision{Granted: false, Reason: domain.GrantNone}},
		&fakeCatalog{}, &fakeBlobStore{}, nil, 0, zaptest.NewLogger(t).Sugar(),
	)

	_, err := svc.PlanStream(context.Background(), viewer, ref, "")
	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusForbidden, appErr.HTTPStatus)
	assert.Equal(t, "no_grant", appErr.Message)
}

func TestPlanStreamDeniedAnonymous(t *testing.T) {
	svc := NewMediaService(
		&stubResolver{decision: domain.AccessDecision{Granted: false, Reason: domain.GrantNone}},
		&fakeCatalog{}, &fakeBlobStore{}, nil, 0, zaptest.NewLogger(t).Sugar(),
	)

	_, err := svc.PlanStream(context.Background(), domain.Principal{}, ref, "")
	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.HTTPStatus)
}

func TestPlanStreamResolutionFailureIs503(t *testing.T) {
	svc := NewMediaService(
		&stubResolver{err: domain.ErrStoreUnavailable},
		&fakeCatalog{}, &fakeBlobStore{}, nil, 0, zaptest.NewLogger(t).Sugar(),
	)

	_, err := svc.PlanStream(context.Background(), viewer, ref, "")
	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.HTTPStatus)
}

func TestPlanStreamMissingResourceIs404(t *testing.T) {
	svc := NewMediaService(
		&stubResolver{decision: domain.AccessDecision{Granted: true, Reason: domain.GrantFree}},
		&fakeCatalog{}, &fakeBlobStore{}, nil, 0, zaptest.NewLogger(t).Sugar(),
	)

	_, err := svc.PlanStream(context.Background(), viewer, ref, "")
	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
}

func TestPlanStreamBlobOutageIs503(t *testing.T) {
	ref := domain.ContentRef{Kind: domain.KindWorkshop, EntityID: "w1", CreatorID: "creator"}
	catalog := &fakeCatalog{resources: map[string]*domain.Resource{
		"workshop/w1": {ID: "res-1", EntityID: "w1", Kind: domain.KindWorkshop, TotalBytes: 100, Locator: "loc-1"},
	}}
	svc := NewMediaService(
		&stubResolver{decision: domain.AccessDecision{Granted: true, Reason: domain.GrantFree}},
		catalog,
		&fakeBlobStore{err: errors.New("io timeout")},
		nil, 0, zaptest.NewLogger(t).Sugar(),
	)

	_, err := svc.PlanStream(context.Background(), viewer, ref, "")
	appErr := apperrors.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.HTTPStatus)
}

type recordingMetrics struct {
	decisions  []domain.AccessDecision
	rangeKinds []string
}

func (m *recordingMetrics) RecordAccessDecision(d domain.AccessDecision) {
	m.decisions = append(m.decisions, d)
}

func (m *recordingMetrics) RecordRangeKind(kind string) {
	m.rangeKinds = append(m.rangeKinds, kind)
}

func TestPlanStreamRecordsMetrics(t *testing.T) {
	payload := payloadOf(1000)
	metrics := &recordingMetrics{}

	ref := domain.ContentRef{Kind: domain.KindWorkshop, EntityID: "w1", CreatorID: "creator"}
	blobs := &fakeBlobStore{blobs: map[domain.Locator][]byte{"loc-1": payload}}
	catalog := &fakeCatalog{resources: map[string]*domain.Resource{
		"workshop/w1": {
			ID:         "res-1",
			EntityID:   "w1",
			Kind:       domain.KindWorkshop,
			TotalBytes: uint64(len(payload)),
			Locator:    "loc-1",
		},
	}}
	svc := NewMediaService(
		&stubResolver{decision: domain.AccessDecision{Granted: true, Reason: domain.GrantSubscription}},
		catalog, blobs, metrics, 0, zaptest.NewLogger(t).Sugar(),
	)

	plan, err := svc.PlanStream(context.Background(), viewer, ref, "bytes=0-99")
	require.NoError(t, err)
	defer plan.Body.Close()

	require.Len(t, metrics.decisions, 1)
	assert.True(t, metrics.decisions[0].Granted)
	assert.Equal(t, domain.GrantSubscription, metrics.decisions[0].Reason)
	assert.Equal(t, []string{"partial"}, metrics.rangeKinds)
}

func TestPlanStreamRecordsDeniedDecision(t *testing.T) {
	metrics := &recordingMetrics{}
	svc := NewMediaService(
		&stubResolver{decision: domain.AccessDecision{Granted: false, Reason: domain.GrantNone}},
		&fakeCatalog{}, &fakeBlobStore{}, metrics, 0, zaptest.NewLogger(t).Sugar(),
	)

	_, err := svc.PlanStream(context.Background(), viewer, ref, "")
	require.Error(t, err)

	// The deny is still a decision; only resolution failures go unrecorded.
	require.Len(t, metrics.decisions, 1)
	assert.False(t, metrics.decisions[0].Granted)
	assert.Empty(t, metrics.rangeKinds)
}
