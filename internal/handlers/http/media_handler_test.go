package http

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/internal/infrastructure/middleware"
	"mediagate/pkg/errors"
	"mediagate/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubMediaService struct {
	plan *ports.StreamPlan
	err  error
}

func (s *stubMediaService) PlanStream(ctx context.Context, p domain.Principal, ref domain.ContentRef, rangeHeader string) (*ports.StreamPlan, error) {
	return s.plan, s.err
}

type stubUploadService struct {
	result *ports.UploadResult
	err    error

	gotKind     domain.ContentKind
	gotEntityID domain.EntityID
	gotBody     []byte
}

func (s *stubUploadService) Receive(ctx context.Context, owner domain.Principal, kind domain.ContentKind, entityID domain.EntityID, contentType string, declaredSize int64, r io.Reader) (*ports.UploadResult, error) {
	s.gotKind = kind
	s.gotEntityID = entityID
	s.gotBody, _ = io.ReadAll(r)
	return s.result, s.err
}

func newTestRouter(t *testing.T, media ports.MediaService, upload ports.UploadService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	zl := zaptest.NewLogger(t)

	router := gin.New()
	router.Use(middleware.ErrorHandlerMiddleware(logger.NewContextLogger(zl)))

	passthrough := func(c *gin.Context) { c.Next() }
	handler := NewMediaHandler(media, upload, nil, zl.Sugar())
	handler.RegisterRoutes(router, passthrough, passthrough)
	return router
}

func TestStreamMedia_FullResponse(t *testing.T) {
	payload := []byte("0123456789")
	media := &stubMediaService{
		plan: &ports.StreamPlan{
			Status: http.StatusOK,
			Headers: map[string]string{
				"Accept-Ranges": "bytes",
				"Cache-Control": "private, no-store",
				"X-Access-Type": "purchase",
				"Content-Type":  "video/mp4",
			},
			Body:          io.NopCloser(bytes.NewReader(payload)),
			ContentLength: uint64(len(payload)),
		},
	}
	router := newTestRouter(t, media, &stubUploadService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/media/workshop/w1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "private, no-store", w.Header().Get("Cache-Control"))
	assert.Equal(t, "purchase", w.Header().Get("X-Access-Type"))
	assert.Equal(t, "10", w.Header().Get("Content-Length"))
	assert.Equal(t, payload, w.Body.Bytes())
}

func TestStreamMedia_PartialResponse(t *testing.T) {
	media := &stubMediaService{
		plan: &ports.StreamPlan{
			Status: http.StatusPartialContent,
			Headers: map[string]string{
				"Content-Range": "bytes 2-4/10",
				"Content-Type":  "video/mp4",
			},
			Body:          io.NopCloser(strings.NewReader("234")),
			ContentLength: 3,
		},
	}
	router := newTestRouter(t, media, &stubUploadService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/media/workshop/w1", nil)
	req.Header.Set("Range", "bytes=2-4")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "bytes 2-4/10", w.Header().Get("Content-Range"))
	assert.Equal(t, "234", w.Body.String())
}

func TestStreamMedia_UnsatisfiableHasNoBody(t *testing.T) {
	media := &stubMediaService{
		plan: &ports.StreamPlan{
			Status: http.StatusRequestedRangeNotSatisfiable,
			Headers: map[string]string{
				"Content-Range": "bytes */10",
			},
		},
	}
	router := newTestRouter(t, media, &stubUploadService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/media/workshop/w1", nil)
	req.Header.Set("Range", "bytes=50-60")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, w.Code)
	assert.Equal(t, "bytes */10", w.Header().Get("Content-Range"))
	assert.Empty(t, w.Body.Bytes())
	assert.Empty(t, w.Header().Get("Content-Length"))
}

func TestStreamMedia_DeniedAnonymousAsJSON(t *testing.T) {
	media := &stubMediaService{err: errors.NewUnauthorizedError("authentication required")}
	router := newTestRouter(t, media, &stubUploadService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/media/workshop/w1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestStreamMedia_BadKindRejected(t *testing.T) {
	router := newTestRouter(t, &stubMediaService{}, &stubUploadService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/media/bogus/w1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpload_PublishesResource(t *testing.T) {
	upload := &stubUploadService{
		result: &ports.UploadResult{ResourceID: "res_abc", TotalBytes: 5},
	}
	router := newTestRouter(t, &stubMediaService{}, upload)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("kind", "file"))
	require.NoError(t, mw.WriteField("entity_id", "doc-1"))
	fw, err := mw.CreateFormFile("file", "notes.bin")
	require.NoError(t, err)
	_, err = fw.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/media/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "res_abc")
	assert.Equal(t, domain.KindFile, upload.gotKind)
	assert.Equal(t, domain.EntityID("doc-1"), upload.gotEntityID)
	assert.Equal(t, []byte("hello"), upload.gotBody)
}

func TestUpload_MissingFilePart(t *testing.T) {
	router := newTestRouter(t, &stubMediaService{}, &stubUploadService{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("kind", "file"))
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/media/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
