package http

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/internal/infrastructure/middleware"
	"mediagate/internal/infrastructure/monitoring"
	"mediagate/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MediaHandler struct {
	mediaService  ports.MediaService
	uploadService ports.UploadService
	metrics       *monitoring.PrometheusCollector
	logger        *zap.SugaredLogger
}

func NewMediaHandler(
	mediaService ports.MediaService,
	uploadService ports.UploadService,
	metrics *monitoring.PrometheusCollector,
	logger *zap.SugaredLogger,
) *MediaHandler {
	return &MediaHandler{
		mediaService:  mediaService,
		uploadService: uploadService,
		metrics:       metrics,
		logger:        logger,
	}
}

// RegisterRoutes attaches the media surface. Streaming uses optional auth so
// the deny path can distinguish anonymous (401) from authenticated (403);
// upload requires a token outright.
func (h *MediaHandler) RegisterRoutes(router *gin.Engine, optionalAuth, requireAuth gin.HandlerFunc) {
	media := router.Group("/media")
	{
		media.GET("/:kind/:id", optionalAuth, h.StreamMedia)
		media.POST("/upload", requireAuth, h.Upload)
	}
}

func (h *MediaHandler) StreamMedia(c *gin.Context) {
	kind, err := domain.ParseContentKind(c.Param("kind"))
	if err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}

	ref := domain.ContentRef{
		Kind:     kind,
		EntityID: domain.EntityID(c.Param("id")),
	}
	principal := middleware.PrincipalFromContext(c)

	plan, err := h.mediaService.PlanStream(c.Request.Context(), principal, ref, c.GetHeader("Range"))
	if err != nil {
		c.Error(err)
		h.countRequest(c.FullPath(), errors.AsAppError(err))
		return
	}

	for k, v := range plan.Headers {
		c.Header(k, v)
	}
	if plan.Body != nil {
		c.Header("Content-Length", strconv.FormatUint(plan.ContentLength, 10))
	}
	c.Status(plan.Status)
	if h.metrics != nil {
		h.metrics.RecordRequest(c.FullPath(), plan.Status)
	}

	if plan.Body == nil {
		return
	}
	defer plan.Body.Close()

	started := time.Now()
	if h.metrics != nil {
		h.metrics.StreamStarted()
		defer h.metrics.StreamFinished(started)
	}

	written, err := io.Copy(c.Writer, plan.Body)
	if h.metrics != nil {
		h.metrics.RecordBytesStreamed(written)
	}
	if err != nil {
		// Headers are gone; all we can do is log and drop the connection.
		h.logger.Debugw("stream aborted",
			"entity_id", ref.EntityID,
			"written", written,
			"error", err,
		)
	}
}

func (h *MediaHandler) Upload(c *gin.Context) {
	principal := middleware.PrincipalFromContext(c)

	mr, err := c.Request.MultipartReader()
	if err != nil {
		c.Error(errors.NewInvalidInputError("multipart body required"))
		return
	}

	var (
		kindStr  string
		entityID string
		filePart *multipart.Part
	)
	// Field parts must precede the file part; the file is streamed, never
	// buffered, so fields after it are unreachable.
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			c.Error(errors.NewInvalidInputError("malformed multipart body"))
			return
		}

		switch part.FormName() {
		case "kind":
			kindStr = formValue(part)
		case "entity_id":
			entityID = formValue(part)
		case "file":
			filePart = part
		default:
			part.Close()
			continue
		}
		if filePart != nil {
			break
		}
	}

	if filePart == nil {
		c.Error(errors.NewInvalidInputError("file part required"))
		return
	}
	defer filePart.Close()

	kind, err := domain.ParseContentKind(kindStr)
	if err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}

	result, err := h.uploadService.Receive(
		c.Request.Context(),
		principal,
		kind,
		domain.EntityID(entityID),
		filePart.Header.Get("Content-Type"),
		c.Request.ContentLength,
		filePart,
	)
	if err != nil {
		c.Error(err)
		h.countRequest(c.FullPath(), errors.AsAppError(err))
		return
	}

	if h.metrics != nil {
		h.metrics.RecordUpload(result.TotalBytes)
		h.metrics.RecordRequest(c.FullPath(), http.StatusCreated)
	}
	c.JSON(http.StatusCreated, gin.H{
		"resource_id": result.ResourceID,
		"total_bytes": result.TotalBytes,
	})
}

func (h *MediaHandler) countRequest(route string, appErr *errors.AppError) {
	if h.metrics == nil {
		return
	}
	status := http.StatusInternalServerError
	if appErr != nil {
		status = appErr.HTTPStatus
	}
	h.metrics.RecordRequest(route, status)
}

func formValue(part *multipart.Part) string {
	defer part.Close()
	data, err := io.ReadAll(io.LimitReader(part, 1024))
	if err != nil {
		return ""
	}
	return string(data)
}
