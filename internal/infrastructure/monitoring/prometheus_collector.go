package monitoring

import (
	"strconv"
	"time"

	"mediagate/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusCollector struct {
	requestsTotal     *prometheus.CounterVec
	accessDecisions   *prometheus.CounterVec
	bytesStreamed     prometheus.Counter
	bytesUploaded     prometheus.Counter
	activeStreams     prometheus.Gauge
	streamDuration    prometheus.Histogram
	uploadSize        prometheus.Histogram
	rangeRequestKinds *prometheus.CounterVec
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mediagate_requests_total",
			Help: "HTTP requests by route and status code",
		}, []string{"route", "status"}),

		accessDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mediagate_access_decisions_total",
			Help: "Access resolution outcomes by grant reason",
		}, []string{"reason", "granted"}),

		bytesStreamed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mediagate_streamed_bytes_total",
			Help: "Total bytes written to streaming responses",
		}),

		bytesUploaded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mediagate_uploaded_bytes_total",
			Help: "Total bytes accepted from uploads",
		}),

		activeStreams: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "mediagate_active_streams",
			Help: "Streaming responses currently in flight",
		}),

		streamDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mediagate_stream_duration_seconds",
			Help:    "Wall time of streaming responses",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),

		uploadSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mediagate_upload_size_bytes",
			Help:    "Size distribution of accepted uploads",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		}),

		rangeRequestKinds: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "mediagate_range_requests_total",
			Help: "Range header outcomes by parse kind",
		}, []string{"kind"}),
	}
}

func (p *PrometheusCollector) RecordRequest(route string, status int) {
	p.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func (p *PrometheusCollector) RecordAccessDecision(decision domain.AccessDecision) {
	p.accessDecisions.WithLabelValues(string(decision.Reason), strconv.FormatBool(decision.Granted)).Inc()
}

func (p *PrometheusCollector) RecordBytesStreamed(n int64) {
	if n > 0 {
		p.bytesStreamed.Add(float64(n))
	}
}

func (p *PrometheusCollector) RecordUpload(bytes uint64) {
	p.bytesUploaded.Add(float64(bytes))
	p.uploadSize.Observe(float64(bytes))
}

func (p *PrometheusCollector) StreamStarted() {
	p.activeStreams.Inc()
}

func (p *PrometheusCollector) StreamFinished(started time.Time) {
	p.activeStreams.Dec()
	p.streamDuration.Observe(time.Since(started).Seconds())
}

func (p *PrometheusCollector) RecordRangeKind(kind string) {
	p.rangeRequestKinds.WithLabelValues(kind).Inc()
}
