package metrics

import "github.com/prometheus/client_golang/prometheus"

// WebhookMetrics exposes counters/histograms for the WhatsApp webhook flow.
type WebhookMetrics struct {
	inboundTotal   *prometheus.CounterVec
	repliesTotal   *prometheus.CounterVec
	webhookLatency prometheus.Histogram
}

func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	m := &WebhookMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "promoloop",
			Subsystem: "webhook",
			Name:      "inbound_messages_total",
			Help:      "Inbound WhatsApp messages by processing status",
		}, []string{"status"}),
		repliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "promoloop",
			Subsystem: "webhook",
			Name:      "replies_total",
			Help:      "Outbound replies by send status",
		}, []string{"status"}),
		webhookLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "promoloop",
			Subsystem: "webhook",
			Name:      "batch_latency_seconds",
			Help:      "Latency of processing one webhook delivery batch",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.repliesTotal, m.webhookLatency)
	return m
}

func (m *WebhookMetrics) ObserveInbound(status string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(status).Inc()
}

func (m *WebhookMetrics) ObserveReply(status string) {
	if m == nil {
		return
	}
	m.repliesTotal.WithLabelValues(status).Inc()
}

func (m *WebhookMetrics) ObserveBatchLatency(seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.Observe(seconds)
}

// GenerationMetrics tracks campaign generation calls against the LLM.
type GenerationMetrics struct {
	generateTotal   *prometheus.CounterVec
	retryTotal      prometheus.Counter
	generateLatency prometheus.Histogram
}

func NewGenerationMetrics(reg prometheus.Registerer) *GenerationMetrics {
	m := &GenerationMetrics{
		generateTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "promoloop",
			Subsystem: "generation",
			Name:      "requests_total",
			Help:      "Campaign generation requests by outcome",
		}, []string{"status"}),
		retryTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "promoloop",
			Subsystem: "generation",
			Name:      "rate_limit_retries_total",
			Help:      "Retries performed after upstream rate limiting",
		}),
		generateLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "promoloop",
			Subsystem: "generation",
			Name:      "latency_seconds",
			Help:      "Wall-clock latency of campaign generation including retries",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60},
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.generateTotal, m.retryTotal, m.generateLatency)
	return m
}

func (m *GenerationMetrics) ObserveRequest(status string) {
	if m == nil {
		return
	}
	m.generateTotal.WithLabelValues(status).Inc()
}

func (m *GenerationMetrics) ObserveRetry() {
	if m == nil {
		return
	}
	m.retryTotal.Inc()
}

func (m *GenerationMetrics) ObserveLatency(seconds float64) {
	if m == nil {
		return
	}
	m.generateLatency.Observe(seconds)
}
