package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		out[mf.GetName()] = mf
	}
	return out
}

func TestWebhookMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWebhookMetrics(reg)

	m.ObserveInbound("ok")
	m.ObserveInbound("ok")
	m.ObserveInbound("error")
	m.ObserveReply("sent")
	m.ObserveBatchLatency(0.02)

	families := gather(t, reg)

	inbound, ok := families["promoloop_webhook_inbound_messages_total"]
	if !ok {
		t.Fatal("inbound counter not registered")
	}
	var okCount float64
	for _, metric := range inbound.GetMetric() {
		for _, label := range metric.GetLabel() {
			if label.GetName() == "status" && label.GetValue() == "ok" {
				okCount = metric.GetCounter().GetValue()
			}
		}
	}
	if okCount != 2 {
		t.Errorf("inbound ok = %v, want 2", okCount)
	}

	if _, ok := families["promoloop_webhook_batch_latency_seconds"]; !ok {
		t.Error("latency histogram not registered")
	}
}

func TestGenerationMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewGenerationMetrics(reg)

	m.ObserveRequest("success")
	m.ObserveRetry()
	m.ObserveRetry()
	m.ObserveLatency(1.2)

	families := gather(t, reg)

	retries, ok := families["promoloop_generation_rate_limit_retries_total"]
	if !ok {
		t.Fatal("retry counter not registered")
	}
	if got := retries.GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Errorf("retries = %v, want 2", got)
	}
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var wm *WebhookMetrics
	var gm *GenerationMetrics
	wm.ObserveInbound("ok")
	wm.ObserveReply("sent")
	wm.ObserveBatchLatency(1)
	gm.ObserveRequest("success")
	gm.ObserveRetry()
	gm.ObserveLatency(1)
}
