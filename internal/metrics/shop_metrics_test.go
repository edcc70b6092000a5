package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func newTestShopMetrics() *ShopMetrics {
	return newShopMetricsWithRegisterer(prometheus.NewRegistry())
}

func TestNewShopMetrics(t *testing.T) {
	metrics := newTestShopMetrics()

	if metrics == nil {
		t.Fatal("newShopMetricsWithRegisterer should not return nil")
	}

	if metrics.ordersCreated == nil {
		t.Error("ordersCreated counter should not be nil")
	}

	if metrics.statusTransitions == nil {
		t.Error("statusTransitions counter vec should not be nil")
	}

	if metrics.discountRecomputes == nil {
		t.Error("discountRecomputes counter should not be nil")
	}

	if metrics.registrationCreated == nil {
		t.Error("registrationCreated counter should not be nil")
	}

	if metrics.checkoutFailed == nil {
		t.Error("checkoutFailed counter should not be nil")
	}

	if metrics.httpDuration == nil {
		t.Error("httpDuration histogram vec should not be nil")
	}

	if metrics.checkoutLatency == nil {
		t.Error("checkoutLatency histogram should not be nil")
	}

	if metrics.timelineEvents == nil {
		t.Error("timelineEvents counter should not be nil")
	}

	if metrics.outboxEvents == nil {
		t.Error("outboxEvents counter should not be nil")
	}

	if metrics.outboxPending == nil {
		t.Error("outboxPending gauge should not be nil")
	}
}

func TestShopMetrics_ReRegistrationReturnsExisting(t *testing.T) {
	registry := prometheus.NewRegistry()

	first := newShopMetricsWithRegisterer(registry)
	second := newShopMetricsWithRegisterer(registry)

	// Повторная регистрация возвращает уже существующие коллекторы.
	if first.ordersCreated != second.ordersCreated {
		t.Error("expected shared ordersCreated collector on re-registration")
	}
	if first.statusTransitions != second.statusTransitions {
		t.Error("expected shared statusTransitions collector on re-registration")
	}
	if first.outboxPending != second.outboxPending {
		t.Error("expected shared outboxPending collector on re-registration")
	}
}

func TestRecordOrderCreated(t *testing.T) {
	metrics := newTestShopMetrics()

	metrics.RecordOrderCreated()
	metrics.RecordOrderCreated()

	metric := &dto.Metric{}
	if err := metrics.ordersCreated.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 2.0 {
		t.Errorf("expected counter value 2.0, got %f", metric.Counter.GetValue())
	}
}

func TestRecordStatusTransition(t *testing.T) {
	metrics := newTestShopMetrics()

	metrics.RecordStatusTransition("order", "paid")
	metrics.RecordStatusTransition("order", "paid")
	metrics.RecordStatusTransition("registration", "attended")

	metric := &dto.Metric{}
	counter, err := metrics.statusTransitions.GetMetricWithLabelValues("order", "paid")
	if err != nil {
		t.Fatalf("failed to get labeled counter: %v", err)
	}
	if err := counter.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 2.0 {
		t.Errorf("expected counter value 2.0 for order/paid, got %f", metric.Counter.GetValue())
	}

	regMetric := &dto.Metric{}
	regCounter, err := metrics.statusTransitions.GetMetricWithLabelValues("registration", "attended")
	if err != nil {
		t.Fatalf("failed to get labeled counter: %v", err)
	}
	if err := regCounter.Write(regMetric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if regMetric.Counter.GetValue() != 1.0 {
		t.Errorf("expected counter value 1.0 for registration/attended, got %f", regMetric.Counter.GetValue())
	}
}

func TestRecordDiscountRecompute(t *testing.T) {
	metrics := newTestShopMetrics()

	metrics.RecordDiscountRecompute()
	metrics.RecordDiscountRecompute()
	metrics.RecordDiscountRecompute()

	metric := &dto.Metric{}
	if err := metrics.discountRecomputes.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 3.0 {
		t.Errorf("expected counter value 3.0, got %f", metric.Counter.GetValue())
	}
}

func TestRecordCheckoutFailed(t *testing.T) {
	metrics := newTestShopMetrics()

	metrics.RecordCheckoutFailed()

	metric := &dto.Metric{}
	if err := metrics.checkoutFailed.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 1.0 {
		t.Errorf("expected counter value 1.0, got %f", metric.Counter.GetValue())
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	metrics := newTestShopMetrics()

	metrics.RecordHTTPRequest("GET", "/api/products", "200", 50*time.Millisecond)
	metrics.RecordHTTPRequest("GET", "/api/products", "200", 150*time.Millisecond)
	metrics.RecordHTTPRequest("POST", "/api/orders/checkout", "409", 10*time.Millisecond)

	observer, err := metrics.httpDuration.GetMetricWithLabelValues("GET", "/api/products", "200")
	if err != nil {
		t.Fatalf("failed to get labeled histogram: %v", err)
	}

	metric := &dto.Metric{}
	if err := observer.(prometheus.Histogram).Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Histogram.GetSampleCount() != 2 {
		t.Errorf("expected 2 samples, got %d", metric.Histogram.GetSampleCount())
	}

	// Сумма 0.05 + 0.15 = 0.2.
	sum := metric.Histogram.GetSampleSum()
	if sum < 0.19 || sum > 0.21 {
		t.Errorf("expected sum around 0.2, got %f", sum)
	}
}

func TestRecordCheckoutDuration(t *testing.T) {
	metrics := newTestShopMetrics()

	metrics.RecordCheckoutDuration(100 * time.Millisecond)
	metrics.RecordCheckoutDuration(500 * time.Millisecond)
	metrics.RecordCheckoutDuration(1 * time.Second)

	metric := &dto.Metric{}
	if err := metrics.checkoutLatency.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Histogram.GetSampleCount() != 3 {
		t.Errorf("expected 3 samples, got %d", metric.Histogram.GetSampleCount())
	}

	// Сумма 0.1 + 0.5 + 1.0 = 1.6.
	sum := metric.Histogram.GetSampleSum()
	if sum < 1.5 || sum > 1.7 {
		t.Errorf("expected sum around 1.6, got %f", sum)
	}
}

func TestRecordTimelineEvent(t *testing.T) {
	metrics := newTestShopMetrics()

	metrics.RecordTimelineEvent()
	metrics.RecordTimelineEvent()
	metrics.RecordTimelineEvent()

	metric := &dto.Metric{}
	if err := metrics.timelineEvents.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 3.0 {
		t.Errorf("expected counter value 3.0, got %f", metric.Counter.GetValue())
	}
}

func TestRecordOutboxEvent(t *testing.T) {
	metrics := newTestShopMetrics()

	metrics.RecordOutboxEvent()
	metrics.RecordOutboxEvent()

	metric := &dto.Metric{}
	if err := metrics.outboxEvents.Write(metric); err != nil {
		t.Fatalf("failed to write metric: %v", err)
	}

	if metric.Counter.GetValue() != 2.0 {
		t.Errorf("expected counter value 2.0, got %f", metric.Counter.GetValue())
	}
}

func TestSetOutboxPending(t *testing.T) {
	metrics := newTestShopMetrics()

	metrics.SetOutboxPending(7)

	metric := &dto.Metric{}
	if err := metrics.outboxPending.Write(metric); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}

	if metric.Gauge.GetValue() != 7.0 {
		t.Errorf("expected gauge value 7.0, got %f", metric.Gauge.GetValue())
	}

	metrics.SetOutboxPending(0)

	zeroMetric := &dto.Metric{}
	if err := metrics.outboxPending.Write(zeroMetric); err != nil {
		t.Fatalf("failed to write gauge: %v", err)
	}

	if zeroMetric.Gauge.GetValue() != 0.0 {
		t.Errorf("expected gauge value 0.0, got %f", zeroMetric.Gauge.GetValue())
	}
}
