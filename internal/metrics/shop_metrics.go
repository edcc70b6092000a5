package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ShopMetrics содержит метрики магазина: заказы, переходы статусов,
// перерасчёты скидок, записи на мастер-классы и инфраструктурные счётчики.
type ShopMetrics struct {
	// Счётчики бизнес-операций
	ordersCreated       prometheus.Counter
	statusTransitions   *prometheus.CounterVec
	discountRecomputes  prometheus.Counter
	registrationCreated prometheus.Counter
	checkoutFailed      prometheus.Counter

	// Гистограммы времени выполнения
	httpDuration    *prometheus.HistogramVec
	checkoutLatency prometheus.Histogram

	// Счётчики событий timeline и outbox
	timelineEvents prometheus.Counter
	outboxEvents   prometheus.Counter

	// Gauge для backlog outbox
	outboxPending prometheus.Gauge
}

// NewShopMetrics создаёт новый экземпляр метрик магазина.
func NewShopMetrics() *ShopMetrics {
	return newShopMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newShopMetricsWithRegisterer(registerer prometheus.Registerer) *ShopMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &ShopMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_orders_created_total",
			Help: "Total number of orders created",
		}),
		statusTransitions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "shop_status_transitions_total",
			Help: "Total number of lifecycle status transitions",
		}, []string{"aggregate", "to_status"}),
		discountRecomputes: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_discount_recomputes_total",
			Help: "Total number of order discount redistributions",
		}),
		registrationCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_registrations_created_total",
			Help: "Total number of event registrations created",
		}),
		checkoutFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_checkout_failed_total",
			Help: "Total number of failed checkout attempts",
		}),
		httpDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "shop_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		checkoutLatency: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "shop_checkout_duration_seconds",
			Help:    "Duration of checkout transactions in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		timelineEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_timeline_events_total",
			Help: "Total number of timeline events recorded",
		}),
		outboxEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "shop_outbox_events_total",
			Help: "Total number of outbox events published",
		}),
		outboxPending: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "shop_outbox_pending",
			Help: "Number of outbox messages waiting to be published",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *ShopMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordStatusTransition фиксирует переход статуса агрегата.
func (m *ShopMetrics) RecordStatusTransition(aggregate, toStatus string) {
	m.statusTransitions.WithLabelValues(aggregate, toStatus).Inc()
}

// RecordDiscountRecompute увеличивает счётчик перераспределений скидки.
func (m *ShopMetrics) RecordDiscountRecompute() {
	m.discountRecomputes.Inc()
}

// RecordRegistrationCreated увеличивает счётчик записей на мастер-классы.
func (m *ShopMetrics) RecordRegistrationCreated() {
	m.registrationCreated.Inc()
}

// RecordCheckoutFailed увеличивает счётчик неудачных оформлений.
func (m *ShopMetrics) RecordCheckoutFailed() {
	m.checkoutFailed.Inc()
}

// RecordHTTPRequest записывает длительность HTTP-запроса.
func (m *ShopMetrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	m.httpDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RecordCheckoutDuration записывает длительность транзакции оформления.
func (m *ShopMetrics) RecordCheckoutDuration(duration time.Duration) {
	m.checkoutLatency.Observe(duration.Seconds())
}

// RecordTimelineEvent увеличивает счётчик событий timeline.
func (m *ShopMetrics) RecordTimelineEvent() {
	m.timelineEvents.Inc()
}

// RecordOutboxEvent увеличивает счётчик событий outbox.
func (m *ShopMetrics) RecordOutboxEvent() {
	m.outboxEvents.Inc()
}

// SetOutboxPending обновляет gauge backlog outbox.
func (m *ShopMetrics) SetOutboxPending(count int) {
	m.outboxPending.Set(float64(count))
}
