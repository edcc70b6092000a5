package api

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pottery/internal/auth"
	"github.com/vladislavdragonenkov/pottery/internal/domain"
	"github.com/vladislavdragonenkov/pottery/internal/service/catalog"
	"github.com/vladislavdragonenkov/pottery/internal/service/events"
	"github.com/vladislavdragonenkov/pottery/internal/service/orders"
)

// Handlers объединяет HTTP-обработчики витрины и back-office.
type Handlers struct {
	orders  *orders.Service
	catalog *catalog.Service
	events  *events.Service
	users   domain.UserRepository
	tokens  *auth.TokenManager
	logger  *log.Entry
}

// NewHandlers конструирует обработчики с зависимостями.
func NewHandlers(
	ordersService *orders.Service,
	catalogService *catalog.Service,
	eventsService *events.Service,
	users domain.UserRepository,
	tokens *auth.TokenManager,
	logger *log.Entry,
) *Handlers {
	if logger == nil {
		logger = log.WithField("component", "api")
	}
	return &Handlers{
		orders:  ordersService,
		catalog: catalogService,
		events:  eventsService,
		users:   users,
		tokens:  tokens,
		logger:  logger,
	}
}

// orderResponse — заказ в ответе API; отметки времени nullable.
type orderResponse struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Status     string `json:"status"`
	Currency   string `json:"currency"`

	RequestAt   *time.Time `json:"request_at"`
	ApprovedAt  *time.Time `json:"approved_at"`
	PaidAt      *time.Time `json:"paid_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	ReturnedAt  *time.Time `json:"returned_at"`
	RefundedAt  *time.Time `json:"refunded_at"`

	SubtotalMinor    int64 `json:"subtotal_minor"`
	DiscountMinor    int64 `json:"discount_minor"`
	ShippingFeeMinor int64 `json:"shipping_fee_minor"`
	TotalMinor       int64 `json:"total_minor"`

	Items   []orderItemResponse `json:"items"`
	Version int64               `json:"version"`
}

type orderItemResponse struct {
	ID            string `json:"id"`
	ProductID     string `json:"product_id"`
	Name          string `json:"name"`
	PriceMinor    int64  `json:"price_minor"`
	Qty           int32  `json:"qty"`
	DiscountMinor int64  `json:"discount_minor"`
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			Name:          item.Name,
			PriceMinor:    item.PriceMinor,
			Qty:           item.Qty,
			DiscountMinor: item.DiscountMinor,
		})
	}

	return orderResponse{
		ID:               order.ID,
		CustomerID:       order.CustomerID,
		Status:           string(order.Status),
		Currency:         order.Currency,
		RequestAt:        order.RequestAt,
		ApprovedAt:       order.ApprovedAt,
		PaidAt:           order.PaidAt,
		ShippedAt:        order.ShippedAt,
		DeliveredAt:      order.DeliveredAt,
		CancelledAt:      order.CancelledAt,
		ReturnedAt:       order.ReturnedAt,
		RefundedAt:       order.RefundedAt,
		SubtotalMinor:    order.SubtotalMinor,
		DiscountMinor:    order.DiscountMinor,
		ShippingFeeMinor: order.ShippingFeeMinor,
		TotalMinor:       order.TotalMinor,
		Items:            items,
		Version:          order.Version,
	}
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	result := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		result = append(result, toOrderResponse(order))
	}
	return result
}

type registrationResponse struct {
	ID         string `json:"id"`
	EventID    string `json:"event_id"`
	CustomerID string `json:"customer_id"`
	Status     string `json:"status"`

	RequestAt   *time.Time `json:"request_at"`
	ApprovedAt  *time.Time `json:"approved_at"`
	PaidAt      *time.Time `json:"paid_at"`
	AttendedAt  *time.Time `json:"attended_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	RefundedAt  *time.Time `json:"refunded_at"`

	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
	Version     int64  `json:"version"`
}

func toRegistrationResponse(registration domain.Registration) registrationResponse {
	return registrationResponse{
		ID:          registration.ID,
		EventID:     registration.EventID,
		CustomerID:  registration.CustomerID,
		Status:      string(registration.Status),
		RequestAt:   registration.RequestAt,
		ApprovedAt:  registration.ApprovedAt,
		PaidAt:      registration.PaidAt,
		AttendedAt:  registration.AttendedAt,
		CancelledAt: registration.CancelledAt,
		RefundedAt:  registration.RefundedAt,
		AmountMinor: registration.AmountMinor,
		Currency:    registration.Currency,
		Version:     registration.Version,
	}
}

func toRegistrationResponses(registrations []domain.Registration) []registrationResponse {
	result := make([]registrationResponse, 0, len(registrations))
	for _, registration := range registrations {
		result = append(result, toRegistrationResponse(registration))
	}
	return result
}

type timelineEventResponse struct {
	Type     string    `json:"type"`
	Reason   string    `json:"reason,omitempty"`
	Occurred time.Time `json:"occurred"`
}

func toTimelineResponses(events []domain.TimelineEvent) []timelineEventResponse {
	result := make([]timelineEventResponse, 0, len(events))
	for _, event := range events {
		result = append(result, timelineEventResponse{
			Type:     event.Type,
			Reason:   event.Reason,
			Occurred: event.Occurred,
		})
	}
	return result
}
