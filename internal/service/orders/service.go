package orders

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
	"github.com/vladislavdragonenkov/pottery/internal/metrics"
)

const (
	defaultListLimit = 100

	timelineEventStatusChanged   = "OrderStatusChanged"
	timelineEventDiscountChanged = "OrderDiscountChanged"
	timelineEventItemChanged     = "OrderItemChanged"

	outboxEventOrderCreated         = "order.created"
	outboxEventOrderStatusChanged   = "order.status_changed"
	outboxEventOrderDiscountChanged = "order.discount_changed"

	aggregateOrder = "order"
)

// Service реализует операции над заказами: оформление из корзины,
// чтение и административные мутации статуса, скидок и позиций.
type Service struct {
	orders   domain.OrderRepository
	checkout domain.CheckoutRepository
	products domain.ProductRepository
	carts    domain.CartRepository
	timeline domain.TimelineRepository
	outbox   domain.OutboxRepository
	metrics  *metrics.ShopMetrics
	logger   *log.Entry
}

// NewService конструирует сервис заказов с зависимостями.
// Timeline, outbox и metrics опциональны: nil отключает соответствующую запись.
func NewService(
	orders domain.OrderRepository,
	checkout domain.CheckoutRepository,
	products domain.ProductRepository,
	carts domain.CartRepository,
	timeline domain.TimelineRepository,
	outbox domain.OutboxRepository,
	shopMetrics *metrics.ShopMetrics,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "orders-service")
	}
	return &Service{
		orders:   orders,
		checkout: checkout,
		products: products,
		carts:    carts,
		timeline: timeline,
		outbox:   outbox,
		metrics:  shopMetrics,
		logger:   logger,
	}
}

// Checkout оформляет заказ из корзины покупателя: позиции получают текущую
// цену товара, остатки списываются, корзина очищается — всё в одной
// транзакции хранилища.
func (s *Service) Checkout(_ context.Context, customerID string, shippingFeeMinor int64) (domain.Order, error) {
	if customerID == "" {
		return domain.Order{}, domain.ErrCustomerRequired
	}
	if shippingFeeMinor < 0 {
		return domain.Order{}, domain.ErrShippingFeeNegative
	}

	started := time.Now()

	cart, err := s.carts.Get(customerID)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", customerID).Error("failed to load cart")
		return domain.Order{}, err
	}
	if cart.Empty() {
		return domain.Order{}, domain.ErrCartEmpty
	}

	now := time.Now().UTC()
	order := domain.Order{
		ID:               uuid.NewString(),
		CustomerID:       customerID,
		Status:           domain.OrderStatusPending,
		RequestAt:        &now,
		ShippingFeeMinor: shippingFeeMinor,
		Version:          0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	for _, cartItem := range cart.Items {
		product, err := s.products.Get(cartItem.ProductID)
		if err != nil {
			s.recordCheckoutFailed()
			return domain.Order{}, err
		}
		if !product.Active {
			s.recordCheckoutFailed()
			return domain.Order{}, domain.ErrProductNotFound
		}
		if order.Currency == "" {
			order.Currency = product.Currency
		}

		order.Items = append(order.Items, domain.OrderItem{
			ID:         uuid.NewString(),
			OrderID:    order.ID,
			ProductID:  product.ID,
			Name:       product.Name,
			PriceMinor: product.PriceMinor,
			Qty:        cartItem.Qty,
			CreatedAt:  now,
		})
	}
	order.RecalcTotals()

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		s.recordCheckoutFailed()
		return domain.Order{}, errs[0]
	}

	if err := s.checkout.Checkout(order); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"customer_id": customerID,
			"order_id":    order.ID,
		}).Error("checkout failed")
		s.recordCheckoutFailed()
		return domain.Order{}, err
	}

	s.appendStatusTimeline(order.ID, string(order.Status), order.UpdatedAt)
	s.enqueueOrderEvent(outboxEventOrderCreated, order)
	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
		s.metrics.RecordCheckoutDuration(time.Since(started))
	}

	return order, nil
}

// Get возвращает заказ по идентификатору.
func (s *Service) Get(_ context.Context, orderID string) (domain.Order, error) {
	return s.loadOrder(orderID, "Get")
}

// GetForCustomer возвращает заказ, только если он принадлежит покупателю.
func (s *Service) GetForCustomer(_ context.Context, orderID, customerID string) (domain.Order, error) {
	order, err := s.loadOrder(orderID, "GetForCustomer")
	if err != nil {
		return domain.Order{}, err
	}
	if order.CustomerID != customerID {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return order, nil
}

// ListByCustomer возвращает заказы покупателя.
func (s *Service) ListByCustomer(_ context.Context, customerID string, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	orders, err := s.orders.ListByCustomer(customerID, limit)
	if err != nil {
		s.logger.WithError(err).WithField("customer_id", customerID).Error("failed to list orders")
		return nil, err
	}
	return orders, nil
}

// List возвращает заказы с опциональным фильтром по статусу (admin).
func (s *Service) List(_ context.Context, status domain.OrderStatus, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	orders, err := s.orders.List(status, limit)
	if err != nil {
		s.logger.WithError(err).WithField("status", status).Error("failed to list orders")
		return nil, err
	}
	return orders, nil
}

// UpdateStatus переводит заказ в новый статус по таблице жизненного цикла:
// пропущенные отметки основного потока дозаполняются при движении вперёд,
// более поздние и терминальные отметки очищаются при движении назад.
func (s *Service) UpdateStatus(_ context.Context, orderID string, next domain.OrderStatus) (domain.Order, error) {
	order, err := s.loadOrder(orderID, "UpdateStatus")
	if err != nil {
		return domain.Order{}, err
	}

	previous := order.Status
	if err := order.ApplyStatus(next, time.Now().UTC()); err != nil {
		return domain.Order{}, err
	}
	if previous == order.Status {
		return order, nil
	}

	if err := s.saveOrder(order, "UpdateStatus"); err != nil {
		return domain.Order{}, err
	}
	order.Version++

	s.appendStatusTimeline(order.ID, string(order.Status), order.UpdatedAt)
	s.enqueueOrderEvent(outboxEventOrderStatusChanged, order)
	if s.metrics != nil {
		s.metrics.RecordStatusTransition(aggregateOrder, string(order.Status))
	}

	return order, nil
}

// UpdateDiscount задаёт новую общую скидку заказа, пропорционально
// распределяя её по позициям; остаток округления достаётся последней позиции.
func (s *Service) UpdateDiscount(_ context.Context, orderID string, totalDiscountMinor int64) (domain.Order, error) {
	order, err := s.loadOrder(orderID, "UpdateDiscount")
	if err != nil {
		return domain.Order{}, err
	}

	if err := order.RedistributeDiscount(totalDiscountMinor); err != nil {
		return domain.Order{}, err
	}
	order.UpdatedAt = time.Now().UTC()

	if err := s.saveOrder(order, "UpdateDiscount"); err != nil {
		return domain.Order{}, err
	}
	order.Version++

	s.appendTimelineEvent(order.ID, timelineEventDiscountChanged, "")
	s.enqueueOrderEvent(outboxEventOrderDiscountChanged, order)
	if s.metrics != nil {
		s.metrics.RecordDiscountRecompute()
	}

	return order, nil
}

// UpdateItemDiscount меняет скидку одной позиции в пределах её стоимости
// и пересчитывает суммы заказа.
func (s *Service) UpdateItemDiscount(_ context.Context, itemID string, discountMinor int64) (domain.Order, error) {
	order, err := s.loadOrderByItem(itemID, "UpdateItemDiscount")
	if err != nil {
		return domain.Order{}, err
	}

	if err := order.SetItemDiscount(itemID, discountMinor); err != nil {
		return domain.Order{}, err
	}
	order.UpdatedAt = time.Now().UTC()

	if err := s.saveOrder(order, "UpdateItemDiscount"); err != nil {
		return domain.Order{}, err
	}
	order.Version++

	s.appendTimelineEvent(order.ID, timelineEventItemChanged, itemID)
	s.enqueueOrderEvent(outboxEventOrderDiscountChanged, order)

	return order, nil
}

// UpdateItemQuantity меняет количество в позиции; скидка позиции ужимается
// до новой стоимости, суммы заказа пересчитываются.
func (s *Service) UpdateItemQuantity(_ context.Context, itemID string, qty int32) (domain.Order, error) {
	order, err := s.loadOrderByItem(itemID, "UpdateItemQuantity")
	if err != nil {
		return domain.Order{}, err
	}

	if err := order.SetItemQuantity(itemID, qty); err != nil {
		return domain.Order{}, err
	}
	order.UpdatedAt = time.Now().UTC()

	if err := s.saveOrder(order, "UpdateItemQuantity"); err != nil {
		return domain.Order{}, err
	}
	order.Version++

	s.appendTimelineEvent(order.ID, timelineEventItemChanged, itemID)

	return order, nil
}

// Timeline возвращает события аудита заказа.
func (s *Service) Timeline(_ context.Context, orderID string) ([]domain.TimelineEvent, error) {
	if s.timeline == nil {
		return nil, nil
	}
	events, err := s.timeline.List(orderID)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Warn("failed to list timeline events")
		return nil, err
	}
	return events, nil
}

// Cart возвращает корзину покупателя.
func (s *Service) Cart(_ context.Context, customerID string) (domain.Cart, error) {
	return s.carts.Get(customerID)
}

// SetCartItem устанавливает количество товара в корзине; qty <= 0 удаляет
// позицию. Товар должен существовать и быть активным.
func (s *Service) SetCartItem(_ context.Context, customerID, productID string, qty int32) (domain.Cart, error) {
	if qty > 0 {
		product, err := s.products.Get(productID)
		if err != nil {
			return domain.Cart{}, err
		}
		if !product.Active {
			return domain.Cart{}, domain.ErrProductNotFound
		}
	}

	if err := s.carts.SetItem(customerID, productID, qty); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"customer_id": customerID,
			"product_id":  productID,
		}).Error("failed to update cart item")
		return domain.Cart{}, err
	}
	return s.carts.Get(customerID)
}

// RemoveCartItem удаляет товар из корзины.
func (s *Service) RemoveCartItem(_ context.Context, customerID, productID string) (domain.Cart, error) {
	if err := s.carts.RemoveItem(customerID, productID); err != nil {
		return domain.Cart{}, err
	}
	return s.carts.Get(customerID)
}

// ClearCart очищает корзину покупателя.
func (s *Service) ClearCart(_ context.Context, customerID string) error {
	return s.carts.Clear(customerID)
}

func (s *Service) loadOrder(orderID, operation string) (domain.Order, error) {
	order, err := s.orders.Get(orderID)
	if err == nil {
		return order, nil
	}

	if !domain.IsNotFound(err) {
		s.logger.WithError(err).WithFields(log.Fields{
			"operation": operation,
			"order_id":  orderID,
		}).Error("failed to load order")
	}
	return domain.Order{}, err
}

func (s *Service) loadOrderByItem(itemID, operation string) (domain.Order, error) {
	order, err := s.orders.GetByItem(itemID)
	if err == nil {
		return order, nil
	}

	if !domain.IsNotFound(err) {
		s.logger.WithError(err).WithFields(log.Fields{
			"operation": operation,
			"item_id":   itemID,
		}).Error("failed to load order by item")
	}
	return domain.Order{}, err
}

func (s *Service) saveOrder(order domain.Order, operation string) error {
	if err := s.orders.Save(order); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"operation": operation,
			"order_id":  order.ID,
		}).Error("failed to save order")
		return err
	}
	return nil
}

func (s *Service) appendStatusTimeline(orderID, status string, occurred time.Time) {
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	s.appendTimeline(domain.TimelineEvent{
		AggregateID: orderID,
		Type:        timelineEventStatusChanged,
		Reason:      status,
		Occurred:    occurred,
	})
}

func (s *Service) appendTimelineEvent(orderID, eventType, reason string) {
	s.appendTimeline(domain.TimelineEvent{
		AggregateID: orderID,
		Type:        eventType,
		Reason:      reason,
		Occurred:    time.Now().UTC(),
	})
}

func (s *Service) appendTimeline(event domain.TimelineEvent) {
	if s.timeline == nil {
		return
	}
	if err := s.timeline.Append(event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": event.AggregateID,
			"event":    event.Type,
		}).Warn("failed to append timeline event")
		return
	}
	if s.metrics != nil {
		s.metrics.RecordTimelineEvent()
	}
}

type orderEventPayload struct {
	OrderID       string `json:"order_id"`
	CustomerID    string `json:"customer_id"`
	Status        string `json:"status"`
	SubtotalMinor int64  `json:"subtotal_minor"`
	DiscountMinor int64  `json:"discount_minor"`
	TotalMinor    int64  `json:"total_minor"`
	Currency      string `json:"currency"`
}

func (s *Service) enqueueOrderEvent(eventType string, order domain.Order) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(orderEventPayload{
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		Status:        string(order.Status),
		SubtotalMinor: order.SubtotalMinor,
		DiscountMinor: order.ItemDiscountMinor(),
		TotalMinor:    order.TotalMinor,
		Currency:      order.Currency,
	})
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to marshal outbox payload")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		ID:            uuid.NewString(),
		AggregateType: aggregateOrder,
		AggregateID:   order.ID,
		EventType:     eventType,
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to enqueue outbox event")
		return
	}
	if s.metrics != nil {
		s.metrics.RecordOutboxEvent()
	}
}

func (s *Service) recordCheckoutFailed() {
	if s.metrics != nil {
		s.metrics.RecordCheckoutFailed()
	}
}
