package domain

import "time"

// OrderStatus описывает жизненный цикл заказа в магазине.
type OrderStatus string

const (
	// OrderStatusPending — заказ оформлен, ждёт подтверждения администратором.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusProcessing — заказ подтверждён и собирается.
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusPaid — оплата получена.
	OrderStatusPaid OrderStatus = "paid"
	// OrderStatusShipped — заказ передан в доставку.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered — заказ доставлен покупателю.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled — заказ отменён (терминальная ветка).
	OrderStatusCancelled OrderStatus = "cancelled"
	// OrderStatusReturned — заказ возвращён покупателем (терминальная ветка).
	OrderStatusReturned OrderStatus = "returned"
	// OrderStatusRefunded — средства возвращены покупателю (терминальная ветка).
	OrderStatusRefunded OrderStatus = "refunded"
)

// OrderLifecycle — таблица жизненного цикла заказа: полное перечисление,
// основной поток из пяти статусов и поле отметки времени каждого статуса.
var OrderLifecycle = NewSequence(
	[]string{
		string(OrderStatusPending),
		string(OrderStatusProcessing),
		string(OrderStatusPaid),
		string(OrderStatusShipped),
		string(OrderStatusDelivered),
		string(OrderStatusCancelled),
		string(OrderStatusReturned),
		string(OrderStatusRefunded),
	},
	[]string{
		string(OrderStatusPending),
		string(OrderStatusProcessing),
		string(OrderStatusPaid),
		string(OrderStatusShipped),
		string(OrderStatusDelivered),
	},
	map[string]TimestampField{
		string(OrderStatusPending):    FieldRequestAt,
		string(OrderStatusProcessing): FieldApprovedAt,
		string(OrderStatusPaid):       FieldPaidAt,
		string(OrderStatusShipped):    FieldShippedAt,
		string(OrderStatusDelivered):  FieldDeliveredAt,
		string(OrderStatusCancelled):  FieldCancelledAt,
		string(OrderStatusReturned):   FieldReturnedAt,
		string(OrderStatusRefunded):   FieldRefundedAt,
	},
)

// OrderItem представляет одну позицию заказа.
type OrderItem struct {
	ID      string
	OrderID string
	// ProductID — товар на момент оформления; цена фиксируется в позиции.
	ProductID string
	Name      string
	// PriceMinor — цена за единицу в минимальных денежных единицах.
	PriceMinor int64
	Qty        int32
	// DiscountMinor — абсолютная скидка позиции; инвариант 0 <= discount <= price*qty.
	DiscountMinor int64
	CreatedAt     time.Time
}

// TotalMinor возвращает стоимость позиции без учёта скидки.
func (i OrderItem) TotalMinor() int64 {
	return int64(i.Qty) * i.PriceMinor
}

// Order агрегирует состояние заказа, его позиции и отметки времени
// жизненного цикла. Отметки nullable: non-nil ровно для пройденных статусов.
type Order struct {
	ID         string
	CustomerID string
	Status     OrderStatus
	Currency   string

	RequestAt   *time.Time
	ApprovedAt  *time.Time
	PaidAt      *time.Time
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time
	ReturnedAt  *time.Time
	RefundedAt  *time.Time

	SubtotalMinor int64
	// DiscountMinor после перераспределения всегда 0: скидка живёт на позициях.
	DiscountMinor    int64
	ShippingFeeMinor int64
	TotalMinor       int64

	Items     []OrderItem
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApplyStatus выполняет переход статуса по таблице жизненного цикла:
// проставляет и обнуляет отметки времени ровно так, как требует направление
// перехода. Одинаковый статус — no-op.
func (o *Order) ApplyStatus(next OrderStatus, now time.Time) error {
	patch, err := OrderLifecycle.Resolve(string(o.Status), string(next))
	if err != nil {
		return err
	}
	if o.Status == next {
		return nil
	}

	for _, field := range patch.Stamp {
		ref := o.stampRef(field)
		if ref != nil && *ref == nil {
			stamped := now
			*ref = &stamped
		}
	}
	for _, field := range patch.Clear {
		if ref := o.stampRef(field); ref != nil {
			*ref = nil
		}
	}

	o.Status = next
	o.UpdatedAt = now
	return nil
}

// StampedAt возвращает отметку времени статуса (nil, если статус не пройден).
func (o *Order) StampedAt(status OrderStatus) *time.Time {
	ref := o.stampRef(OrderLifecycle.Field(string(status)))
	if ref == nil {
		return nil
	}
	return *ref
}

func (o *Order) stampRef(field TimestampField) **time.Time {
	switch field {
	case FieldRequestAt:
		return &o.RequestAt
	case FieldApprovedAt:
		return &o.ApprovedAt
	case FieldPaidAt:
		return &o.PaidAt
	case FieldShippedAt:
		return &o.ShippedAt
	case FieldDeliveredAt:
		return &o.DeliveredAt
	case FieldCancelledAt:
		return &o.CancelledAt
	case FieldReturnedAt:
		return &o.ReturnedAt
	case FieldRefundedAt:
		return &o.RefundedAt
	default:
		return nil
	}
}

// RecalcTotals пересчитывает суммы заказа по позициям:
// total = max(0, subtotal + shipping_fee - sum(item.discount)).
// Скидка уровня заказа после пересчёта всегда 0.
func (o *Order) RecalcTotals() {
	var subtotal, discount int64
	for _, item := range o.Items {
		subtotal += item.TotalMinor()
		discount += item.DiscountMinor
	}
	o.SubtotalMinor = subtotal
	o.DiscountMinor = 0
	total := subtotal + o.ShippingFeeMinor - discount
	if total < 0 {
		total = 0
	}
	o.TotalMinor = total
}

// ItemDiscountMinor возвращает сумму скидок всех позиций.
func (o *Order) ItemDiscountMinor() int64 {
	var discount int64
	for _, item := range o.Items {
		discount += item.DiscountMinor
	}
	return discount
}

// RedistributeDiscount устанавливает новую общую скидку заказа,
// распределяя её по позициям, и пересчитывает суммы.
func (o *Order) RedistributeDiscount(newTotalMinor int64) error {
	discounts, err := AllocateDiscount(o.Items, newTotalMinor)
	if err != nil {
		return err
	}
	for i := range o.Items {
		o.Items[i].DiscountMinor = discounts[i]
	}
	o.RecalcTotals()
	return nil
}

// SetItemDiscount напрямую задаёт скидку одной позиции в обход
// распределителя, с проверкой границ, и пересчитывает суммы заказа.
func (o *Order) SetItemDiscount(itemID string, discountMinor int64) error {
	if discountMinor < 0 {
		return ErrDiscountNegative
	}
	idx := o.itemIndex(itemID)
	if idx < 0 {
		return ErrItemNotFound
	}
	if discountMinor > o.Items[idx].TotalMinor() {
		return ErrDiscountExceedsItemTotal
	}
	o.Items[idx].DiscountMinor = discountMinor
	o.RecalcTotals()
	return nil
}

// SetItemQuantity меняет количество в позиции. Существующая скидка позиции
// ужимается, если превысила бы новую стоимость позиции.
func (o *Order) SetItemQuantity(itemID string, qty int32) error {
	if qty <= 0 {
		return ErrItemQtyInvalid
	}
	idx := o.itemIndex(itemID)
	if idx < 0 {
		return ErrItemNotFound
	}
	o.Items[idx].Qty = qty
	if max := o.Items[idx].TotalMinor(); o.Items[idx].DiscountMinor > max {
		o.Items[idx].DiscountMinor = max
	}
	o.RecalcTotals()
	return nil
}

func (o *Order) itemIndex(itemID string) int {
	for i, item := range o.Items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if o.Currency == "" {
		errs = append(errs, ErrCurrencyRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if o.ShippingFeeMinor < 0 {
		errs = append(errs, ErrShippingFeeNegative)
	}

	var subtotal, discount int64
	for _, item := range o.Items {
		if item.Qty <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.PriceMinor < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
		if item.DiscountMinor < 0 || item.DiscountMinor > item.TotalMinor() {
			errs = append(errs, ErrDiscountExceedsItemTotal)
		}
		subtotal += item.TotalMinor()
		discount += item.DiscountMinor
	}
	if subtotal != o.SubtotalMinor {
		errs = append(errs, ErrSubtotalMismatch)
	}

	expected := subtotal + o.ShippingFeeMinor - discount
	if expected < 0 {
		expected = 0
	}
	if expected != o.TotalMinor {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}
