package domain

import "errors"

var (
	// Ошибка отсутствующего идентификатора покупателя.
	ErrCustomerRequired = errors.New("customer_id is required")
	// Ошибка отсутствующего кода валюты.
	ErrCurrencyRequired = errors.New("currency is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка при некорректном количестве товара (<= 0 или не целое).
	ErrItemQtyInvalid = errors.New("item qty must be a positive integer")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка отрицательной стоимости доставки.
	ErrShippingFeeNegative = errors.New("shipping fee must be non-negative")
	// Ошибка несоответствия subtotal заказа сумме позиций.
	ErrSubtotalMismatch = errors.New("order subtotal does not match items sum")
	// Ошибка несоответствия total заказа пересчитанному значению.
	ErrTotalMismatch = errors.New("order total does not match recalculated value")

	// ErrUnknownStatus возвращается при переходе в статус вне перечисления.
	ErrUnknownStatus = errors.New("unknown lifecycle status")
	// ErrDiscountNegative — запрошенная скидка отрицательная.
	ErrDiscountNegative = errors.New("discount must be non-negative")
	// ErrDiscountExceedsSubtotal — общая скидка больше суммы заказа.
	ErrDiscountExceedsSubtotal = errors.New("discount exceeds order subtotal")
	// ErrDiscountExceedsItemTotal — скидка позиции больше её стоимости.
	ErrDiscountExceedsItemTotal = errors.New("discount exceeds item total")

	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrItemNotFound возвращается, если позиция заказа не найдена.
	ErrItemNotFound = errors.New("order item not found")
	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrOrderVersionConflict = errors.New("order version conflict")

	// ErrProductNotFound — товар не найден.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductNameRequired — у товара должны быть имя и slug.
	ErrProductNameRequired = errors.New("product name and slug are required")
	// ErrStockNegative — отрицательный остаток на складе.
	ErrStockNegative = errors.New("product stock must be non-negative")
	// ErrCategoryNotFound — категория не найдена.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrSlugTaken — slug товара или категории уже занят.
	ErrSlugTaken = errors.New("slug is already taken")
	// ErrInsufficientStock — на складе меньше товара, чем запрошено.
	ErrInsufficientStock = errors.New("insufficient product stock")

	// ErrEventNotFound — мастер-класс не найден.
	ErrEventNotFound = errors.New("event not found")
	// ErrEventTitleRequired — у мастер-класса должен быть заголовок.
	ErrEventTitleRequired = errors.New("event title is required")
	// ErrEventCapacityInvalid — отрицательная вместимость мастер-класса.
	ErrEventCapacityInvalid = errors.New("event capacity must be non-negative")
	// ErrEventScheduleInvalid — окончание мастер-класса раньше начала.
	ErrEventScheduleInvalid = errors.New("event ends before it starts")
	// ErrEventFull — свободных мест на мастер-классе нет.
	ErrEventFull = errors.New("event has no free seats")
	// ErrRegistrationNotFound — запись на мастер-класс не найдена.
	ErrRegistrationNotFound = errors.New("registration not found")

	// ErrCartEmpty — оформление заказа по пустой корзине.
	ErrCartEmpty = errors.New("cart is empty")
	// ErrReviewNotFound — отзыв не найден.
	ErrReviewNotFound = errors.New("review not found")
	// ErrRatingInvalid — оценка отзыва вне диапазона 1..5.
	ErrRatingInvalid = errors.New("rating must be between 1 and 5")

	// ErrUserNotFound — пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken — email уже зарегистрирован.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
	// ErrIdempotencyKeyAlreadyExists — ключ идемпотентности уже занят.
	ErrIdempotencyKeyAlreadyExists = errors.New("idempotency key already exists")
	// ErrIdempotencyHashMismatch — ключ использован с другим телом запроса.
	ErrIdempotencyHashMismatch = errors.New("idempotency request hash mismatch")
	// ErrIdempotencyKeyRequired — пустой Idempotency-Key.
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	// ErrIdempotencyRequestHashRequired — пустой хэш тела запроса.
	ErrIdempotencyRequestHashRequired = errors.New("idempotency request hash is required")
	// ErrIdempotencyKeyNotFound — запись по ключу отсутствует.
	ErrIdempotencyKeyNotFound = errors.New("idempotency key not found")
)

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict)
}

// IsNotFound проверяет ошибки отсутствия сущности любого типа.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrEventNotFound) ||
		errors.Is(err, ErrRegistrationNotFound) ||
		errors.Is(err, ErrReviewNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsValidation проверяет, относится ли ошибка к нарушению входных ограничений.
func IsValidation(err error) bool {
	return errors.Is(err, ErrDiscountNegative) ||
		errors.Is(err, ErrDiscountExceedsSubtotal) ||
		errors.Is(err, ErrDiscountExceedsItemTotal) ||
		errors.Is(err, ErrItemQtyInvalid) ||
		errors.Is(err, ErrUnknownStatus) ||
		errors.Is(err, ErrRatingInvalid) ||
		errors.Is(err, ErrCartEmpty) ||
		errors.Is(err, ErrEventFull) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrSlugTaken) ||
		errors.Is(err, ErrEmailTaken)
}
