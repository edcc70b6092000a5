package domain

import "time"

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ с позициями. Возвращает ошибку, если запись с таким ID уже существует.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// GetByItem возвращает заказ, содержащий позицию itemID, или ErrItemNotFound.
	GetByItem(itemID string) (Order, error)
	// ListByCustomer возвращает заказы покупателя с опциональным ограничением на количество.
	ListByCustomer(customerID string, limit int) ([]Order, error)
	// List возвращает заказы c опциональным фильтром по статусу (пустой статус — все).
	List(status OrderStatus, limit int) ([]Order, error)
	// Save применяет обновления к заказу и его позициям в одной транзакции
	// с учётом optimistic locking.
	Save(order Order) error
}

// CheckoutRepository атомарно оформляет заказ из корзины: проверяет и
// списывает остатки товаров, сохраняет заказ с позициями и очищает корзину
// покупателя. Либо выполняются все шаги, либо ни один.
type CheckoutRepository interface {
	Checkout(order Order) error
}

// ProductFilter задаёт выборку товаров каталога.
type ProductFilter struct {
	CategoryID string
	ActiveOnly bool
	Limit      int
}

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	Create(product Product) error
	Get(id string) (Product, error)
	GetBySlug(slug string) (Product, error)
	List(filter ProductFilter) ([]Product, error)
	Save(product Product) error
	Delete(id string) error
}

// CategoryRepository описывает требования к хранилищу категорий.
type CategoryRepository interface {
	Create(category Category) error
	Get(id string) (Category, error)
	List() ([]Category, error)
	Save(category Category) error
	Delete(id string) error
}

// EventRepository описывает требования к хранилищу мастер-классов.
type EventRepository interface {
	Create(event Event) error
	Get(id string) (Event, error)
	List(upcomingOnly bool, limit int) ([]Event, error)
	Save(event Event) error
	Delete(id string) error
}

// RegistrationRepository описывает требования к хранилищу записей на мастер-классы.
type RegistrationRepository interface {
	Create(registration Registration) error
	Get(id string) (Registration, error)
	ListByEvent(eventID string) ([]Registration, error)
	ListByCustomer(customerID string) ([]Registration, error)
	// CountActive возвращает число записей, удерживающих место (для проверки вместимости).
	CountActive(eventID string) (int, error)
	// Save применяет обновления с учётом optimistic locking.
	Save(registration Registration) error
}

// CartRepository описывает требования к хранилищу корзин.
type CartRepository interface {
	// Get возвращает корзину покупателя; отсутствие записей — пустая корзина, не ошибка.
	Get(customerID string) (Cart, error)
	// SetItem устанавливает количество товара в корзине; qty <= 0 удаляет позицию.
	SetItem(customerID, productID string, qty int32) error
	RemoveItem(customerID, productID string) error
	Clear(customerID string) error
}

// ReviewRepository описывает требования к хранилищу отзывов.
type ReviewRepository interface {
	Create(review Review) error
	ListByProduct(productID string, limit int) ([]Review, error)
	Delete(id string) error
}

// WishlistRepository описывает требования к хранилищу списков желаний.
type WishlistRepository interface {
	Add(item WishlistItem) error
	Remove(customerID, productID string) error
	List(customerID string) ([]WishlistItem, error)
}

// UserRepository описывает требования к хранилищу пользователей.
type UserRepository interface {
	Create(user User) error
	Get(id string) (User, error)
	GetByEmail(email string) (User, error)
	List(limit int) ([]User, error)
}

// TimelineRepository хранит события аудита жизненного цикла.
type TimelineRepository interface {
	Append(event TimelineEvent) error
	List(aggregateID string) ([]TimelineEvent, error)
}

// IdempotencyRepository хранит состояние обработки запросов по Idempotency-Key.
type IdempotencyRepository interface {
	CreateProcessing(key, requestHash string, ttlAt time.Time) (IdempotencyRecord, error)
	Get(key string) (IdempotencyRecord, error)
	MarkDone(key string, responseBody []byte, httpStatus int) error
	MarkFailed(key string, responseBody []byte, httpStatus int) error
	DeleteExpired(before time.Time, limit int) (int, error)
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
