package domain

import "time"

// CartItem — позиция корзины: ссылка на товар и количество.
type CartItem struct {
	ProductID string
	Qty       int32
	AddedAt   time.Time
}

// Cart — корзина покупателя. Существует максимум одна на покупателя и
// идентифицируется его идентификатором.
type Cart struct {
	CustomerID string
	Items      []CartItem
	UpdatedAt  time.Time
}

// Empty сообщает, пуста ли корзина.
func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

// Qty возвращает количество товара в корзине (0, если товара нет).
func (c *Cart) Qty(productID string) int32 {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item.Qty
		}
	}
	return 0
}
