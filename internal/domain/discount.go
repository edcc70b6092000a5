package domain

import "math"

// AllocateDiscount распределяет новую общую скидку заказа по позициям
// пропорционально доле каждой позиции в сумме заказа. Возвращает новые
// значения скидок в порядке следования items.
//
// Распределяется дельта между текущей суммой скидок и запрошенной: все
// позиции, кроме последней, получают округлённую пропорциональную часть,
// последняя поглощает остаток округления — сумма распределённых дельт
// всегда в точности равна запрошенной дельте. Итоговая скидка позиции
// ограничивается диапазоном [0, price*qty].
func AllocateDiscount(items []OrderItem, newTotalMinor int64) ([]int64, error) {
	if newTotalMinor < 0 {
		return nil, ErrDiscountNegative
	}

	var subtotal, current int64
	for _, item := range items {
		subtotal += item.TotalMinor()
		current += item.DiscountMinor
	}
	if newTotalMinor > subtotal {
		return nil, ErrDiscountExceedsSubtotal
	}

	result := make([]int64, len(items))
	for i, item := range items {
		result[i] = item.DiscountMinor
	}

	delta := newTotalMinor - current
	if delta == 0 || len(items) == 0 {
		return result, nil
	}

	var distributed int64
	for i, item := range items {
		var itemDelta int64
		if i == len(items)-1 {
			// Последняя позиция поглощает остаток округления.
			itemDelta = delta - distributed
		} else {
			proportion := 1 / float64(len(items))
			if subtotal > 0 {
				proportion = float64(item.TotalMinor()) / float64(subtotal)
			}
			itemDelta = int64(math.Round(float64(delta) * proportion))
			distributed += itemDelta
		}

		next := item.DiscountMinor + itemDelta
		if next < 0 {
			next = 0
		}
		if max := item.TotalMinor(); next > max {
			next = max
		}
		result[i] = next
	}

	return result, nil
}
