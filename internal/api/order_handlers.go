package api

import (
	"net/http"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

type checkoutRequest struct {
	ShippingFeeMinor int64 `json:"shipping_fee_minor"`
}

type setCartItemRequest struct {
	ProductID string `json:"product_id"`
	Qty       int32  `json:"qty"`
}

type cartItemResponse struct {
	ProductID string `json:"product_id"`
	Qty       int32  `json:"qty"`
}

type cartResponse struct {
	Items []cartItemResponse `json:"items"`
}

func toCartResponse(cart domain.Cart) cartResponse {
	items := make([]cartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, cartItemResponse{ProductID: item.ProductID, Qty: item.Qty})
	}
	return cartResponse{Items: items}
}

// Cart возвращает корзину аутентифицированного покупателя.
func (h *Handlers) Cart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.orders.Cart(r.Context(), customerIDFrom(r.Context()))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(cart))
}

// SetCartItem устанавливает количество товара в корзине; qty <= 0 удаляет
// позицию.
func (h *Handlers) SetCartItem(w http.ResponseWriter, r *http.Request) {
	var req setCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "product_id is required")
		return
	}

	cart, err := h.orders.SetCartItem(r.Context(), customerIDFrom(r.Context()), req.ProductID, req.Qty)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(cart))
}

// RemoveCartItem удаляет товар из корзины.
func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.orders.RemoveCartItem(r.Context(), customerIDFrom(r.Context()), r.PathValue("productID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(cart))
}

// ClearCart очищает корзину.
func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.ClearCart(r.Context(), customerIDFrom(r.Context())); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// Checkout оформляет заказ из корзины покупателя.
func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orders.Checkout(r.Context(), customerIDFrom(r.Context()), req.ShippingFeeMinor)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toOrderResponse(order))
}

// MyOrders возвращает заказы аутентифицированного покупателя.
func (h *Handlers) MyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByCustomer(r.Context(), customerIDFrom(r.Context()), queryInt(r, "limit"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponses(orders))
}

// MyOrder возвращает заказ покупателя; чужой заказ выглядит как not found.
func (h *Handlers) MyOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetForCustomer(r.Context(), r.PathValue("id"), customerIDFrom(r.Context()))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order))
}

// ListOrders возвращает заказы с опциональным фильтром по статусу (admin).
func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	status := domain.OrderStatus(r.URL.Query().Get("status"))

	orders, err := h.orders.List(r.Context(), status, queryInt(r, "limit"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponses(orders))
}

// GetOrder возвращает любой заказ по идентификатору (admin).
func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order))
}

// OrderTimeline возвращает события аудита заказа (admin).
func (h *Handlers) OrderTimeline(w http.ResponseWriter, r *http.Request) {
	events, err := h.orders.Timeline(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTimelineResponses(events))
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus переводит заказ в новый статус (admin).
func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), r.PathValue("id"), domain.OrderStatus(req.Status))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order))
}

type updateOrderDiscountRequest struct {
	DiscountMinor int64 `json:"discount_minor"`
}

// UpdateOrderDiscount распределяет новую общую скидку по позициям (admin).
func (h *Handlers) UpdateOrderDiscount(w http.ResponseWriter, r *http.Request) {
	var req updateOrderDiscountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orders.UpdateDiscount(r.Context(), r.PathValue("id"), req.DiscountMinor)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order))
}

type updateItemDiscountRequest struct {
	DiscountMinor int64 `json:"discount_minor"`
}

// UpdateItemDiscount меняет скидку одной позиции заказа (admin).
func (h *Handlers) UpdateItemDiscount(w http.ResponseWriter, r *http.Request) {
	var req updateItemDiscountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orders.UpdateItemDiscount(r.Context(), r.PathValue("itemID"), req.DiscountMinor)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order))
}

type updateItemQuantityRequest struct {
	Qty int32 `json:"qty"`
}

// UpdateItemQuantity меняет количество в позиции заказа (admin).
func (h *Handlers) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateItemQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orders.UpdateItemQuantity(r.Context(), r.PathValue("itemID"), req.Qty)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order))
}
