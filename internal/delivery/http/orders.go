package http

import (
	"net/http"
	"strconv"

	"github.com/egannguyen/storefront-backend/internal/entity"
	"github.com/egannguyen/storefront-backend/internal/service"
)

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req service.CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.Orders.CreateOrder(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err, "Failed to create order", http.StatusBadRequest)
		return
	}
	writeMessage(w, http.StatusCreated, "Order created successfully", res)
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := entity.OrderFilter{
		Status: q.Get("status"),
		Email:  q.Get("email"),
		Phone:  q.Get("phone"),
	}
	if raw := q.Get("customerId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeBadRequest(w, "Invalid ID format", "customerId must be a number")
			return
		}
		filter.CustomerID = &id
	}

	orders, err := h.svc.Orders.ListOrders(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch orders", http.StatusInternalServerError)
		return
	}
	writeData(w, http.StatusOK, orders)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	order, err := h.svc.Orders.GetOrder(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch order", http.StatusInternalServerError)
		return
	}
	writeData(w, http.StatusOK, order)
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func (h *Handler) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req updateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.svc.Orders.UpdateOrderStatus(r.Context(), id, req.Status, req.Note)
	if err != nil {
		h.writeError(w, r, err, "Failed to update order status", http.StatusBadRequest)
		return
	}
	writeMessage(w, http.StatusOK, "Order status updated", order)
}
