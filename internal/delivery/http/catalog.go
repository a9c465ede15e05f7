package http

import (
	"net/http"
	"strconv"

	"github.com/egannguyen/storefront-backend/internal/service"
)

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Inventory.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch products", http.StatusInternalServerError)
		return
	}
	writeData(w, http.StatusOK, products)
}

func (h *Handler) handleUpdateInventory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req service.UpdateInventoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := h.svc.Inventory.UpdateInventory(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, err, "Failed to update inventory", http.StatusBadRequest)
		return
	}
	writeMessage(w, http.StatusOK, "Inventory updated", product)
}

func (h *Handler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	var orderID *int64
	if raw := r.URL.Query().Get("orderId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeBadRequest(w, "Invalid ID format", "orderId must be a number")
			return
		}
		orderID = &id
	}

	payments, err := h.svc.Payments.ListPayments(r.Context(), orderID)
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch payments", http.StatusInternalServerError)
		return
	}
	writeData(w, http.StatusOK, payments)
}
