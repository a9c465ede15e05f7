package http

import (
	"net/http"

	"github.com/egannguyen/storefront-backend/internal/service"
)

func (h *Handler) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.svc.Customers.ListCustomers(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch customers", http.StatusInternalServerError)
		return
	}
	writeData(w, http.StatusOK, customers)
}

func (h *Handler) handleGetCustomerProfile(w http.ResponseWriter, r *http.Request) {
	customer, err := h.svc.Customers.GetCustomerByAuthUserID(r.Context(), r.URL.Query().Get("authUserId"))
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch customer profile", http.StatusInternalServerError)
		return
	}
	// A missing profile is not an error; data is null.
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": customer})
}

func (h *Handler) handleUpsertCustomer(w http.ResponseWriter, r *http.Request) {
	var req service.UpsertCustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	customer, err := h.svc.Customers.UpsertCustomer(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err, "Failed to save customer", http.StatusBadRequest)
		return
	}
	writeData(w, http.StatusOK, customer)
}

func (h *Handler) handleListFAQs(w http.ResponseWriter, r *http.Request) {
	publishedOnly := r.URL.Query().Get("published") == "true"

	faqs, err := h.svc.FAQs.ListFAQs(r.Context(), publishedOnly)
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch FAQs", http.StatusInternalServerError)
		return
	}
	writeData(w, http.StatusOK, faqs)
}

func (h *Handler) handleCreateFAQ(w http.ResponseWriter, r *http.Request) {
	var req service.FAQRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	faq, err := h.svc.FAQs.CreateFAQ(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err, "Failed to create FAQ", http.StatusBadRequest)
		return
	}
	writeData(w, http.StatusCreated, faq)
}

func (h *Handler) handleUpdateFAQ(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req service.FAQRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	faq, err := h.svc.FAQs.UpdateFAQ(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, err, "Failed to update FAQ", http.StatusBadRequest)
		return
	}
	writeData(w, http.StatusOK, faq)
}

func (h *Handler) handleDeleteFAQ(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.FAQs.DeleteFAQ(r.Context(), id); err != nil {
		h.writeError(w, r, err, "Failed to delete FAQ", http.StatusBadRequest)
		return
	}
	writeMessage(w, http.StatusOK, "FAQ deleted", nil)
}
