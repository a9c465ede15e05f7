package http

import (
	"net/http"

	"github.com/egannguyen/storefront-backend/internal/service"
)

func (h *Handler) handleListHeroSlides(w http.ResponseWriter, r *http.Request) {
	slides, err := h.svc.HeroSlides.ListHeroSlides(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch hero slides", http.StatusInternalServerError)
		return
	}
	writeMessage(w, http.StatusOK, "Hero slides fetched successfully", slides)
}

func (h *Handler) handleGetHeroSlide(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	slide, err := h.svc.HeroSlides.GetHeroSlide(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch hero slide", http.StatusInternalServerError)
		return
	}
	writeMessage(w, http.StatusOK, "Hero slide fetched successfully", slide)
}

func (h *Handler) handleCreateHeroSlide(w http.ResponseWriter, r *http.Request) {
	var req service.HeroSlideRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	slide, err := h.svc.HeroSlides.CreateHeroSlide(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err, "Failed to create hero slide", http.StatusBadRequest)
		return
	}
	writeMessage(w, http.StatusCreated, "Hero slide created successfully", slide)
}

func (h *Handler) handleUpdateHeroSlide(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req service.HeroSlideRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	slide, err := h.svc.HeroSlides.UpdateHeroSlide(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, err, "Failed to update hero slide", http.StatusBadRequest)
		return
	}
	writeMessage(w, http.StatusOK, "Hero slide updated successfully", slide)
}

func (h *Handler) handleDeleteHeroSlide(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.HeroSlides.DeleteHeroSlide(r.Context(), id); err != nil {
		h.writeError(w, r, err, "Failed to delete hero slide", http.StatusInternalServerError)
		return
	}
	writeMessage(w, http.StatusOK, "Hero slide deleted successfully", nil)
}

func (h *Handler) handleListTrends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.svc.Trends.ListTrends(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch trends", http.StatusInternalServerError)
		return
	}
	writeMessage(w, http.StatusOK, "Trends fetched successfully", trends)
}

func (h *Handler) handleCreateTrend(w http.ResponseWriter, r *http.Request) {
	var req service.TrendRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	trend, err := h.svc.Trends.CreateTrend(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err, "Failed to create trend", http.StatusBadRequest)
		return
	}
	writeMessage(w, http.StatusCreated, "Trend created successfully", trend)
}

func (h *Handler) handleUpdateTrend(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req service.TrendRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	trend, err := h.svc.Trends.UpdateTrend(r.Context(), id, req)
	if err != nil {
		h.writeError(w, r, err, "Failed to update trend", http.StatusBadRequest)
		return
	}
	writeMessage(w, http.StatusOK, "Trend updated successfully", trend)
}

func (h *Handler) handleDeleteTrend(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Trends.DeleteTrend(r.Context(), id); err != nil {
		h.writeError(w, r, err, "Failed to delete trend", http.StatusInternalServerError)
		return
	}
	writeMessage(w, http.StatusOK, "Trend deleted successfully", nil)
}
