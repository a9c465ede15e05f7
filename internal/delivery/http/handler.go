package http

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/egannguyen/storefront-backend/internal/service"
)

// Services bundles what the handlers call into.
type Services struct {
	Orders     *service.OrderService
	Customers  *service.CustomerService
	Inventory  *service.InventoryService
	Payments   *service.PaymentService
	FAQs       *service.FAQService
	HeroSlides *service.HeroSlideService
	Trends     *service.TrendService
}

// Handler handles HTTP requests for the application.
type Handler struct {
	svc   Services
	log   *zap.Logger
	debug bool
	start time.Time
}

// NewHandler creates a Handler. With debug set, backend error causes are
// returned to clients.
func NewHandler(svc Services, log *zap.Logger, debug bool) *Handler {
	return &Handler{svc: svc, log: log, debug: debug, start: time.Now()}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/health", h.handleHealth)

	mux.HandleFunc("GET /api/products", h.handleListProducts)
	mux.HandleFunc("PUT /api/inventory/{id}", h.handleUpdateInventory)

	mux.HandleFunc("POST /api/orders", h.handleCreateOrder)
	mux.HandleFunc("GET /api/orders", h.handleListOrders)
	mux.HandleFunc("GET /api/orders/{id}", h.handleGetOrder)
	mux.HandleFunc("POST /api/orders/{id}/status", h.handleUpdateOrderStatus)

	mux.HandleFunc("GET /api/payments", h.handleListPayments)

	mux.HandleFunc("GET /api/customers", h.handleListCustomers)
	mux.HandleFunc("GET /api/customers/profile", h.handleGetCustomerProfile)
	mux.HandleFunc("POST /api/customers", h.handleUpsertCustomer)

	mux.HandleFunc("GET /api/faqs", h.handleListFAQs)
	mux.HandleFunc("POST /api/faqs", h.handleCreateFAQ)
	mux.HandleFunc("PUT /api/faqs/{id}", h.handleUpdateFAQ)
	mux.HandleFunc("DELETE /api/faqs/{id}", h.handleDeleteFAQ)

	mux.HandleFunc("GET /api/hero-slides", h.handleListHeroSlides)
	mux.HandleFunc("POST /api/hero-slides", h.handleCreateHeroSlide)
	mux.HandleFunc("GET /api/hero-slides/{id}", h.handleGetHeroSlide)
	mux.HandleFunc("PUT /api/hero-slides/{id}", h.handleUpdateHeroSlide)
	mux.HandleFunc("DELETE /api/hero-slides/{id}", h.handleDeleteHeroSlide)

	mux.HandleFunc("GET /api/trends", h.handleListTrends)
	mux.HandleFunc("POST /api/trends", h.handleCreateTrend)
	mux.HandleFunc("PUT /api/trends/{id}", h.handleUpdateTrend)
	mux.HandleFunc("DELETE /api/trends/{id}", h.handleDeleteTrend)

	mux.HandleFunc("/", h.handleNotFound)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(h.start).Round(time.Second).String(),
		"time":   time.Now().UTC(),
	})
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: "Route not found"})
}
