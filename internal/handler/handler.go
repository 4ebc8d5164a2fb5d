// Package handler exposes the purchase flow over HTTP+JSON.
package handler

import (
	"context"
	"net/http"

	"github.com/HassanSheikh1033/lms-platform/internal/domain/order"
)

// CheckoutService is the slice of the order service the handlers need.
type CheckoutService interface {
	CreateOrder(ctx context.Context, req order.CreateOrderRequest) (*order.CreateOrderResult, error)
	CapturePayment(ctx context.Context, req order.CaptureRequest) (*order.Order, error)
}

// Handler serves the student order endpoints.
type Handler struct {
	checkout CheckoutService
}

// NewHandler constructs a Handler around the checkout service.
func NewHandler(checkout CheckoutService) *Handler {
	return &Handler{checkout: checkout}
}

// Register attaches the order routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/orders", h.CreateOrder)
	mux.HandleFunc("POST /api/orders/capture", h.CapturePayment)
}
