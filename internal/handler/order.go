package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/HassanSheikh1033/lms-platform/internal/domain/order"
)

type createOrderRequest struct {
	UserID         string          `json:"userId"`
	UserName       string          `json:"userName"`
	UserEmail      string          `json:"userEmail"`
	OrderStatus    string          `json:"orderStatus"`
	PaymentMethod  string          `json:"paymentMethod"`
	PaymentStatus  string          `json:"paymentStatus"`
	OrderDate      time.Time       `json:"orderDate"`
	InstructorID   string          `json:"instructorId"`
	InstructorName string          `json:"instructorName"`
	CourseImage    string          `json:"courseImage"`
	CourseTitle    string          `json:"courseTitle"`
	CourseID       string          `json:"courseId"`
	CoursePricing  decimal.Decimal `json:"coursePricing"`
}

type capturePaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
	OrderID         string `json:"orderId"`
}

// CreateOrder opens a payment authorization for the course purchase and
// responds with the client secret and the new order id.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.checkout.CreateOrder(r.Context(), order.CreateOrderRequest{
		UserID:         req.UserID,
		UserName:       req.UserName,
		UserEmail:      req.UserEmail,
		OrderStatus:    req.OrderStatus,
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  req.PaymentStatus,
		OrderDate:      req.OrderDate,
		InstructorID:   req.InstructorID,
		InstructorName: req.InstructorName,
		CourseImage:    req.CourseImage,
		CourseTitle:    req.CourseTitle,
		CourseID:       req.CourseID,
		CoursePricing:  req.CoursePricing,
	})
	if err != nil {
		var mfErr *order.MissingFieldError
		switch {
		case errors.As(err, &mfErr):
			writeFailure(w, http.StatusBadRequest, mfErr.Error())
		case errors.Is(err, order.ErrInvalidPricing):
			writeFailure(w, http.StatusBadRequest, order.ErrInvalidPricing.Error())
		default:
			zctx.From(r.Context()).Error("create order failed", zap.Error(err))
			writeFailure(w, http.StatusInternalServerError, genericFailureMessage)
		}
		return
	}

	writeOrderCreated(w, res)
}

// CapturePayment re-verifies the payment with the authority and finalizes
// the order, enrollment record, and course roster.
func (h *Handler) CapturePayment(w http.ResponseWriter, r *http.Request) {
	var req capturePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	o, err := h.checkout.CapturePayment(r.Context(), order.CaptureRequest{
		PaymentIntentID: req.PaymentIntentID,
		OrderID:         req.OrderID,
	})
	if err != nil {
		switch {
		case errors.Is(err, order.ErrNotFound):
			writeFailure(w, http.StatusNotFound, "Order cannot be found")
		case errors.Is(err, order.ErrPaymentNotCompleted):
			writeFailure(w, http.StatusBadRequest, "Payment not completed")
		default:
			zctx.From(r.Context()).Error("capture payment failed",
				zap.String("order_id", req.OrderID),
				zap.Error(err),
			)
			writeFailure(w, http.StatusInternalServerError, genericFailureMessage)
		}
		return
	}

	writeOrderConfirmed(w, o)
}
