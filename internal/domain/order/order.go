package order

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the order lifecycle status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
)

// PaymentStatus tracks whether money moved. Transitions only unpaid→paid,
// and only through a verified capture.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// Order is one course purchase attempt. PaymentIntentID is the opaque
// authorization reference issued by the payment authority; it is immutable
// once set and unique across orders.
type Order struct {
	ID             string
	UserID         string
	UserName       string
	UserEmail      string
	OrderStatus    Status
	PaymentMethod  string
	PaymentStatus  PaymentStatus
	OrderDate      time.Time
	InstructorID   string
	InstructorName string
	CourseImage    string
	CourseTitle    string
	CourseID       string
	CoursePricing  decimal.Decimal

	PaymentIntentID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Sentinel errors for order lookup and capture.
var (
	ErrNotFound            = fmt.Errorf("order not found")
	ErrInvalidPricing      = fmt.Errorf("course pricing must be positive")
	ErrPaymentNotCompleted = fmt.Errorf("payment not completed")
	ErrIntentInUse         = fmt.Errorf("payment intent already used by another order")
)

// MissingFieldError indicates a required purchase field was empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Repository defines persistence operations for orders.
type Repository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)

	// MarkPaid transitions the order from unpaid to paid and confirms it.
	// It reports whether this call performed the transition; false with a
	// nil error means the order was already paid.
	MarkPaid(ctx context.Context, id string) (bool, error)
}
