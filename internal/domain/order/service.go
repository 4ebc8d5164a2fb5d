package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/HassanSheikh1033/lms-platform/internal/domain/course"
	"github.com/HassanSheikh1033/lms-platform/internal/domain/enrollment"
	"github.com/HassanSheikh1033/lms-platform/internal/domain/payment"
)

var meter = otel.Meter("github.com/HassanSheikh1033/lms-platform/internal/domain/order")

var capturedOrders, _ = meter.Int64Counter(
	"checkout.orders.captured",
	metric.WithDescription("Orders transitioned from unpaid to paid"),
)

// minorUnitsPerDollar converts display-currency prices to the authority's
// integer minor units.
var minorUnitsPerDollar = decimal.NewFromInt(100)

// CreateOrderRequest holds the purchase details for opening a payment
// authorization. CoursePricing is in display currency units (dollars);
// the service converts to minor units itself.
type CreateOrderRequest struct {
	UserID         string
	UserName       string
	UserEmail      string
	OrderStatus    string
	PaymentMethod  string
	PaymentStatus  string
	OrderDate      time.Time
	InstructorID   string
	InstructorName string
	CourseImage    string
	CourseTitle    string
	CourseID       string
	CoursePricing  decimal.Decimal
}

// CreateOrderResult is returned to the client so it can complete the
// authorization directly with the payment authority.
type CreateOrderResult struct {
	OrderID      string
	ClientSecret string
}

// CaptureRequest identifies a finished authorization and the order it
// should finalize. No client-supplied payment status is accepted.
type CaptureRequest struct {
	PaymentIntentID string
	OrderID         string
}

// ServiceConfig holds non-dependency knobs for the checkout service.
type ServiceConfig struct {
	// Currency is the authority-side currency code, e.g. "usd".
	Currency string
}

// Service implements the two-phase purchase flow: opening a payment
// authorization with a pending order, and finalizing a verified capture
// into the order, the student's course list, and the course roster.
type Service struct {
	cfg         ServiceConfig
	orders      Repository
	enrollments enrollment.Repository
	courses     course.Repository
	payments    payment.Provider
}

// NewService creates a checkout Service with the required dependencies.
func NewService(
	cfg ServiceConfig,
	orders Repository,
	enrollments enrollment.Repository,
	courses course.Repository,
	payments payment.Provider,
) *Service {
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	return &Service{
		cfg:         cfg,
		orders:      orders,
		enrollments: enrollments,
		courses:     courses,
		payments:    payments,
	}
}

// CreateOrder opens a payment authorization for the course price and
// persists a pending order referencing it. The returned client secret is
// needed by the client to complete the payment with the authority.
//
// If the order insert fails after the authorization was created, the
// authorization is left orphaned at the authority; the returned error
// carries the intent id so the orphan is traceable.
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if req.UserID == "" {
		return nil, &MissingFieldError{Field: "userId"}
	}
	if req.CourseID == "" {
		return nil, &MissingFieldError{Field: "courseId"}
	}
	if !req.CoursePricing.IsPositive() {
		return nil, ErrInvalidPricing
	}

	// The authority expects integer minor units, rounded to nearest.
	amount := req.CoursePricing.Mul(minorUnitsPerDollar).Round(0).IntPart()

	intent, err := s.payments.CreateIntent(ctx, payment.CreateIntentParams{
		Amount:             amount,
		Currency:           s.cfg.Currency,
		Description:        req.CourseTitle,
		PaymentMethodTypes: []string{"card"},
		Metadata: map[string]string{
			"courseId": req.CourseID,
			"userId":   req.UserID,
			"userName": req.UserName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	o := &Order{
		ID:              uuid.New().String(),
		UserID:          req.UserID,
		UserName:        req.UserName,
		UserEmail:       req.UserEmail,
		// Caller-supplied statuses are advisory only: every order starts
		// pending and unpaid regardless of what the request carried.
		OrderStatus:     StatusPending,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   PaymentUnpaid,
		OrderDate:       req.OrderDate,
		InstructorID:    req.InstructorID,
		InstructorName:  req.InstructorName,
		CourseImage:     req.CourseImage,
		CourseTitle:     req.CourseTitle,
		CourseID:        req.CourseID,
		CoursePricing:   req.CoursePricing,
		PaymentIntentID: intent.ID,
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now().UTC()
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order for intent %s: %w", intent.ID, err)
	}

	return &CreateOrderResult{
		OrderID:      o.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// CapturePayment re-verifies the authorization with the payment authority
// and finalizes the order: mark it paid and confirmed, add the course to
// the student's enrollment record, and insert the student into the course
// roster. Every mutation is idempotent, so a replayed capture, or a
// retry of one that failed partway, converges to the same final state.
func (s *Service) CapturePayment(ctx context.Context, req CaptureRequest) (*Order, error) {
	o, err := s.orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	// The client-supplied reference is only ever compared against the one
	// recorded at creation time; a mismatched intent cannot confirm an
	// order it does not belong to.
	if req.PaymentIntentID != o.PaymentIntentID {
		return nil, ErrPaymentNotCompleted
	}

	intent, err := s.payments.RetrieveIntent(ctx, o.PaymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("retrieve payment intent %s: %w", o.PaymentIntentID, err)
	}
	if intent.Status != payment.StatusSucceeded {
		return nil, ErrPaymentNotCompleted
	}

	transitioned, err := s.orders.MarkPaid(ctx, o.ID)
	if err != nil {
		return nil, fmt.Errorf("mark order paid: %w", err)
	}
	o.PaymentStatus = PaymentPaid
	o.OrderStatus = StatusConfirmed

	// A lost unpaid→paid race or a replay lands here with transitioned
	// false. The remaining steps still run: they are no-ops when already
	// applied, and they complete a capture that previously died between
	// the order update and the enrollment/roster writes.
	if err := s.enrollments.AddCourse(ctx, o.UserID, enrollment.CourseEntry{
		CourseID:       o.CourseID,
		Title:          o.CourseTitle,
		InstructorID:   o.InstructorID,
		InstructorName: o.InstructorName,
		DateOfPurchase: o.OrderDate,
		CourseImage:    o.CourseImage,
	}); err != nil {
		return nil, fmt.Errorf("add course to enrollment record: %w", err)
	}

	if err := s.courses.AddStudent(ctx, o.CourseID, course.Student{
		StudentID:    o.UserID,
		StudentName:  o.UserName,
		StudentEmail: o.UserEmail,
		PaidAmount:   o.CoursePricing,
	}); err != nil {
		return nil, fmt.Errorf("add student to course roster: %w", err)
	}

	if transitioned {
		capturedOrders.Add(ctx, 1)
	}
	return o, nil
}
