package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HassanSheikh1033/lms-platform/internal/domain/order"
)

const createOrderSQL = `INSERT INTO orders (
		id, user_id, user_name, user_email, order_status, payment_method,
		payment_status, order_date, instructor_id, instructor_name,
		course_image, course_title, course_id, course_pricing, payment_intent_id
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

const getOrderSQL = `SELECT
		id, user_id, user_name, user_email, order_status, payment_method,
		payment_status, order_date, instructor_id, instructor_name,
		course_image, course_title, course_id, course_pricing,
		payment_intent_id, created_at, updated_at
	FROM orders WHERE id = $1`

const markOrderPaidSQL = `UPDATE orders
	SET payment_status = 'paid', order_status = 'confirmed', updated_at = now()
	WHERE id = $1 AND payment_status = 'unpaid'`

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new pending order. A duplicate payment intent
// reference maps to order.ErrIntentInUse via the UNIQUE constraint.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	_, err := r.pool.Exec(ctx, createOrderSQL,
		o.ID, o.UserID, o.UserName, o.UserEmail, string(o.OrderStatus),
		o.PaymentMethod, string(o.PaymentStatus), o.OrderDate,
		o.InstructorID, o.InstructorName, o.CourseImage, o.CourseTitle,
		o.CourseID, o.CoursePricing, o.PaymentIntentID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return order.ErrIntentInUse
		}
		return fmt.Errorf("inserting order: %w", err)
	}
	return nil
}

// GetByID loads an order by its identifier.
// Returns order.ErrNotFound when no such order exists.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	var (
		o             order.Order
		orderStatus   string
		paymentStatus string
	)
	err := r.pool.QueryRow(ctx, getOrderSQL, id).Scan(
		&o.ID, &o.UserID, &o.UserName, &o.UserEmail, &orderStatus,
		&o.PaymentMethod, &paymentStatus, &o.OrderDate,
		&o.InstructorID, &o.InstructorName, &o.CourseImage, &o.CourseTitle,
		&o.CourseID, &o.CoursePricing, &o.PaymentIntentID,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("finding order %q: %w", id, err)
	}
	o.OrderStatus = order.Status(orderStatus)
	o.PaymentStatus = order.PaymentStatus(paymentStatus)
	return &o, nil
}

// MarkPaid performs the conditional unpaid→paid transition. The WHERE
// clause makes concurrent captures race-safe: exactly one caller observes
// the transition, the rest see zero rows affected.
func (r *OrderRepository) MarkPaid(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, markOrderPaidSQL, id)
	if err != nil {
		return false, fmt.Errorf("marking order %q paid: %w", id, err)
	}
	return tag.RowsAffected() == 1, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isInvalidUUID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}
