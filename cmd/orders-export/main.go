// Command orders-export dumps orders and course rosters to
// gzip-compressed NDJSON files for finance and reporting.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/HassanSheikh1033/lms-platform/internal/repository"
)

type orderRow struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	UserEmail       string          `json:"userEmail"`
	OrderStatus     string          `json:"orderStatus"`
	PaymentStatus   string          `json:"paymentStatus"`
	OrderDate       time.Time       `json:"orderDate"`
	CourseID        string          `json:"courseId"`
	CourseTitle     string          `json:"courseTitle"`
	CoursePricing   decimal.Decimal `json:"coursePricing"`
	PaymentIntentID string          `json:"paymentId"`
}

type rosterRow struct {
	CourseID     string          `json:"courseId"`
	StudentID    string          `json:"studentId"`
	StudentEmail string          `json:"studentEmail"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
	AddedAt      time.Time       `json:"addedAt"`
}

func main() {
	var (
		databaseURL string
		outDir      string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&outDir, "out-dir", ".", "directory for the exported .ndjson.gz files")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, outDir); err != nil {
		slog.Error("export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, databaseURL, outDir string) error {
	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := exportOrders(ctx, pool, filepath.Join(outDir, "orders.ndjson.gz"))
		if err != nil {
			return errors.Wrap(err, "export orders")
		}
		slog.Info("exported orders", slog.Int("rows", n))
		return nil
	})
	g.Go(func() error {
		n, err := exportRoster(ctx, pool, filepath.Join(outDir, "course_students.ndjson.gz"))
		if err != nil {
			return errors.Wrap(err, "export course roster")
		}
		slog.Info("exported course roster", slog.Int("rows", n))
		return nil
	})
	return g.Wait()
}

func exportOrders(ctx context.Context, pool *pgxpool.Pool, path string) (int, error) {
	const query = `SELECT id, user_id, user_email, order_status, payment_status,
			order_date, course_id, course_title, course_pricing, payment_intent_id
		FROM orders ORDER BY created_at`

	return writeNDJSON(path, func(encode func(any) error) (int, error) {
		rows, err := pool.Query(ctx, query)
		if err != nil {
			return 0, err
		}
		defer rows.Close()

		n := 0
		for rows.Next() {
			var row orderRow
			if err := rows.Scan(
				&row.ID, &row.UserID, &row.UserEmail, &row.OrderStatus,
				&row.PaymentStatus, &row.OrderDate, &row.CourseID,
				&row.CourseTitle, &row.CoursePricing, &row.PaymentIntentID,
			); err != nil {
				return n, err
			}
			if err := encode(row); err != nil {
				return n, err
			}
			n++
		}
		return n, rows.Err()
	})
}

func exportRoster(ctx context.Context, pool *pgxpool.Pool, path string) (int, error) {
	const query = `SELECT course_id, student_id, student_email, paid_amount, added_at
		FROM course_students ORDER BY course_id, added_at`

	return writeNDJSON(path, func(encode func(any) error) (int, error) {
		rows, err := pool.Query(ctx, query)
		if err != nil {
			return 0, err
		}
		defer rows.Close()

		n := 0
		for rows.Next() {
			var row rosterRow
			if err := rows.Scan(
				&row.CourseID, &row.StudentID, &row.StudentEmail,
				&row.PaidAmount, &row.AddedAt,
			); err != nil {
				return n, err
			}
			if err := encode(row); err != nil {
				return n, err
			}
			n++
		}
		return n, rows.Err()
	})
}

// writeNDJSON streams rows through a parallel-gzip writer into path.
func writeNDJSON(path string, fill func(encode func(any) error) (int, error)) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	zw := pgzip.NewWriter(f)
	enc := json.NewEncoder(zw)

	n, err := fill(enc.Encode)
	if err != nil {
		zw.Close()
		return n, err
	}
	if err := zw.Close(); err != nil {
		return n, err
	}
	return n, f.Sync()
}
