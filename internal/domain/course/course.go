// Package course holds the per-course student roster.
package course

import (
	"context"

	"github.com/shopspring/decimal"
)

// Student is one roster entry: a buyer who paid for the course.
type Student struct {
	StudentID    string
	StudentName  string
	StudentEmail string
	PaidAmount   decimal.Decimal
}

// Repository persists course rosters. The roster is owned by the wider
// platform; this service only inserts, never removes or rewrites entries.
type Repository interface {
	// AddStudent inserts the student into the course roster. The insert is
	// a set operation keyed by student id: duplicates are a no-op, not an
	// error.
	AddStudent(ctx context.Context, courseID string, student Student) error

	// ListStudents returns the course roster.
	ListStudents(ctx context.Context, courseID string) ([]Student, error)
}
