// Package enrollment holds the per-student purchased course list.
package enrollment

import (
	"context"
	"time"
)

// CourseEntry is one purchased course inside a student's record. Field
// names follow the stored JSON document.
type CourseEntry struct {
	CourseID       string    `json:"courseId"`
	Title          string    `json:"title"`
	InstructorID   string    `json:"instructorId"`
	InstructorName string    `json:"instructorName"`
	DateOfPurchase time.Time `json:"dateOfPurchase"`
	CourseImage    string    `json:"courseImage"`
}

// Record is the durable list of courses a student has purchased.
// There is at most one Record per user id.
type Record struct {
	UserID  string        `json:"userId"`
	Courses []CourseEntry `json:"courses"`
}

// Repository persists enrollment records.
type Repository interface {
	// AddCourse creates the student's record with the given entry, or
	// appends the entry to an existing record. Implementations must be
	// idempotent per course id: re-adding a course the student already
	// holds is a no-op.
	AddCourse(ctx context.Context, userID string, entry CourseEntry) error

	// FindByUserID returns the student's record, or nil when the student
	// has no purchases yet.
	FindByUserID(ctx context.Context, userID string) (*Record, error)
}
