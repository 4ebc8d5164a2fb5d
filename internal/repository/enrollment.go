package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HassanSheikh1033/lms-platform/internal/domain/enrollment"
)

// addCourseSQL creates the student's record with a single-entry course
// list, or appends the entry to an existing record. The jsonb containment
// guard (@>) keys on courseId only, so re-adding a course the student
// already holds leaves the list unchanged.
const addCourseSQL = `INSERT INTO student_courses (user_id, courses)
	VALUES ($1, jsonb_build_array($2::jsonb))
	ON CONFLICT (user_id) DO UPDATE
	SET courses = CASE
		WHEN student_courses.courses @> $3::jsonb THEN student_courses.courses
		ELSE student_courses.courses || $2::jsonb
	END`

const getEnrollmentSQL = `SELECT user_id, courses FROM student_courses WHERE user_id = $1`

var _ enrollment.Repository = (*EnrollmentRepository)(nil)

// EnrollmentRepository implements enrollment.Repository backed by
// PostgreSQL, with the course list stored as a JSONB array.
type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository returns an EnrollmentRepository that uses the
// given pool.
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

// AddCourse upserts the course entry into the student's record. The whole
// statement is a single atomic write, so concurrent captures for the same
// student cannot lose entries or duplicate a course.
func (r *EnrollmentRepository) AddCourse(ctx context.Context, userID string, entry enrollment.CourseEntry) error {
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling course entry: %w", err)
	}
	// Containment match on the course id alone; the other entry fields are
	// a purchase-time snapshot and may differ between attempts.
	guardJSON, err := json.Marshal([]map[string]string{{"courseId": entry.CourseID}})
	if err != nil {
		return fmt.Errorf("marshaling containment guard: %w", err)
	}

	if _, err := r.pool.Exec(ctx, addCourseSQL, userID, entryJSON, guardJSON); err != nil {
		return fmt.Errorf("adding course to enrollment record for %q: %w", userID, err)
	}
	return nil
}

// FindByUserID loads the student's enrollment record, or nil when the
// student has not purchased anything yet.
func (r *EnrollmentRepository) FindByUserID(ctx context.Context, userID string) (*enrollment.Record, error) {
	var (
		rec         enrollment.Record
		coursesJSON []byte
	)
	err := r.pool.QueryRow(ctx, getEnrollmentSQL, userID).Scan(&rec.UserID, &coursesJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding enrollment record for %q: %w", userID, err)
	}
	if err := json.Unmarshal(coursesJSON, &rec.Courses); err != nil {
		return nil, fmt.Errorf("decoding course list for %q: %w", userID, err)
	}
	return &rec, nil
}
