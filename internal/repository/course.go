package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HassanSheikh1033/lms-platform/internal/domain/course"
)

// ON CONFLICT DO NOTHING gives the roster its set semantics: inserting a
// student who is already rostered is a no-op.
const addStudentSQL = `INSERT INTO course_students
		(course_id, student_id, student_name, student_email, paid_amount)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (course_id, student_id) DO NOTHING`

const listStudentsSQL = `SELECT student_id, student_name, student_email, paid_amount
	FROM course_students WHERE course_id = $1 ORDER BY added_at`

var _ course.Repository = (*CourseRepository)(nil)

// CourseRepository implements course.Repository backed by PostgreSQL.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository returns a CourseRepository that uses the given pool.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// AddStudent inserts the student into the course roster, ignoring
// duplicates.
func (r *CourseRepository) AddStudent(ctx context.Context, courseID string, s course.Student) error {
	_, err := r.pool.Exec(ctx, addStudentSQL,
		courseID, s.StudentID, s.StudentName, s.StudentEmail, s.PaidAmount,
	)
	if err != nil {
		return fmt.Errorf("adding student %q to course %q roster: %w", s.StudentID, courseID, err)
	}
	return nil
}

// ListStudents returns the course roster in insertion order.
func (r *CourseRepository) ListStudents(ctx context.Context, courseID string) ([]course.Student, error) {
	rows, err := r.pool.Query(ctx, listStudentsSQL, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing students for course %q: %w", courseID, err)
	}
	defer rows.Close()

	var students []course.Student
	for rows.Next() {
		var s course.Student
		if err := rows.Scan(&s.StudentID, &s.StudentName, &s.StudentEmail, &s.PaidAmount); err != nil {
			return nil, fmt.Errorf("scanning roster row: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating roster rows: %w", err)
	}
	return students, nil
}
