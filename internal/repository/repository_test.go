package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HassanSheikh1033/lms-platform/internal/domain/course"
	"github.com/HassanSheikh1033/lms-platform/internal/domain/enrollment"
	"github.com/HassanSheikh1033/lms-platform/internal/domain/order"
	"github.com/HassanSheikh1033/lms-platform/internal/repository"
	"github.com/HassanSheikh1033/lms-platform/internal/testutil"
)

func newOrder(intentID string) *order.Order {
	return &order.Order{
		ID:              uuid.New().String(),
		UserID:          "u1",
		UserName:        "Ada Lovelace",
		UserEmail:       "ada@example.com",
		OrderStatus:     order.StatusPending,
		PaymentMethod:   "card",
		PaymentStatus:   order.PaymentUnpaid,
		OrderDate:       time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
		InstructorID:    "i1",
		InstructorName:  "Grace Hopper",
		CourseImage:     "https://cdn.example.com/c1.png",
		CourseTitle:     "Compilers from Scratch",
		CourseID:        "c1",
		CoursePricing:   decimal.RequireFromString("49.99"),
		PaymentIntentID: intentID,
	}
}

func TestOrderRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)

	repo := repository.NewOrderRepository(pool)

	t.Run("create and get round trip", func(t *testing.T) {
		o := newOrder("pi_roundtrip")
		require.NoError(t, repo.Create(ctx, o))

		got, err := repo.GetByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, o.ID, got.ID)
		assert.Equal(t, order.StatusPending, got.OrderStatus)
		assert.Equal(t, order.PaymentUnpaid, got.PaymentStatus)
		assert.Equal(t, "pi_roundtrip", got.PaymentIntentID)
		assert.True(t, o.CoursePricing.Equal(got.CoursePricing))
		assert.True(t, o.OrderDate.Equal(got.OrderDate))
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("get unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New().String())
		require.ErrorIs(t, err, order.ErrNotFound)
	})

	t.Run("get malformed id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, "not-a-uuid")
		require.ErrorIs(t, err, order.ErrNotFound)
	})

	t.Run("duplicate intent reference", func(t *testing.T) {
		first := newOrder("pi_shared")
		require.NoError(t, repo.Create(ctx, first))

		second := newOrder("pi_shared")
		err := repo.Create(ctx, second)
		require.ErrorIs(t, err, order.ErrIntentInUse)
	})

	t.Run("mark paid transitions once", func(t *testing.T) {
		o := newOrder("pi_markpaid")
		require.NoError(t, repo.Create(ctx, o))

		transitioned, err := repo.MarkPaid(ctx, o.ID)
		require.NoError(t, err)
		assert.True(t, transitioned)

		got, err := repo.GetByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, order.PaymentPaid, got.PaymentStatus)
		assert.Equal(t, order.StatusConfirmed, got.OrderStatus)

		transitioned, err = repo.MarkPaid(ctx, o.ID)
		require.NoError(t, err)
		assert.False(t, transitioned, "second capture must observe the order already paid")
	})

	t.Run("mark paid unknown id", func(t *testing.T) {
		transitioned, err := repo.MarkPaid(ctx, uuid.New().String())
		require.NoError(t, err)
		assert.False(t, transitioned)
	})
}

func TestEnrollmentRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)

	repo := repository.NewEnrollmentRepository(pool)

	entry := enrollment.CourseEntry{
		CourseID:       "c1",
		Title:          "Compilers from Scratch",
		InstructorID:   "i1",
		InstructorName: "Grace Hopper",
		DateOfPurchase: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
		CourseImage:    "https://cdn.example.com/c1.png",
	}

	t.Run("unknown student", func(t *testing.T) {
		rec, err := repo.FindByUserID(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("first course creates the record", func(t *testing.T) {
		require.NoError(t, repo.AddCourse(ctx, "u1", entry))

		rec, err := repo.FindByUserID(ctx, "u1")
		require.NoError(t, err)
		require.NotNil(t, rec)
		require.Len(t, rec.Courses, 1)
		assert.Equal(t, "c1", rec.Courses[0].CourseID)
		assert.Equal(t, "Compilers from Scratch", rec.Courses[0].Title)
	})

	t.Run("re-adding the same course is a no-op", func(t *testing.T) {
		// A retried capture may carry a different snapshot of the same
		// course; the course id alone decides membership.
		changed := entry
		changed.Title = "Compilers from Scratch (2nd ed.)"
		require.NoError(t, repo.AddCourse(ctx, "u1", changed))

		rec, err := repo.FindByUserID(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, rec.Courses, 1)
		assert.Equal(t, "Compilers from Scratch", rec.Courses[0].Title)
	})

	t.Run("second course appends", func(t *testing.T) {
		other := entry
		other.CourseID = "c2"
		other.Title = "Distributed Systems"
		require.NoError(t, repo.AddCourse(ctx, "u1", other))

		rec, err := repo.FindByUserID(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, rec.Courses, 2)
		assert.Equal(t, "c1", rec.Courses[0].CourseID)
		assert.Equal(t, "c2", rec.Courses[1].CourseID)
	})

	t.Run("records are per student", func(t *testing.T) {
		require.NoError(t, repo.AddCourse(ctx, "u2", entry))

		rec, err := repo.FindByUserID(ctx, "u2")
		require.NoError(t, err)
		require.Len(t, rec.Courses, 1)
	})
}

func TestCourseRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.TruncateAll(t, ctx, pool)

	repo := repository.NewCourseRepository(pool)

	ada := course.Student{
		StudentID:    "u1",
		StudentName:  "Ada Lovelace",
		StudentEmail: "ada@example.com",
		PaidAmount:   decimal.RequireFromString("49.99"),
	}

	t.Run("empty roster", func(t *testing.T) {
		students, err := repo.ListStudents(ctx, "c1")
		require.NoError(t, err)
		assert.Empty(t, students)
	})

	t.Run("add and list", func(t *testing.T) {
		require.NoError(t, repo.AddStudent(ctx, "c1", ada))

		students, err := repo.ListStudents(ctx, "c1")
		require.NoError(t, err)
		require.Len(t, students, 1)
		assert.Equal(t, "u1", students[0].StudentID)
		assert.True(t, ada.PaidAmount.Equal(students[0].PaidAmount))
	})

	t.Run("duplicate insert is a no-op", func(t *testing.T) {
		require.NoError(t, repo.AddStudent(ctx, "c1", ada))

		students, err := repo.ListStudents(ctx, "c1")
		require.NoError(t, err)
		assert.Len(t, students, 1)
	})

	t.Run("rosters are per course", func(t *testing.T) {
		require.NoError(t, repo.AddStudent(ctx, "c2", ada))

		students, err := repo.ListStudents(ctx, "c2")
		require.NoError(t, err)
		assert.Len(t, students, 1)
	})
}
