package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-api/internal/models"
	"github.com/noah-isme/school-api/pkg/database"
)

func TestEnrollmentRepositoryCreateUnknownStudent(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO enrollments (student_id, course_id, enrollment_date, status) VALUES")).
		WithArgs(int64(99), int64(1), "2024-09-01", "enrolled").
		WillReturnError(&pq.Error{Code: "23503", Constraint: "enrollments_student_id_fkey"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Enrollment{
		StudentID:      99,
		CourseID:       1,
		EnrollmentDate: models.NewDate(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)),
		Status:         models.EnrollmentStatusEnrolled,
	})
	require.Error(t, err)
	assert.True(t, database.IsForeignKeyViolation(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeeRepositoryList(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewFeeRepository(db)

	paidAt := time.Date(2024, 9, 3, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "student_id", "description", "amount", "due_date", "paid", "paid_at"}).
		AddRow(1, 4, "Tuition", 1200.50, time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC), true, paidAt).
		AddRow(2, 4, "Lab", 80.00, time.Date(2024, 10, 15, 0, 0, 0, 0, time.UTC), false, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, description, amount, due_date, paid, paid_at FROM fees ORDER BY id")).
		WillReturnRows(rows)

	fees, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, fees, 2)
	assert.InDelta(t, 1200.50, fees[0].Amount, 0.001)
	require.NotNil(t, fees[0].PaidAt)
	assert.Nil(t, fees[1].PaidAt)
	assert.Equal(t, "2024-10-15", fees[1].DueDate.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
