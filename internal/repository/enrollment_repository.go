package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-api/internal/models"
)

var enrollmentColumns = []string{"student_id", "course_id", "enrollment_date", "status"}

// EnrollmentRepository manages persistence for student-course enrollments.
type EnrollmentRepository struct {
	*CRUDRepository[models.Enrollment]
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{CRUDRepository: NewCRUDRepository[models.Enrollment](db, "enrollments", enrollmentColumns)}
}
