package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-api/internal/models"
)

var studentColumns = []string{"first_name", "last_name", "student_id", "email", "date_of_birth", "enrollment_date"}

// StudentRepository manages persistence for students.
type StudentRepository struct {
	*CRUDRepository[models.Student]
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{CRUDRepository: NewCRUDRepository[models.Student](db, "students", studentColumns)}
}

// ExistsByStudentID checks if another student holds the registration number.
func (r *StudentRepository) ExistsByStudentID(ctx context.Context, studentID string, excludeID int64) (bool, error) {
	return r.exists(ctx, "student_id", studentID, excludeID, false)
}
