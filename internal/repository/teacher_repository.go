package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-api/internal/models"
)

var teacherColumns = []string{"first_name", "last_name", "email", "phone", "department", "credits", "hire_date"}

// TeacherRepository manages persistence for teachers.
type TeacherRepository struct {
	*CRUDRepository[models.Teacher]
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{CRUDRepository: NewCRUDRepository[models.Teacher](db, "teachers", teacherColumns)}
}

// ExistsByEmail checks if another teacher uses the same email, ignoring case.
func (r *TeacherRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.exists(ctx, "email", email, excludeID, true)
}
