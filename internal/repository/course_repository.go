package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-api/internal/models"
)

var courseColumns = []string{"code", "name", "credits", "teacher_id"}

// CourseRepository manages persistence for courses.
type CourseRepository struct {
	*CRUDRepository[models.Course]
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{CRUDRepository: NewCRUDRepository[models.Course](db, "courses", courseColumns)}
}

// ExistsByCode checks if another course uses the code.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	return r.exists(ctx, "code", code, excludeID, false)
}

// ExistsByName checks if another course uses the name.
func (r *CourseRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	return r.exists(ctx, "name", name, excludeID, false)
}
