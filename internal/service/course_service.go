package service

import (
	"context"
	"strings"

	"github.com/noah-isme/school-api/internal/models"
)

type courseRepository interface {
	entityStore[models.Course]
	ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
}

// CreateCourseRequest represents payload for creating courses.
type CreateCourseRequest struct {
	Code      string `json:"code" validate:"required,notblank,max=20"`
	Name      string `json:"name" validate:"required,notblank,max=200"`
	Credits   *int   `json:"credits" validate:"omitempty,min=0"`
	TeacherID *int64 `json:"teacher_id" validate:"required,gt=0"`
}

// ReplaceCourseRequest is the PUT payload; omitted credits reset to 0.
type ReplaceCourseRequest CreateCourseRequest

// PatchCourseRequest carries only the fields to change.
type PatchCourseRequest struct {
	Code      *string `json:"code" validate:"omitempty,notblank,max=20"`
	Name      *string `json:"name" validate:"omitempty,notblank,max=200"`
	Credits   *int    `json:"credits" validate:"omitempty,min=0"`
	TeacherID *int64  `json:"teacher_id" validate:"omitempty,gt=0"`
}

// CourseService orchestrates course operations.
type CourseService struct {
	repo courseRepository
	crud crud[models.Course]
}

// NewCourseService constructs a CourseService.
func NewCourseService(repo courseRepository, deps Dependencies) *CourseService {
	return &CourseService{repo: repo, crud: newCRUD[models.Course](repo, "course", "courses", deps, "enrollments")}
}

// List returns every course.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	return s.crud.list(ctx)
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	return s.crud.get(ctx, id)
}

// Create registers a course. Code and name are unique and the teacher must exist.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.crud.validate(req); err != nil {
		return nil, err
	}
	course := &models.Course{
		Code:      strings.TrimSpace(req.Code),
		Name:      strings.TrimSpace(req.Name),
		TeacherID: req.TeacherID,
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	if err := s.ensureUnique(ctx, course.Code, course.Name, 0); err != nil {
		return nil, err
	}
	if err := s.crud.create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Update replaces a course.
func (s *CourseService) Update(ctx context.Context, id int64, req ReplaceCourseRequest) (*models.Course, error) {
	if err := s.crud.validate(req); err != nil {
		return nil, err
	}
	course, err := s.crud.load(ctx, id)
	if err != nil {
		return nil, err
	}
	code := strings.TrimSpace(req.Code)
	name := strings.TrimSpace(req.Name)
	if err := s.ensureUnique(ctx, code, name, id); err != nil {
		return nil, err
	}

	course.Code = code
	course.Name = name
	course.TeacherID = req.TeacherID
	course.Credits = 0
	if req.Credits != nil {
		course.Credits = *req.Credits
	}

	if err := s.crud.update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Patch applies the supplied fields to a course.
func (s *CourseService) Patch(ctx context.Context, id int64, req PatchCourseRequest) (*models.Course, error) {
	if err := s.crud.validate(req); err != nil {
		return nil, err
	}
	course, err := s.crud.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code != course.Code {
			if err := s.crud.unique(ctx, "code", func(ctx context.Context) (bool, error) {
				return s.repo.ExistsByCode(ctx, code, id)
			}); err != nil {
				return nil, err
			}
		}
		course.Code = code
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != course.Name {
			if err := s.crud.unique(ctx, "name", func(ctx context.Context) (bool, error) {
				return s.repo.ExistsByName(ctx, name, id)
			}); err != nil {
				return nil, err
			}
		}
		course.Name = name
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	if req.TeacherID != nil {
		course.TeacherID = req.TeacherID
	}

	if err := s.crud.update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Delete removes a course and its enrollments.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	return s.crud.delete(ctx, id)
}

func (s *CourseService) ensureUnique(ctx context.Context, code, name string, excludeID int64) error {
	if err := s.crud.unique(ctx, "code", func(ctx context.Context) (bool, error) {
		return s.repo.ExistsByCode(ctx, code, excludeID)
	}); err != nil {
		return err
	}
	return s.crud.unique(ctx, "name", func(ctx context.Context) (bool, error) {
		return s.repo.ExistsByName(ctx, name, excludeID)
	})
}
