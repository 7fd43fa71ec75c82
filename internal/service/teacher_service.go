package service

import (
	"context"
	"strings"

	"github.com/noah-isme/school-api/internal/models"
)

type teacherRepository interface {
	entityStore[models.Teacher]
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
}

// CreateTeacherRequest represents payload for creating teachers.
type CreateTeacherRequest struct {
	FirstName  string       `json:"first_name" validate:"required,notblank,max=100"`
	LastName   string       `json:"last_name" validate:"required,notblank,max=100"`
	Email      string       `json:"email" validate:"required,email,max=255"`
	Phone      *string      `json:"phone" validate:"omitempty,max=20"`
	Department *string      `json:"department" validate:"omitempty,max=100"`
	Credits    *int         `json:"credits" validate:"omitempty,min=0"`
	HireDate   *models.Date `json:"hire_date"`
}

// ReplaceTeacherRequest is the PUT payload. Omitted optional fields are
// cleared; an omitted hire_date keeps the stored one.
type ReplaceTeacherRequest CreateTeacherRequest

// PatchTeacherRequest carries only the fields to change.
type PatchTeacherRequest struct {
	FirstName  *string      `json:"first_name" validate:"omitempty,notblank,max=100"`
	LastName   *string      `json:"last_name" validate:"omitempty,notblank,max=100"`
	Email      *string      `json:"email" validate:"omitempty,email,max=255"`
	Phone      *string      `json:"phone" validate:"omitempty,max=20"`
	Department *string      `json:"department" validate:"omitempty,max=100"`
	Credits    *int         `json:"credits" validate:"omitempty,min=0"`
	HireDate   *models.Date `json:"hire_date"`
}

// TeacherService orchestrates teacher operations.
type TeacherService struct {
	repo teacherRepository
	crud crud[models.Teacher]
}

// NewTeacherService constructs a TeacherService. Teacher writes also
// invalidate cached courses, which reference teachers.
func NewTeacherService(repo teacherRepository, deps Dependencies) *TeacherService {
	return &TeacherService{repo: repo, crud: newCRUD[models.Teacher](repo, "teacher", "teachers", deps, "courses")}
}

// List returns every teacher.
func (s *TeacherService) List(ctx context.Context) ([]models.Teacher, error) {
	return s.crud.list(ctx)
}

// Get returns a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id int64) (*models.Teacher, error) {
	return s.crud.get(ctx, id)
}

// Create registers a new teacher. The email must not belong to another teacher.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (*models.Teacher, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.crud.validate(req); err != nil {
		return nil, err
	}
	email := req.Email
	if err := s.ensureUniqueEmail(ctx, email, 0); err != nil {
		return nil, err
	}

	teacher := &models.Teacher{
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Email:      email,
		Phone:      normalizeOptional(req.Phone),
		Department: normalizeOptional(req.Department),
		HireDate:   models.Today(),
	}
	if req.Credits != nil {
		teacher.Credits = *req.Credits
	}
	if req.HireDate != nil {
		teacher.HireDate = *req.HireDate
	}

	if err := s.crud.create(ctx, teacher); err != nil {
		return nil, err
	}
	return teacher, nil
}

// Update replaces a teacher record.
func (s *TeacherService) Update(ctx context.Context, id int64, req ReplaceTeacherRequest) (*models.Teacher, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.crud.validate(req); err != nil {
		return nil, err
	}
	teacher, err := s.crud.load(ctx, id)
	if err != nil {
		return nil, err
	}
	email := req.Email
	if err := s.ensureUniqueEmail(ctx, email, id); err != nil {
		return nil, err
	}

	teacher.FirstName = strings.TrimSpace(req.FirstName)
	teacher.LastName = strings.TrimSpace(req.LastName)
	teacher.Email = email
	teacher.Phone = normalizeOptional(req.Phone)
	teacher.Department = normalizeOptional(req.Department)
	teacher.Credits = 0
	if req.Credits != nil {
		teacher.Credits = *req.Credits
	}
	if req.HireDate != nil {
		teacher.HireDate = *req.HireDate
	}

	if err := s.crud.update(ctx, teacher); err != nil {
		return nil, err
	}
	return teacher, nil
}

// Patch applies the supplied fields to a teacher.
func (s *TeacherService) Patch(ctx context.Context, id int64, req PatchTeacherRequest) (*models.Teacher, error) {
	req.Email = trimmed(req.Email)
	if err := s.crud.validate(req); err != nil {
		return nil, err
	}
	teacher, err := s.crud.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := *req.Email
		if !strings.EqualFold(email, teacher.Email) {
			if err := s.ensureUniqueEmail(ctx, email, id); err != nil {
				return nil, err
			}
		}
		teacher.Email = email
	}
	if req.FirstName != nil {
		teacher.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		teacher.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		teacher.Phone = normalizeOptional(req.Phone)
	}
	if req.Department != nil {
		teacher.Department = normalizeOptional(req.Department)
	}
	if req.Credits != nil {
		teacher.Credits = *req.Credits
	}
	if req.HireDate != nil {
		teacher.HireDate = *req.HireDate
	}

	if err := s.crud.update(ctx, teacher); err != nil {
		return nil, err
	}
	return teacher, nil
}

// Delete removes a teacher. Courses they taught keep existing without a teacher.
func (s *TeacherService) Delete(ctx context.Context, id int64) error {
	return s.crud.delete(ctx, id)
}

func (s *TeacherService) ensureUniqueEmail(ctx context.Context, email string, excludeID int64) error {
	return s.crud.unique(ctx, "email", func(ctx context.Context) (bool, error) {
		return s.repo.ExistsByEmail(ctx, email, excludeID)
	})
}
