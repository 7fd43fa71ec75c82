package service

import (
	"context"
	"strings"

	"github.com/noah-isme/school-api/internal/models"
)

type studentRepository interface {
	entityStore[models.Student]
	ExistsByStudentID(ctx context.Context, studentID string, excludeID int64) (bool, error)
}

// CreateStudentRequest represents payload for creating students. Dates accept
// YYYY-MM-DD or RFC 3339.
type CreateStudentRequest struct {
	FirstName      string       `json:"first_name" validate:"required,notblank,max=100"`
	LastName       string       `json:"last_name" validate:"required,notblank,max=100"`
	StudentID      string       `json:"student_id" validate:"required,notblank,max=50"`
	Email          string       `json:"email" validate:"required,email,max=255"`
	DateOfBirth    *models.Date `json:"date_of_birth"`
	EnrollmentDate *models.Date `json:"enrollment_date"`
}

// ReplaceStudentRequest is the PUT payload; omitted dates are cleared.
type ReplaceStudentRequest CreateStudentRequest

// PatchStudentRequest carries only the fields to change.
type PatchStudentRequest struct {
	FirstName      *string      `json:"first_name" validate:"omitempty,notblank,max=100"`
	LastName       *string      `json:"last_name" validate:"omitempty,notblank,max=100"`
	StudentID      *string      `json:"student_id" validate:"omitempty,notblank,max=50"`
	Email          *string      `json:"email" validate:"omitempty,email,max=255"`
	DateOfBirth    *models.Date `json:"date_of_birth"`
	EnrollmentDate *models.Date `json:"enrollment_date"`
}

// StudentService orchestrates student operations.
type StudentService struct {
	repo studentRepository
	crud crud[models.Student]
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, deps Dependencies) *StudentService {
	return &StudentService{repo: repo, crud: newCRUD[models.Student](repo, "student", "students", deps, "enrollments", "fees")}
}

// List returns every student.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	return s.crud.list(ctx)
}

// Get returns a student by id.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	return s.crud.get(ctx, id)
}

// Create registers a student with a unique student number.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.crud.validate(req); err != nil {
		return nil, err
	}
	studentID := strings.TrimSpace(req.StudentID)
	if err := s.ensureUniqueStudentID(ctx, studentID, 0); err != nil {
		return nil, err
	}

	student := &models.Student{
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		StudentID:      studentID,
		Email:          req.Email,
		DateOfBirth:    req.DateOfBirth,
		EnrollmentDate: req.EnrollmentDate,
	}
	if err := s.crud.create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// Update replaces every field of a student.
func (s *StudentService) Update(ctx context.Context, id int64, req ReplaceStudentRequest) (*models.Student, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.crud.validate(req); err != nil {
		return nil, err
	}
	student, err := s.crud.load(ctx, id)
	if err != nil {
		return nil, err
	}
	studentID := strings.TrimSpace(req.StudentID)
	if err := s.ensureUniqueStudentID(ctx, studentID, id); err != nil {
		return nil, err
	}

	student.FirstName = strings.TrimSpace(req.FirstName)
	student.LastName = strings.TrimSpace(req.LastName)
	student.StudentID = studentID
	student.Email = req.Email
	student.DateOfBirth = req.DateOfBirth
	student.EnrollmentDate = req.EnrollmentDate

	if err := s.crud.update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// Patch changes only the supplied fields of a student.
func (s *StudentService) Patch(ctx context.Context, id int64, req PatchStudentRequest) (*models.Student, error) {
	req.Email = trimmed(req.Email)
	if err := s.crud.validate(req); err != nil {
		return nil, err
	}
	student, err := s.crud.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.StudentID != nil {
		studentID := strings.TrimSpace(*req.StudentID)
		if studentID != student.StudentID {
			if err := s.ensureUniqueStudentID(ctx, studentID, id); err != nil {
				return nil, err
			}
		}
		student.StudentID = studentID
	}
	if req.FirstName != nil {
		student.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		student.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		student.Email = *req.Email
	}
	if req.DateOfBirth != nil {
		student.DateOfBirth = req.DateOfBirth
	}
	if req.EnrollmentDate != nil {
		student.EnrollmentDate = req.EnrollmentDate
	}

	if err := s.crud.update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// Delete removes a student together with their enrollments and fees.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	return s.crud.delete(ctx, id)
}

func (s *StudentService) ensureUniqueStudentID(ctx context.Context, studentID string, excludeID int64) error {
	return s.crud.unique(ctx, "student_id", func(ctx context.Context) (bool, error) {
		return s.repo.ExistsByStudentID(ctx, studentID, excludeID)
	})
}
