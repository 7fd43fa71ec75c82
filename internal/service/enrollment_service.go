package service

import (
	"context"

	"github.com/noah-isme/school-api/internal/models"
)

// CreateEnrollmentRequest links a student to a course.
type CreateEnrollmentRequest struct {
	StudentID      int64                    `json:"student_id" validate:"required,gt=0"`
	CourseID       int64                    `json:"course_id" validate:"required,gt=0"`
	EnrollmentDate *models.Date             `json:"enrollment_date"`
	Status         *models.EnrollmentStatus `json:"status" validate:"omitempty,oneof=enrolled completed dropped"`
}

// ReplaceEnrollmentRequest is the PUT payload. An omitted status resets to
// enrolled; an omitted enrollment_date keeps the stored one.
type ReplaceEnrollmentRequest CreateEnrollmentRequest

// PatchEnrollmentRequest carries only the fields to change.
type PatchEnrollmentRequest struct {
	StudentID      *int64                   `json:"student_id" validate:"omitempty,gt=0"`
	CourseID       *int64                   `json:"course_id" validate:"omitempty,gt=0"`
	EnrollmentDate *models.Date             `json:"enrollment_date"`
	Status         *models.EnrollmentStatus `json:"status" validate:"omitempty,oneof=enrolled completed dropped"`
}

// EnrollmentService orchestrates enrollment operations. Unknown student or
// course ids surface as INVALID_REFERENCE from the foreign keys.
type EnrollmentService struct {
	crud crud[models.Enrollment]
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(repo entityStore[models.Enrollment], deps Dependencies) *EnrollmentService {
	return &EnrollmentService{crud: newCRUD[models.Enrollment](repo, "enrollment", "enrollments", deps)}
}

// List returns every enrollment.
func (s *EnrollmentService) List(ctx context.Context) ([]models.Enrollment, error) {
	return s.crud.list(ctx)
}

// Get returns an enrollment by id.
func (s *EnrollmentService) Get(ctx context.Context, id int64) (*models.Enrollment, error) {
	return s.crud.get(ctx, id)
}

// Create enrolls a student, dated today and enrolled unless stated otherwise.
func (s *EnrollmentService) Create(ctx context.Context, req CreateEnrollmentRequest) (*models.Enrollment, error) {
	if err := s.crud.validate(req); err != nil {
		return nil, err
	}
	enrollment := &models.Enrollment{
		StudentID:      req.StudentID,
		CourseID:       req.CourseID,
		EnrollmentDate: models.Today(),
		Status:         models.EnrollmentStatusEnrolled,
	}
	if req.EnrollmentDate != nil {
		enrollment.EnrollmentDate = *req.EnrollmentDate
	}
	if req.Status != nil {
		enrollment.Status = *req.Status
	}
	if err := s.crud.create(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Update replaces an enrollment.
func (s *EnrollmentService) Update(ctx context.Context, id int64, req ReplaceEnrollmentRequest) (*models.Enrollment, error) {
	if err := s.crud.validate(req); err != nil {
		return nil, err
	}
	enrollment, err := s.crud.load(ctx, id)
	if err != nil {
		return nil, err
	}
	enrollment.StudentID = req.StudentID
	enrollment.CourseID = req.CourseID
	enrollment.Status = models.EnrollmentStatusEnrolled
	if req.Status != nil {
		enrollment.Status = *req.Status
	}
	if req.EnrollmentDate != nil {
		enrollment.EnrollmentDate = *req.EnrollmentDate
	}
	if err := s.crud.update(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Patch applies the supplied fields. Any status may replace any other.
func (s *EnrollmentService) Patch(ctx context.Context, id int64, req PatchEnrollmentRequest) (*models.Enrollment, error) {
	if err := s.crud.validate(req); err != nil {
		return nil, err
	}
	enrollment, err := s.crud.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.StudentID != nil {
		enrollment.StudentID = *req.StudentID
	}
	if req.CourseID != nil {
		enrollment.CourseID = *req.CourseID
	}
	if req.EnrollmentDate != nil {
		enrollment.EnrollmentDate = *req.EnrollmentDate
	}
	if req.Status != nil {
		enrollment.Status = *req.Status
	}
	if err := s.crud.update(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Delete removes an enrollment.
func (s *EnrollmentService) Delete(ctx context.Context, id int64) error {
	return s.crud.delete(ctx, id)
}
