package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/noah-isme/school-api/internal/models"
)

// CreateFeeRequest bills a student.
type CreateFeeRequest struct {
	StudentID   int64        `json:"student_id" validate:"required,gt=0"`
	Description string       `json:"description" validate:"required,notblank,max=255"`
	Amount      *float64     `json:"amount" validate:"required,gte=0"`
	DueDate     *models.Date `json:"due_date" validate:"required"`
	Paid        *bool        `json:"paid"`
}

// ReplaceFeeRequest is the PUT payload; an omitted paid flag means unpaid.
type ReplaceFeeRequest CreateFeeRequest

// PatchFeeRequest carries only the fields to change.
type PatchFeeRequest struct {
	StudentID   *int64       `json:"student_id" validate:"omitempty,gt=0"`
	Description *string      `json:"description" validate:"omitempty,notblank,max=255"`
	Amount      *float64     `json:"amount" validate:"omitempty,gte=0"`
	DueDate     *models.Date `json:"due_date"`
	Paid        *bool        `json:"paid"`
}

// FeeService orchestrates fee operations.
type FeeService struct {
	crud crud[models.Fee]
	now  func() time.Time
}

// NewFeeService constructs a FeeService.
func NewFeeService(repo entityStore[models.Fee], deps Dependencies) *FeeService {
	return &FeeService{crud: newCRUD[models.Fee](repo, "fee", "fees", deps), now: time.Now}
}

// List returns every fee.
func (s *FeeService) List(ctx context.Context) ([]models.Fee, error) {
	return s.crud.list(ctx)
}

// Get returns a fee by id.
func (s *FeeService) Get(ctx context.Context, id int64) (*models.Fee, error) {
	return s.crud.get(ctx, id)
}

// Create records a fee. Amounts are rounded to cents.
func (s *FeeService) Create(ctx context.Context, req CreateFeeRequest) (*models.Fee, error) {
	if err := s.crud.validate(req); err != nil {
		return nil, err
	}
	fee := &models.Fee{
		StudentID:   req.StudentID,
		Description: strings.TrimSpace(req.Description),
		Amount:      roundCents(*req.Amount),
		DueDate:     *req.DueDate,
	}
	if req.Paid != nil {
		fee.SetPaid(*req.Paid, s.now())
	}
	if err := s.crud.create(ctx, fee); err != nil {
		return nil, err
	}
	return fee, nil
}

// Update replaces a fee.
func (s *FeeService) Update(ctx context.Context, id int64, req ReplaceFeeRequest) (*models.Fee, error) {
	if err := s.crud.validate(req); err != nil {
		return nil, err
	}
	fee, err := s.crud.load(ctx, id)
	if err != nil {
		return nil, err
	}
	fee.StudentID = req.StudentID
	fee.Description = strings.TrimSpace(req.Description)
	fee.Amount = roundCents(*req.Amount)
	fee.DueDate = *req.DueDate
	fee.SetPaid(req.Paid != nil && *req.Paid, s.now())

	if err := s.crud.update(ctx, fee); err != nil {
		return nil, err
	}
	return fee, nil
}

// Patch applies the supplied fields to a fee.
func (s *FeeService) Patch(ctx context.Context, id int64, req PatchFeeRequest) (*models.Fee, error) {
	if err := s.crud.validate(req); err != nil {
		return nil, err
	}
	fee, err := s.crud.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.StudentID != nil {
		fee.StudentID = *req.StudentID
	}
	if req.Description != nil {
		fee.Description = strings.TrimSpace(*req.Description)
	}
	if req.Amount != nil {
		fee.Amount = roundCents(*req.Amount)
	}
	if req.DueDate != nil {
		fee.DueDate = *req.DueDate
	}
	if req.Paid != nil {
		fee.SetPaid(*req.Paid, s.now())
	}
	if err := s.crud.update(ctx, fee); err != nil {
		return nil, err
	}
	return fee, nil
}

// Delete removes a fee.
func (s *FeeService) Delete(ctx context.Context, id int64) error {
	return s.crud.delete(ctx, id)
}

func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
