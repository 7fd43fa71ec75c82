package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-api/internal/models"
)

var feeColumns = []string{"student_id", "description", "amount", "due_date", "paid", "paid_at"}

// FeeRepository manages persistence for student fees.
type FeeRepository struct {
	*CRUDRepository[models.Fee]
}

// NewFeeRepository constructs a FeeRepository.
func NewFeeRepository(db *sqlx.DB) *FeeRepository {
	return &FeeRepository{CRUDRepository: NewCRUDRepository[models.Fee](db, "fees", feeColumns)}
}
