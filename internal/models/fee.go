package models

import "time"

// Fee represents a charge billed to a student.
type Fee struct {
	ID          int64      `db:"id" json:"id"`
	StudentID   int64      `db:"student_id" json:"student_id"`
	Description string     `db:"description" json:"description"`
	Amount      float64    `db:"amount" json:"amount"`
	DueDate     Date       `db:"due_date" json:"due_date"`
	Paid        bool       `db:"paid" json:"paid"`
	PaidAt      *time.Time `db:"paid_at" json:"paid_at"`
}

// SetPaid flips the paid flag, stamping or clearing PaidAt.
func (f *Fee) SetPaid(paid bool, now time.Time) {
	if paid == f.Paid {
		return
	}
	f.Paid = paid
	if paid {
		ts := now.UTC()
		f.PaidAt = &ts
		return
	}
	f.PaidAt = nil
}
