package models

// Student represents a learner registered in the institution.
type Student struct {
	ID             int64  `db:"id" json:"id"`
	FirstName      string `db:"first_name" json:"first_name"`
	LastName       string `db:"last_name" json:"last_name"`
	StudentID      string `db:"student_id" json:"student_id"`
	Email          string `db:"email" json:"email"`
	DateOfBirth    *Date  `db:"date_of_birth" json:"date_of_birth"`
	EnrollmentDate *Date  `db:"enrollment_date" json:"enrollment_date"`
}
