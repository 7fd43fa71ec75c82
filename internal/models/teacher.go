package models

// Teacher represents an instructor record.
type Teacher struct {
	ID         int64   `db:"id" json:"id"`
	FirstName  string  `db:"first_name" json:"first_name"`
	LastName   string  `db:"last_name" json:"last_name"`
	Email      string  `db:"email" json:"email"`
	Phone      *string `db:"phone" json:"phone"`
	Department *string `db:"department" json:"department"`
	Credits    int     `db:"credits" json:"credits"`
	HireDate   Date    `db:"hire_date" json:"hire_date"`
}
