package models

// Course is a unit of teaching led by a teacher.
type Course struct {
	ID        int64  `db:"id" json:"id"`
	Code      string `db:"code" json:"code"`
	Name      string `db:"name" json:"name"`
	Credits   int    `db:"credits" json:"credits"`
	TeacherID *int64 `db:"teacher_id" json:"teacher_id"`
}
