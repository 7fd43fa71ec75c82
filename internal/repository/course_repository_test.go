package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-api/internal/models"
)

func TestCourseRepositoryUpdate(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewCourseRepository(db)

	teacherID := int64(2)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE courses SET code = ?, name = ?, credits = ?, teacher_id = ? WHERE id = ?")).
		WithArgs("CS101", "Intro", 4, int64(2), int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "credits", "teacher_id"}).AddRow(5, "CS101", "Intro", 4, 2))
	mock.ExpectCommit()

	course := &models.Course{ID: 5, Code: "CS101", Name: "Intro", Credits: 4, TeacherID: &teacherID}
	require.NoError(t, repo.Update(context.Background(), course))
	assert.Equal(t, int64(5), course.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryExistsByName(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM courses WHERE name = $1 AND id <> $2 LIMIT 1")).
		WithArgs("Intro", int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err := repo.ExistsByName(context.Background(), "Intro", 5)
	require.NoError(t, err)
	assert.False(t, exists)
}
