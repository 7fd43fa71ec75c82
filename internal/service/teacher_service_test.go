package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/school-api/internal/models"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
)

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
func boolPtr(v bool) *bool    { return &v }

func newTeacherService(repo *fakeTeacherRepo) *TeacherService {
	return NewTeacherService(repo, Dependencies{Validator: NewValidator(), Logger: zap.NewNop()})
}

func TestTeacherServiceCreateAppliesDefaults(t *testing.T) {
	repo := newFakeTeacherRepo()
	svc := newTeacherService(repo)

	teacher, err := svc.Create(context.Background(), CreateTeacherRequest{
		FirstName: " Grace ",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Phone:     strPtr("  "),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), teacher.ID)
	assert.Equal(t, "Grace", teacher.FirstName)
	assert.Nil(t, teacher.Phone)
	assert.Equal(t, 0, teacher.Credits)
	assert.Equal(t, models.Today(), teacher.HireDate)

	fetched, err := svc.Get(context.Background(), teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, *teacher, *fetched)
}

func TestTeacherServiceCreateDuplicateEmail(t *testing.T) {
	repo := newFakeTeacherRepo()
	svc := newTeacherService(repo)
	req := CreateTeacherRequest{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com"}

	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	req.Email = "GRACE@example.com"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "already exists")
	assert.Equal(t, 1, repo.creates)
}

func TestTeacherServiceCreateValidation(t *testing.T) {
	svc := newTeacherService(newFakeTeacherRepo())

	_, err := svc.Create(context.Background(), CreateTeacherRequest{LastName: "Hopper", Email: "not-an-email"})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
	assert.Contains(t, appErr.Details, "first_name is required")
	assert.Contains(t, appErr.Details, "email must be a valid email")
}

func TestTeacherServiceCreateMapsUniqueViolation(t *testing.T) {
	repo := newFakeTeacherRepo()
	repo.createErr = &pq.Error{Code: "23505", Constraint: "teachers_email_key"}
	svc := newTeacherService(repo)

	_, err := svc.Create(context.Background(), CreateTeacherRequest{FirstName: "A", LastName: "B", Email: "a@example.com"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrAlreadyExists.Code, appErr.Code)
	assert.Equal(t, "teacher with this email already exists", appErr.Message)
}

func TestTeacherServiceCreateHidesPersistenceDetail(t *testing.T) {
	repo := newFakeTeacherRepo()
	cause := errors.New("pq: connection reset by peer")
	repo.createErr = cause
	svc := newTeacherService(repo)

	_, err := svc.Create(context.Background(), CreateTeacherRequest{FirstName: "A", LastName: "B", Email: "a@example.com"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPersistence.Code, appErr.Code)
	assert.Equal(t, "could not create teacher", appErr.Message)
	assert.ErrorIs(t, err, cause)
}

func TestTeacherServiceGetMissing(t *testing.T) {
	svc := newTeacherService(newFakeTeacherRepo())

	_, err := svc.Get(context.Background(), 404)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "teacher not found", appErrors.FromError(err).Message)
}

func TestTeacherServiceUpdateReplacesOptionalFields(t *testing.T) {
	repo := newFakeTeacherRepo()
	hired := models.Today()
	repo.seed(models.Teacher{ID: 3, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: strPtr("555"), Credits: 4, HireDate: hired})
	svc := newTeacherService(repo)

	teacher, err := svc.Update(context.Background(), 3, ReplaceTeacherRequest{FirstName: "Ada", LastName: "King", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "King", teacher.LastName)
	assert.Nil(t, teacher.Phone)
	assert.Equal(t, 0, teacher.Credits)
	assert.Equal(t, hired, teacher.HireDate)
}

func TestTeacherServiceUpdateEmailTakenByAnother(t *testing.T) {
	repo := newFakeTeacherRepo()
	repo.seed(models.Teacher{ID: 1, FirstName: "A", LastName: "A", Email: "a@example.com"})
	repo.seed(models.Teacher{ID: 2, FirstName: "B", LastName: "B", Email: "b@example.com"})
	svc := newTeacherService(repo)

	_, err := svc.Patch(context.Background(), 2, PatchTeacherRequest{Email: strPtr("a@example.com")})
	assert.ErrorIs(t, err, appErrors.ErrAlreadyExists)

	teacher, err := svc.Patch(context.Background(), 2, PatchTeacherRequest{Email: strPtr("B@example.com"), Credits: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, "B@example.com", teacher.Email)
	assert.Equal(t, 2, teacher.Credits)
}

func TestTeacherServiceDelete(t *testing.T) {
	repo := newFakeTeacherRepo()
	repo.seed(models.Teacher{ID: 1, FirstName: "A", LastName: "A", Email: "a@example.com"})
	svc := newTeacherService(repo)

	require.NoError(t, svc.Delete(context.Background(), 1))
	_, err := svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), 1), appErrors.ErrNotFound)
}

func TestTeacherServiceListEmpty(t *testing.T) {
	svc := newTeacherService(newFakeTeacherRepo())

	teachers, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, teachers)
	assert.Empty(t, teachers)
}

func TestTeacherServiceTrimsEmailBeforeValidating(t *testing.T) {
	svc := newTeacherService(newFakeTeacherRepo())

	teacher, err := svc.Create(context.Background(), CreateTeacherRequest{FirstName: "Grace", LastName: "Hopper", Email: "  grace@example.com "})
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", teacher.Email)

	_, err = svc.Update(context.Background(), teacher.ID, ReplaceTeacherRequest{FirstName: " ", LastName: "Hopper", Email: "grace@example.com"})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Details, "first_name must not be blank")
}
