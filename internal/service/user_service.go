package service

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-api/internal/models"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
)

type userRepository interface {
	entityStore[models.User]
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
}

// CreateUserRequest represents payload for creating users.
type CreateUserRequest struct {
	Email    string          `json:"email" validate:"required,email,max=255"`
	FullName string          `json:"full_name" validate:"required,notblank,max=255"`
	Role     models.UserRole `json:"role" validate:"required,oneof=SUPERADMIN ADMIN TEACHER STUDENT"`
	Active   *bool           `json:"active"`
	Password string          `json:"password" validate:"required,min=8,max=72"`
}

// ReplaceUserRequest is the PUT payload. The password is only rotated when
// supplied and an omitted active flag means active.
type ReplaceUserRequest struct {
	Email    string          `json:"email" validate:"required,email,max=255"`
	FullName string          `json:"full_name" validate:"required,notblank,max=255"`
	Role     models.UserRole `json:"role" validate:"required,oneof=SUPERADMIN ADMIN TEACHER STUDENT"`
	Active   *bool           `json:"active"`
	Password *string         `json:"password" validate:"omitempty,min=8,max=72"`
}

// PatchUserRequest carries only the fields to change.
type PatchUserRequest struct {
	Email    *string          `json:"email" validate:"omitempty,email,max=255"`
	FullName *string          `json:"full_name" validate:"omitempty,notblank,max=255"`
	Role     *models.UserRole `json:"role" validate:"omitempty,oneof=SUPERADMIN ADMIN TEACHER STUDENT"`
	Active   *bool            `json:"active"`
	Password *string          `json:"password" validate:"omitempty,min=8,max=72"`
}

// UserService handles user management workflows.
type UserService struct {
	repo     userRepository
	crud     crud[models.User]
	hashCost int
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, deps Dependencies) *UserService {
	return &UserService{repo: repo, crud: newCRUD[models.User](repo, "user", "users", deps), hashCost: bcrypt.DefaultCost}
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.crud.list(ctx)
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.crud.get(ctx, id)
}

// Create registers a user with a bcrypt hashed password.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.crud.validate(req); err != nil {
		return nil, err
	}
	email := req.Email
	if err := s.ensureUniqueEmail(ctx, email, 0); err != nil {
		return nil, err
	}
	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		Role:         req.Role,
		Active:       req.Active == nil || *req.Active,
		PasswordHash: hash,
	}
	if err := s.crud.create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update replaces a user's profile.
func (s *UserService) Update(ctx context.Context, id int64, req ReplaceUserRequest) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.crud.validate(req); err != nil {
		return nil, err
	}
	user, err := s.crud.load(ctx, id)
	if err != nil {
		return nil, err
	}
	email := req.Email
	if err := s.ensureUniqueEmail(ctx, email, id); err != nil {
		return nil, err
	}

	user.Email = email
	user.FullName = strings.TrimSpace(req.FullName)
	user.Role = req.Role
	user.Active = req.Active == nil || *req.Active
	if req.Password != nil {
		if user.PasswordHash, err = s.hash(*req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.crud.update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Patch applies the supplied fields to a user.
func (s *UserService) Patch(ctx context.Context, id int64, req PatchUserRequest) (*models.User, error) {
	req.Email = trimmed(req.Email)
	if err := s.crud.validate(req); err != nil {
		return nil, err
	}
	user, err := s.crud.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			if err := s.ensureUniqueEmail(ctx, email, id); err != nil {
				return nil, err
			}
		}
		user.Email = email
	}
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.Password != nil {
		if user.PasswordHash, err = s.hash(*req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.crud.update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.crud.delete(ctx, id)
}

func (s *UserService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", appErrors.Cause(appErrors.ErrInternal, err, "failed to hash password")
	}
	return string(hash), nil
}

func (s *UserService) ensureUniqueEmail(ctx context.Context, email string, excludeID int64) error {
	return s.crud.unique(ctx, "email", func(ctx context.Context) (bool, error) {
		return s.repo.ExistsByEmail(ctx, email, excludeID)
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
