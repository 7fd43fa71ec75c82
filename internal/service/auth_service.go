package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-api/internal/models"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
	"github.com/noah-isme/school-api/pkg/logger"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error
}

// AuthConfig configures access token issuance.
type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
	Issuer            string
}

// missingUserHash is compared against when the email is unknown so both
// failure paths cost one bcrypt comparison.
var missingUserHash, _ = bcrypt.GenerateFromPassword([]byte("school-api/missing-user"), bcrypt.DefaultCost)

// AuthService exchanges credentials for HS256 access tokens and verifies them.
type AuthService struct {
	users     authUserRepository
	validator *validator.Validate
	logger    *zap.Logger
	tokens    accessTokens
	now       func() time.Time
}

func NewAuthService(users authUserRepository, validate *validator.Validate, log *zap.Logger, config AuthConfig) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	return &AuthService{
		users:     users,
		validator: validate,
		logger:    log,
		tokens:    accessTokens{secret: []byte(config.AccessTokenSecret), issuer: config.Issuer, ttl: config.AccessTokenExpiry},
		now:       time.Now,
	}
}

// Login checks the password before the active flag, so an inactive account
// is only revealed to someone holding its password.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Cause(appErrors.ErrValidation, err, "invalid login payload").WithDetails(validationDetails(err)...)
	}

	user, err := s.authenticate(ctx, strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, appErrors.Clone(appErrors.ErrInactiveAccount, "account is inactive")
	}

	now := s.now().UTC()
	token, err := s.tokens.sign(user, now)
	if err != nil {
		return nil, appErrors.Cause(appErrors.ErrInternal, err, "failed to create access token")
	}
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		logger.FromContext(ctx, s.logger).Warn("failed to update last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	return &models.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.ttl / time.Second),
		IssuedAt:    now,
		User:        user.Info(),
	}, nil
}

func (s *AuthService) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	invalid := appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_ = bcrypt.CompareHashAndPassword(missingUserHash, []byte(password))
		return nil, invalid
	case err != nil:
		return nil, appErrors.Cause(appErrors.ErrInternal, err, "failed to fetch user")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, invalid
	}
	return user, nil
}

// ValidateToken verifies signature, issuer and expiry and returns the claims.
func (s *AuthService) ValidateToken(raw string) (*models.JWTClaims, error) {
	claims, err := s.tokens.parse(raw)
	if err != nil {
		return nil, appErrors.Cause(appErrors.ErrUnauthorized, err, "invalid token")
	}
	return claims, nil
}

type accessTokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func (t accessTokens) sign(user *models.User, at time.Time) (string, error) {
	claims := &models.JWTClaims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(at),
			NotBefore: jwt.NewNumericDate(at),
			ExpiresAt: jwt.NewNumericDate(at.Add(t.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t accessTokens) parse(raw string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return nil, fmt.Errorf("subject %q does not match user %d", claims.Subject, claims.UserID)
	}
	return claims, nil
}
