package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.uber.org/zap"

	"github.com/noah-isme/school-api/pkg/database"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
	"github.com/noah-isme/school-api/pkg/logger"
)

// Resource is the contract every entity service exposes to the HTTP layer.
// C, U and P are the create, full replace and partial update payloads.
type Resource[T any, C any, U any, P any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, req C) (*T, error)
	Get(ctx context.Context, id int64) (*T, error)
	Update(ctx context.Context, id int64, req U) (*T, error)
	Patch(ctx context.Context, id int64, req P) (*T, error)
	Delete(ctx context.Context, id int64) error
}

type entityStore[T any] interface {
	List(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id int64) error
}

// Dependencies wires the collaborators shared by every entity service.
type Dependencies struct {
	Validator *validator.Validate
	Logger    *zap.Logger
	Cache     *CacheService
	Metrics   *MetricsService
}

// crud holds the behaviour shared by entity services: cached reads, error
// mapping and cache invalidation after writes.
type crud[T any] struct {
	store      entityStore[T]
	entity     string
	resource   string
	dependents []string
	validator  *validator.Validate
	logger     *zap.Logger
	cache      *CacheService
	metrics    *MetricsService
}

func newCRUD[T any](store entityStore[T], entity, resource string, deps Dependencies, dependents ...string) crud[T] {
	if deps.Validator == nil {
		deps.Validator = NewValidator()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return crud[T]{
		store:      store,
		entity:     entity,
		resource:   resource,
		dependents: dependents,
		validator:  deps.Validator,
		logger:     deps.Logger,
		cache:      deps.Cache,
		metrics:    deps.Metrics,
	}
}

func (c *crud[T]) list(ctx context.Context) ([]T, error) {
	key := c.cache.Key(c.resource, "list")
	var cached []T
	if hit, _ := c.cache.Get(ctx, key, &cached); hit && cached != nil {
		return cached, nil
	}
	generation := c.cache.Generation(c.resource)
	items, err := c.store.List(ctx)
	if err != nil {
		return nil, appErrors.Cause(appErrors.ErrInternal, err, fmt.Sprintf("failed to list %s", c.resource))
	}
	_ = c.cache.Fill(ctx, c.resource, generation, key, items)
	return items, nil
}

func (c *crud[T]) get(ctx context.Context, id int64) (*T, error) {
	key := c.cache.Key(c.resource, strconv.FormatInt(id, 10))
	var cached T
	if hit, _ := c.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}
	generation := c.cache.Generation(c.resource)
	item, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = c.cache.Fill(ctx, c.resource, generation, key, item)
	return item, nil
}

// load reads straight from the store, bypassing the cache.
func (c *crud[T]) load(ctx context.Context, id int64) (*T, error) {
	item, err := c.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, c.notFound()
		}
		return nil, appErrors.Cause(appErrors.ErrInternal, err, fmt.Sprintf("failed to load %s", c.entity))
	}
	return item, nil
}

func (c *crud[T]) create(ctx context.Context, entity *T) error {
	return c.write(ctx, "create", func() error { return c.store.Create(ctx, entity) })
}

func (c *crud[T]) update(ctx context.Context, entity *T) error {
	return c.write(ctx, "update", func() error { return c.store.Update(ctx, entity) })
}

func (c *crud[T]) delete(ctx context.Context, id int64) error {
	return c.write(ctx, "delete", func() error { return c.store.Delete(ctx, id) })
}

// write runs one store mutation, maps its error and invalidates the cache on success.
func (c *crud[T]) write(ctx context.Context, action string, op func() error) error {
	err := op()
	switch {
	case err == nil:
		c.metrics.RecordMutation(c.resource, action, outcomeOK)
		c.invalidate(ctx)
		return nil
	case action != "create" && errors.Is(err, sql.ErrNoRows):
		c.metrics.RecordMutation(c.resource, action, outcomeRejected)
		return c.notFound()
	}
	mapped := c.persistenceError(ctx, err, action)
	outcome := outcomeRejected
	if appErrors.FromError(mapped).Code == appErrors.ErrPersistence.Code {
		outcome = outcomeFailed
	}
	c.metrics.RecordMutation(c.resource, action, outcome)
	return mapped
}

func (c *crud[T]) validate(req interface{}) error {
	if err := c.validator.Struct(req); err != nil {
		return appErrors.Cause(appErrors.ErrValidation, err, fmt.Sprintf("invalid %s payload", c.entity)).
			WithDetails(validationDetails(err)...)
	}
	return nil
}

// unique runs an existence check and maps a hit to ALREADY_EXISTS.
func (c *crud[T]) unique(ctx context.Context, field string, exists func(context.Context) (bool, error)) error {
	found, err := exists(ctx)
	if err != nil {
		return appErrors.Cause(appErrors.ErrInternal, err, fmt.Sprintf("failed to check %s %s", c.entity, field))
	}
	if found {
		return c.duplicate(field)
	}
	return nil
}

func (c *crud[T]) notFound() error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found", c.entity))
}

func (c *crud[T]) duplicate(field string) error {
	return appErrors.Clone(appErrors.ErrAlreadyExists, fmt.Sprintf("%s with this %s already exists", c.entity, field))
}

// persistenceError classifies a failed write. Constraint violations become
// client errors; anything else is logged and reported with a stable message.
func (c *crud[T]) persistenceError(ctx context.Context, err error, action string) error {
	if column, ok := database.UniqueViolation(err); ok {
		return c.duplicate(strings.TrimPrefix(column, c.resource+"_"))
	}
	if database.IsForeignKeyViolation(err) {
		return appErrors.Cause(appErrors.ErrInvalidReference, err, fmt.Sprintf("%s references a record that does not exist", c.entity))
	}
	logger.FromContext(ctx, c.logger).Error("persistence failure",
		zap.String("resource", c.resource), zap.String("action", action), zap.Error(err))
	return appErrors.Cause(appErrors.ErrPersistence, err, fmt.Sprintf("could not %s %s", action, c.entity))
}

func (c *crud[T]) invalidate(ctx context.Context) {
	resources := append([]string{c.resource}, c.dependents...)
	_ = c.cache.Invalidate(ctx, resources...)
}

// NewValidator returns a validator reporting fields by their JSON names.
// The notblank tag rejects whitespace-only strings.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", fe.Field()))
		case "notblank":
			details = append(details, fmt.Sprintf("%s must not be blank", fe.Field()))
		case "email":
			details = append(details, fmt.Sprintf("%s must be a valid email", fe.Field()))
		case "oneof":
			details = append(details, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		default:
			if fe.Param() != "" {
				details = append(details, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			} else {
				details = append(details, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
		}
	}
	return details
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}

// trimmed strips surrounding whitespace from an optional value, keeping nil.
func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	t := strings.TrimSpace(*value)
	return &t
}
