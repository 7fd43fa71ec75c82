package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/school-api/internal/models"
	appErrors "github.com/noah-isme/school-api/pkg/errors"
)

// memoryStore is an in-memory entityStore keyed by id.
type memoryStore[T any] struct {
	items  map[int64]T
	nextID int64
	idOf   func(*T) int64
	setID  func(*T, int64)

	createErr error
	updateErr error
	creates   int
	lists     int
}

func newMemoryStore[T any](idOf func(*T) int64, setID func(*T, int64)) *memoryStore[T] {
	return &memoryStore[T]{items: make(map[int64]T), idOf: idOf, setID: setID}
}

func (m *memoryStore[T]) List(ctx context.Context) ([]T, error) {
	m.lists++
	ids := make([]int64, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.items[id])
	}
	return out, nil
}

func (m *memoryStore[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &item, nil
}

func (m *memoryStore[T]) Create(ctx context.Context, entity *T) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	m.setID(entity, m.nextID)
	m.items[m.nextID] = *entity
	m.creates++
	return nil
}

func (m *memoryStore[T]) Update(ctx context.Context, entity *T) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	id := m.idOf(entity)
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	m.items[id] = *entity
	return nil
}

func (m *memoryStore[T]) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

// seed stores entity under its own id.
func (m *memoryStore[T]) seed(entity T) {
	id := m.idOf(&entity)
	m.items[id] = entity
	if id > m.nextID {
		m.nextID = id
	}
}

type fakeTeacherRepo struct {
	*memoryStore[models.Teacher]
}

func newFakeTeacherRepo() *fakeTeacherRepo {
	return &fakeTeacherRepo{newMemoryStore(
		func(t *models.Teacher) int64 { return t.ID },
		func(t *models.Teacher, id int64) { t.ID = id },
	)}
}

func (r *fakeTeacherRepo) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	for id, t := range r.items {
		if id != excludeID && strings.EqualFold(t.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

type fakeStudentRepo struct {
	*memoryStore[models.Student]
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{newMemoryStore(
		func(s *models.Student) int64 { return s.ID },
		func(s *models.Student, id int64) { s.ID = id },
	)}
}

func (r *fakeStudentRepo) ExistsByStudentID(ctx context.Context, studentID string, excludeID int64) (bool, error) {
	for id, s := range r.items {
		if id != excludeID && s.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

type fakeCourseRepo struct {
	*memoryStore[models.Course]
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{newMemoryStore(
		func(c *models.Course) int64 { return c.ID },
		func(c *models.Course, id int64) { c.ID = id },
	)}
}

func (r *fakeCourseRepo) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	for id, c := range r.items {
		if id != excludeID && c.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCourseRepo) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	for id, c := range r.items {
		if id != excludeID && c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

type fakeUserRepo struct {
	*memoryStore[models.User]
	lastLogin map[int64]time.Time
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		memoryStore: newMemoryStore(
			func(u *models.User) int64 { return u.ID },
			func(u *models.User, id int64) { u.ID = id },
		),
		lastLogin: make(map[int64]time.Time),
	}
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	for id, u := range r.items {
		if id != excludeID && strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.items {
		if strings.EqualFold(u.Email, email) {
			cp := u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) UpdateLastLogin(ctx context.Context, id int64, ts time.Time) error {
	r.lastLogin[id] = ts
	return nil
}

func newFakeEnrollmentRepo() *memoryStore[models.Enrollment] {
	return newMemoryStore(
		func(e *models.Enrollment) int64 { return e.ID },
		func(e *models.Enrollment, id int64) { e.ID = id },
	)
}

func newFakeFeeRepo() *memoryStore[models.Fee] {
	return newMemoryStore(
		func(f *models.Fee) int64 { return f.ID },
		func(f *models.Fee, id int64) { f.ID = id },
	)
}

// memoryCache is a CacheRepository storing JSON payloads in a map.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}
