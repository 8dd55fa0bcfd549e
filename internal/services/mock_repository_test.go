package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/submission-service/internal/models"
	"github.com/SAP-F-2025/submission-service/internal/repositories"
)

// In-memory Repository implementation for service tests.

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	u := *user
	m.users[user.Email] = &u
	return nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *u
	return &out, nil
}

func (m *mockUserRepo) UpdatePasswordHash(ctx context.Context, tx *gorm.DB, email, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = passwordHash
	u.TempPasswordHash = nil
	return nil
}

func (m *mockUserRepo) SetTempPasswordHash(ctx context.Context, tx *gorm.DB, email, tempHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.TempPasswordHash = &tempHash
	return nil
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[email]
	return ok, nil
}

func (m *mockUserRepo) HasRole(ctx context.Context, tx *gorm.DB, email string, role models.UserRole) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	return ok && u.Role == role, nil
}

type mockSubmissionRepo struct {
	mu     sync.Mutex
	subs   map[uint]*models.Submission
	nextID uint
}

func newMockSubmissionRepo() *mockSubmissionRepo {
	return &mockSubmissionRepo{subs: make(map[uint]*models.Submission), nextID: 1}
}

func (m *mockSubmissionRepo) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	submission.ID = m.nextID
	m.nextID++
	if submission.UploadedAt.IsZero() {
		submission.UploadedAt = time.Now()
	}
	s := *submission
	m.subs[s.ID] = &s
	return nil
}

func (m *mockSubmissionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *s
	return &out, nil
}

func (m *mockSubmissionRepo) GetByStoredName(ctx context.Context, tx *gorm.DB, storedName string) (*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.StoredName == storedName {
			out := *s
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubmissionRepo) ListByEmail(ctx context.Context, tx *gorm.DB, email string, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	filters.Email = &email
	return m.List(ctx, tx, filters)
}

func (m *mockSubmissionRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.Submission
	for _, s := range m.subs {
		if filters.Email != nil && s.Email != *filters.Email {
			continue
		}
		if filters.Status != nil && s.Status != *filters.Status {
			continue
		}
		c := *s
		out = append(out, &c)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})

	return out, int64(len(out)), nil
}

func (m *mockSubmissionRepo) Flag(ctx context.Context, tx *gorm.DB, id uint, update repositories.FlagUpdate) (*models.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.subs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if s.Version != update.Version {
		return nil, repositories.ErrVersionConflict
	}
	s.Status = models.StatusFlagged
	s.FraudScore = update.FraudScore
	s.Feedback = update.Feedback
	s.Version++
	out := *s
	return &out, nil
}

func (m *mockSubmissionRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.subs, id)
	return nil
}

func (m *mockSubmissionRepo) GetStats(ctx context.Context, tx *gorm.DB) (*repositories.SubmissionStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &repositories.SubmissionStats{}
	var total int
	for _, s := range m.subs {
		stats.TotalSubmissions++
		if s.Status == models.StatusFlagged {
			stats.FlaggedSubmissions++
		}
		if s.Kind == models.KindText {
			stats.TextSubmissions++
		} else {
			stats.FileSubmissions++
		}
		total += s.FraudScore
	}
	if stats.TotalSubmissions > 0 {
		stats.AverageFraudScore = float64(total) / float64(stats.TotalSubmissions)
	}
	return stats, nil
}

type mockNotificationRepo struct {
	mu    sync.Mutex
	notes []*models.Notification
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) Create(ctx context.Context, tx *gorm.DB, notification *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := *notification
	n.ID = uint(len(m.notes) + 1)
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	m.notes = append(m.notes, &n)
	return nil
}

func (m *mockNotificationRepo) ListByEmail(ctx context.Context, tx *gorm.DB, email string, filters repositories.NotificationFilters) ([]*models.Notification, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Notification
	for _, n := range m.notes {
		if n.Email == email {
			c := *n
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, int64(len(out)), nil
}

type mockRepository struct {
	user *mockUserRepo
	sub  *mockSubmissionRepo
	note *mockNotificationRepo
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		user: newMockUserRepo(),
		sub:  newMockSubmissionRepo(),
		note: newMockNotificationRepo(),
	}
}

func (m *mockRepository) User() repositories.UserRepository                 { return m.user }
func (m *mockRepository) Submission() repositories.SubmissionRepository     { return m.sub }
func (m *mockRepository) Notification() repositories.NotificationRepository { return m.note }
func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }
