package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/core/internal/application/services"
	"github.com/medtrack/core/internal/domain/entities"
	"github.com/medtrack/core/internal/infrastructure/config"
	"github.com/medtrack/core/internal/infrastructure/logger"
	"github.com/medtrack/core/internal/ports"
)

// memoryUserRepo is an in-memory UserRepository for tests. It stores and
// returns copies so callers mutating a result cannot alter stored state, the
// same isolation the SQL repository provides.
type memoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]entities.User
	err   error
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]entities.User)}
}

func (r *memoryUserRepo) Create(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, entities.ErrUserNotFound
	}
	return &user, nil
}

func (r *memoryUserRepo) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			user := user
			return &user, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *memoryUserRepo) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Username == username {
			user := user
			return &user, nil
		}
	}
	return nil, entities.ErrUserNotFound
}

func (r *memoryUserRepo) Update(ctx context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return entities.ErrUserNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *memoryUserRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[id]
	return ok, nil
}

// memoryMedicationRepo is an in-memory MedicationRepository for tests. It
// preserves insertion order so FindActiveByOwner behaves like the SQL
// implementation's created_at ordering.
type memoryMedicationRepo struct {
	mu          sync.RWMutex
	medications []*entities.Medication
	err         error
}

func newMemoryMedicationRepo() *memoryMedicationRepo {
	return &memoryMedicationRepo{}
}

func (r *memoryMedicationRepo) Create(ctx context.Context, medication *entities.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.medications = append(r.medications, medication)
	return nil
}

func (r *memoryMedicationRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.medications {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, entities.ErrMedicationNotFound
}

func (r *memoryMedicationRepo) Update(ctx context.Context, medication *entities.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.medications {
		if m.ID == medication.ID {
			r.medications[i] = medication
			return nil
		}
	}
	return entities.ErrMedicationNotFound
}

func (r *memoryMedicationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.medications {
		if m.ID == id {
			r.medications = append(r.medications[:i], r.medications[i+1:]...)
			return nil
		}
	}
	return entities.ErrMedicationNotFound
}

func (r *memoryMedicationRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter ports.MedicationFilter) ([]*entities.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*entities.Medication, 0)
	for _, m := range r.medications {
		if m.OwnerID != ownerID {
			continue
		}
		if filter.Active != nil && m.Active != *filter.Active {
			continue
		}
		result = append(result, m)
	}
	return result, nil
}

func (r *memoryMedicationRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID, filter ports.MedicationFilter) (int64, error) {
	medications, err := r.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(medications)), nil
}

func (r *memoryMedicationRepo) FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entities.Medication, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*entities.Medication, 0)
	for _, m := range r.medications {
		if m.OwnerID == ownerID && m.Active {
			result = append(result, m)
		}
	}
	return result, nil
}

// memoryAuthRepo is an in-memory AuthRepository for tests.
type memoryAuthRepo struct {
	mu     sync.Mutex
	tokens map[string]*ports.RefreshToken
	nextID int
}

func newMemoryAuthRepo() *memoryAuthRepo {
	return &memoryAuthRepo{tokens: make(map[string]*ports.RefreshToken)}
}

func (r *memoryAuthRepo) CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.tokens[tokenHash] = &ports.RefreshToken{
		ID:        r.nextID,
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return nil
}

func (r *memoryAuthRepo) GetRefreshToken(ctx context.Context, tokenHash string) (*ports.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[tokenHash]
	if !ok {
		return nil, errors.New("refresh token not found")
	}
	return token, nil
}

func (r *memoryAuthRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token, ok := r.tokens[tokenHash]; ok && token.RevokedAt == nil {
		now := time.Now()
		token.RevokedAt = &now
	}
	return nil
}

func (r *memoryAuthRepo) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	for _, token := range r.tokens {
		if token.UserID == userID && token.RevokedAt == nil {
			token.RevokedAt = &now
		}
	}
	return nil
}

func (r *memoryAuthRepo) CleanupExpiredTokens(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, token := range r.tokens {
		if token.IsExpired() {
			delete(r.tokens, hash)
		}
	}
	return nil
}

// memoryCache is an in-memory CacheRepository for tests. Expirations are
// ignored; tests control contents directly.
type memoryCache struct {
	mu      sync.RWMutex
	data    map[string][]byte
	getErr  error
	setErr  error
	gets    int
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	data, ok := c.data[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return data, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// fixture bundles the repos and services most tests need.
type fixture struct {
	userRepo       *memoryUserRepo
	medicationRepo *memoryMedicationRepo
	policy         config.ScheduleConfig
	owner          *entities.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	owner := &entities.User{
		ID:       uuid.New(),
		Email:    "dana@example.com",
		Username: "dana",
		IsActive: true,
	}

	userRepo := newMemoryUserRepo()
	if err := userRepo.Create(context.Background(), owner); err != nil {
		t.Fatalf("seeding owner: %v", err)
	}

	return &fixture{
		userRepo:       userRepo,
		medicationRepo: newMemoryMedicationRepo(),
		policy: config.ScheduleConfig{
			RefillHorizonDays:  7,
			DefaultMissingTime: true,
			DashboardCacheTTL:  30 * time.Second,
		},
		owner: owner,
	}
}

func (f *fixture) scheduleService() *services.ScheduleService {
	return services.NewScheduleService(f.medicationRepo, f.userRepo, f.policy, logger.NewNop())
}

func (f *fixture) refillService() *services.RefillService {
	return services.NewRefillService(f.medicationRepo, f.userRepo, f.policy, logger.NewNop())
}

func (f *fixture) dashboardService(cache ports.CacheRepository) *services.DashboardService {
	return services.NewDashboardService(f.scheduleService(), cache, f.policy, logger.NewNop())
}

func (f *fixture) medicationService() *services.MedicationService {
	return services.NewMedicationService(f.medicationRepo, f.userRepo, logger.NewNop())
}

func (f *fixture) authService(authRepo ports.AuthRepository) *services.AuthService {
	jwtConfig := config.JWTConfig{
		Secret:           "test-secret",
		ExpiresIn:        time.Hour,
		RefreshExpiresIn: 24 * time.Hour,
		Issuer:           "medtrack-test",
	}
	return services.NewAuthService(f.userRepo, authRepo, jwtConfig, logger.NewNop())
}

// addMedication seeds an active medication with the given intake times and
// day restriction. An empty days list means every day.
func (f *fixture) addMedication(t *testing.T, name string, times []string, days []time.Weekday) *entities.Medication {
	t.Helper()

	medication := &entities.Medication{
		ID:      uuid.New(),
		OwnerID: f.owner.ID,
		Name:    name,
		Urgency: entities.UrgencyRoutine,
		Active:  true,
	}
	for _, value := range times {
		tod, err := entities.ParseTimeOfDay(value)
		if err != nil {
			t.Fatalf("parse intake time %q: %v", value, err)
		}
		if err := medication.AddIntakeTime(tod); err != nil {
			t.Fatalf("add intake time %q: %v", value, err)
		}
	}
	medication.DaysOfWeek = days

	if err := f.medicationRepo.Create(context.Background(), medication); err != nil {
		t.Fatalf("seeding medication: %v", err)
	}
	return medication
}

// mustParseTime is a shorthand for tests that compare entry times.
func mustParseTime(t *testing.T, value string) entities.TimeOfDay {
	t.Helper()
	tod, err := entities.ParseTimeOfDay(value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return tod
}

var errRepoDown = errors.New("repository unavailable")
