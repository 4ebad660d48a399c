package userauth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

// testConfig keeps argon2 at its floor parameters so every test login is
// cheap.
func testConfig() Config {
	cfg := defaultConfig()
	cfg.JWT.Secret = []byte("0123456789abcdef0123456789abcdef")
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	cfg.Password.BcryptCost = 10
	cfg.Login.Window = time.Minute
	return cfg
}

func newTestEngine(t *testing.T, mutate func(*Config)) (*Engine, *mockUserProvider, *miniredis.Miniredis) {
	t.Helper()

	mr, rdb := newTestRedis(t)
	cfg := testConfig()
	if mutate != nil {
		mutate(&cfg)
	}

	up := newMockProvider()
	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithUserProvider(up).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine, up, mr
}

func registerTestUser(t *testing.T, engine *Engine, username, pass string) *Account {
	t.Helper()

	account, err := engine.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: pass,
	})
	if err != nil {
		t.Fatalf("Register %s failed: %v", username, err)
	}
	return account
}

// mockUserProvider is an in-memory UserProvider. Lookups return copies so
// engine-side mutation cannot leak into the "database" without an update
// call, mirroring a real row mapper.
type mockUserProvider struct {
	mu       sync.Mutex
	seq      int
	accounts map[string]*Account

	failUpdateLoginTime bool
	zeroUpdateLoginTime bool
}

func newMockProvider() *mockUserProvider {
	return &mockUserProvider{accounts: make(map[string]*Account)}
}

func (m *mockUserProvider) add(a *Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		m.seq++
		a.ID = fmt.Sprintf("u%d", m.seq)
	}
	cp := *a
	m.accounts[a.ID] = &cp
}

func (m *mockUserProvider) setSuperuser(t *testing.T, id string) {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		t.Fatalf("no account %s to elevate", id)
	}
	a.IsSuperuser = true
}

func (m *mockUserProvider) get(id string) *Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil
	}
	cp := *a
	return &cp
}

func (m *mockUserProvider) GetByUsername(_ context.Context, username string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockUserProvider) GetByEmail(_ context.Context, email string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockUserProvider) GetByID(_ context.Context, id string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockUserProvider) Create(_ context.Context, input CreateAccountInput) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	a := &Account{
		ID:           fmt.Sprintf("u%d", m.seq),
		Username:     input.Username,
		Email:        input.Email,
		Avatar:       input.Avatar,
		PasswordHash: input.PasswordHash,
		Status:       AccountActive,
		CreatedAt:    time.Now().UTC(),
	}
	m.accounts[a.ID] = a
	cp := *a
	return &cp, nil
}

func (m *mockUserProvider) UpdateLoginTime(_ context.Context, id string, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdateLoginTime {
		return 0, fmt.Errorf("login time write refused")
	}
	if m.zeroUpdateLoginTime {
		return 0, nil
	}
	a, ok := m.accounts[id]
	if !ok {
		return 0, nil
	}
	a.LastLogin = at
	return 1, nil
}

func (m *mockUserProvider) UpdatePasswordHash(_ context.Context, id, hash string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return 0, nil
	}
	a.PasswordHash = hash
	return 1, nil
}

func (m *mockUserProvider) UpdateFlags(_ context.Context, id string, update FlagUpdate) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return 0, nil
	}
	if update.Status != nil {
		a.Status = *update.Status
	}
	if update.IsSuperuser != nil {
		a.IsSuperuser = *update.IsSuperuser
	}
	return 1, nil
}

func (m *mockUserProvider) UpdateInfo(_ context.Context, id string, update UserinfoUpdate) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return 0, nil
	}
	a.Username = update.Username
	a.Email = update.Email
	return 1, nil
}

func (m *mockUserProvider) UpdateAvatar(_ context.Context, id, avatar string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return 0, nil
	}
	a.Avatar = avatar
	return 1, nil
}

func (m *mockUserProvider) Delete(_ context.Context, id string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; !ok {
		return 0, nil
	}
	delete(m.accounts, id)
	return 1, nil
}
