package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bnema/devicepool-cli/internal/domain"
	"github.com/bnema/devicepool-cli/internal/ports"
	"github.com/bnema/devicepool-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySecrets struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemorySecrets(initial map[string]string) *memorySecrets {
	values := map[string]string{}
	for k, v := range initial {
		values[k] = v
	}
	return &memorySecrets{values: values}
}

func (m *memorySecrets) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return "", domain.ErrSecretNotFound
	}
	return value, nil
}

func (m *memorySecrets) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memorySecrets) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memorySecrets) stored() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[SessionTokenKey]
	return value, ok
}

func waitClosed(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("channel was not closed")
	}
}

func TestSessionServiceInitWithoutStoredToken(t *testing.T) {
	remote := mocks.NewMockRemoteService(t)
	service := NewSessionService(remote, NewSessionStore(newMemorySecrets(nil)))

	waitClosed(t, service.Init(context.Background()))
	assert.False(t, service.IsAuthenticated())
	assert.Empty(t, service.Token())
}

func TestSessionServiceInitExposesTokenBeforeValidationSettles(t *testing.T) {
	remote := mocks.NewMockRemoteService(t)
	secrets := newMemorySecrets(map[string]string{SessionTokenKey: "persisted"})
	service := NewSessionService(remote, NewSessionStore(secrets))

	release := make(chan struct{})
	remote.EXPECT().ValidateToken(mockAnyContext()).
		Run(func(context.Context) { <-release }).
		Return(ports.TokenValidation{Valid: true}).Once()

	done := service.Init(context.Background())
	assert.True(t, service.IsAuthenticated())
	assert.Equal(t, "persisted", service.Token())

	close(release)
	waitClosed(t, done)
	assert.True(t, service.IsAuthenticated())
}

func TestSessionServiceInitClearsRejectedToken(t *testing.T) {
	remote := mocks.NewMockRemoteService(t)
	secrets := newMemorySecrets(map[string]string{SessionTokenKey: "expired"})
	service := NewSessionService(remote, NewSessionStore(secrets))
	updates := service.Subscribe()

	remote.EXPECT().ValidateToken(mockAnyContext()).Return(ports.TokenValidation{Valid: false}).Once()

	waitClosed(t, service.Init(context.Background()))
	assert.False(t, service.IsAuthenticated())
	_, ok := secrets.stored()
	assert.False(t, ok)

	// Only the latest change is buffered.
	assert.False(t, <-updates)
}

func TestSessionServiceInitRunsOnce(t *testing.T) {
	remote := mocks.NewMockRemoteService(t)
	secrets := newMemorySecrets(map[string]string{SessionTokenKey: "persisted"})
	service := NewSessionService(remote, NewSessionStore(secrets))

	remote.EXPECT().ValidateToken(mockAnyContext()).Return(ports.TokenValidation{Valid: true}).Once()

	first := service.Init(context.Background())
	second := service.Init(context.Background())
	assert.Equal(t, first, second)
	waitClosed(t, first)
}

func TestSessionServiceValidationDoesNotClearNewerLogin(t *testing.T) {
	remote := mocks.NewMockRemoteService(t)
	secrets := newMemorySecrets(map[string]string{SessionTokenKey: "expired"})
	service := NewSessionService(remote, NewSessionStore(secrets))

	release := make(chan struct{})
	remote.EXPECT().ValidateToken(mockAnyContext()).
		Run(func(context.Context) { <-release }).
		Return(ports.TokenValidation{Valid: false}).Once()
	remote.EXPECT().Login(mockAnyContext(), "alice", "pw").
		Return(ports.LoginResult{Success: true, Token: "fresh"}).Once()

	done := service.Init(context.Background())
	require.True(t, service.Login(context.Background(), "alice", "pw"))
	close(release)
	waitClosed(t, done)

	assert.Equal(t, "fresh", service.Token())
	stored, _ := secrets.stored()
	assert.Equal(t, "fresh", stored)
}

func TestSessionServiceLoginSuccessPersistsToken(t *testing.T) {
	remote := mocks.NewMockRemoteService(t)
	secrets := newMemorySecrets(nil)
	service := NewSessionService(remote, NewSessionStore(secrets))
	updates := service.Subscribe()

	remote.EXPECT().Login(mockAnyContext(), "alice", "pw").
		Return(ports.LoginResult{Success: true, Token: "tok-1"}).Once()

	require.True(t, service.Login(context.Background(), "alice", "pw"))
	assert.True(t, service.IsAuthenticated())
	assert.Equal(t, domain.Session{Token: "tok-1"}, service.Session())
	stored, _ := secrets.stored()
	assert.Equal(t, "tok-1", stored)
	assert.True(t, <-updates)
}

func TestSessionServiceLoginFailureStaysUnauthenticated(t *testing.T) {
	tests := []struct {
		name    string
		result  ports.LoginResult
		message string
	}{
		{name: "rejected", result: ports.LoginResult{Message: "Invalid credentials"}, message: "Invalid credentials"},
		{name: "success without token", result: ports.LoginResult{Success: true}, message: "Login failed"},
		{name: "network", result: ports.LoginResult{Message: "Network error: refused"}, message: "Network error: refused"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			remote := mocks.NewMockRemoteService(t)
			secrets := newMemorySecrets(nil)
			service := NewSessionService(remote, NewSessionStore(secrets))

			remote.EXPECT().Login(mockAnyContext(), "alice", "bad").Return(tc.result).Once()

			assert.False(t, service.Login(context.Background(), "alice", "bad"))
			assert.False(t, service.IsAuthenticated())
			assert.Equal(t, tc.message, service.LastLoginMessage())
			_, ok := secrets.stored()
			assert.False(t, ok)
		})
	}
}

func TestSessionServiceLogoutClearsStoreWithoutRemoteCall(t *testing.T) {
	remote := mocks.NewMockRemoteService(t)
	secrets := newMemorySecrets(nil)
	service := NewSessionService(remote, NewSessionStore(secrets))

	remote.EXPECT().Login(mockAnyContext(), "alice", "pw").
		Return(ports.LoginResult{Success: true, Token: "tok-1"}).Once()
	require.True(t, service.Login(context.Background(), "alice", "pw"))

	require.NoError(t, service.Logout(context.Background()))
	assert.False(t, service.IsAuthenticated())
	_, ok := secrets.stored()
	assert.False(t, ok)
}
