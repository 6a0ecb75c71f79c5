package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/devicepool-cli/internal/domain"
	"github.com/bnema/devicepool-cli/internal/ports"
)

const SessionTokenKey = "devicepool/session/auth_token"

// SessionStore persists the bearer token under a single well-known key.
type SessionStore struct {
	secrets ports.SecretStore
}

func NewSessionStore(secrets ports.SecretStore) *SessionStore {
	return &SessionStore{secrets: secrets}
}

// Get returns the stored token, or "" when none is stored.
func (s *SessionStore) Get(ctx context.Context) (string, error) {
	token, err := s.secrets.Get(ctx, SessionTokenKey)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("read session token: %w", err)
	}

	return token, nil
}

func (s *SessionStore) Set(ctx context.Context, token string) error {
	if err := s.secrets.Put(ctx, SessionTokenKey, token); err != nil {
		return fmt.Errorf("store session token: %w", err)
	}

	return nil
}

func (s *SessionStore) Remove(ctx context.Context) error {
	if err := s.secrets.Delete(ctx, SessionTokenKey); err != nil {
		return fmt.Errorf("remove session token: %w", err)
	}

	return nil
}
