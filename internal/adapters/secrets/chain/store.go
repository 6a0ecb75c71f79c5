package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/devicepool-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/devicepool-cli/internal/adapters/secrets/pass"
	"github.com/bnema/devicepool-cli/internal/domain"
	"github.com/bnema/devicepool-cli/internal/ports"
	"github.com/rs/zerolog/log"
)

// Store writes to primary and falls back to the second backend when primary
// fails. Deletes always hit both backends so a token written while primary
// was down cannot outlive a logout. A token found only in the fallback while
// primary is healthy is moved into primary on read.
type Store struct {
	primary  ports.SecretStore
	fallback ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary secret store is nil")
	errNilFallbackStore = errors.New("fallback secret store is nil")
)

func NewStore(primary ports.SecretStore, fallback ports.SecretStore) *Store {
	store, err := NewStoreChecked(primary, fallback)
	if err != nil {
		panic(err)
	}

	return store
}

func NewStoreChecked(primary ports.SecretStore, fallback ports.SecretStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

// NewPassFirstWithFileFallback keeps tokens in pass, or in 0600 files below
// fileRoot while pass is not usable.
func NewPassFirstWithFileFallback(fileRoot string, passOpts ...passstore.Option) (*Store, error) {
	return NewStoreChecked(passstore.NewStore(passOpts...), filestore.NewStore(fileRoot))
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	err := s.primary.Put(ctx, key, value)
	if err == nil {
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}
	log.Warn().Err(err).Str("key", key).Msg("primary secret backend unavailable, storing secret in file fallback")

	fallbackErr := s.fallback.Put(ctx, key, value)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary backend put failed: %w; fallback backend put failed: %w", err, fallbackErr)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.primary.Get(ctx, key)
	if err == nil {
		return value, nil
	}
	if shouldSkipFallback(err) {
		return "", err
	}

	fallbackValue, fallbackErr := s.fallback.Get(ctx, key)
	if fallbackErr != nil {
		return "", fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
	}

	// A plain miss means primary works; the fallback copy predates it.
	if errors.Is(err, domain.ErrSecretNotFound) {
		s.promote(ctx, key, fallbackValue)
	}

	return fallbackValue, nil
}

func (s *Store) promote(ctx context.Context, key string, value string) {
	if err := s.primary.Put(ctx, key, value); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("promote secret to primary backend failed")
		return
	}
	if err := s.fallback.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("remove promoted secret from fallback failed")
		return
	}

	log.Info().Str("key", key).Msg("moved secret from file fallback to primary backend")
}

func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.primary.Delete(ctx, key)
	if shouldSkipFallback(err) {
		return err
	}
	if errors.Is(err, passstore.ErrUnavailable) {
		err = nil
	}

	fallbackErr := s.fallback.Delete(ctx, key)
	switch {
	case err != nil && fallbackErr != nil:
		return fmt.Errorf("primary backend delete failed: %w; fallback backend delete failed: %w", err, fallbackErr)
	case err != nil:
		return fmt.Errorf("primary backend delete failed: %w", err)
	case fallbackErr != nil:
		return fmt.Errorf("fallback backend delete failed: %w", fallbackErr)
	}

	return nil
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
