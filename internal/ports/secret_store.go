package ports

import "context"

// SecretStore persists small string secrets such as the session token. Get
// reports a missing key with an error wrapping domain.ErrSecretNotFound, and
// Delete of a missing key is not an error.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
