package secrets

import "context"

// Store is the secret persistence boundary. Keys are (service, account)
// pairs; Get returns (nil, nil) for an absent key, Set is an upsert, and
// Clear removes every account under a service.
type Store interface {
	Get(ctx context.Context, service, account string) ([]byte, error)
	Set(ctx context.Context, service, account string, value []byte) error
	Delete(ctx context.Context, service, account string) error
	Clear(ctx context.Context, service string) error
}
