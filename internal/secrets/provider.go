package secrets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/singleflight"
)

// service is the vault service component of every key this provider owns.
const service = "notedrop"

// AcquireFunc collects a missing secret from the user (or any other source).
// It runs at most once per in-flight acquisition of a given name.
type AcquireFunc func(ctx context.Context, name string) (string, error)

// Provider resolves named secrets. Lookup order is environment override
// first, then the backing store. Resolution never blocks on user input.
type Provider struct {
	store Store
	group singleflight.Group

	// lookupEnv is a seam for tests; defaults to os.LookupEnv.
	lookupEnv func(string) (string, bool)
}

func NewProvider(store Store, opts ...ProviderOption) *Provider {
	p := &Provider{store: store, lookupEnv: os.LookupEnv}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type ProviderOption func(*Provider)

// WithEnvLookup replaces the environment lookup function. Used by tests.
func WithEnvLookup(fn func(string) (string, bool)) ProviderOption {
	return func(p *Provider) { p.lookupEnv = fn }
}

// Resolve returns the value of the named secret and whether it is present.
// Absence is not an error; an error indicates the store itself failed.
func (p *Provider) Resolve(ctx context.Context, name string) (string, bool, error) {
	envName, ok := envOverrides[name]
	if !ok {
		return "", false, fmt.Errorf("%w: %s", ErrUnknownSecret, name)
	}

	if v, ok := p.lookupEnv(envName); ok && v != "" {
		return v, true, nil
	}

	raw, err := p.store.Get(ctx, service, name)
	if err != nil {
		return "", false, fmt.Errorf("resolve %s: %w", name, err)
	}
	if raw == nil {
		return "", false, nil
	}
	return string(raw), true, nil
}

// Acquire resolves the named secret, invoking fn to collect it on a miss and
// persisting the collected value (write-through: later Resolve calls return
// it without prompting). Concurrent acquisitions of the same name are
// coalesced so fn runs at most once per missing secret.
func (p *Provider) Acquire(ctx context.Context, name string, fn AcquireFunc) (string, error) {
	v, err, _ := p.group.Do(name, func() (any, error) {
		value, present, err := p.Resolve(ctx, name)
		if err != nil {
			return "", err
		}
		if present {
			return value, nil
		}

		value, err = fn(ctx, name)
		if err != nil {
			return "", fmt.Errorf("acquire %s: %w", name, err)
		}

		if err := p.store.Set(ctx, service, name, []byte(value)); err != nil {
			return "", fmt.Errorf("persist %s: %w", name, err)
		}
		return value, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Forget removes the named secret from the store. Environment overrides are
// unaffected.
func (p *Provider) Forget(ctx context.Context, name string) error {
	if _, ok := envOverrides[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSecret, name)
	}
	return p.store.Delete(ctx, service, name)
}

// ForgetAll wipes every stored secret. Environment overrides are unaffected.
func (p *Provider) ForgetAll(ctx context.Context) error {
	return p.store.Clear(ctx, service)
}
