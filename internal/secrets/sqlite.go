package secrets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkalnina/notedrop/internal/cryptox"
	"github.com/dkalnina/notedrop/internal/dbx"
)

// VaultStore is a Store backed by the local sqlite database. Values are
// encrypted at rest with AES-GCM under a key derived from the installation
// keyfile; the per-value nonce is stored alongside the ciphertext.
type VaultStore struct {
	db  dbx.DBTX
	key []byte
}

// NewVaultStore returns a VaultStore bound to the given DBTX and vault key.
func NewVaultStore(db dbx.DBTX, key []byte) *VaultStore {
	return &VaultStore{db: db, key: key}
}

func (s *VaultStore) Get(ctx context.Context, service, account string) ([]byte, error) {
	var value, nonce []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value, nonce FROM secrets WHERE service = ? AND account = ?`,
		service, account).Scan(&value, &nonce)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get secret[%s/%s]: %w", service, account, err)
	}

	plain, err := cryptox.Decrypt(value, nonce, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt secret[%s/%s]: %w", service, account, err)
	}
	return plain, nil
}

func (s *VaultStore) Set(ctx context.Context, service, account string, value []byte) error {
	ct, nonce, err := cryptox.Encrypt(value, s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt secret[%s/%s]: %w", service, account, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO secrets (service, account, value, nonce) VALUES (?, ?, ?, ?)
		ON CONFLICT(service, account) DO UPDATE SET value = excluded.value, nonce = excluded.nonce
	`, service, account, ct, nonce)
	if err != nil {
		return fmt.Errorf("failed to set secret[%s/%s]: %w", service, account, err)
	}
	return nil
}

func (s *VaultStore) Delete(ctx context.Context, service, account string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM secrets WHERE service = ? AND account = ?`, service, account)
	if err != nil {
		return fmt.Errorf("failed to delete secret[%s/%s]: %w", service, account, err)
	}
	return nil
}

func (s *VaultStore) Clear(ctx context.Context, service string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM secrets WHERE service = ?`, service)
	if err != nil {
		return fmt.Errorf("failed to clear secrets[%s]: %w", service, err)
	}
	return nil
}
