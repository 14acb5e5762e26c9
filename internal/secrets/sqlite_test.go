package secrets

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dkalnina/notedrop/internal/cryptox"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupVault(t *testing.T) (*VaultStore, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS secrets (
  service TEXT NOT NULL,
  account TEXT NOT NULL,
  value   BLOB NOT NULL,
  nonce   BLOB NOT NULL,
  PRIMARY KEY (service, account)
);
DELETE FROM secrets;
`)
	require.NoError(t, err)

	key, err := cryptox.LoadOrCreateKeyfile(filepath.Join(t.TempDir(), "vault.key"))
	require.NoError(t, err)

	return NewVaultStore(db, key), db
}

func TestVaultStore_SetGetRoundTrip(t *testing.T) {
	store, _ := setupVault(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "notedrop", NotionToken, []byte("secret-token")))

	got, err := store.Get(ctx, "notedrop", NotionToken)
	require.NoError(t, err)
	require.Equal(t, []byte("secret-token"), got)
}

func TestVaultStore_GetAbsentReturnsNil(t *testing.T) {
	store, _ := setupVault(t)

	got, err := store.Get(context.Background(), "notedrop", "nope")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestVaultStore_SetIsUpsert(t *testing.T) {
	store, _ := setupVault(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "notedrop", ImgurClientID, []byte("old")))
	require.NoError(t, store.Set(ctx, "notedrop", ImgurClientID, []byte("new")))

	got, err := store.Get(ctx, "notedrop", ImgurClientID)
	require.NoError(t, err)
	require.Equal(t, []byte("new"), got)
}

func TestVaultStore_ValuesEncryptedAtRest(t *testing.T) {
	store, db := setupVault(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "notedrop", NotionToken, []byte("plaintext-token")))

	var raw []byte
	require.NoError(t, db.QueryRow(
		`SELECT value FROM secrets WHERE service='notedrop' AND account=?`, NotionToken).Scan(&raw))
	require.NotContains(t, string(raw), "plaintext-token")
}

func TestVaultStore_Delete(t *testing.T) {
	store, _ := setupVault(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "notedrop", NotionDatabaseID, []byte("db-id")))
	require.NoError(t, store.Delete(ctx, "notedrop", NotionDatabaseID))

	got, err := store.Get(ctx, "notedrop", NotionDatabaseID)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestVaultStore_Clear(t *testing.T) {
	store, _ := setupVault(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "notedrop", NotionToken, []byte("a")))
	require.NoError(t, store.Set(ctx, "notedrop", ImgurClientID, []byte("b")))
	require.NoError(t, store.Set(ctx, "other", "account", []byte("c")))

	require.NoError(t, store.Clear(ctx, "notedrop"))

	v, err := store.Get(ctx, "notedrop", NotionToken)
	require.NoError(t, err)
	require.Nil(t, v)

	// other services are untouched
	v, err = store.Get(ctx, "other", "account")
	require.NoError(t, err)
	require.Equal(t, []byte("c"), v)
}
