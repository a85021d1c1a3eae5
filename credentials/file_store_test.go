package credentials_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-auth-client/credentials"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))

	require.NoError(t, store.Save(ctx, fullCredentials()))

	creds, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, fullCredentials(), creds)

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreRoundTripKeepsSubSecondExpiry(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))

	saved := fullCredentials()
	saved.TokenExpiry = time.Unix(1760000000, 123456789)
	require.NoError(t, store.Save(ctx, saved))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, saved.TokenExpiry.UnixNano(), loaded.TokenExpiry.UnixNano())
	require.Equal(t, saved, loaded)
}

func TestFileStoreClearedThenLoadedIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))

	require.NoError(t, store.Save(ctx, fullCredentials()))
	require.NoError(t, store.Save(ctx, credentials.Credentials{}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(data))

	creds, ok := credentials.TryLoad(ctx, store)
	require.False(t, ok)
	require.True(t, creds.IsEmpty())
}

func TestFileStoreMissingFile(t *testing.T) {
	store := credentials.NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, credentials.ErrNotFound)
}

func TestFileStoreReadsPlainJSONWrittenElsewhere(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	raw := `{"access_token": "T1", "refresh_token": "R1", "token_expiry": 1700003600.0}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	creds, ok := credentials.TryLoad(context.Background(), credentials.NewFileStore(path))
	require.True(t, ok)
	require.Equal(t, fullCredentials(), creds)
}

func TestFileStoreDefaultPath(t *testing.T) {
	require.Equal(t, credentials.DefaultFile, credentials.NewFileStore("").Path())
}
