package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-auth-client/credentials"
	"github.com/jrsteele09/go-auth-client/identitytoolkit"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/internal/identitytest"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) (*app, *identitytest.Backend, string) {
	t.Helper()

	backend := identitytest.NewBackend(t)
	credsFile := filepath.Join(t.TempDir(), "credentials.json")
	t.Setenv("FIREBASE_API_KEY", "test-api-key")
	t.Setenv("AUTH_EMULATOR_HOST", "")
	t.Setenv("IDENTITY_ENDPOINT", backend.IdentityURL())
	t.Setenv("TOKEN_ENDPOINT", backend.TokenURL())
	t.Setenv("CREDENTIALS_STORE", "file")
	t.Setenv("CREDENTIALS_FILE", credsFile)

	a, err := newApp(context.Background(), config.New())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a, backend, credsFile
}

func TestSignInThenSignOutCommands(t *testing.T) {
	a, backend, credsFile := setupTestApp(t)
	backend.OK(identitytoolkit.OpSignInWithPassword, identitytest.TokenPair("T1", "R1", "3600"))
	backend.OK(identitytoolkit.OpLookup, map[string]any{"users": []map[string]any{{"localId": "u1", "email": "a@x.com"}}})

	require.NoError(t, commands["signin"].run(context.Background(), a, []string{"a@x.com", "pw"}))

	creds, ok := credentials.TryLoad(context.Background(), credentials.NewFileStore(credsFile))
	require.True(t, ok)
	require.Equal(t, "T1", creds.AccessToken)

	require.NoError(t, commands["signout"].run(context.Background(), a, nil))
	_, ok = credentials.TryLoad(context.Background(), credentials.NewFileStore(credsFile))
	require.False(t, ok)
}

func TestSignInCommandArguments(t *testing.T) {
	a, _, _ := setupTestApp(t)
	require.Error(t, commands["signin"].run(context.Background(), a, []string{"only-email"}))
	require.Error(t, commands["signup"].run(context.Background(), a, []string{"only-email"}))
	require.Error(t, commands["update"].run(context.Background(), a, nil))
}

func TestNewAppRequiresAPIKey(t *testing.T) {
	t.Setenv("FIREBASE_API_KEY", "")
	_, err := newApp(context.Background(), config.New())
	require.Error(t, err)
}

func TestNewAppRejectsUnknownStore(t *testing.T) {
	t.Setenv("FIREBASE_API_KEY", "k")
	t.Setenv("CREDENTIALS_STORE", "carrier-pigeon")
	_, err := newApp(context.Background(), config.New())
	require.Error(t, err)
}

func TestCommandOrderCoversCommands(t *testing.T) {
	require.Len(t, commandOrder, len(commands))
	for _, name := range commandOrder {
		require.Contains(t, commands, name)
	}
}

func TestExitCode(t *testing.T) {
	require.Equal(t, 0, exitCode(nil))
	require.Equal(t, 1, exitCode(errors.New("boom")))
	require.Equal(t, 130, exitCode(fmt.Errorf("signin: %w", context.Canceled)))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]string{"uid": "u1"}))
	require.JSONEq(t, `{"uid":"u1"}`, buf.String())
}
