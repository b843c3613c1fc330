package storage

import (
	"path/filepath"
	"testing"

	"wayne-chat/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProviders(t *testing.T) map[string]Provider {
	t.Helper()

	local, err := NewLocalProvider(filepath.Join(t.TempDir(), "kv"))
	require.NoError(t, err)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	pebble, err := NewPebbleProvider(filepath.Join(t.TempDir(), "pebble"))
	require.NoError(t, err)

	providers := map[string]Provider{
		BackendMemory: NewMemoryProvider(),
		BackendLocal:  local,
		BackendSQLite: NewSQLProvider(db),
		BackendPebble: pebble,
	}
	t.Cleanup(func() {
		for _, p := range providers {
			p.Close()
		}
	})
	return providers
}

func TestProviderContract(t *testing.T) {
	for name, provider := range testProviders(t) {
		t.Run(name, func(t *testing.T) {
			_, err := provider.Get("missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, provider.Put("wayneAI_chatHistory", []byte(`{"a":1}`)))
			value, err := provider.Get("wayneAI_chatHistory")
			require.NoError(t, err)
			assert.Equal(t, []byte(`{"a":1}`), value)

			require.NoError(t, provider.Put("wayneAI_chatHistory", []byte(`{"b":2}`)))
			value, err = provider.Get("wayneAI_chatHistory")
			require.NoError(t, err)
			assert.Equal(t, []byte(`{"b":2}`), value)

			require.NoError(t, provider.Delete("wayneAI_chatHistory"))
			_, err = provider.Get("wayneAI_chatHistory")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, provider.Delete("never-written"))
		})
	}
}

func TestLocalProviderEscapesKeys(t *testing.T) {
	dir := t.TempDir()
	provider, err := NewLocalProvider(dir)
	require.NoError(t, err)

	require.NoError(t, provider.Put("../outside", []byte("x")))
	value, err := provider.Get("../outside")
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), value)

	assert.NoFileExists(t, filepath.Join(filepath.Dir(dir), "outside"))
}

func TestOpenProviderUnknownBackend(t *testing.T) {
	_, err := OpenProvider("bigtable", t.TempDir())
	assert.Error(t, err)
}
