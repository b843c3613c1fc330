package preferences

import (
	"errors"
	"testing"

	"wayne-chat/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaults(t *testing.T) {
	kv := storage.NewStore(storage.NewMemoryProvider())
	prefs := NewStore(kv).Load()

	assert.Equal(t, Defaults(), prefs)

	for key, want := range map[string]string{
		KeyLanguage:      "my",
		KeyVoiceResponse: "false",
		KeyTheme:         "light",
		KeySaveHistory:   "true",
	} {
		got, ok := kv.ReadString(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}
}

func TestLoadDefaultsEachKeyIndependently(t *testing.T) {
	kv := storage.NewStore(storage.NewMemoryProvider())
	require.NoError(t, kv.WriteString(KeyLanguage, "en"))
	require.NoError(t, kv.WriteString(KeyVoiceResponse, "not-a-bool"))
	require.NoError(t, kv.WriteString(KeyTheme, "neon"))

	prefs := NewStore(kv).Load()
	assert.Equal(t, "en", prefs.Language)
	assert.False(t, prefs.VoiceResponse)
	assert.Equal(t, ThemeLight, prefs.Theme)
	assert.True(t, prefs.SaveHistory)
}

func TestSettersPersist(t *testing.T) {
	kv := storage.NewStore(storage.NewMemoryProvider())
	store := NewStore(kv)
	prefs := store.Load()

	require.NoError(t, store.SetLanguage(&prefs, "en"))
	require.NoError(t, store.SetVoiceResponse(&prefs, true))
	require.NoError(t, store.SetTheme(&prefs, ThemeDark))
	require.NoError(t, store.SetSaveHistory(&prefs, false))

	assert.Error(t, store.SetTheme(&prefs, "neon"))
	assert.Error(t, store.SetLanguage(&prefs, ""))

	reloaded := NewStore(kv).Load()
	assert.Equal(t, prefs, reloaded)
	assert.Equal(t, Preferences{Language: "en", VoiceResponse: true, Theme: ThemeDark, SaveHistory: false}, reloaded)
}

func TestToggledTheme(t *testing.T) {
	assert.Equal(t, ThemeDark, ToggledTheme(ThemeLight))
	assert.Equal(t, ThemeLight, ToggledTheme(ThemeDark))
	assert.Equal(t, ThemeDark, ToggledTheme(ThemeSystem))
}

type unreadableProvider struct {
	storage.Provider
	failing bool
}

func (p *unreadableProvider) Get(key string) ([]byte, error) {
	if p.failing {
		return nil, errors.New("disk unavailable")
	}
	return p.Provider.Get(key)
}

func TestLoadKeepsStoredValuesWhenReadFails(t *testing.T) {
	provider := &unreadableProvider{Provider: storage.NewMemoryProvider()}
	kv := storage.NewStore(provider)
	require.NoError(t, kv.WriteString(KeyLanguage, "en"))
	require.NoError(t, kv.WriteString(KeyTheme, ThemeDark))

	provider.failing = true
	prefs := NewStore(kv).Load()
	assert.Equal(t, Defaults(), prefs)

	provider.failing = false
	prefs = NewStore(kv).Load()
	assert.Equal(t, "en", prefs.Language)
	assert.Equal(t, ThemeDark, prefs.Theme)
}
