package preferences

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"wayne-chat/internal/storage"
)

const (
	KeyLanguage      = "language"
	KeyVoiceResponse = "voiceResponse"
	KeyTheme         = "theme"
	KeySaveHistory   = "saveHistory"
)

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

type Preferences struct {
	Language      string
	VoiceResponse bool
	Theme         string
	SaveHistory   bool
}

func Defaults() Preferences {
	return Preferences{
		Language:      "my",
		VoiceResponse: false,
		Theme:         ThemeLight,
		SaveHistory:   true,
	}
}

// Store persists each preference under its own key as a plain string.
type Store struct {
	kv *storage.Store
}

func NewStore(kv *storage.Store) *Store {
	return &Store{kv: kv}
}

// Load reads every preference, writing the default for any key that is
// missing or unusable so that later reads see a concrete value.
func (s *Store) Load() Preferences {
	defaults := Defaults()
	prefs := defaults

	prefs.Language = s.readOrInit(KeyLanguage, defaults.Language)
	prefs.VoiceResponse = s.readBool(KeyVoiceResponse, defaults.VoiceResponse)
	if v := s.readOrInit(KeyTheme, defaults.Theme); validTheme(v) {
		prefs.Theme = v
	}
	prefs.SaveHistory = s.readBool(KeySaveHistory, defaults.SaveHistory)

	return prefs
}

func (s *Store) readOrInit(key, fallback string) string {
	v, err := s.kv.LookupString(key)
	if err == nil && v != "" {
		return v
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		// keep whatever is stored, it may be readable next time
		slog.Warn("unable to read preference, using default", "key", key, "error", err)
		return fallback
	}
	if err := s.kv.WriteString(key, fallback); err != nil {
		slog.Warn("unable to persist default preference", "key", key, "error", err)
	}
	return fallback
}

func (s *Store) readBool(key string, fallback bool) bool {
	v := s.readOrInit(key, strconv.FormatBool(fallback))
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean preference, using default", "key", key, "value", v)
		return fallback
	}
	return b
}

func (s *Store) SetLanguage(prefs *Preferences, language string) error {
	if language == "" {
		return fmt.Errorf("language must not be empty")
	}
	if err := s.kv.WriteString(KeyLanguage, language); err != nil {
		return err
	}
	prefs.Language = language
	return nil
}

func (s *Store) SetVoiceResponse(prefs *Preferences, enabled bool) error {
	if err := s.kv.WriteString(KeyVoiceResponse, strconv.FormatBool(enabled)); err != nil {
		return err
	}
	prefs.VoiceResponse = enabled
	return nil
}

func (s *Store) SetTheme(prefs *Preferences, theme string) error {
	if !validTheme(theme) {
		return fmt.Errorf("invalid theme '%s'", theme)
	}
	if err := s.kv.WriteString(KeyTheme, theme); err != nil {
		return err
	}
	prefs.Theme = theme
	return nil
}

func (s *Store) SetSaveHistory(prefs *Preferences, enabled bool) error {
	if err := s.kv.WriteString(KeySaveHistory, strconv.FormatBool(enabled)); err != nil {
		return err
	}
	prefs.SaveHistory = enabled
	return nil
}

func validTheme(theme string) bool {
	switch theme {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// ToggledTheme flips between light and dark. The system theme toggles to dark.
func ToggledTheme(theme string) string {
	if theme == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
