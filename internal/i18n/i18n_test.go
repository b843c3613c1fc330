package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageFallbacks(t *testing.T) {
	assert.Equal(t, "Sorry, an error occurred. Please try again later.", Message("en", APIError))
	assert.Equal(t, "တောင်းပန်ပါသည်။ အမှားတစ်ခုဖြစ်ပေါ်နေပါသည်။ နောက်မှပြန်ကြိုးစားပါ။", Message("my", APIError))
	assert.Equal(t, Message("en", InitialGreeting), Message("fr", InitialGreeting))
	assert.Equal(t, "unknownKey", Message("en", "unknownKey"))
}

func TestLocale(t *testing.T) {
	assert.Equal(t, LocaleMyanmar, Locale("my"))
	assert.Equal(t, LocaleEnglish, Locale("en"))
	assert.Equal(t, LocaleEnglish, Locale("th"))
}
