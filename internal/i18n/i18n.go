package i18n

const (
	TypingIndicator     = "typingIndicator"
	TurnOnVoice         = "turnOnVoice"
	TurnOffVoice        = "turnOffVoice"
	ClearHistoryConfirm = "clearHistoryConfirm"
	InitialGreeting     = "initialGreeting"
	APIError            = "apiError"
	NewChat             = "newChat"
	NoHistory           = "noHistory"
	VoiceOn             = "voiceOn"
	VoiceOff            = "voiceOff"
	ReplyPending        = "replyPending"
)

const (
	LocaleMyanmar = "my-MM"
	LocaleEnglish = "en-US"
)

var messages = map[string]map[string]string{
	TypingIndicator: {
		"my": "WAYNE AI စာရိုက်နေသည်...",
		"en": "WAYNE AI is typing...",
	},
	TurnOnVoice: {
		"my": "အသံဖွင့်ရန်",
		"en": "Turn on voice",
	},
	TurnOffVoice: {
		"my": "အသံပိတ်ရန်",
		"en": "Turn off voice",
	},
	ClearHistoryConfirm: {
		"my": "စာရင်းအားလုံးကို ဖျက်မှာသေချာပါသလား?",
		"en": "Are you sure you want to clear all history?",
	},
	InitialGreeting: {
		"my": "မင်္ဂလာပါ! WAYNE AI မှ ကြိုဆိုပါတယ်။ ကျွန်ုပ်ကို ဘာတွေ မေးမြန်းချင်ပါသလဲ?",
		"en": "Hello! Welcome to WAYNE AI. How can I assist you today?",
	},
	APIError: {
		"my": "တောင်းပန်ပါသည်။ အမှားတစ်ခုဖြစ်ပေါ်နေပါသည်။ နောက်မှပြန်ကြိုးစားပါ။",
		"en": "Sorry, an error occurred. Please try again later.",
	},
	NewChat: {
		"my": "စကားဝိုင်းအသစ်",
		"en": "New Chat",
	},
	NoHistory: {
		"my": "မှတ်တမ်းမရှိသေးပါ",
		"en": "No conversations yet",
	},
	VoiceOn: {
		"my": "အသံဖြင့်ဖြေကြားမှု ဖွင့်ထားသည်",
		"en": "Voice responses on",
	},
	VoiceOff: {
		"my": "အသံဖြင့်ဖြေကြားမှု ပိတ်ထားသည်",
		"en": "Voice responses off",
	},
	ReplyPending: {
		"my": "လက်ရှိအဖြေကို စောင့်ပေးပါ။",
		"en": "Please wait for the current reply.",
	},
}

// Message returns the text for key in language, falling back to English and
// then to the key itself.
func Message(language, key string) string {
	translations, ok := messages[key]
	if !ok {
		return key
	}
	if text, ok := translations[language]; ok {
		return text
	}
	if text, ok := translations["en"]; ok {
		return text
	}
	return key
}

// Locale maps a language preference to a speech locale. Only Myanmar has a
// dedicated locale, everything else is spoken as English.
func Locale(language string) string {
	if language == "my" {
		return LocaleMyanmar
	}
	return LocaleEnglish
}
