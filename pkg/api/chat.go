package api

const (
	LanguageMyanmar = "my"
	LanguageEnglish = "en"
)

type ChatRequest struct {
	Prompt   string `json:"prompt"`
	Language string `json:"language"`
	ChatID   string `json:"chatId"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

// ErrorResponse is the body returned by the endpoint with a non-2xx status.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
