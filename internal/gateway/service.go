package gateway

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"wayne-chat/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tmc/langchaingo/llms"
)

const (
	DefaultMaxTokens = 1000

	myanmarPromptPrefix = "မြန်မာဘာသာဖြင့်ဖြေပါ: "
	// sent as the error message when the model cannot answer
	temporaryProblem = "တောင်းပန်ပါသည်။ ယာယီပြဿနာရှိနေပါသည်။"
)

var ErrEmptyCompletion = errors.New("model returned an empty completion")

var requestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "wayne_gateway_requests_total",
		Help: "Chat requests handled by the gateway by result.",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(requestsTotal)
}

// ChatService answers chat requests with a language model.
type ChatService struct {
	llm       llms.Model
	maxTokens int
}

func NewChatService(llm llms.Model, maxTokens int) *ChatService {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &ChatService{llm: llm, maxTokens: maxTokens}
}

func (s *ChatService) AddRoutes(r chi.Router) {
	handler := RestHandler(s.Chat)
	r.Post("/", handler)
	r.Post("/api/chat", handler)
}

// Prompt returns the prompt sent to the model. Myanmar requests ask the model
// to answer in Myanmar.
func Prompt(req api.ChatRequest) string {
	if req.Language == api.LanguageMyanmar {
		return myanmarPromptPrefix + req.Prompt
	}
	return req.Prompt
}

func (s *ChatService) Chat(r *http.Request) (any, error) {
	req, err := ParseRequest[api.ChatRequest](r)
	if err != nil {
		requestsTotal.WithLabelValues("bad_request").Inc()
		return nil, err
	}
	if strings.TrimSpace(req.Prompt) == "" {
		requestsTotal.WithLabelValues("bad_request").Inc()
		return nil, CodedErrorf(http.StatusBadRequest, "prompt must not be empty")
	}

	start := time.Now()
	completion, err := llms.GenerateFromSinglePrompt(r.Context(), s.llm, Prompt(req), llms.WithMaxTokens(s.maxTokens))
	if err == nil && strings.TrimSpace(completion) == "" {
		err = ErrEmptyCompletion
	}
	if err != nil {
		requestsTotal.WithLabelValues("model_error").Inc()
		slog.Error("model request failed", "chat_id", req.ChatID, "language", req.Language, "error", err)
		return nil, CodedError(http.StatusInternalServerError, temporaryProblem, fmt.Errorf("error generating response: %w", err))
	}

	requestsTotal.WithLabelValues("success").Inc()
	slog.Info("chat request answered", "chat_id", req.ChatID, "language", req.Language, "duration", time.Since(start))
	return api.ChatResponse{Response: completion}, nil
}

// allowAnyOrigin sets the CORS headers on every response, including requests
// that carry no Origin and bare OPTIONS requests, which it answers itself.
// The cors handler behind it only refines real preflights.
func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NewRouter builds the gateway's HTTP handler. Any origin may call it; the
// preflight allows POST with a JSON body.
func NewRouter(service *ChatService, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(allowAnyOrigin)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	service.AddRoutes(r)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
