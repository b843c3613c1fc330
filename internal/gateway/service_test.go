package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"wayne-chat/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeLLM struct {
	mu        sync.Mutex
	prompts   []string
	maxTokens []int

	response string
	err      error
}

func (m *fakeLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var opts llms.CallOptions
	for _, opt := range options {
		opt(&opts)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				m.prompts = append(m.prompts, text.Text)
			}
		}
	}
	m.maxTokens = append(m.maxTokens, opts.MaxTokens)

	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.response}}}, nil
}

func (m *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func newTestServer(t *testing.T, llm *fakeLLM) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(NewRouter(NewChatService(llm, 0), 5*time.Second))
	t.Cleanup(server.Close)
	return server
}

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://chat.example.com")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func TestChatAnswers(t *testing.T) {
	llm := &fakeLLM{response: "Hello!"}
	server := newTestServer(t, llm)

	for _, path := range []string{"/", "/api/chat"} {
		res := post(t, server.URL+path, api.ChatRequest{Prompt: "hi", Language: "en", ChatID: "c1"})
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))

		var body api.ChatResponse
		require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
		assert.Equal(t, "Hello!", body.Response)
	}

	assert.Equal(t, []string{"hi", "hi"}, llm.prompts)
	assert.Equal(t, []int{DefaultMaxTokens, DefaultMaxTokens}, llm.maxTokens)
}

func TestChatMyanmarPrefix(t *testing.T) {
	llm := &fakeLLM{response: "မင်္ဂလာပါ"}
	server := newTestServer(t, llm)

	res := post(t, server.URL+"/api/chat", api.ChatRequest{Prompt: "hello", Language: "my", ChatID: "c1"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, []string{"မြန်မာဘာသာဖြင့်ဖြေပါ: hello"}, llm.prompts)
}

func TestChatModelFailure(t *testing.T) {
	for name, llm := range map[string]*fakeLLM{
		"error": {err: errors.New("model overloaded")},
		"empty": {response: "  "},
	} {
		t.Run(name, func(t *testing.T) {
			server := newTestServer(t, llm)

			res := post(t, server.URL+"/api/chat", api.ChatRequest{Prompt: "hi", Language: "en"})
			assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
			assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))

			var body api.ErrorResponse
			require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
			assert.Equal(t, temporaryProblem, body.Error)
			assert.NotEmpty(t, body.Details)
		})
	}
}

func TestChatBadRequest(t *testing.T) {
	llm := &fakeLLM{response: "unused"}
	server := newTestServer(t, llm)

	res := post(t, server.URL+"/api/chat", api.ChatRequest{Prompt: "   ", Language: "en"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/api/chat", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)

	assert.Empty(t, llm.prompts)
}

func TestPreflight(t *testing.T) {
	server := newTestServer(t, &fakeLLM{})

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/chat", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://chat.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Contains(t, []int{http.StatusOK, http.StatusNoContent}, res.StatusCode)
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, res.Header.Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, res.Header.Get("Access-Control-Allow-Headers"), "Content-Type")

	var buf bytes.Buffer
	_, err = buf.ReadFrom(res.Body)
	require.NoError(t, err)
	assert.Empty(t, buf.Bytes())
}

func TestCORSHeadersWithoutOrigin(t *testing.T) {
	server := newTestServer(t, &fakeLLM{response: "Hello!"})

	data, err := json.Marshal(api.ChatRequest{Prompt: "hi", Language: "en"})
	require.NoError(t, err)
	res, err := http.Post(server.URL+"/api/chat", "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", res.Header.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", res.Header.Get("Access-Control-Allow-Headers"))
}

func TestBareOptionsRequest(t *testing.T) {
	server := newTestServer(t, &fakeLLM{})

	for _, headers := range []map[string]string{
		{},
		{"Origin": "https://chat.example.com", "Access-Control-Request-Method": "POST"},
	} {
		req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/chat", nil)
		require.NoError(t, err)
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		res.Body.Close()

		assert.Contains(t, []int{http.StatusOK, http.StatusNoContent}, res.StatusCode)
		assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
		assert.Contains(t, res.Header.Get("Access-Control-Allow-Methods"), "POST")
		assert.Equal(t, "Content-Type", res.Header.Get("Access-Control-Allow-Headers"))
	}
}
