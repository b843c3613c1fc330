package terminal

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"wayne-chat/internal/history"
	"wayne-chat/internal/i18n"
	"wayne-chat/internal/preferences"
	"wayne-chat/internal/session"
	"wayne-chat/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoAsker struct{}

func (echoAsker) Ask(ctx context.Context, prompt, language, conversationID string) (string, error) {
	return "**echo** " + prompt, nil
}

type harness struct {
	controller *session.Controller
	renderer   *Renderer
	history    *history.Store
	prefs      *preferences.Store
	out        *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, echoAsker{})
}

func newHarnessWith(t *testing.T, asker session.Asker) *harness {
	t.Helper()

	kv := storage.NewStore(storage.NewMemoryProvider())
	prefStore := preferences.NewStore(kv)
	prefs := prefStore.Load()
	historyStore := history.NewStore(kv)

	out := &bytes.Buffer{}
	renderer := NewRenderer(out, prefs, nil)
	controller := session.NewController(historyStore, asker, prefStore, prefs, renderer.Handle, session.Options{
		GreetingDelay: time.Hour,
	})

	return &harness{controller: controller, renderer: renderer, history: historyStore, prefs: prefStore, out: out}
}

func (h *harness) run(t *testing.T, input string) string {
	t.Helper()
	require.NoError(t, NewREPL(h.controller, h.renderer, strings.NewReader(input)).Run(context.Background()))
	require.Eventually(t, func() bool {
		return h.controller.State() == session.Idle
	}, time.Second, time.Millisecond)
	h.controller.Close()
	h.renderer.Close()
	return h.out.String()
}

func TestREPLSubmitsPrompts(t *testing.T) {
	h := newHarness(t)
	id := h.controller.CurrentConversationID()

	out := h.run(t, "hello there\n")

	require.Eventually(t, func() bool { return len(h.history.Load(id)) == 2 }, time.Second, time.Millisecond)
	messages := h.history.Load(id)
	assert.Equal(t, "hello there", messages[0].Text)
	assert.Equal(t, "**echo** hello there", messages[1].Text)

	assert.Contains(t, out, "hello there")
	assert.Contains(t, out, "echo")
	assert.NotContains(t, out, "**echo**")
}

// heldAsker answers only after release is closed.
type heldAsker struct {
	release chan struct{}
}

func (a heldAsker) Ask(ctx context.Context, prompt, language, conversationID string) (string, error) {
	select {
	case <-a.release:
		return "done", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestREPLNoticesRejectedPrompt(t *testing.T) {
	asker := heldAsker{release: make(chan struct{})}
	h := newHarnessWith(t, asker)
	id := h.controller.CurrentConversationID()

	require.NoError(t, NewREPL(h.controller, h.renderer, strings.NewReader("first\nsecond\n")).Run(context.Background()))
	close(asker.release)
	require.Eventually(t, func() bool {
		return h.controller.State() == session.Idle
	}, time.Second, time.Millisecond)
	h.controller.Close()
	h.renderer.Close()

	assert.Contains(t, h.out.String(), i18n.Message("my", i18n.ReplyPending))
	var texts []string
	for _, msg := range h.history.Load(id) {
		texts = append(texts, msg.Text)
	}
	assert.Equal(t, []string{"first", "done"}, texts)
}

func TestREPLClearRequiresConfirmation(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.history.Append("old", history.Message{Sender: history.SenderUser, Text: "keep me", Timestamp: time.UnixMilli(1)}))

	out := h.run(t, "/clear\nno\n/list\n")
	assert.Len(t, h.history.List(), 1)
	assert.Contains(t, out, i18n.Message("my", i18n.ClearHistoryConfirm))
	assert.Contains(t, out, "keep me")

	h = newHarness(t)
	require.NoError(t, h.history.Append("old", history.Message{Sender: history.SenderUser, Text: "keep me", Timestamp: time.UnixMilli(1)}))
	h.run(t, "/clear\ny\n")
	assert.Empty(t, h.history.List())
}

func TestREPLOpenFromList(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.history.Append("a", history.Message{Sender: history.SenderUser, Text: "first chat", Timestamp: time.UnixMilli(1)}))
	require.NoError(t, h.history.Append("b", history.Message{Sender: history.SenderUser, Text: "second chat", Timestamp: time.UnixMilli(2)}))

	h.run(t, "/list\n/open 2\n")
	assert.Equal(t, "a", h.controller.CurrentConversationID())
}

func TestREPLOpenOutOfRange(t *testing.T) {
	h := newHarness(t)
	start := h.controller.CurrentConversationID()

	out := h.run(t, "/open 3\n")
	assert.Equal(t, start, h.controller.CurrentConversationID())
	assert.Contains(t, out, "no conversation 3")
}

func TestREPLPreferenceCommands(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "/lang en\n/voice\n/theme\n/save off\n/theme neon\n/bogus\n")

	assert.Equal(t, preferences.Preferences{
		Language:      "en",
		VoiceResponse: true,
		Theme:         preferences.ThemeDark,
		SaveHistory:   false,
	}, h.prefs.Load())
	assert.Contains(t, out, i18n.Message("en", i18n.VoiceOn))
	assert.Contains(t, out, "invalid theme 'neon'")
	assert.Contains(t, out, "unknown command '/bogus'")
}

func TestREPLQuitStopsReading(t *testing.T) {
	h := newHarness(t)
	id := h.controller.CurrentConversationID()

	h.run(t, "/quit\nnever sent\n")
	assert.Empty(t, h.history.Load(id))
}

func TestRendererShowsTranscriptOnSwitch(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRenderer(out, preferences.Defaults(), nil)

	r.Handle(session.Event{
		Kind:           session.EventConversationChanged,
		ConversationID: "chat-9",
		Transcript: []history.Message{
			{Sender: history.SenderUser, Text: "question", Timestamp: time.UnixMilli(1)},
			{Sender: history.SenderAssistant, Text: "see [docs](https://example.com)", Timestamp: time.UnixMilli(2)},
		},
	})
	r.Close()

	text := out.String()
	assert.Contains(t, text, "chat-9")
	assert.Contains(t, text, "question")
	assert.Contains(t, text, "docs")
	assert.Contains(t, text, "(https://example.com)")
}

func TestRendererTypingIndicator(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRenderer(out, preferences.Defaults(), nil)

	r.Handle(session.Event{Kind: session.EventResponsePending, Pending: true})
	time.Sleep(3 * spinnerTick)
	r.Handle(session.Event{Kind: session.EventResponsePending, Pending: false})
	r.Close()

	assert.Contains(t, out.String(), i18n.Message("my", i18n.TypingIndicator))
}

func TestSpeakerArgs(t *testing.T) {
	var mu sync.Mutex
	var calls [][]string

	s := NewSpeaker("say -v {locale}")
	require.NotNil(t, s)
	s.run = func(ctx context.Context, name string, args ...string) error {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, append([]string{name}, args...))
		return nil
	}

	s.Speak("my-MM", "hello")
	s.Speak("en-US", "   ")
	s.Close()

	assert.Equal(t, [][]string{{"say", "-v", "my-MM", "hello"}}, calls)

	s = NewSpeaker("tts --text={text} --lang={locale}")
	assert.Equal(t, []string{"--text=hi", "--lang=en-US"}, s.args("en-US", "hi"))
	s.Close()

	assert.Nil(t, NewSpeaker("  "))
}

func TestRendererSpeaks(t *testing.T) {
	done := make(chan []string, 1)
	s := NewSpeaker("say")
	s.run = func(ctx context.Context, name string, args ...string) error {
		done <- args
		return nil
	}

	r := NewRenderer(&bytes.Buffer{}, preferences.Defaults(), s)
	r.Handle(session.Event{Kind: session.EventSpeak, Text: "**loud** words", Locale: "en-US"})

	select {
	case args := <-done:
		assert.Equal(t, []string{"loud words"}, args)
	case <-time.After(time.Second):
		t.Fatal("speaker was not called")
	}
	s.Close()
	r.Close()
}
