package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"wayne-chat/internal/history"
	"wayne-chat/internal/i18n"
	"wayne-chat/internal/preferences"
)

const (
	DefaultGreetingDelay      = 500 * time.Millisecond
	DefaultProgressResetDelay = 500 * time.Millisecond

	progressStarted  = 30
	progressFinished = 100
)

type Asker interface {
	Ask(ctx context.Context, prompt, language, conversationID string) (string, error)
}

type HistoryStore interface {
	Append(conversationID string, msg history.Message) error
	Load(conversationID string) []history.Message
	List() []history.Summary
	ClearAll() error
}

type Options struct {
	GreetingDelay      time.Duration
	ProgressResetDelay time.Duration

	// Now and NewID default to the wall clock and NewConversationID.
	Now   func() time.Time
	NewID func() string
}

func (o Options) withDefaults() Options {
	if o.GreetingDelay == 0 {
		o.GreetingDelay = DefaultGreetingDelay
	}
	if o.ProgressResetDelay == 0 {
		o.ProgressResetDelay = DefaultProgressResetDelay
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = NewConversationID
	}
	return o
}

// Controller is the chat session state machine. At most one request is in
// flight at a time; it always completes against the conversation it was
// submitted from, even if the user has moved on to another conversation.
type Controller struct {
	mu sync.Mutex

	history   HistoryStore
	client    Asker
	prefStore *preferences.Store
	prefs     preferences.Preferences
	listener  Listener
	opts      Options

	currentID string
	// conversation id of the in-flight request, empty when none
	pendingID string
	// newest message timestamp per conversation seen by this controller
	lastTimestamp map[string]time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	timers    map[int]*time.Timer
	nextTimer int
	closed    bool
}

func NewController(historyStore HistoryStore, client Asker, prefStore *preferences.Store, prefs preferences.Preferences, listener Listener, opts Options) *Controller {
	if listener == nil {
		listener = func(Event) {}
	}
	opts = opts.withDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		history:       historyStore,
		client:        client,
		prefStore:     prefStore,
		prefs:         prefs,
		listener:      listener,
		opts:          opts,
		currentID:     opts.NewID(),
		lastTimestamp: make(map[string]time.Time),
		ctx:           ctx,
		cancel:        cancel,
		timers:        make(map[int]*time.Timer),
	}
}

// Start schedules the greeting for the initial conversation.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	slog.Info("chat session started", "conversation_id", c.currentID, "language", c.prefs.Language)
	c.scheduleGreeting()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state()
}

func (c *Controller) state() State {
	if c.pendingID != "" && c.pendingID == c.currentID {
		return AwaitingResponse
	}
	return Idle
}

func (c *Controller) CurrentConversationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentID
}

func (c *Controller) Preferences() preferences.Preferences {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefs
}

func (c *Controller) Conversations() []history.Summary {
	return c.history.List()
}

// Submit sends text to the inference endpoint. It returns false without doing
// anything if text is blank or a request is already in flight; submissions
// are never queued.
func (c *Controller) Submit(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	if c.pendingID != "" {
		slog.Debug("dropping submission while awaiting response", "conversation_id", c.currentID, "pending_conversation_id", c.pendingID)
		return false
	}

	conversationID := c.currentID
	language := c.prefs.Language

	c.addMessage(conversationID, history.SenderUser, text)

	c.pendingID = conversationID
	c.emit(Event{Kind: EventResponsePending, ConversationID: conversationID, Pending: true})
	c.emit(Event{Kind: EventProgress, ConversationID: conversationID, Progress: progressStarted})

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		response, err := c.client.Ask(c.ctx, text, language, conversationID)

		c.mu.Lock()
		defer c.mu.Unlock()

		c.pendingID = ""
		if c.closed {
			slog.Info("discarding response after session closed", "conversation_id", conversationID)
			return
		}

		if err != nil {
			c.responseFailed(conversationID, language, err)
		} else {
			c.responseReceived(conversationID, response)
		}
		c.finishRequest(conversationID)
	}()

	return true
}

func (c *Controller) responseReceived(conversationID, response string) {
	c.addMessage(conversationID, history.SenderAssistant, response)

	if c.prefs.VoiceResponse && conversationID == c.currentID {
		c.emit(Event{
			Kind:           EventSpeak,
			ConversationID: conversationID,
			Text:           response,
			Locale:         i18n.Locale(c.prefs.Language),
		})
	}
}

func (c *Controller) responseFailed(conversationID, language string, err error) {
	slog.Error("unable to get response", "conversation_id", conversationID, "error", err)

	apology := i18n.Message(language, i18n.APIError)
	c.addMessage(conversationID, history.SenderAssistant, apology)
	c.emitView(conversationID, Event{Kind: EventError, ConversationID: conversationID, Text: apology})
}

func (c *Controller) finishRequest(conversationID string) {
	if conversationID != c.currentID {
		return
	}
	c.emit(Event{Kind: EventResponsePending, ConversationID: conversationID, Pending: false})
	c.emit(Event{Kind: EventProgress, ConversationID: conversationID, Progress: progressFinished})
	c.schedule(c.opts.ProgressResetDelay, func() {
		c.emit(Event{Kind: EventProgress, ConversationID: c.currentID, Progress: 0})
	})
}

// addMessage records a message for conversationID and notifies the view if
// that conversation is on screen. Must be called with c.mu held.
func (c *Controller) addMessage(conversationID string, sender history.Sender, text string) {
	ts := c.opts.Now()
	if last, ok := c.lastTimestamp[conversationID]; ok && ts.Before(last) {
		ts = last
	}
	c.lastTimestamp[conversationID] = ts

	msg := history.Message{Sender: sender, Text: text, Timestamp: ts}

	c.emitView(conversationID, Event{
		Kind:           EventMessageAdded,
		ConversationID: conversationID,
		Sender:         sender,
		Text:           text,
		Timestamp:      ts,
	})

	if !c.prefs.SaveHistory {
		return
	}
	if err := c.history.Append(conversationID, msg); err != nil {
		slog.Error("unable to save message", "conversation_id", conversationID, "sender", sender, "error", err)
		return
	}
	c.emit(Event{Kind: EventHistoryChanged, ConversationID: conversationID})
}

// NewConversation moves the view to a fresh conversation. Stored
// conversations are left untouched.
func (c *Controller) NewConversation() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setCurrent(c.opts.NewID(), []history.Message{})
	c.scheduleGreeting()
	return c.currentID
}

// SwitchConversation shows a stored conversation. An in-flight request keeps
// running and its result is written to the conversation it came from.
func (c *Controller) SwitchConversation(id string) []history.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	transcript := c.history.Load(id)
	if n := len(transcript); n > 0 {
		if last := transcript[n-1].Timestamp; last.After(c.lastTimestamp[id]) {
			c.lastTimestamp[id] = last
		}
	}
	c.setCurrent(id, transcript)
	return transcript
}

func (c *Controller) setCurrent(id string, transcript []history.Message) {
	wasAwaiting := c.state() == AwaitingResponse
	c.currentID = id

	c.emit(Event{Kind: EventConversationChanged, ConversationID: id, Transcript: transcript})

	switch isAwaiting := c.state() == AwaitingResponse; {
	case wasAwaiting && !isAwaiting:
		c.emit(Event{Kind: EventResponsePending, ConversationID: id, Pending: false})
	case !wasAwaiting && isAwaiting:
		c.emit(Event{Kind: EventResponsePending, ConversationID: id, Pending: true})
	}
}

// ClearHistory deletes every stored conversation once confirm approves the
// localized prompt, then starts a new conversation.
func (c *Controller) ClearHistory(confirm func(prompt string) bool) bool {
	prompt := i18n.Message(c.Preferences().Language, i18n.ClearHistoryConfirm)
	if confirm == nil || !confirm(prompt) {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.history.ClearAll(); err != nil {
		slog.Error("unable to clear history", "error", err)
		return false
	}
	c.lastTimestamp = make(map[string]time.Time)
	c.emit(Event{Kind: EventHistoryChanged})

	c.setCurrent(c.opts.NewID(), []history.Message{})
	c.scheduleGreeting()
	return true
}

func (c *Controller) SetLanguage(language string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefStore.SetLanguage(&c.prefs, language)
}

// ToggleVoice flips the voice response preference and returns the new value.
func (c *Controller) ToggleVoice() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	enabled := !c.prefs.VoiceResponse
	if err := c.prefStore.SetVoiceResponse(&c.prefs, enabled); err != nil {
		return c.prefs.VoiceResponse, err
	}
	return enabled, nil
}

func (c *Controller) SetTheme(theme string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefStore.SetTheme(&c.prefs, theme)
}

func (c *Controller) ToggleTheme() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	theme := preferences.ToggledTheme(c.prefs.Theme)
	if err := c.prefStore.SetTheme(&c.prefs, theme); err != nil {
		return c.prefs.Theme, err
	}
	return theme, nil
}

func (c *Controller) SetSaveHistory(enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefStore.SetSaveHistory(&c.prefs, enabled)
}

func (c *Controller) scheduleGreeting() {
	conversationID := c.currentID
	language := c.prefs.Language
	c.schedule(c.opts.GreetingDelay, func() {
		if c.currentID != conversationID {
			return
		}
		c.addMessage(conversationID, history.SenderAssistant, i18n.Message(language, i18n.InitialGreeting))
	})
}

// schedule runs fn with c.mu held after d unless the controller is closed
// first. Must be called with c.mu held.
func (c *Controller) schedule(d time.Duration, fn func()) {
	id := c.nextTimer
	c.nextTimer++

	c.wg.Add(1)
	c.timers[id] = time.AfterFunc(d, func() {
		defer c.wg.Done()

		c.mu.Lock()
		defer c.mu.Unlock()

		delete(c.timers, id)
		if c.closed {
			return
		}
		fn()
	})
}

// Close stops pending timers, cancels the in-flight request and waits for
// background work to finish. Results arriving after Close are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	for id, t := range c.timers {
		if t.Stop() {
			c.wg.Done()
		}
		delete(c.timers, id)
	}
	c.cancel()
	c.mu.Unlock()

	c.wg.Wait()
}

func (c *Controller) emitView(conversationID string, ev Event) {
	if conversationID == c.currentID {
		c.emit(ev)
	}
}

func (c *Controller) emit(ev Event) {
	c.listener(ev)
}
