package terminal

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"wayne-chat/internal/history"
	"wayne-chat/internal/i18n"
	"wayne-chat/internal/markup"
	"wayne-chat/internal/preferences"
	"wayne-chat/internal/session"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
)

const (
	timeLayout   = "Jan 2 03:04 PM"
	spinnerTick  = 120 * time.Millisecond
	spinnerStyle = 14
)

type palette struct {
	user      lipgloss.Style
	assistant lipgloss.Style
	muted     lipgloss.Style
	err       lipgloss.Style
	bold      lipgloss.Style
	italic    lipgloss.Style
	link      lipgloss.Style
}

func newPalette(theme string) palette {
	dark := theme == preferences.ThemeDark || (theme == preferences.ThemeSystem && lipgloss.HasDarkBackground())

	accent, text, muted := lipgloss.Color("25"), lipgloss.Color("235"), lipgloss.Color("244")
	if dark {
		accent, text, muted = lipgloss.Color("75"), lipgloss.Color("252"), lipgloss.Color("242")
	}

	return palette{
		user:      lipgloss.NewStyle().Bold(true).Foreground(accent),
		assistant: lipgloss.NewStyle().Bold(true).Foreground(text),
		muted:     lipgloss.NewStyle().Foreground(muted),
		err:       lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		bold:      lipgloss.NewStyle().Bold(true),
		italic:    lipgloss.NewStyle().Italic(true),
		link:      lipgloss.NewStyle().Underline(true).Foreground(accent),
	}
}

// styler renders chat markup with terminal styles.
type styler struct {
	p palette
}

func (s styler) Escape(text string) string { return text }
func (s styler) Bold(text string) string   { return s.p.bold.Render(text) }
func (s styler) Italic(text string) string { return s.p.italic.Render(text) }
func (s styler) Newline() string           { return "\n" }

func (s styler) Link(label, url string) string {
	return s.p.link.Render(label) + " " + s.p.muted.Render("("+url+")")
}

// syncWriter serializes writes from the renderer and the typing spinner.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}

// Renderer draws session events on a terminal. Its Handle method is a
// session.Listener.
type Renderer struct {
	mu      sync.Mutex
	out     *syncWriter
	prefs   preferences.Preferences
	palette palette
	speaker *Speaker

	typing     *progressbar.ProgressBar
	stopTyping chan struct{}
	typingDone chan struct{}
}

func NewRenderer(out io.Writer, prefs preferences.Preferences, speaker *Speaker) *Renderer {
	return &Renderer{
		out:     &syncWriter{w: out},
		prefs:   prefs,
		palette: newPalette(prefs.Theme),
		speaker: speaker,
	}
}

// SetPreferences updates the language and theme used for rendering.
func (r *Renderer) SetPreferences(prefs preferences.Preferences) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs = prefs
	r.palette = newPalette(prefs.Theme)
}

func (r *Renderer) Handle(ev session.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch ev.Kind {
	case session.EventMessageAdded:
		r.clearTyping()
		r.printMessage(ev.Sender, ev.Text, ev.Timestamp)

	case session.EventResponsePending:
		if ev.Pending {
			r.startTyping()
		} else {
			r.endTyping()
		}

	case session.EventSpeak:
		if r.speaker != nil {
			r.speaker.Speak(ev.Locale, markup.Plain(ev.Text))
		}

	case session.EventError:
		slog.Debug("error shown to user", "conversation_id", ev.ConversationID)

	case session.EventConversationChanged:
		r.endTyping()
		fmt.Fprintf(r.out, "\n%s\n", r.palette.muted.Render("── "+ev.ConversationID+" ──"))
		for _, msg := range ev.Transcript {
			r.printMessage(msg.Sender, msg.Text, msg.Timestamp)
		}

	case session.EventProgress, session.EventHistoryChanged:
	}
}

func (r *Renderer) printMessage(sender history.Sender, text string, ts time.Time) {
	label := r.palette.assistant.Render("WAYNE AI")
	if sender == history.SenderUser {
		label = r.palette.user.Render("You")
	}
	body := markup.Render(text, styler{p: r.palette})
	fmt.Fprintf(r.out, "%s %s\n%s\n\n", label, r.palette.muted.Render(ts.Format(timeLayout)), body)
}

// PrintConversations writes the numbered conversation list, most recent
// first, marking the current one.
func (r *Renderer) PrintConversations(summaries []history.Summary, currentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(summaries) == 0 {
		fmt.Fprintln(r.out, r.palette.muted.Render(i18n.Message(r.prefs.Language, i18n.NoHistory)))
		return
	}
	for i, s := range summaries {
		marker := " "
		if s.ID == currentID {
			marker = "*"
		}
		preview := s.Preview
		if preview == "" {
			preview = i18n.Message(r.prefs.Language, i18n.NewChat)
		}
		fmt.Fprintf(r.out, "%s %2d. %s %s\n", marker, i+1, preview, r.palette.muted.Render(s.LastUpdated.Format(timeLayout)))
	}
}

// Notice prints a status line.
func (r *Renderer) Notice(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, r.palette.muted.Render(fmt.Sprintf(format, args...)))
}

func (r *Renderer) Error(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, r.palette.err.Render(text))
}

func (r *Renderer) startTyping() {
	if r.typing != nil {
		return
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(i18n.Message(r.prefs.Language, i18n.TypingIndicator)),
		progressbar.OptionSpinnerType(spinnerStyle),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionClearOnFinish(),
	)
	stop, done := make(chan struct{}), make(chan struct{})
	r.typing, r.stopTyping, r.typingDone = bar, stop, done

	go func() {
		defer close(done)
		ticker := time.NewTicker(spinnerTick)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()
}

// clearTyping erases the spinner line so a message can be printed; the
// spinner redraws itself on the next tick.
func (r *Renderer) clearTyping() {
	if r.typing != nil {
		_ = r.typing.Clear()
	}
}

func (r *Renderer) endTyping() {
	if r.typing == nil {
		return
	}
	close(r.stopTyping)
	<-r.typingDone
	_ = r.typing.Finish()
	r.typing, r.stopTyping, r.typingDone = nil, nil, nil
}

// Close stops the typing spinner.
func (r *Renderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endTyping()
}
