package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"wayne-chat/internal/history"
	"wayne-chat/internal/i18n"
	"wayne-chat/internal/preferences"
)

// Session is the part of the session controller the terminal drives.
type Session interface {
	Start()
	Submit(text string) bool
	NewConversation() string
	SwitchConversation(id string) []history.Message
	ClearHistory(confirm func(prompt string) bool) bool
	Conversations() []history.Summary
	CurrentConversationID() string
	Preferences() preferences.Preferences
	SetLanguage(language string) error
	ToggleVoice() (bool, error)
	SetTheme(theme string) error
	ToggleTheme() (string, error)
	SetSaveHistory(enabled bool) error
}

const helpText = `commands:
  /new              start a new conversation
  /list             list conversations
  /open <n|id>      open a conversation from /list
  /clear            delete all conversations
  /lang <my|en>     set the language
  /voice            toggle voice responses
  /theme [name]     toggle or set the theme (light, dark, system)
  /save <on|off>    keep or stop keeping history
  /help             show this help
  /quit             exit`

// REPL reads user input line by line and drives a Session. Lines starting
// with "/" are commands, everything else is submitted as a prompt.
type REPL struct {
	session  Session
	renderer *Renderer
	scanner  *bufio.Scanner

	// ids of the last /list output, for /open <n>
	listed []string
}

func NewREPL(session Session, renderer *Renderer, in io.Reader) *REPL {
	return &REPL{session: session, renderer: renderer, scanner: bufio.NewScanner(in)}
}

// Run starts the session and processes input until EOF, /quit or ctx is
// done.
func (r *REPL) Run(ctx context.Context) error {
	r.session.Start()

	for ctx.Err() == nil && r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			if !r.session.Submit(line) {
				r.renderer.Notice("%s", i18n.Message(r.session.Preferences().Language, i18n.ReplyPending))
			}
			continue
		}
		if quit := r.command(line); quit {
			return nil
		}
	}
	return r.scanner.Err()
}

func (r *REPL) command(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return true

	case "/help":
		r.renderer.Notice("%s", helpText)

	case "/new":
		r.session.NewConversation()

	case "/list":
		summaries := r.session.Conversations()
		r.listed = r.listed[:0]
		for _, s := range summaries {
			r.listed = append(r.listed, s.ID)
		}
		r.renderer.PrintConversations(summaries, r.session.CurrentConversationID())

	case "/open":
		id, err := r.resolve(arg)
		if err != nil {
			r.renderer.Error(err.Error())
			return false
		}
		r.session.SwitchConversation(id)

	case "/clear":
		r.session.ClearHistory(r.confirm)

	case "/lang":
		r.apply(r.session.SetLanguage(arg))

	case "/voice":
		enabled, err := r.session.ToggleVoice()
		if r.apply(err) {
			key := i18n.VoiceOff
			if enabled {
				key = i18n.VoiceOn
			}
			r.renderer.Notice("%s", i18n.Message(r.session.Preferences().Language, key))
		}

	case "/theme":
		if arg == "" {
			_, err := r.session.ToggleTheme()
			r.apply(err)
		} else {
			r.apply(r.session.SetTheme(arg))
		}

	case "/save":
		switch arg {
		case "on":
			r.apply(r.session.SetSaveHistory(true))
		case "off":
			r.apply(r.session.SetSaveHistory(false))
		default:
			r.renderer.Error("usage: /save <on|off>")
		}

	default:
		r.renderer.Error(fmt.Sprintf("unknown command '%s', try /help", name))
	}
	return false
}

// apply reports err, or pushes the updated preferences to the renderer.
func (r *REPL) apply(err error) bool {
	if err != nil {
		r.renderer.Error(err.Error())
		return false
	}
	r.renderer.SetPreferences(r.session.Preferences())
	return true
}

func (r *REPL) resolve(arg string) (string, error) {
	if arg == "" {
		return "", fmt.Errorf("usage: /open <n|id>")
	}
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(r.listed) {
			return "", fmt.Errorf("no conversation %d, run /list first", n)
		}
		return r.listed[n-1], nil
	}
	return arg, nil
}

// confirm asks a yes/no question on the terminal.
func (r *REPL) confirm(prompt string) bool {
	r.renderer.Notice("%s [y/N]", prompt)
	if !r.scanner.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(r.scanner.Text())) {
	case "y", "yes":
		return true
	}
	return false
}
