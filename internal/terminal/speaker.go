package terminal

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
)

const (
	localePlaceholder = "{locale}"
	textPlaceholder   = "{text}"
)

// Speaker reads responses aloud through an external text-to-speech command,
// for example "espeak-ng -v {locale}". {locale} and {text} are substituted in
// each argument; the text is appended as the last argument when the command
// has no {text} placeholder.
type Speaker struct {
	command []string
	run     func(ctx context.Context, name string, args ...string) error

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSpeaker returns nil when command is empty, which disables speech.
func NewSpeaker(command string) *Speaker {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Speaker{
		command: fields,
		run:     runCommand,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

func (s *Speaker) args(locale, text string) []string {
	args := make([]string, 0, len(s.command))
	hasText := false
	for _, arg := range s.command[1:] {
		if strings.Contains(arg, textPlaceholder) {
			hasText = true
		}
		arg = strings.ReplaceAll(arg, localePlaceholder, locale)
		arg = strings.ReplaceAll(arg, textPlaceholder, text)
		args = append(args, arg)
	}
	if !hasText {
		args = append(args, text)
	}
	return args
}

// Speak starts speaking text in the background.
func (s *Speaker) Speak(locale, text string) {
	if s == nil || strings.TrimSpace(text) == "" {
		return
	}

	args := s.args(locale, text)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.run(s.ctx, s.command[0], args...); err != nil && s.ctx.Err() == nil {
			slog.Warn("text to speech failed", "command", s.command[0], "locale", locale, "error", err)
		}
	}()
}

// Close stops any speech in progress.
func (s *Speaker) Close() {
	if s == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
}
