package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"wayne-chat/cmd"
	"wayne-chat/internal/config"
	"wayne-chat/internal/history"
	"wayne-chat/internal/inference"
	"wayne-chat/internal/preferences"
	"wayne-chat/internal/session"
	"wayne-chat/internal/storage"
	"wayne-chat/internal/terminal"
)

func main() {
	if err := cmd.LoadEnvFile(os.Args[0], os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}

	cfg, err := config.LoadChatConfig()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	// stderr is shared with the chat transcript, so logs only go to the file
	logFile := cmd.SetupLogFile(cfg.DataDir, "chat.log", false)
	defer logFile.Close()

	slog.Info("starting chat", "endpoint", cfg.Endpoint, "storage_backend", cfg.StorageBackend, "data_dir", cfg.DataDir)

	provider, err := storage.OpenProvider(cfg.StorageBackend, cfg.DataDir)
	if err != nil {
		log.Fatalf("error opening storage: %v", err)
	}
	defer provider.Close()

	kv := storage.NewStore(provider)
	prefStore := preferences.NewStore(kv)
	prefs := prefStore.Load()

	client := inference.NewClient(cfg.Endpoint,
		inference.WithTimeout(cfg.RequestTimeout),
		inference.WithRetryPolicy(inference.RetryPolicy{
			MaxAttempts: cfg.MaxAttempts,
			Backoff:     inference.LinearBackoff(cfg.BackoffStep),
		}),
	)

	if metrics := cmd.ServeMetrics(cfg.MetricsAddr); metrics != nil {
		defer metrics.Close()
	}

	speaker := terminal.NewSpeaker(cfg.TTSCommand)
	defer speaker.Close()

	renderer := terminal.NewRenderer(os.Stdout, prefs, speaker)
	defer renderer.Close()

	controller := session.NewController(history.NewStore(kv), client, prefStore, prefs, renderer.Handle, session.Options{
		GreetingDelay: cfg.GreetingDelay,
	})
	defer controller.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		// unblock the REPL, which is waiting on stdin
		os.Stdin.Close()
	}()

	if err := terminal.NewREPL(controller, renderer, os.Stdin).Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("error reading input", "error", err)
	}

	slog.Info("chat stopped")
}
