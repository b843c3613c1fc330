package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wayne-chat/cmd"
	"wayne-chat/internal/config"
	"wayne-chat/internal/gateway"

	"github.com/tmc/langchaingo/llms/openai"
)

func main() {
	if err := cmd.LoadEnvFile(os.Args[0], os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}

	cfg, err := config.LoadGatewayConfig()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	opts := []openai.Option{openai.WithToken(cfg.OpenAIKey), openai.WithModel(cfg.OpenAIModel)}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.OpenAIBaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		log.Fatalf("could not create OpenAI client: %v", err)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: gateway.NewRouter(gateway.NewChatService(llm, cfg.MaxTokens), cfg.RequestTimeout),
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		slog.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	slog.Info("server started", "port", cfg.Port, "model", cfg.OpenAIModel)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %d: %v\n", cfg.Port, err)
	}

	slog.Info("server stopped")
}
