package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type ChatConfig struct {
	Endpoint       string        `env:"ENDPOINT" envDefault:"https://wayne-ai-v1.mysvm.workers.dev/api/chat"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	MaxAttempts    int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	BackoffStep    time.Duration `env:"BACKOFF_STEP" envDefault:"1s"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"sqlite"`
	DataDir        string `env:"DATA_DIR" envDefault:"./wayne-chat"`

	GreetingDelay time.Duration `env:"GREETING_DELAY" envDefault:"500ms"`
	TTSCommand    string        `env:"TTS_COMMAND" envDefault:""`
	MetricsAddr   string        `env:"METRICS_ADDR" envDefault:""`
}

type GatewayConfig struct {
	Port           int           `env:"PORT" envDefault:"8787"`
	OpenAIKey      string        `env:"OPENAI_API_KEY,notEmpty"`
	OpenAIModel    string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL  string        `env:"OPENAI_BASE_URL" envDefault:""`
	MaxTokens      int           `env:"MAX_TOKENS" envDefault:"1000"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
}

func LoadChatConfig() (ChatConfig, error) {
	cfg, err := env.ParseAs[ChatConfig]()
	if err != nil {
		return cfg, fmt.Errorf("error parsing chat config: %w", err)
	}
	if cfg.Endpoint == "" {
		return cfg, fmt.Errorf("ENDPOINT must be set")
	}
	if cfg.MaxAttempts < 1 {
		return cfg, fmt.Errorf("MAX_ATTEMPTS must be at least 1, got %d", cfg.MaxAttempts)
	}
	if cfg.RequestTimeout <= 0 {
		return cfg, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}
	return cfg, nil
}

func LoadGatewayConfig() (GatewayConfig, error) {
	cfg, err := env.ParseAs[GatewayConfig]()
	if err != nil {
		return cfg, fmt.Errorf("error parsing gateway config: %w", err)
	}
	return cfg, nil
}
