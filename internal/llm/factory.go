package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/sportsmind/pkg/logger"
	"github.com/abhisek/sportsmind/pkg/metrics"
)

// New builds the configured provider wrapped as retry -> recording -> backend.
// It returns ErrDisabled when cfg selects no provider.
func New(ctx context.Context, cfg Config, sink EventSink, log logger.Logger) (Provider, error) {
	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "":
		return nil, ErrDisabled
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s provider: %w", cfg.Provider, err)
	}

	recorded := WithRecording(base, cfg.Provider, sink, metrics.Global(), log)
	return WithRetry(recorded, cfg.Retry), nil
}
