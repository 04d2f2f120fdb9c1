// Package aiconnectors is the boundary to the language model. It turns a
// composed prompt and template images into raw model text, classifying every
// failure into an InvocationError.
package aiconnectors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/cohere"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"

	"github.com/slidearchitect/internal/retry"
)

// Provider represents an AI provider type
type Provider string

const (
	ProviderClaude Provider = "claude"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderCohere Provider = "cohere"
	ProviderOllama Provider = "ollama"
)

// DefaultModel returns the model used when none is configured
func DefaultModel(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return "gpt-4o"
	case ProviderGemini:
		return "gemini-2.5-flash"
	case ProviderCohere:
		return "command-r-plus"
	case ProviderOllama:
		return "llava"
	default:
		return "claude-sonnet-4-20250514"
	}
}

// ModelConfig contains the sampling configuration of a model
type ModelConfig struct {
	Model       string  `json:"model,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
}

// ConnectorOptions contains options for creating a connector
type ConnectorOptions struct {
	Provider          Provider      `json:"provider"`
	APIKey            string        `json:"api_key"`
	BaseURL           string        `json:"base_url,omitempty"`
	ModelConfig       ModelConfig   `json:"model_config,omitempty"`
	Timeout           time.Duration `json:"timeout,omitempty"` // per attempt
	MaxRetries        int           `json:"max_retries"`
	RequestsPerSecond float64       `json:"requests_per_second,omitempty"` // 0 disables throttling

	// Retry overrides the backoff derived from MaxRetries
	Retry *retry.Config `json:"-"`
}

// Image is a template screenshot attached to a request
type Image struct {
	MediaType string // image/png, image/jpeg, ...
	Data      []byte
}

// Request is one model call
type Request struct {
	System string
	User   string
	Images []Image
}

// Connector represents a connection to an AI provider
type Connector struct {
	provider Provider
	llm      llms.Model
	options  ConnectorOptions
	limiter  *rate.Limiter
	backoff  retry.Config
	log      zerolog.Logger
}

// NewConnector creates a connector for the configured provider
func NewConnector(ctx context.Context, options ConnectorOptions, log zerolog.Logger) (*Connector, error) {
	if options.Provider == "" {
		options.Provider = ProviderClaude
	}
	if options.ModelConfig.Model == "" {
		options.ModelConfig.Model = DefaultModel(options.Provider)
	}

	log.Debug().
		Str("provider", string(options.Provider)).
		Str("model", options.ModelConfig.Model).
		Float64("temperature", options.ModelConfig.Temperature).
		Msg("Creating new connector")

	var model llms.Model
	var err error
	switch options.Provider {
	case ProviderClaude:
		model, err = createAnthropicModel(options)
	case ProviderOpenAI:
		model, err = createOpenAIModel(options)
	case ProviderGemini:
		model, err = createGeminiModel(ctx, options)
	case ProviderCohere:
		model, err = createCohereModel(options)
	case ProviderOllama:
		model, err = createOllamaModel(options)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", options.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create model for provider %s: %w", options.Provider, err)
	}

	return NewWithModel(model, options, log), nil
}

// NewWithModel wraps an already constructed model
func NewWithModel(model llms.Model, options ConnectorOptions, log zerolog.Logger) *Connector {
	c := &Connector{
		provider: options.Provider,
		llm:      model,
		options:  options,
		backoff:  retry.ModelConfig(options.MaxRetries),
		log:      log.With().Str("provider", string(options.Provider)).Logger(),
	}
	if options.Retry != nil {
		c.backoff = *options.Retry
	}
	if options.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(options.RequestsPerSecond), 1)
	}
	return c
}

func createAnthropicModel(options ConnectorOptions) (llms.Model, error) {
	opts := []anthropic.Option{
		anthropic.WithToken(options.APIKey),
		anthropic.WithModel(options.ModelConfig.Model),
	}
	if options.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(options.BaseURL))
	}
	return anthropic.New(opts...)
}

func createOpenAIModel(options ConnectorOptions) (llms.Model, error) {
	opts := []openai.Option{
		openai.WithModel(options.ModelConfig.Model),
		openai.WithToken(options.APIKey),
	}
	if options.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(options.BaseURL))
	}
	return openai.New(opts...)
}

func createGeminiModel(ctx context.Context, options ConnectorOptions) (llms.Model, error) {
	return googleai.New(ctx,
		googleai.WithAPIKey(options.APIKey),
		googleai.WithDefaultModel(options.ModelConfig.Model),
	)
}

func createCohereModel(options ConnectorOptions) (llms.Model, error) {
	opts := []cohere.Option{
		cohere.WithToken(options.APIKey),
		cohere.WithModel(options.ModelConfig.Model),
	}
	if options.BaseURL != "" {
		opts = append(opts, cohere.WithBaseURL(options.BaseURL))
	}
	return cohere.New(opts...)
}

func createOllamaModel(options ConnectorOptions) (llms.Model, error) {
	if options.BaseURL == "" {
		options.BaseURL = "http://localhost:11434"
	}
	return ollama.New(
		ollama.WithServerURL(options.BaseURL),
		ollama.WithModel(options.ModelConfig.Model),
	)
}

// Generate sends the request and returns the raw model text. Timeouts, rate
// limits and transport failures are retried with backoff; every failure is
// returned as *InvocationError.
func (c *Connector) Generate(ctx context.Context, req Request) (string, error) {
	messages := buildMessages(req)
	opts := c.callOptions()

	var text string
	res := retry.Do(ctx, c.backoff, func(ctx context.Context, attempt int) error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		callCtx, cancel := c.withTimeout(ctx)
		defer cancel()

		started := time.Now()
		resp, err := c.llm.GenerateContent(callCtx, messages, opts...)
		if err == nil && (resp == nil || len(resp.Choices) == 0) {
			err = errors.New("model returned no choices")
		}
		if err != nil {
			// the attempt deadline, not the caller's, surfaces as a timeout
			if callCtx.Err() != nil && ctx.Err() == nil {
				err = fmt.Errorf("attempt %d: %w", attempt, context.DeadlineExceeded)
			}
			return err
		}
		text = resp.Choices[0].Content
		c.log.Debug().
			Int("attempt", attempt).
			Dur("latency", time.Since(started)).
			Int("response_bytes", len(text)).
			Msg("model call completed")
		return nil
	}, func(err error) bool { return Classify(err).Retryable() }, c.log)

	if res.LastError != nil {
		inv := &InvocationError{
			Kind:     Classify(res.LastError),
			Provider: c.provider,
			Attempts: res.Attempts,
			Err:      res.LastError,
		}
		c.log.Error().Err(res.LastError).Str("kind", string(inv.Kind)).Int("attempts", res.Attempts).Msg("model call failed")
		return "", inv
	}
	return text, nil
}

func (c *Connector) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.options.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.options.Timeout)
}

func (c *Connector) callOptions() []llms.CallOption {
	opts := []llms.CallOption{
		llms.WithTemperature(c.options.ModelConfig.Temperature),
	}
	if c.options.ModelConfig.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(c.options.ModelConfig.MaxTokens))
	}
	// googleai picks its default model per call
	if c.provider == ProviderGemini {
		opts = append(opts, llms.WithModel(c.options.ModelConfig.Model))
	}
	return opts
}

// buildMessages puts images before the text so the model reads the template first
func buildMessages(req Request) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, 2)
	if req.System != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	}
	parts := make([]llms.ContentPart, 0, len(req.Images)+1)
	for _, img := range req.Images {
		mediaType := img.MediaType
		if mediaType == "" {
			mediaType = "image/png"
		}
		parts = append(parts, llms.BinaryPart(mediaType, img.Data))
	}
	parts = append(parts, llms.TextPart(req.User))
	return append(messages, llms.MessageContent{Role: llms.ChatMessageTypeHuman, Parts: parts})
}

// GetProvider returns the provider of this connector
func (c *Connector) GetProvider() Provider {
	return c.provider
}

// GetModel returns the configured model name
func (c *Connector) GetModel() string {
	return c.options.ModelConfig.Model
}
