package aiconnectors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/slidearchitect/internal/retry"
)

// fakeModel replays scripted results, one per call
type fakeModel struct {
	mu       sync.Mutex
	results  []func(ctx context.Context) (string, error)
	calls    int
	messages [][]llms.MessageContent
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	f.mu.Lock()
	i := f.calls
	f.calls++
	f.messages = append(f.messages, messages)
	f.mu.Unlock()

	step := f.results[len(f.results)-1]
	if i < len(f.results) {
		step = f.results[i]
	}
	text, err := step(ctx)
	if err != nil {
		return nil, err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: text}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func reply(text string) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return text, nil }
}

func fail(err error) func(context.Context) (string, error) {
	return func(context.Context) (string, error) { return "", err }
}

func newTestConnector(m llms.Model, opts ConnectorOptions) *Connector {
	if opts.Provider == "" {
		opts.Provider = ProviderClaude
	}
	if opts.Retry == nil {
		opts.Retry = &retry.Config{MaxRetries: opts.MaxRetries, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
	}
	return NewWithModel(m, opts, zerolog.Nop())
}

type netTimeout struct{}

func (netTimeout) Error() string   { return "i/o timeout" }
func (netTimeout) Timeout() bool   { return true }
func (netTimeout) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), KindTimeout},
		{"net timeout", netTimeout{}, KindTimeout},
		{"net op error", &net.OpError{Op: "dial", Err: errors.New("refused")}, KindTransport},
		{"429 status", errors.New("API returned unexpected status code: 429"), KindRateLimited},
		{"rate text", errors.New("Rate limit exceeded, retry later"), KindRateLimited},
		{"overloaded", errors.New("overloaded_error: Overloaded"), KindRateLimited},
		{"rate word", errors.New("provider said: rate exceeded"), KindRateLimited},
		{"timeout text", errors.New("request timeout"), KindTimeout},
		{"bad gateway", errors.New("status 502 bad gateway"), KindTransport},
		{"canceled", context.Canceled, KindUnknown},
		{"other", errors.New("invalid api key"), KindUnknown},
		{"rate inside a word", errors.New("failed to generate content"), KindUnknown},
		{"accurate", errors.New("prompt is not accurate enough"), KindUnknown},
		{"already classified", &InvocationError{Kind: KindRateLimited}, KindRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
	assert.Equal(t, ErrorKind(""), Classify(nil))
}

func TestGenerate_BuildsMessages(t *testing.T) {
	m := &fakeModel{results: []func(context.Context) (string, error){reply(`{"ok":true}`)}}
	c := newTestConnector(m, ConnectorOptions{})

	out, err := c.Generate(context.Background(), Request{
		System: "system prompt",
		User:   "user prompt",
		Images: []Image{{MediaType: "image/jpeg", Data: []byte{1, 2}}, {Data: []byte{3}}},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, out)

	require.Len(t, m.messages, 1)
	msgs := m.messages[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, msgs[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, msgs[1].Role)

	parts := msgs[1].Parts
	require.Len(t, parts, 3)
	assert.Equal(t, llms.BinaryContent{MIMEType: "image/jpeg", Data: []byte{1, 2}}, parts[0])
	assert.Equal(t, llms.BinaryContent{MIMEType: "image/png", Data: []byte{3}}, parts[1])
	assert.Equal(t, llms.TextContent{Text: "user prompt"}, parts[2])
}

func TestGenerate_RetriesRateLimit(t *testing.T) {
	m := &fakeModel{results: []func(context.Context) (string, error){
		fail(errors.New("429 too many requests")),
		reply("done"),
	}}
	c := newTestConnector(m, ConnectorOptions{MaxRetries: 2})

	out, err := c.Generate(context.Background(), Request{User: "x"})
	require.NoError(t, err)
	assert.Equal(t, "done", out)
	assert.Equal(t, 2, m.calls)
}

func TestGenerate_ExhaustedRetriesKeepKind(t *testing.T) {
	m := &fakeModel{results: []func(context.Context) (string, error){fail(errors.New("rate limit reached"))}}
	c := newTestConnector(m, ConnectorOptions{MaxRetries: 2})

	_, err := c.Generate(context.Background(), Request{User: "x"})
	var inv *InvocationError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, KindRateLimited, inv.Kind)
	assert.Equal(t, 3, inv.Attempts)
	assert.Equal(t, 3, m.calls)
}

func TestGenerate_UnknownIsNotRetried(t *testing.T) {
	m := &fakeModel{results: []func(context.Context) (string, error){fail(errors.New("invalid x-api-key"))}}
	c := newTestConnector(m, ConnectorOptions{MaxRetries: 2})

	_, err := c.Generate(context.Background(), Request{User: "x"})
	var inv *InvocationError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, KindUnknown, inv.Kind)
	assert.Equal(t, 1, m.calls)
}

func TestGenerate_AttemptTimeout(t *testing.T) {
	block := func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}
	m := &fakeModel{results: []func(context.Context) (string, error){block}}
	c := newTestConnector(m, ConnectorOptions{Timeout: 10 * time.Millisecond})

	_, err := c.Generate(context.Background(), Request{User: "x"})
	var inv *InvocationError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, KindTimeout, inv.Kind)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGenerate_EmptyChoices(t *testing.T) {
	c := newTestConnector(emptyModel{}, ConnectorOptions{})
	_, err := c.Generate(context.Background(), Request{User: "x"})
	var inv *InvocationError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, KindUnknown, inv.Kind)
}

type emptyModel struct{}

func (emptyModel) GenerateContent(context.Context, []llms.MessageContent, ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{}, nil
}

func (emptyModel) Call(context.Context, string, ...llms.CallOption) (string, error) {
	return "", nil
}

func TestGenerate_Throttled(t *testing.T) {
	m := &fakeModel{results: []func(context.Context) (string, error){reply("ok")}}
	c := newTestConnector(m, ConnectorOptions{RequestsPerSecond: 20})

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.Generate(context.Background(), Request{User: "x"})
		require.NoError(t, err)
	}
	// burst of one: the second and third calls each wait ~50ms
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestNewConnector_Defaults(t *testing.T) {
	c, err := NewConnector(context.Background(), ConnectorOptions{APIKey: "sk-test"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, ProviderClaude, c.GetProvider())
	assert.Equal(t, "claude-sonnet-4-20250514", c.GetModel())

	_, err = NewConnector(context.Background(), ConnectorOptions{Provider: "mistral"}, zerolog.Nop())
	assert.Error(t, err)
}
