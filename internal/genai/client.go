// Package genai реализует клиент генеративной модели через OpenAI-совместимый API.
//
// Промпт пересылается модели без изменений одним пользовательским сообщением,
// ответом считается текст первого варианта.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/magabrotheeeer/movie-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/movie-gateway/internal/metrics"
)

const (
	// DefaultBaseURL OpenAI-совместимый адрес Gemini.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	// DefaultModel модель по умолчанию.
	DefaultModel = "gemini-2.5-flash"

	defaultTimeout = 60 * time.Second
	placeholderKey = "AIzaSy..."
	provider       = "genai"
	endpoint       = "chat_completions"
)

var (
	// ErrMissingCredential ключ не задан или оставлен шаблонным значением.
	ErrMissingCredential = errors.New("genai: api key is missing or invalid")
	// ErrTimeout модель не ответила за отведённое время.
	ErrTimeout = errors.New("genai: request timed out")
	// ErrEmptyResponse модель вернула ответ без вариантов.
	ErrEmptyResponse = errors.New("genai: empty response")
)

// Options параметры клиента.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Metrics    *metrics.Metrics
}

// Client клиент генеративной модели.
type Client struct {
	client  *openai.Client
	apiKey  string
	model   string
	timeout time.Duration
	metrics *metrics.Metrics
	log     *slog.Logger
}

// New создаёт клиент.
func New(opts Options, log *slog.Logger) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	config := openai.DefaultConfig(opts.APIKey)
	config.BaseURL = strings.TrimRight(baseURL, "/")
	if opts.HTTPClient != nil {
		config.HTTPClient = opts.HTTPClient
	}

	return &Client{
		client:  openai.NewClientWithConfig(config),
		apiKey:  strings.TrimSpace(opts.APIKey),
		model:   model,
		timeout: timeout,
		metrics: opts.Metrics,
		log:     log,
	}
}

// HasCredential сообщает, задан ли пригодный ключ.
func (c *Client) HasCredential() bool {
	return c.apiKey != "" && !strings.Contains(c.apiKey, placeholderKey)
}

// Generate отправляет промпт модели и возвращает текст ответа без изменений.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	const op = "genai.Generate"

	if !c.HasCredential() {
		return "", fmt.Errorf("%s: %w", op, ErrMissingCredential)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = ErrTimeout
		}
		c.metrics.ObserveUpstream(provider, endpoint, outcome(err), time.Since(start))
		c.log.Error("generation failed", sl.Op(op), slog.String("model", c.model),
			slog.Int("status", apiStatus(err)), sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	c.metrics.ObserveUpstream(provider, endpoint, "ok", time.Since(start))

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

func apiStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case apiStatus(err) != 0:
		return "status"
	default:
		return "network"
	}
}
