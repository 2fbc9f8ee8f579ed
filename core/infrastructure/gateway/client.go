package gateway

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/diavgeia-watch/diavgeia/core/domain"
	"github.com/diavgeia-watch/diavgeia/core/domain/interfaces"
	"github.com/diavgeia-watch/diavgeia/core/infrastructure/logging"
)

const (
	DefaultTimeout = 300 * time.Second
	probeTimeout   = 5 * time.Second
)

// Config selects a backend and overrides its preset.
type Config struct {
	Backend string
	Model   string
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// HTTPClient replaces the default client, mostly for tests.
	HTTPClient *http.Client
}

// Client is an OpenAI-compatible chat completion client. The backend only
// decides the defaults; every backend speaks the same wire format.
type Client struct {
	api     *openai.Client
	backend string
	model   string
	baseURL string
	timeout time.Duration
	log     logging.Logger
}

var _ interfaces.Gateway = (*Client)(nil)

// New builds a client for cfg.Backend. An unknown backend is an error.
func New(cfg Config) (*Client, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = DefaultBackend
	}
	preset, ok := PresetFor(backend)
	if !ok {
		return nil, fmt.Errorf("unknown LLM backend '%s' (expected one of %s)", cfg.Backend, strings.Join(Backends(), ", "))
	}

	model := firstNonEmpty(cfg.Model, preset.Model)
	baseURL := strings.TrimRight(firstNonEmpty(cfg.BaseURL, preset.BaseURL), "/")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	clientCfg := openai.DefaultConfig(ResolveAPIKey(backend, cfg.APIKey))
	clientCfg.BaseURL = baseURL
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	} else {
		clientCfg.HTTPClient = &http.Client{Timeout: timeout}
	}

	log := logging.New("gateway")
	log.Infof("LLM client initialized: backend=%s model=%s url=%s", backend, model, baseURL)

	return &Client{
		api:     openai.NewClientWithConfig(clientCfg),
		backend: backend,
		model:   model,
		baseURL: baseURL,
		timeout: timeout,
		log:     log,
	}, nil
}

// ResolveAPIKey returns the explicit key, then the backend's own variable,
// then LLM_API_KEY.
func ResolveAPIKey(backend, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p, ok := PresetFor(backend); ok && p.KeyEnv != "" {
		if key := os.Getenv(p.KeyEnv); key != "" {
			return key
		}
	}
	return os.Getenv("LLM_API_KEY")
}

// Complete sends one chat completion and returns the first choice.
func (c *Client) Complete(ctx context.Context, req domain.CompletionRequest) (*domain.Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	c.log.Debugf("LLM request: model=%s messages=%d", c.model, len(messages))
	resp, err := c.api.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		gwErr := c.classify(err)
		c.log.Errorf("LLM request failed (%s): %v", gwErr.Kind, err)
		return nil, gwErr
	}

	if len(resp.Choices) == 0 {
		return nil, &Error{
			Kind:    KindMalformedPayload,
			Backend: c.backend,
			Message: "Unexpected LLM response format: no choices",
		}
	}

	model := resp.Model
	if model == "" {
		model = c.model
	}
	return &domain.Completion{
		Content: strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:   model,
		Usage: domain.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// Available reports whether the model listing endpoint answers within 5s.
func (c *Client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	_, err := c.api.ListModels(ctx)
	if err != nil {
		c.log.Debugf("Backend probe failed: %v", err)
		return false
	}
	return true
}

// Models lists the backend's models. When the listing fails or is empty the
// configured model is returned, together with the listing error if any.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout*2)
	defer cancel()

	list, err := c.api.ListModels(ctx)
	if err != nil {
		return []string{c.model}, c.classify(err)
	}
	names := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		names = append(names, m.ID)
	}
	if len(names) == 0 {
		return []string{c.model}, nil
	}
	return names, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Describe returns "backend/model".
func (c *Client) Describe() string {
	return c.backend + "/" + c.model
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
