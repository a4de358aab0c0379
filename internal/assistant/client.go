package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/castlemilk/budgetwise/backend/internal/analytics"
)

const (
	DefaultBaseURL     = "https://api.deepseek.com/v1"
	DefaultModel       = "deepseek-chat"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 2000
	DefaultTimeout     = 30 * time.Second
)

// Config configures the chat completions client.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature *float64 // nil uses DefaultTemperature; 0 is honoured
	MaxTokens   int
	Timeout     time.Duration
}

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatOptions overrides per-call generation settings. Zero values fall back
// to the client configuration.
type ChatOptions struct {
	History     []Message
	Model       string
	Temperature *float64
	MaxTokens   int
}

// Usage reports token consumption as returned upstream.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a completed generation.
type Response struct {
	Content      string
	Usage        *Usage
	Model        string
	FinishReason string
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a client, filling unset configuration with defaults.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == nil {
		temp := DefaultTemperature
		cfg.Temperature = &temp
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Model returns the default model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

// ValidateConfiguration checks that the client can make requests at all.
func (c *Client) ValidateConfiguration() error {
	if c.cfg.APIKey == "" {
		return &Error{Code: ErrNotConfigured, Message: "DeepSeek API key is not configured"}
	}
	if c.cfg.BaseURL == "" {
		return &Error{Code: ErrNotConfigured, Message: "DeepSeek base URL is not configured"}
	}
	return nil
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Usage *Usage `json:"usage"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Chat sends message with a system prompt rendered from fc. History turns
// sit between the system prompt and the new user message. The call is made
// once; failures come back as *Error.
func (c *Client) Chat(ctx context.Context, message string, fc *analytics.FinancialContext, opts ChatOptions) (*Response, error) {
	if err := c.ValidateConfiguration(); err != nil {
		return nil, err
	}

	messages := make([]Message, 0, len(opts.History)+2)
	messages = append(messages, Message{Role: "system", Content: BuildSystemPrompt(fc)})
	messages = append(messages, opts.History...)
	messages = append(messages, Message{Role: "user", Content: message})

	payload := chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: *c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	if opts.Model != "" {
		payload.Model = opts.Model
	}
	if opts.Temperature != nil {
		payload.Temperature = *opts.Temperature
	}
	if opts.MaxTokens > 0 {
		payload.MaxTokens = opts.MaxTokens
	}

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Assistant] Chat request failed: %v", err)
		return nil, transportError(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Code: ErrUnavailable, Message: "failed to read response", StatusCode: resp.StatusCode, Retryable: true, Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Assistant] Chat API error %d: %s", resp.StatusCode, truncate(string(respBody), 500))
		return nil, statusError(resp.StatusCode, respBody)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, &Error{Code: ErrMalformedResponse, Message: "failed to parse response", StatusCode: resp.StatusCode, Cause: err}
	}
	if len(parsed.Choices) == 0 {
		return nil, &Error{Code: ErrMalformedResponse, Message: "response contained no choices", StatusCode: resp.StatusCode}
	}

	out := &Response{
		Content:      parsed.Choices[0].Message.Content,
		Usage:        parsed.Usage,
		Model:        parsed.Model,
		FinishReason: parsed.Choices[0].FinishReason,
	}
	if out.Model == "" {
		out.Model = payload.Model
	}
	return out, nil
}

// ConnectionStatus is the outcome of a connectivity probe.
type ConnectionStatus struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Model   string `json:"model,omitempty"`
}

// TestConnection validates the configuration and sends a minimal prompt.
func (c *Client) TestConnection(ctx context.Context) ConnectionStatus {
	if err := c.ValidateConfiguration(); err != nil {
		return ConnectionStatus{Message: err.(*Error).Message}
	}
	resp, err := c.Chat(ctx, "Hello", nil, ChatOptions{MaxTokens: 10})
	if err != nil {
		var aerr *Error
		if errors.As(err, &aerr) {
			return ConnectionStatus{Message: aerr.Message}
		}
		return ConnectionStatus{Message: err.Error()}
	}
	return ConnectionStatus{Success: true, Message: "Connection successful", Model: resp.Model}
}

func transportError(ctx context.Context, err error) *Error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return &Error{Code: ErrCanceled, Message: "request canceled", Cause: err}
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Code: ErrTimeout, Message: "assistant request timed out", Retryable: true, Cause: err}
	}
	return &Error{Code: ErrUnavailable, Message: "assistant service unreachable", Retryable: true, Cause: err}
}

func statusError(status int, body []byte) *Error {
	msg := fmt.Sprintf("assistant API error %d", status)
	var parsed errorResponse
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
		msg = parsed.Error.Message
	}

	e := &Error{Message: msg, StatusCode: status}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Code = ErrUnauthorized
	case status == http.StatusPaymentRequired:
		e.Code = ErrQuotaExceeded
	case status == http.StatusTooManyRequests:
		e.Code = ErrRateLimited
		e.Retryable = true
	case status >= 500:
		e.Code = ErrUnavailable
		e.Retryable = true
	default:
		e.Code = ErrBadRequest
	}
	return e
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
