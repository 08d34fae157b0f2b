package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"arena/internal/logger"
)

// OpenAIChatClient speaks the /v1/chat/completions protocol shared by
// OpenAI, DeepSeek, Qwen and most hosted gateways.
type OpenAIChatClient struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	// MaxRetries bounds retries on 429/5xx responses; 0 means 2.
	MaxRetries   int
	ExtraHeaders map[string]string

	httpc *http.Client
}

func (c *OpenAIChatClient) endpoint() string {
	url := strings.TrimRight(c.BaseURL, "/")
	if url == "" {
		url = "https://api.openai.com/v1"
	}
	// tolerate configs that already carry the full path
	url = strings.TrimSuffix(url, "/chat/completions")
	return url + "/chat/completions"
}

func (c *OpenAIChatClient) client() *http.Client {
	if c.httpc == nil {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		c.httpc = &http.Client{Timeout: timeout}
	}
	return c.httpc
}

func (c *OpenAIChatClient) CallWithMessages(ctx context.Context, systemPrompt, userPrompt string, expectJSON bool) (string, error) {
	maxRetries := c.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 2
	}

	messages := []map[string]string{}
	if systemPrompt != "" {
		messages = append(messages, map[string]string{"role": "system", "content": systemPrompt})
	}
	messages = append(messages, map[string]string{"role": "user", "content": userPrompt})

	body := map[string]any{"model": c.Model, "messages": messages, "temperature": 0.5}
	if expectJSON {
		body["response_format"] = map[string]string{"type": "json_object"}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	url := c.endpoint()
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.APIKey)
		}
		for k, v := range c.ExtraHeaders {
			req.Header.Set(k, v)
		}

		resp, err := c.client().Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = err
			break
		}

		if resp.StatusCode/100 == 2 {
			var r struct {
				Choices []struct {
					Message struct {
						Content string `json:"content"`
					} `json:"message"`
				} `json:"choices"`
			}
			derr := json.NewDecoder(resp.Body).Decode(&r)
			resp.Body.Close()
			if derr != nil {
				return "", fmt.Errorf("decode chat response: %w", derr)
			}
			if len(r.Choices) == 0 {
				return "", fmt.Errorf("chat response has no choices")
			}
			return r.Choices[0].Message.Content, nil
		}

		var eresp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&eresp)
		resp.Body.Close()
		msg := strings.TrimSpace(eresp.Error.Message)
		if msg == "" {
			msg = resp.Status
		}
		lastErr = fmt.Errorf("chat completion status=%d: %s", resp.StatusCode, msg)

		if !retryableStatus(resp.StatusCode) || attempt >= maxRetries {
			break
		}
		wait := retryWait(resp.Header.Get("Retry-After"), attempt)
		logger.Debugf("provider %s: status %d, retrying in %s", c.Model, resp.StatusCode, wait)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", lastErr
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func retryWait(retryAfter string, attempt int) time.Duration {
	if retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	wait := 800 * time.Millisecond << attempt
	if wait > 8*time.Second {
		wait = 8 * time.Second
	}
	return wait
}

type openAIModelProvider struct {
	id         string
	enabled    bool
	expectJSON bool
	client     *OpenAIChatClient
}

func NewOpenAIModelProvider(id string, enabled, expectJSON bool, client *OpenAIChatClient) ModelProvider {
	return &openAIModelProvider{id: id, enabled: enabled, expectJSON: expectJSON, client: client}
}

func (p *openAIModelProvider) ID() string    { return p.id }
func (p *openAIModelProvider) Enabled() bool { return p.enabled }

func (p *openAIModelProvider) Call(ctx context.Context, payload ChatPayload) (string, error) {
	return p.client.CallWithMessages(ctx, payload.System, payload.User, p.expectJSON || payload.ExpectJSON)
}
