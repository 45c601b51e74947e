package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/chakravartyharish/TeaWebsite-Backend/internal/domain"
)

const (
	chatModel = "gpt-4o-mini"

	systemPrompt = "You are the Inner Veda tea sommelier. Recommend teas from the " +
		"store catalog, explain brewing, and keep answers short and warm."

	// fallbackReply is served when no provider key is configured, so the
	// storefront widget keeps working in every environment.
	fallbackReply = "Hi! Tell me how you like your tea—floral, bold, or herbal?"
)

// ChatClient talks to an OpenAI-compatible chat completions endpoint.
type ChatClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	log        *zap.Logger
}

func NewChatClient(apiKey, baseURL string, log *zap.Logger) *ChatClient {
	return &ChatClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		breaker:    newBreaker("ai"),
		log:        log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Chat returns the assistant's reply for a customer message. Extra
// context from the storefront (current page, cart contents) is folded
// into the prompt when present.
func (c *ChatClient) Chat(ctx context.Context, message string, extra map[string]any) (string, error) {
	if message == "" {
		return "", domain.Invalidf("message is required")
	}
	if c.apiKey == "" {
		return fallbackReply, nil
	}

	messages := []chatMessage{{Role: "system", Content: systemPrompt}}
	if len(extra) > 0 {
		ctxJSON, err := json.Marshal(extra)
		if err == nil {
			messages = append(messages, chatMessage{Role: "system", Content: "Storefront context: " + string(ctxJSON)})
		}
	}
	messages = append(messages, chatMessage{Role: "user", Content: message})

	payload, err := json.Marshal(map[string]any{
		"model":    chatModel,
		"messages": messages,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("provider returned %d: %s", resp.StatusCode, data)
		}
		return data, nil
	})
	if err != nil {
		if IsUnavailable(err) {
			return "", err
		}
		return "", &domain.UpstreamError{Service: "ai", Err: err}
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", &domain.UpstreamError{Service: "ai", Err: fmt.Errorf("decode completion: %w", err)}
	}
	if len(completion.Choices) == 0 {
		return "", &domain.UpstreamError{Service: "ai", Err: fmt.Errorf("empty completion")}
	}
	return completion.Choices[0].Message.Content, nil
}
