// Package openai implements reasoner.Reasoner against an
// OpenAI-compatible chat-completions endpoint.
//
// The wire protocol is small enough that the client is built directly on
// net/http: one POST per completion, bearer auth, a finite timeout, and a
// single attempt — a failed call is reported, never retried.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nayeem/foodjudge/internal/reasoner"
)

// maxInlineImageBytes caps how much of a remote image the client is
// willing to fetch and inline (8 MiB decoded).
const maxInlineImageBytes = 8 << 20

// Client is the chat-completions adapter.
type Client struct {
	config Config
	http   *http.Client
	logger *slog.Logger
}

// compile-time check that *Client implements reasoner.Reasoner
var _ reasoner.Reasoner = (*Client)(nil)

// New creates a Client. The API key is required; everything else falls
// back to DefaultConfig values when zero.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}

	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	return &Client{
		config: cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}, nil
}

// Wire types for the chat-completions protocol.

type imageRef struct {
	URL string `json:"url"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageRef `json:"image_url,omitempty"`
}

type wireMessage struct {
	Role string `json:"role"`
	// Content is a plain string for text-only turns and a part array
	// for multimodal ones.
	Content any `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []wireMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete performs one completion round trip and returns the model's
// text reply.
func (c *Client) Complete(ctx context.Context, req reasoner.Request) (string, error) {
	messages, err := c.encodeMessages(ctx, req.Messages)
	if err != nil {
		return "", err
	}

	body := chatRequest{
		Model:    c.config.Model,
		Messages: messages,
	}
	if req.ForceJSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("openai: encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("openai: building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openai: completion request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai: reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai: API error (status %d): %s",
			resp.StatusCode, truncate(string(respBody), 512))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("openai: decoding response: %w", err)
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai: no response choices returned")
	}

	c.logger.Debug("completion finished",
		slog.String("model", c.config.Model),
		slog.Duration("duration", time.Since(start)),
	)

	return parsed.Choices[0].Message.Content, nil
}

// encodeMessages maps provider-agnostic messages onto the wire format.
func (c *Client) encodeMessages(ctx context.Context, messages []reasoner.Message) ([]wireMessage, error) {
	out := make([]wireMessage, 0, len(messages))

	for _, m := range messages {
		// Text-only single-part turns go out as a plain string; every
		// provider accepts that form for system/history turns.
		if len(m.Parts) == 1 && m.Parts[0].ImageURL == "" {
			out = append(out, wireMessage{Role: m.Role, Content: m.Parts[0].Text})
			continue
		}

		parts := make([]contentPart, 0, len(m.Parts))
		for _, p := range m.Parts {
			if p.ImageURL == "" {
				parts = append(parts, contentPart{Type: "text", Text: p.Text})
				continue
			}

			url := p.ImageURL
			if c.config.InlineRemoteImages && !strings.HasPrefix(url, "data:") {
				inlined, err := c.inlineImage(ctx, url)
				if err != nil {
					return nil, fmt.Errorf("openai: inlining image: %w", err)
				}
				url = inlined
			}
			parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageRef{URL: url}})
		}
		out = append(out, wireMessage{Role: m.Role, Content: parts})
	}

	return out, nil
}

// inlineImage fetches a remote image and converts it to a data URL so the
// provider receives the bytes directly.
func (c *Client) inlineImage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building image request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxInlineImageBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading image %s: %w", url, err)
	}
	if len(data) > maxInlineImageBytes {
		return "", fmt.Errorf("image %s exceeds %d bytes", url, maxInlineImageBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || !strings.HasPrefix(contentType, "image/") {
		contentType = http.DetectContentType(data)
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
