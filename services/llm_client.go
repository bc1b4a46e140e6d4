package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"foodsnap/utils"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ChatRequest is one system prompt plus one user turn, optionally carrying
// an image (bare base64 or a data URI).
type ChatRequest struct {
	Op          string
	Model       string
	System      string
	Text        string
	ImageBase64 string
}

// ChatClient sends a single prompt and returns the model's raw text.
// Ready reports a ConfigurationError when no credential is set.
type ChatClient interface {
	Ready() error
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// Models names the two model tiers in use: Vision for photo and recipe
// work, Light for short suggestions.
type Models struct {
	Vision string
	Light  string
}

var DefaultModels = Models{Vision: openai.GPT4o, Light: openai.GPT4oMini}

type OpenAIChat struct {
	client *openai.Client
	log    *zap.Logger
}

// NewOpenAIChat builds a client for any OpenAI-compatible endpoint. An empty
// apiKey yields a client whose calls fail with ConfigurationError.
func NewOpenAIChat(apiKey, baseURL string, timeout time.Duration, log *zap.Logger) *OpenAIChat {
	oc := &OpenAIChat{log: log}
	if apiKey == "" {
		return oc
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	oc.client = openai.NewClientWithConfig(cfg)
	return oc
}

func (o *OpenAIChat) Ready() error {
	if o == nil || o.client == nil {
		return ConfigurationError("API key not configured")
	}
	return nil
}

func (o *OpenAIChat) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if err := o.Ready(); err != nil {
		return "", err
	}

	user := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if req.ImageBase64 == "" {
		user.Content = req.Text
	} else {
		contentType, data := utils.ParseDataURI(req.ImageBase64)
		user.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: req.Text},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    "data:" + contentType + ";base64," + data,
					Detail: openai.ImageURLDetailAuto,
				},
			},
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			user,
		},
	})
	if err != nil {
		o.log.Error("llm request failed", zap.String("op", req.Op), zap.String("model", req.Model), zap.Error(err))
		return "", fmt.Errorf("llm request error: %w", err)
	}
	if len(resp.Choices) == 0 {
		o.log.Warn("llm returned no choices", zap.String("op", req.Op))
		return "", nil
	}

	text := resp.Choices[0].Message.Content
	o.log.Info("llm response",
		zap.String("op", req.Op),
		zap.String("model", req.Model),
		zap.Int("length", len(text)),
	)
	return text, nil
}

func preview(s string) string {
	if len(s) > 500 {
		return s[:500]
	}
	return s
}
