package agent

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

var ErrEmptyCompletion = errors.New("model returned no choices")

// Image is an uploaded picture forwarded to a vision model.
type Image struct {
	MIMEType string
	Data     []byte
}

// DataURL encodes the image inline, the form vision endpoints accept.
func (i Image) DataURL() string {
	mime := i.MIMEType
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// VisionClient answers a single prompt, optionally grounded on images.
type VisionClient interface {
	Complete(ctx context.Context, prompt string, images []Image) (string, error)
}

type client struct {
	api   *openai.Client
	model string
}

func NewOpenAIClient(apiKey, model string) VisionClient {
	return &client{api: openai.NewClient(apiKey), model: model}
}

// newClientWithConfig lets tests point the client at an httptest server.
func newClientWithConfig(cfg openai.ClientConfig, model string) VisionClient {
	return &client{api: openai.NewClientWithConfig(cfg), model: model}
}

func (c *client) Complete(ctx context.Context, prompt string, images []Image) (string, error) {
	msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if len(images) == 0 {
		msg.Content = prompt
	} else {
		parts := make([]openai.ChatMessagePart, 0, len(images)+1)
		parts = append(parts, openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: prompt})
		for _, img := range images {
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    img.DataURL(),
					Detail: openai.ImageURLDetailAuto,
				},
			})
		}
		msg.MultiContent = parts
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    []openai.ChatCompletionMessage{msg},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
