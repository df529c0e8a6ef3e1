// Package openai provides a model gateway backed by the OpenAI Chat
// Completions API. It adapts Archon's normalized Request/Response structures
// into the SDK's message format and back.
package openai

import (
	"context"
	"fmt"

	"github.com/archon-ai/archon/model"
	"github.com/openai/openai-go"
)

// Options configure the OpenAI gateway adapter. Fields mirror a subset of
// Chat Completion parameters intentionally kept minimal; extend via
// functional options without breaking callers.
type Options struct {
	Model string
}

// Gateway wraps the OpenAI Chat Completions API behind the generic
// model.Gateway interface.
type Gateway struct {
	client *openai.Client
	opts   Options
}

// NewGateway creates a new OpenAI gateway using the official client. The SDK
// resolves credentials from the environment.
func NewGateway(optFns ...func(o *Options)) *Gateway {
	client := openai.NewClient()
	return NewGatewayFromClient(&client, optFns...)
}

// NewGatewayFromClient creates a new OpenAI gateway from an existing client.
func NewGatewayFromClient(client *openai.Client, optFns ...func(o *Options)) *Gateway {
	opts := Options{
		Model: openai.ChatModelGPT4oMini,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Gateway{client: client, opts: opts}
}

// Generate implements model.Gateway by issuing a single-turn chat completion.
func (g *Gateway) Generate(ctx context.Context, req model.Request) (model.Response, error) {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.User))

	params := openai.ChatCompletionNewParams{
		Model:               g.opts.Model,
		Messages:            messages,
		Temperature:         openai.Float(req.Temperature),
		MaxCompletionTokens: openai.Int(int64(req.MaxTokens)),
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return model.Response{}, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return model.Response{}, fmt.Errorf("openai api returned no choices")
	}

	// The Chat Completions API exposes no separate thinking channel.
	return model.Response{Text: resp.Choices[0].Message.Content}, nil
}

// Info implements model.Gateway.
func (g *Gateway) Info() model.Info {
	return model.Info{Name: g.opts.Model, Provider: "openai"}
}
