// Package anthropic provides a model gateway backed by the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/archon-ai/archon/model"
)

// Options configures the Anthropic gateway adapter (model id, API key).
// Extend via functional options to preserve stability.
type Options struct {
	Model  anthropic.Model
	APIKey string
}

// Gateway wraps the Anthropic Messages API behind the generic model.Gateway
// interface.
type Gateway struct {
	client *anthropic.Client
	opts   Options
}

// NewGateway creates a new Anthropic gateway using the official client. When
// no API key is supplied the SDK resolves credentials from the environment.
func NewGateway(optFns ...func(o *Options)) *Gateway {
	opts := Options{
		Model: anthropic.ModelClaude3_5Sonnet20241022,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Gateway{client: &client, opts: opts}
}

// NewGatewayFromClient creates a new Anthropic gateway from an existing client.
func NewGatewayFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Gateway {
	opts := Options{
		Model: anthropic.ModelClaude3_5Sonnet20241022,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Gateway{client: client, opts: opts}
}

// Generate implements model.Gateway by issuing a single-turn Messages call.
func (g *Gateway) Generate(ctx context.Context, req model.Request) (model.Response, error) {
	params := anthropic.MessageNewParams{
		Model:       g.opts.Model,
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(req.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	}

	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	resp, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return model.Response{}, fmt.Errorf("anthropic api error: %w", err)
	}

	var out model.Response

	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			out.Text += block.AsText().Text
		case "thinking":
			out.Thinking += block.AsThinking().Thinking
		}
	}

	return out, nil
}

// Info implements model.Gateway.
func (g *Gateway) Info() model.Info {
	return model.Info{Name: string(g.opts.Model), Provider: "anthropic"}
}
