package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"concierge/app/config"

	"github.com/samber/do"
	"github.com/samber/oops"
	"github.com/sashabaranov/go-openai"
)

const requestTimeout = 30 * time.Second

// Error codes attached to every failed collaborator call.
const (
	CodeUpstreamUnavailable = "upstream_unavailable"
	CodeMalformedOutput     = "malformed_output"
)

// toolWebSearch enables the hosted web search tool on a completion request.
var toolWebSearch = openai.Tool{
	Type: openai.ToolType("web_search_preview"),
}

type Client struct {
	cfg    *config.Config
	client *openai.Client
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	clientConfig := openai.DefaultConfig(cfg.OpenAI.Token)
	if cfg.OpenAI.BaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAI.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout: requestTimeout,
	}

	return &Client{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientConfig),
	}, nil
}

// Complete runs a plain chat completion and returns the trimmed message text.
func (c *Client) Complete(ctx context.Context, model, instructions, input string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	aiResponse, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: instructions,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: input,
				},
			},
		},
	)
	if err != nil {
		return "", oops.Code(CodeUpstreamUnavailable).Wrapf(err, "failed to create chat completion")
	}

	if len(aiResponse.Choices) == 0 {
		return "", oops.Code(CodeMalformedOutput).Errorf("no chat completion found")
	}

	return strings.TrimSpace(aiResponse.Choices[0].Message.Content), nil
}

// CompleteWithSearch runs a chat completion with the hosted web search tool
// enabled and returns the trimmed message text.
func (c *Client) CompleteWithSearch(ctx context.Context, model, instructions, input string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	aiResponse, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: instructions,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: input,
				},
			},
			Tools: []openai.Tool{toolWebSearch},
		},
	)
	if err != nil {
		return "", oops.Code(CodeUpstreamUnavailable).Wrapf(err, "failed to create chat completion")
	}

	if len(aiResponse.Choices) == 0 {
		return "", oops.Code(CodeMalformedOutput).Errorf("no chat completion found")
	}

	return strings.TrimSpace(aiResponse.Choices[0].Message.Content), nil
}

// CompleteJSON runs a JSON-mode chat completion and unmarshals the result into out.
func (c *Client) CompleteJSON(ctx context.Context, model, instructions, input string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	aiResponse, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: instructions,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: input,
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return oops.Code(CodeUpstreamUnavailable).Wrapf(err, "failed to create chat completion")
	}

	if len(aiResponse.Choices) == 0 {
		return oops.Code(CodeMalformedOutput).Errorf("no chat completion found")
	}

	result := cleanJSONContent(aiResponse.Choices[0].Message.Content)

	if err = json.Unmarshal([]byte(result), out); err != nil {
		return oops.Code(CodeMalformedOutput).Wrapf(err, "failed to unmarshal response")
	}

	return nil
}

// GenerateStructured runs a completion constrained by a strict JSON schema,
// optionally augmented with the hosted web search tool, and returns the raw
// JSON document.
func (c *Client) GenerateStructured(ctx context.Context, model, instructions, input, schemaName string, schema json.RawMessage, webSearch bool) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	request := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: instructions,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: input,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: schema,
				Strict: true,
			},
		},
	}

	if webSearch {
		request.Tools = []openai.Tool{toolWebSearch}
	}

	aiResponse, err := c.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, oops.Code(CodeUpstreamUnavailable).Wrapf(err, "failed to create chat completion")
	}

	if len(aiResponse.Choices) == 0 {
		return nil, oops.Code(CodeMalformedOutput).Errorf("no chat completion found")
	}

	result := cleanJSONContent(aiResponse.Choices[0].Message.Content)

	if !json.Valid([]byte(result)) {
		return nil, oops.Code(CodeMalformedOutput).Errorf("completion is not valid JSON")
	}

	return json.RawMessage(result), nil
}

// cleanJSONContent strips markdown fences some models wrap around JSON output.
func cleanJSONContent(content string) string {
	result := strings.Trim(content, "`")
	result = strings.TrimSpace(result)
	result = strings.TrimPrefix(result, "json")
	result = strings.TrimSpace(result)

	return result
}
