package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/craftly/craftd/internal/resilience/apperr"
)

const openAIServiceName = "openai"

// chatCompleter is the slice of the OpenAI client we use.
// *openai.Client implements this implicitly.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance check.
var _ chatCompleter = (*openai.Client)(nil)

// OpenAICaptioner generates captions through OpenAI chat completions.
type OpenAICaptioner struct {
	client chatCompleter
	model  string
}

// NewOpenAICaptioner creates a captioner. model falls back to a small
// default when empty.
func NewOpenAICaptioner(apiKey, model string) *OpenAICaptioner {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAICaptioner{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// NewOpenAICaptionerWithClient injects a client, for tests.
func NewOpenAICaptionerWithClient(client chatCompleter, model string) *OpenAICaptioner {
	return &OpenAICaptioner{client: client, model: model}
}

func (p *OpenAICaptioner) Name() string { return openAIServiceName }

// GenerateCaption assembles the brand-aware prompt and requests a single
// completion.
func (p *OpenAICaptioner) GenerateCaption(ctx context.Context, req CaptionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperr.ExternalAPI(openAIServiceName, fmt.Errorf("empty completion response"))
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func systemPrompt(req CaptionRequest) string {
	var b strings.Builder
	b.WriteString("You write short social media captions for a brand.")
	if req.Voice != "" {
		fmt.Fprintf(&b, " Brand voice: %s.", req.Voice)
	}
	if req.Keywords != "" {
		fmt.Fprintf(&b, " Weave in these themes where natural: %s.", req.Keywords)
	}
	return b.String()
}

// classifyOpenAIError maps SDK errors onto the taxonomy. Auth failures
// are terminal; rate limits and server errors stay retryable.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401, 403:
			return apperr.Unauthorized("openai rejected the configured API key")
		case 429:
			return apperr.ExternalAPI(openAIServiceName, err).WithMeta("throttled", true)
		}
		if apiErr.HTTPStatusCode >= 500 {
			return apperr.Unavailable(openAIServiceName, err)
		}
	}
	return apperr.ExternalAPI(openAIServiceName, err)
}
