package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sirupsen/logrus"
)

const defaultModel = openai.ChatModelGPT4oMini

const systemPrompt = `You are a brandable domain name generator. Respond with a JSON array only, no prose. Each element must be an object of the form {"domain": "<name><extension>", "reason": "<one short sentence>"}.`

// OpenAI generates candidate names through the OpenAI chat completion API.
type OpenAI struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAI creates an OpenAI-backed generator. An empty model falls back to
// the default.
func NewOpenAI(apiKey, model string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: no API key configured", ErrAuth)
	}

	g := &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  defaultModel,
	}
	if model != "" {
		g.model = openai.ChatModel(model)
	}

	return g, nil
}

// Generate renders the round policy into a prompt and returns the raw model
// text for the extractor.
func (g *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildPrompt(req)),
		},
	})
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}

	text := resp.Choices[0].Message.Content
	logrus.Debugf("Generator returned %d characters for query %q", len(text), req.Query)
	return text, nil
}

// buildPrompt turns a round request into the user message.
func buildPrompt(req Request) string {
	var b strings.Builder

	batch := req.BatchSize
	if batch <= 0 {
		batch = 10
	}

	fmt.Fprintf(&b, "Suggest %d domain names for this business idea: %q.\n", batch, req.Query)

	if len(req.Extensions) > 0 {
		fmt.Fprintf(&b, "Allowed extensions: %s.\n", strings.Join(req.Extensions, ", "))
	}
	if req.DefaultExtension != "" && req.ExtensionBias > 0 {
		fmt.Fprintf(&b, "About %d%% of the names should use %s.\n", int(req.ExtensionBias*100), req.DefaultExtension)
	}
	if req.Creative {
		b.WriteString("Maximize creativity: invented words, unusual blends, and surprising metaphors are welcome.\n")
	}
	if len(req.Excluded) > 0 {
		fmt.Fprintf(&b, "Do not suggest any of these names again: %s.\n", strings.Join(req.Excluded, ", "))
	}

	return b.String()
}

// classify maps API failures onto the error taxonomy: credential rejections
// are fatal, everything else bubbles up as-is for the caller to degrade.
func classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrAuth, err)
		}
	}
	return fmt.Errorf("generation request failed: %w", err)
}
