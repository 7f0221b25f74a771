package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/ghulammurtaza27/debugmaster/internal/models"
)

// MentionExtractor pulls file and symbol mentions out of free-form defect
// report text. Extraction is advisory: a failing extractor degrades to zero
// mentions, it never fails context assembly.
type MentionExtractor interface {
	ExtractMentions(ctx context.Context, issue *models.Issue) []string
}

// NullExtractor is used when no API key is configured
type NullExtractor struct{}

func (NullExtractor) ExtractMentions(context.Context, *models.Issue) []string { return nil }

// OpenAIMentionExtractor asks a chat model to list the file paths and
// symbols a defect report refers to
type OpenAIMentionExtractor struct {
	client *openai.Client
	model  string
	logger *logrus.Logger
}

// NewOpenAIMentionExtractor creates an extractor backed by the OpenAI API
func NewOpenAIMentionExtractor(apiKey, model string, logger *logrus.Logger) *OpenAIMentionExtractor {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIMentionExtractor{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

const mentionPrompt = `You extract code references from bug reports.
Given the report below, list every file path, function name, class name, or
module the report mentions or implies. Respond with a JSON array of strings
and nothing else. Use forward slashes in paths. If nothing is mentioned,
respond with [].

Title: %s

Body:
%s`

// ExtractMentions returns the file and symbol names the report text refers
// to. Any API or decode failure is logged and returns nil.
func (e *OpenAIMentionExtractor) ExtractMentions(ctx context.Context, issue *models.Issue) []string {
	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(mentionPrompt, issue.Title, issue.Body),
			},
		},
	})
	if err != nil {
		e.logger.WithError(err).Warn("mention extraction failed, continuing without mentions")
		return nil
	}
	if len(resp.Choices) == 0 {
		return nil
	}

	mentions, err := decodeMentions(resp.Choices[0].Message.Content)
	if err != nil {
		e.logger.WithError(err).Warn("mention extraction returned malformed output")
		return nil
	}
	return mentions
}

// decodeMentions parses the model output, tolerating a fenced code block
// around the JSON array
func decodeMentions(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
		raw = strings.TrimSpace(raw)
	}

	var mentions []string
	if err := json.Unmarshal([]byte(raw), &mentions); err != nil {
		return nil, fmt.Errorf("decode mentions: %w", err)
	}

	out := mentions[:0]
	for _, m := range mentions {
		m = strings.TrimSpace(m)
		if m != "" {
			out = append(out, m)
		}
	}
	return out, nil
}
