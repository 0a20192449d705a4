package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pavelanni/reporter/internal/render"
	"github.com/pavelanni/reporter/internal/report"
)

// Client wraps an OpenAI-compatible API client.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a new LLM client.
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

// Ping checks that the endpoint answers and serves the configured model.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.GetModel(ctx, c.model); err != nil {
		return fmt.Errorf("get model %q: %w", c.model, err)
	}
	return nil
}

// SummarizeFeedback asks the LLM for a short, encouraging paragraph that
// tells the student what to practise next. Only the report facts are sent.
func (c *Client) SummarizeFeedback(ctx context.Context, f *report.Feedback) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildFeedbackPrompt(f)},
		},
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	slog.Debug("LLM summary", "raw", summary)
	return summary, nil
}

const summarySystemPrompt = "You are a primary school teacher writing a short note to a student " +
	"after an assessment. Write at most three sentences in plain English. Be encouraging, " +
	"name the topics to practise, and do not repeat every question."

func buildFeedbackPrompt(f *report.Feedback) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "STUDENT: %s\n", f.Student.FirstName)
	fmt.Fprintf(&sb, "ASSESSMENT: %s\n", f.Assessment.Name)
	fmt.Fprintf(&sb, "SCORE: %d out of %d\n\n", f.RawScore, f.TotalQuestions)

	if len(f.Items) == 0 {
		sb.WriteString("The student answered every question correctly.\n")
		return sb.String()
	}

	sb.WriteString("WRONG ANSWERS:\n")
	for i, it := range f.Items {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, it.Question)
		if it.Strand != "" {
			fmt.Fprintf(&sb, "   topic: %s\n", render.TitleStrand(it.Strand))
		}
		if it.Incorrect != nil {
			fmt.Fprintf(&sb, "   chosen: %s\n", it.Incorrect.Value)
		}
		if it.Correct != nil {
			fmt.Fprintf(&sb, "   correct: %s\n", it.Correct.Value)
		}
		if it.Hint != "" {
			fmt.Fprintf(&sb, "   hint: %s\n", it.Hint)
		}
	}
	return sb.String()
}
