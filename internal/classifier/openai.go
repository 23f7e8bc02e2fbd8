package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"

	"github.com/campusops/facility-desk/internal/domain"
)

const defaultModel = "gpt-4o-mini"

// OpenAIConfig configures the OpenAI-backed classifier.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAI asks a chat completion model to classify requests.
type OpenAI struct {
	client  openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewOpenAI builds a classifier. It returns Noop when no API key is configured.
func NewOpenAI(cfg OpenAIConfig, logger *zap.Logger) Classifier {
	if strings.TrimSpace(cfg.APIKey) == "" {
		logger.Warn("no API key provided for classifier; suggestions disabled")
		return Noop{}
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &OpenAI{
		client:  openai.NewClient(opts...),
		model:   model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

var promptTemplate = template.Must(template.New("classify").Parse(`Analyze the following facility maintenance or service request.
Description: "{{.Description}}"
Location: "{{.Location}}"

Determine the most appropriate category and urgency level.

Categories:
{{range .Categories}}- {{.Label}}
{{end}}
Urgency levels: {{range $i, $u := .Urgencies}}{{if $i}}, {{end}}{{$u}}{{end}}

Also provide a very brief 5-word summary title.
Answer with a single JSON object: {"category": "...", "urgency": "...", "summary": "..."}`))

type promptData struct {
	Description string
	Location    domain.Location
	Categories  []domain.Category
	Urgencies   []domain.Urgency
}

type answer struct {
	Category string `json:"category"`
	Urgency  string `json:"urgency"`
	Summary  string `json:"summary"`
}

// Classify returns ErrUnavailable on any transport or parsing failure.
func (c *OpenAI) Classify(ctx context.Context, description string, location domain.Location) (Suggestion, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, promptData{
		Description: description,
		Location:    location,
		Categories:  domain.Categories,
		Urgencies:   domain.Urgencies,
	}); err != nil {
		return Suggestion{}, fmt.Errorf("%w: render prompt: %v", ErrUnavailable, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	response, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You classify facility maintenance requests and answer only with JSON."),
			openai.UserMessage(buf.String()),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		c.logger.Warn("classification request failed", zap.Error(err))
		return Suggestion{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(response.Choices) == 0 {
		return Suggestion{}, fmt.Errorf("%w: empty response", ErrUnavailable)
	}

	suggestion, err := parseAnswer(response.Choices[0].Message.Content)
	if err != nil {
		c.logger.Warn("classification answer rejected", zap.Error(err))
		return Suggestion{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return suggestion, nil
}

func parseAnswer(raw string) (Suggestion, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return Suggestion{}, fmt.Errorf("empty answer")
	}

	var a answer
	if err := json.Unmarshal([]byte(text), &a); err != nil {
		return Suggestion{}, fmt.Errorf("decode answer: %w", err)
	}
	category, ok := domain.ParseCategory(a.Category)
	if !ok {
		return Suggestion{}, fmt.Errorf("unknown category %q", a.Category)
	}
	urgency, ok := domain.ParseUrgency(a.Urgency)
	if !ok {
		return Suggestion{}, fmt.Errorf("unknown urgency %q", a.Urgency)
	}
	return Suggestion{
		Category: category,
		Urgency:  urgency,
		Summary:  strings.TrimSpace(a.Summary),
	}, nil
}
