package motivation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	accountmodels "io.winapps.smokefree/internal/models/account"
)

// ErrInvalidResponse means the model answered with something that is not a
// complete motivation object.
var ErrInvalidResponse = errors.New("invalid model response")

type Generator interface {
	Name() string
	Generate(ctx context.Context, in Input) (accountmodels.MotivationText, error)
}

type OpenAIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

type OpenAIGenerator struct {
	cfg    OpenAIConfig
	client *http.Client
}

func NewOpenAIGenerator(cfg OpenAIConfig) *OpenAIGenerator {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &OpenAIGenerator{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

func (g *OpenAIGenerator) Name() string { return "openai" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	MaxTokens      int               `json:"max_tokens"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

func (g *OpenAIGenerator) Generate(ctx context.Context, in Input) (accountmodels.MotivationText, error) {
	payload, err := json.Marshal(chatRequest{
		Model: g.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(in)},
		},
		MaxTokens:      g.cfg.MaxTokens,
		Temperature:    g.cfg.Temperature,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return accountmodels.MotivationText{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(g.cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return accountmodels.MotivationText{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return accountmodels.MotivationText{}, fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return accountmodels.MotivationText{}, fmt.Errorf("read openai response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return accountmodels.MotivationText{}, fmt.Errorf("openai returned %d: %s", resp.StatusCode, gjson.GetBytes(body, "error.message").String())
	}

	content := gjson.GetBytes(body, "choices.0.message.content")
	if !content.Exists() {
		return accountmodels.MotivationText{}, ErrInvalidResponse
	}
	return ParseMotivation(content.String())
}

var codeFence = regexp.MustCompile("(?m)^```(?:json)?\\s*|\\s*```$")

// ParseMotivation decodes model output, tolerating a surrounding markdown
// code fence. Every field except recommendations must be present.
func ParseMotivation(raw string) (accountmodels.MotivationText, error) {
	clean := codeFence.ReplaceAllString(strings.TrimSpace(raw), "")

	var text accountmodels.MotivationText
	if err := json.Unmarshal([]byte(clean), &text); err != nil {
		return accountmodels.MotivationText{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	for name, v := range map[string]string{
		"progress":   text.Progress,
		"motivation": text.Motivation,
		"cravings":   text.Cravings,
		"ideas":      text.Ideas,
	} {
		if strings.TrimSpace(v) == "" {
			return accountmodels.MotivationText{}, fmt.Errorf("%w: missing %s", ErrInvalidResponse, name)
		}
	}
	return text, nil
}
