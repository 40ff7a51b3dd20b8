// Package ai содержит обращения к генеративной модели: разбор попытки,
// генерацию викторин и фактов о крикете.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// ErrNoContent модель вернула пустой ответ
var ErrNoContent = errors.New("ai: model returned no text content")

// GenerateOptions параметры одного запроса к модели
type GenerateOptions struct {
	Temperature float32
	MaxTokens   int32
	// JSON просит модель вернуть только JSON
	JSON bool
}

// TextGenerator генерирует текст по промпту
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// Gemini реализует TextGenerator поверх Gemini API
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGemini создаёт клиента. Пустой ключ даёт nil без ошибки: вызывающий код
// переходит на запасные ответы.
func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration) (*Gemini, error) {
	if apiKey == "" {
		log.Warn().Str("component", "AI").Msg("GEMINI_API_KEY не задан, используются запасные ответы")
		return nil, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &Gemini{client: client, model: model, timeout: timeout}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	model := g.client.GenerativeModel(g.model)
	if opts.Temperature > 0 {
		model.SetTemperature(opts.Temperature)
	}
	model.SetTopK(40)
	model.SetTopP(0.95)
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(opts.MaxTokens)
	}
	if opts.JSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoContent
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", ErrNoContent
	}
	return sb.String(), nil
}

// Close закрывает клиента
func (g *Gemini) Close() error {
	return g.client.Close()
}

// decodeJSONObject извлекает первый JSON объект из ответа модели.
// Модель иногда оборачивает ответ в markdown.
func decodeJSONObject(text string, dest any) error {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in model response")
	}
	return json.Unmarshal([]byte(text[start:end+1]), dest)
}

// Source откуда получен ответ
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)
