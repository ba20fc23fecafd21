// Package generator - клиент генеративной модели Gemini
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shenikar/incident_intake/internal/config"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

const connectionTestPrompt = "Translate to English: Hola mundo"

var (
	// ErrInsufficientResponse - ответ модели короче минимально допустимого.
	// Текст отдаётся пользователю в сообщении об ошибке обработки как есть.
	ErrInsufficientResponse = errors.New("Respuesta insuficiente de la IA")
	// ErrMissingAPIKey - GEMINI_API_KEY не задан
	ErrMissingAPIKey = errors.New("GEMINI_API_KEY is required")
)

// GeminiGenerator реализует service.Generator поверх google.golang.org/genai
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	timeout     time.Duration
	testTimeout time.Duration
	minLength   int
	logger      *logrus.Logger
}

// NewGeminiGenerator создаёт клиента. GEMINI_BASE_URL позволяет направить запросы на прокси или тестовый сервер.
func NewGeminiGenerator(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*GeminiGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.GeminiBaseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiGenerator{
		client:      client,
		model:       cfg.GeminiModel,
		timeout:     cfg.GeminiTimeout,
		testTimeout: cfg.GeminiTestTimeout,
		minLength:   cfg.GeminiMinResponseLength,
		logger:      logger,
	}, nil
}

// TestConnection отправляет короткий пробный запрос
func (g *GeminiGenerator) TestConnection(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, g.testTimeout)
	defer cancel()

	text, err := g.generate(ctx, connectionTestPrompt)
	if err != nil {
		g.logger.WithFields(logrus.Fields{
			"generator": "gemini",
			"model":     g.model,
		}).WithError(err).Warn("Gemini connectivity check failed")
		return false
	}
	return strings.TrimSpace(text) != ""
}

// GenerateResponse возвращает ответ модели на prompt
func (g *GeminiGenerator) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < g.minLength {
		return "", fmt.Errorf("%w: got %d characters", ErrInsufficientResponse, utf8.RuneCountInString(text))
	}
	return text, nil
}

func (g *GeminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
		TopP:        genai.Ptr[float32](0.9),
		TopK:        genai.Ptr[float32](40),
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return resp.Text(), nil
}
