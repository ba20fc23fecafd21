package service

//go:generate mockgen -source=extraction.go -destination=mocks/mock_extraction.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shenikar/incident_intake/internal/config"
	"github.com/shenikar/incident_intake/internal/models"
	"github.com/shenikar/incident_intake/internal/parser"
	"github.com/sirupsen/logrus"
)

// Тексты ошибок отдаются пользователю в ответе HTTP как есть.
var (
	// ErrGeneratorUnavailable - генератор недоступен ещё до первой попытки (HTTP 503)
	ErrGeneratorUnavailable = errors.New("No se pudo establecer conexión con la API de IA")
	// ErrProcessingFailed - все попытки извлечения исчерпаны (HTTP 500)
	ErrProcessingFailed = errors.New("Error en el procesamiento")
)

const fallbackMessage = "No se pudo procesar la solicitud"

// Generator определяет контракт внешнего генератора текста
type Generator interface {
	TestConnection(ctx context.Context) bool
	GenerateResponse(ctx context.Context, prompt string) (string, error)
}

// Geocoder определяет контракт геокодирования адреса. nil-результат означает "не найдено".
type Geocoder interface {
	GeocodeAddress(ctx context.Context, address string) (*models.GeocodeResult, error)
}

// ExtractionService определяет контракт извлечения данных об инциденте из текста
type ExtractionService interface {
	TestConnection(ctx context.Context) bool
	ProcessInput(ctx context.Context, text, timeZone string, previous *models.IncidentRecord) (*models.ProcessResult, error)
}

type extractionService struct {
	generator  Generator
	geocoder   Geocoder
	resolver   *parser.DateResolver
	logger     *logrus.Logger
	maxRetries int
	baseDelay  time.Duration
}

// NewExtractionService создаёт оркестратор. geocoder может быть nil - тогда обогащение отключено.
func NewExtractionService(generator Generator, geocoder Geocoder, resolver *parser.DateResolver, logger *logrus.Logger, cfg *config.Config) ExtractionService {
	return &extractionService{
		generator:  generator,
		geocoder:   geocoder,
		resolver:   resolver,
		logger:     logger,
		maxRetries: cfg.GeneratorMaxRetries,
		baseDelay:  cfg.GeneratorRetryBaseDelay,
	}
}

// TestConnection проверяет доступность генератора
func (s *extractionService) TestConnection(ctx context.Context) bool {
	return s.generator.TestConnection(ctx)
}

// ProcessInput извлекает данные из текста, сливает их с предыдущей записью и формирует ответ.
// Состояние повторов локально для вызова, поэтому конкурентные запросы независимы.
func (s *extractionService) ProcessInput(ctx context.Context, text, timeZone string, previous *models.IncidentRecord) (*models.ProcessResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "extraction",
		"method":    "ProcessInput",
		"time_zone": timeZone,
	})

	if !s.generator.TestConnection(ctx) {
		log.Error("Generator connectivity check failed")
		return nil, ErrGeneratorUnavailable
	}

	var lastErr error
	for attempt := 1; attempt <= s.maxRetries+1; attempt++ {
		result, err := s.attempt(ctx, log, text, timeZone, previous)
		if err == nil {
			log.WithFields(logrus.Fields{
				"attempt":  attempt,
				"complete": result.Record.Complete,
			}).Info("Input processed successfully")
			return result, nil
		}

		lastErr = err
		log.WithError(err).WithField("attempt", attempt).Warn("Extraction attempt failed")

		if attempt > s.maxRetries {
			log.WithError(err).Error("Extraction failed after all attempts")
			return nil, fmt.Errorf("%w: %w", ErrProcessingFailed, lastErr)
		}

		// Линейная задержка: номер попытки * базовая задержка
		delay := time.Duration(attempt) * s.baseDelay
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrProcessingFailed, ctx.Err())
		case <-time.After(delay):
		}
	}

	// Недостижимо при maxRetries >= 0, оставлено как запасной ответ
	return fallbackResult(), nil
}

// attempt выполняет одну попытку: генерация, разбор, нормализация даты, геокодирование, слияние
func (s *extractionService) attempt(ctx context.Context, log *logrus.Entry, text, timeZone string, previous *models.IncidentRecord) (*models.ProcessResult, error) {
	raw, err := s.generator.GenerateResponse(ctx, buildExtractionPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}

	extracted, err := parser.ParseExtraction(raw)
	if err != nil {
		return nil, err
	}

	extracted.Date = s.resolver.Resolve(extracted.Date, timeZone).Date

	if strings.TrimSpace(extracted.Location) != "" {
		s.enrichLocation(ctx, log, &extracted)
	}

	parser.ApplyCompleteness(&extracted)
	log.WithFields(logrus.Fields{
		"turn_complete": extracted.Complete,
		"turn_question": extracted.Question,
	}).Debug("Evaluated extracted turn")

	merged := parser.MergePartialData(previous, extracted)
	parser.ApplyCompleteness(&merged)

	return &models.ProcessResult{
		Record:   merged,
		Readable: parser.FormatReadableResponse(merged),
	}, nil
}

// enrichLocation добавляет координаты; ошибки геокодирования не прерывают обработку
func (s *extractionService) enrichLocation(ctx context.Context, log *logrus.Entry, record *models.IncidentRecord) {
	if s.geocoder == nil {
		return
	}

	geo, err := s.geocoder.GeocodeAddress(ctx, record.Location)
	if err != nil {
		log.WithError(err).WithField("location", record.Location).Warn("Geocoding failed, continuing without enrichment")
		return
	}
	if geo == nil {
		return
	}

	record.Latitude = &geo.Lat
	record.Longitude = &geo.Lng
	if geo.City != "" {
		city := geo.City
		record.City = &city
	}
	if geo.Region != "" {
		region := geo.Region
		record.Region = &region
	}
}

func fallbackResult() *models.ProcessResult {
	injuries := false
	return &models.ProcessResult{
		Record: models.IncidentRecord{
			Injuries: &injuries,
			Question: fallbackMessage,
		},
		Readable: fallbackMessage + ".",
	}
}
