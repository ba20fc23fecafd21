package service

//go:generate mockgen -source=request.go -destination=mocks/mock_request.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_intake/internal/models"
	"github.com/shenikar/incident_intake/internal/webhook"
	"github.com/sirupsen/logrus"
)

// ErrRequestNotFound - запрос с указанным ID отсутствует в хранилище
var ErrRequestNotFound = errors.New("request not found")

// RequestRepository определяет контракт для работы с бд обработанных запросов
type RequestRepository interface {
	Create(ctx context.Context, request *models.Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Request, error)
	List(ctx context.Context, page, pageSize int) ([]*models.Request, error)
	GetRequestFromCache(ctx context.Context, id uuid.UUID) (*models.Request, error)
	SetRequestCache(ctx context.Context, request *models.Request) error
}

// RequestService определяет контракт журнала обработанных запросов
type RequestService interface {
	RecordRequest(ctx context.Context, text string, result *models.ProcessResult) (*models.Request, error)
	GetRequest(ctx context.Context, id uuid.UUID) (*models.Request, error)
	ListRequests(ctx context.Context, page, pageSize int) ([]*models.Request, error)
}

type requestService struct {
	repo      RequestRepository
	publisher webhook.WebhookPublisher
	logger    *logrus.Logger
}

func NewRequestService(repo RequestRepository, publisher webhook.WebhookPublisher, logger *logrus.Logger) RequestService {
	return &requestService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// RecordRequest сохраняет обработанный запрос и публикует событие new_request
func (s *requestService) RecordRequest(ctx context.Context, text string, result *models.ProcessResult) (*models.Request, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "request",
		"method":  "RecordRequest",
	})

	request := &models.Request{
		Text:     text,
		Response: *result,
		Complete: result.Record.Complete,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		log.WithError(err).Error("Failed to save request in repository")
		return nil, fmt.Errorf("service: could not save request: %w", err)
	}
	log = log.WithField("request_id", request.ID)

	event := webhook.RequestEvent{
		Event:     webhook.EventNewRequest,
		RequestID: request.ID,
		Text:      request.Text,
		Complete:  request.Complete,
		Record:    result.Record,
		Timestamp: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// Запрос уже сохранён, сбой публикации только логируем
		log.WithError(err).Warn("Failed to publish new_request event")
	}

	log.Info("Request recorded successfully")
	return request, nil
}

// GetRequest получает запрос по ID, сначала из кеша
func (s *requestService) GetRequest(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "request",
		"method":     "GetRequest",
		"request_id": id,
	})

	cached, err := s.repo.GetRequestFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read request from cache")
	}
	if cached != nil {
		log.Debug("Request served from cache")
		return cached, nil
	}

	request, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to get request in repository")
		return nil, fmt.Errorf("service: could not get request: %w", err)
	}

	if err := s.repo.SetRequestCache(ctx, request); err != nil {
		log.WithError(err).Warn("Failed to cache request")
	}
	return request, nil
}

// ListRequests возвращает запросы от новых к старым с пагинацией
func (s *requestService) ListRequests(ctx context.Context, page, pageSize int) ([]*models.Request, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":   "request",
		"method":    "ListRequests",
		"page":      page,
		"page_size": pageSize,
	})

	requests, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list requests in repository")
		return nil, fmt.Errorf("service: could not list requests: %w", err)
	}

	log.WithField("count", len(requests)).Info("Requests listed successfully")
	return requests, nil
}
