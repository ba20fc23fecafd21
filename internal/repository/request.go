package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_intake/internal/models"
	"github.com/shenikar/incident_intake/internal/service"
)

type RequestRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewRequestRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.RequestRepository {
	return &RequestRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

// Create сохраняет обработанный запрос, ответ хранится как JSONB
func (r *RequestRepository) Create(ctx context.Context, request *models.Request) error {
	response, err := json.Marshal(request.Response)
	if err != nil {
		return fmt.Errorf("failed to marshal request response: %w", err)
	}

	query := `
		INSERT INTO requests (text, response, complete)
		VALUES ($1, $2, $3) RETURNING id, created_at;
	`
	err = r.db.QueryRow(ctx, query, request.Text, response, request.Complete).
		Scan(&request.ID, &request.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return nil
}

// GetByID возвращает запрос по его UUID
func (r *RequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	query := `
		SELECT id, text, response, complete, created_at
		FROM requests
		WHERE id = $1;
	`
	request, err := scanRequest(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("request with id %s: %w", id, service.ErrRequestNotFound)
		}
		return nil, fmt.Errorf("failed to get request by id: %w", err)
	}
	return request, nil
}

// List возвращает запросы от новых к старым
func (r *RequestRepository) List(ctx context.Context, page, pageSize int) ([]*models.Request, error) {
	offset := (page - 1) * pageSize

	query := `
		SELECT id, text, response, complete, created_at
		FROM requests
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.db.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*models.Request, 0)
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request row: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return requests, nil
}

// scanRequest читает строку requests; pgx.Row покрывает и QueryRow, и Rows
func scanRequest(row pgx.Row) (*models.Request, error) {
	request := &models.Request{}
	var response []byte
	if err := row.Scan(&request.ID, &request.Text, &response, &request.Complete, &request.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(response, &request.Response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored response: %w", err)
	}
	return request, nil
}

func requestCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("request:%s", id.String())
}

// GetRequestFromCache пытается получить запрос из Redis. Промах кеша - (nil, nil).
func (r *RequestRepository) GetRequestFromCache(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	val, err := r.redisClient.Get(ctx, requestCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get request from cache: %w", err)
	}

	request := &models.Request{}
	if err := json.Unmarshal(val, request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request from cache: %w", err)
	}
	return request, nil
}

// SetRequestCache сохраняет запрос в Redis
func (r *RequestRepository) SetRequestCache(ctx context.Context, request *models.Request) error {
	val, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to marshal request for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, requestCacheKey(request.ID), val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set request in cache: %w", err)
	}
	return nil
}
