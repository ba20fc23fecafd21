package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/incident_intake/internal/config"
	"github.com/shenikar/incident_intake/internal/models"
	"github.com/shenikar/incident_intake/internal/service"
	"github.com/shenikar/incident_intake/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var authHeader = map[string]string{"X-API-Key": "test-api-key"}

// newTestHandler создает новый экземпляр Handler с мокированными сервисами
func newTestHandler(t *testing.T) (*mocks.MockExtractionService, *mocks.MockRequestService, *gin.Engine) {
	ctrl := gomock.NewController(t)
	extractionMock := mocks.NewMockExtractionService(ctrl)
	requestMock := mocks.NewMockRequestService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		APIKeys: []string{"test-api-key"},
	}

	handler := NewHandler(extractionMock, requestMock, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return extractionMock, requestMock, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func completeResult() *models.ProcessResult {
	injuries := false
	return &models.ProcessResult{
		Record: models.IncidentRecord{
			Date:        "2025-03-19",
			Location:    "Rosario",
			Description: "Choque",
			Injuries:    &injuries,
			Complete:    true,
		},
		Readable: "Fecha: 2025-03-19",
	}
}

func TestProcessText_Success(t *testing.T) {
	extractionMock, requestMock, router := newTestHandler(t)
	result := completeResult()
	injuries := true
	oldData := &models.IncidentRecord{Location: "Rosario", Injuries: &injuries}

	extractionMock.EXPECT().
		ProcessInput(gomock.Any(), "Fue ayer", "America/Argentina/Buenos_Aires", oldData).
		Return(result, nil)
	requestMock.EXPECT().
		RecordRequest(gomock.Any(), "Fue ayer", result).
		Return(&models.Request{ID: uuid.New()}, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/process", jsonBody(t, ProcessTextRequest{
		Text:         "Fue ayer",
		OldData:      oldData,
		UserTimeZone: "America/Argentina/Buenos_Aires",
	}))

	require.Equal(t, http.StatusOK, w.Code)
	var resp ProcessTextResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, result.Record, resp.JSON)
	assert.Equal(t, result.Readable, resp.Readable)
	// Формат ответа: {"json": ..., "readable": ...}
	assert.Contains(t, w.Body.String(), `"json":{`)
}

func TestProcessText_RecordFailureDoesNotFailTurn(t *testing.T) {
	extractionMock, requestMock, router := newTestHandler(t)
	result := completeResult()

	extractionMock.EXPECT().ProcessInput(gomock.Any(), "texto", "", nil).Return(result, nil)
	requestMock.EXPECT().RecordRequest(gomock.Any(), "texto", result).Return(nil, errors.New("db down"))

	w := makeRequest(router, http.MethodPost, "/api/v1/process", strings.NewReader(`{"text":"texto"}`))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProcessText_ValidationErrors(t *testing.T) {
	_, _, router := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"text":`},
		{"missing text", `{"userTimeZone":"UTC"}`},
		{"empty text", `{"text":""}`},
		{"time zone too long", fmt.Sprintf(`{"text":"hola","userTimeZone":"%s"}`, strings.Repeat("x", 65))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := makeRequest(router, http.MethodPost, "/api/v1/process", strings.NewReader(tt.body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestProcessText_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "generator unavailable",
			err:        service.ErrGeneratorUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "No se pudo establecer conexión con la API de IA",
		},
		{
			name:       "processing failed",
			err:        fmt.Errorf("%w: %w", service.ErrProcessingFailed, errors.New("invalid extraction JSON")),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Error en el procesamiento: invalid extraction JSON",
		},
		{
			name:       "unexpected",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusInternalServerError,
			wantError:  "Error en el procesamiento: context deadline exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractionMock, requestMock, router := newTestHandler(t)
			extractionMock.EXPECT().ProcessInput(gomock.Any(), "texto", "", nil).Return(nil, tt.err)
			requestMock.EXPECT().RecordRequest(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			w := makeRequest(router, http.MethodPost, "/api/v1/process", strings.NewReader(`{"text":"texto"}`))

			require.Equal(t, tt.wantStatus, w.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantError, resp["error"])
		})
	}
}

func TestListRequests_Success(t *testing.T) {
	_, requestMock, router := newTestHandler(t)
	createdAt := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)
	requests := []*models.Request{
		{ID: uuid.New(), Text: "segundo", Response: *completeResult(), Complete: true, CreatedAt: createdAt},
		{ID: uuid.New(), Text: "primero", CreatedAt: createdAt.Add(-time.Hour)},
	}

	requestMock.EXPECT().ListRequests(gomock.Any(), 2, 5).Return(requests, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/requests?page=2&pageSize=5", nil, authHeader)

	require.Equal(t, http.StatusOK, w.Code)
	var resp []RequestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "segundo", resp[0].Text)
	assert.True(t, resp[0].Response.JSON.Complete)
	assert.Equal(t, createdAt, resp[0].CreatedAt)
}

func TestListRequests_DefaultPagination(t *testing.T) {
	_, requestMock, router := newTestHandler(t)

	requestMock.EXPECT().ListRequests(gomock.Any(), 1, 20).Return([]*models.Request{}, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/requests", nil, authHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListRequests_ServiceError(t *testing.T) {
	_, requestMock, router := newTestHandler(t)

	requestMock.EXPECT().ListRequests(gomock.Any(), 1, 20).Return(nil, errors.New("db down"))

	w := makeRequest(router, http.MethodGet, "/api/v1/requests", nil, authHeader)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequests_Auth(t *testing.T) {
	_, _, router := newTestHandler(t)

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"no key", map[string]string{}},
		{"wrong key", map[string]string{"X-API-Key": "nope"}},
		{"wrong bearer", map[string]string{"Authorization": "Bearer nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := makeRequest(router, http.MethodGet, "/api/v1/requests", nil, tt.headers)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequests_BearerAuth(t *testing.T) {
	_, requestMock, router := newTestHandler(t)

	requestMock.EXPECT().ListRequests(gomock.Any(), 1, 20).Return([]*models.Request{}, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/requests", nil, map[string]string{"Authorization": "Bearer test-api-key"})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetRequest_Success(t *testing.T) {
	_, requestMock, router := newTestHandler(t)
	requestID := uuid.New()

	requestMock.EXPECT().
		GetRequest(gomock.Any(), requestID).
		Return(&models.Request{ID: requestID, Text: "hola"}, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/requests/"+requestID.String(), nil, authHeader)

	require.Equal(t, http.StatusOK, w.Code)
	var resp RequestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, requestID, resp.ID)
}

func TestGetRequest_InvalidID(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/requests/not-a-uuid", nil, authHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRequest_NotFound(t *testing.T) {
	_, requestMock, router := newTestHandler(t)
	requestID := uuid.New()

	requestMock.EXPECT().
		GetRequest(gomock.Any(), requestID).
		Return(nil, fmt.Errorf("service: could not get request: %w", service.ErrRequestNotFound))

	w := makeRequest(router, http.MethodGet, "/api/v1/requests/"+requestID.String(), nil, authHeader)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRequest_ServiceError(t *testing.T) {
	_, requestMock, router := newTestHandler(t)
	requestID := uuid.New()

	requestMock.EXPECT().GetRequest(gomock.Any(), requestID).Return(nil, errors.New("db down"))

	w := makeRequest(router, http.MethodGet, "/api/v1/requests/"+requestID.String(), nil, authHeader)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthCheck(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGeneratorStatus(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		extractionMock, _, router := newTestHandler(t)
		extractionMock.EXPECT().TestConnection(gomock.Any()).Return(true)

		w := makeRequest(router, http.MethodGet, "/api/v1/system/generator", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unreachable", func(t *testing.T) {
		extractionMock, _, router := newTestHandler(t)
		extractionMock.EXPECT().TestConnection(gomock.Any()).Return(false)

		w := makeRequest(router, http.MethodGet, "/api/v1/system/generator", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
