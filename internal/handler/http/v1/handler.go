package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/incident_intake/internal/config"
	"github.com/shenikar/incident_intake/internal/service"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	extractionService service.ExtractionService
	requestService    service.RequestService
	logger            *logrus.Logger
	validate          *validator.Validate
	cfg               *config.Config
}

func NewHandler(extractionService service.ExtractionService, requestService service.RequestService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		extractionService: extractionService,
		requestService:    requestService,
		logger:            logger,
		validate:          validator.New(),
		cfg:               cfg,
	}
}

// @Summary Process a user message
// @Description Extracts incident data from free text, merges it with oldData and returns the record with a readable reply.
// @Tags AI
// @Accept json
// @Produce json
// @Param request body ProcessTextRequest true "User message"
// @Success 200 {object} ProcessTextResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Processing failed"
// @Failure 503 {object} map[string]string "Generator unavailable"
// @Router /process [post]
func (h *Handler) processText(c *gin.Context) {
	var input ProcessTextRequest
	log := h.logger.WithField("method", "processText")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	result, err := h.extractionService.ProcessInput(ctx, input.Text, input.UserTimeZone, input.OldData)
	if err != nil {
		status, message := processingErrorResponse(err)
		log.WithError(err).WithField("status", status).Error("Failed to process input")
		c.JSON(status, gin.H{"error": message})
		return
	}

	if _, err := h.requestService.RecordRequest(ctx, input.Text, result); err != nil {
		// Сбой журнала не меняет ответ
		log.WithError(err).Warn("Failed to record request")
	}

	c.JSON(http.StatusOK, ResultToProcessResponse(result))
}

// processingErrorResponse сопоставляет ошибку оркестратора со статусом HTTP
func processingErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrGeneratorUnavailable):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, service.ErrProcessingFailed):
		return http.StatusInternalServerError, err.Error()
	default:
		return http.StatusInternalServerError, fmt.Sprintf("%s: %s", service.ErrProcessingFailed, err)
	}
}

// @Summary Get a list of processed requests
// @Description Get a paginated list of processed requests, newest first. Requires API key.
// @Tags Requests
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Success 200 {array} RequestResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /requests [get]
func (h *Handler) listRequests(c *gin.Context) {
	log := h.logger.WithField("method", "listRequests")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	requests, err := h.requestService.ListRequests(c.Request.Context(), page, pageSize)
	if err != nil {
		log.WithError(err).Error("Failed to list requests from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ModelsToRequestResponses(requests))
}

// @Summary Get processed request by ID
// @Description Get a single processed request by its ID. Requires API key.
// @Tags Requests
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Request ID"
// @Success 200 {object} RequestResponse
// @Failure 400 {object} map[string]string "Invalid request ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /requests/{id} [get]
func (h *Handler) getRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request ID"})
		return
	}
	log := h.logger.WithField("method", "getRequest").WithField("id", id)

	request, err := h.requestService.GetRequest(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRequestNotFound) {
			log.WithError(err).Warn("Request not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
			return
		}
		log.WithError(err).Error("Failed to get request from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelToRequestResponse(request))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Check generator connectivity
// @Description Sends a probe prompt to the text generator
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Generator reachable"
// @Failure 503 {object} map[string]string "Generator unavailable"
// @Router /system/generator [get]
func (h *Handler) generatorStatus(c *gin.Context) {
	if !h.extractionService.TestConnection(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": service.ErrGeneratorUnavailable.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
