package handlers

import (
	"github.com/dhima/wx-api/internal/api/response"
	"github.com/dhima/wx-api/internal/logging"
	"github.com/dhima/wx-api/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MetricsHandler handles metrics requests.
type MetricsHandler struct {
	logger  logging.Logger
	counter StatusCounter
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler(logger logging.Logger, counter StatusCounter) *MetricsHandler {
	return &MetricsHandler{logger: logger, counter: counter}
}

// MetricsResponse represents the metrics response.
type MetricsResponse struct {
	RequestsTotal   int64 `json:"requests_total" example:"1250"`
	RequestsPending int64 `json:"requests_pending" example:"2"`
	RequestsSuccess int64 `json:"requests_success" example:"1200"`
	RequestsFailed  int64 `json:"requests_failed" example:"48"`
} // @name MetricsResponse

// Metrics godoc
// @Summary Get request metrics
// @Description Returns counts of logged requests by status
// @Tags System
// @Produce json
// @Success 200 {object} MetricsResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /metrics [get]
func (h *MetricsHandler) Metrics(c *gin.Context) {
	counts, err := h.counter.CountByStatus(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to count requests",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.InternalServerError(c, "failed to collect metrics")
		return
	}

	metrics := MetricsResponse{
		RequestsPending: counts[models.RequestStatusPending],
		RequestsSuccess: counts[models.RequestStatusSuccess],
		RequestsFailed:  counts[models.RequestStatusFailed],
	}
	metrics.RequestsTotal = metrics.RequestsPending + metrics.RequestsSuccess + metrics.RequestsFailed

	response.OK(c, metrics)
}
