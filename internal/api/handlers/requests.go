package handlers

import (
	"net/http"

	"github.com/dhima/wx-api/internal/api/response"
	"github.com/dhima/wx-api/internal/logging"
	"github.com/dhima/wx-api/internal/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestsHandler serves the request history.
type RequestsHandler struct {
	logger logging.Logger
	reader RecentRequestsReader
}

// NewRequestsHandler creates a new request history handler.
func NewRequestsHandler(logger logging.Logger, reader RecentRequestsReader) *RequestsHandler {
	return &RequestsHandler{
		logger: logger.With(zap.String("handler", "requests")),
		reader: reader,
	}
}

// ListRecentRequests godoc
// @Summary List recent requests
// @Description Returns the 10 most recently logged weather requests, newest first.
// @Tags Requests
// @Produce json
// @Success 200 {object} models.RecentRequestsResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /requests [get]
func (h *RequestsHandler) ListRecentRequests(c *gin.Context) {
	entries, err := h.reader.Recent(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list recent requests",
			zap.Error(err),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.InternalServerError(c, err.Error())
		return
	}

	response.Body(c, http.StatusOK, models.RecentRequestsResponse{RecentRequests: entries})
}
