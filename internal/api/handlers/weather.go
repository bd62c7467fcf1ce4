package handlers

import (
	"errors"
	"net/http"

	"github.com/dhima/wx-api/internal/api/response"
	"github.com/dhima/wx-api/internal/logging"
	"github.com/dhima/wx-api/internal/lookup"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WeatherHandler handles ZIP code weather lookups.
type WeatherHandler struct {
	logger  logging.Logger
	service WeatherService
}

// NewWeatherHandler creates a new weather handler.
func NewWeatherHandler(logger logging.Logger, service WeatherService) *WeatherHandler {
	return &WeatherHandler{
		logger:  logger.With(zap.String("handler", "weather")),
		service: service,
	}
}

// GetWeather godoc
// @Summary Get the forecast for a ZIP code
// @Description Geocodes a 5-digit US ZIP code and returns the next two NWS forecast periods.
// @Description Every accepted request is logged; upstream failures are reported in the body with status FAILED or an error payload.
// @Tags Weather
// @Produce json
// @Param zip_code path string true "5-digit US ZIP code" example(90210)
// @Success 200 {object} models.WeatherResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /{zip_code} [get]
func (h *WeatherHandler) GetWeather(c *gin.Context) {
	zipCode := c.Param("zip_code")

	result, err := h.service.Lookup(c.Request.Context(), zipCode)
	if err != nil {
		var validationErr lookup.ValidationError
		if errors.As(err, &validationErr) {
			h.logger.Info("rejected invalid zip code",
				zap.String("zip_code", zipCode),
				zap.String("request_id", response.GetRequestID(c)),
			)
			response.BadRequest(c, validationErr.Error(), nil)
			return
		}

		h.logger.Error("weather lookup failed",
			zap.Error(err),
			zap.String("zip_code", zipCode),
			zap.String("request_id", response.GetRequestID(c)),
		)
		response.InternalServerError(c, "failed to record request")
		return
	}

	response.Body(c, http.StatusOK, result)
}
