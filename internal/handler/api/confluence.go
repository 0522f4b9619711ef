package api

import (
	"net/http"

	"ConfluenceBoard/internal/domain/models"
	"ConfluenceBoard/internal/usecase"
	xhttp "ConfluenceBoard/pkg/http"
	xlogger "ConfluenceBoard/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ConfluenceRequest carries the optional filter category for the board.
type ConfluenceRequest struct {
	Filter string `query:"filter" default:"All" validate:"omitempty,oneof='All' 'Strong Bullish' 'Bullish' 'Bearish' 'Strong Bearish' 'No Confluence'"`
}

// ConfluenceHandler implements the Echo-based HTTP surface of the board.
type ConfluenceHandler struct {
	logger  *xlogger.Logger
	scanner usecase.Scanner
}

func NewConfluenceHandler(logger *xlogger.Logger, scanner usecase.Scanner) *ConfluenceHandler {
	return &ConfluenceHandler{logger: logger, scanner: scanner}
}

func (h *ConfluenceHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/confluence", h.Confluence)
	e.GET("/healthz", h.Health)
}

// Confluence returns the full scoring table as a JSON array. Total upstream
// unavailability is reported as an error object in the body with HTTP 200,
// so dashboard clients can render the failure instead of a transport error.
func (h *ConfluenceHandler) Confluence(c echo.Context) error {
	req := &ConfluenceRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	results, err := h.scanner.Scan(c.Request().Context())
	if err != nil {
		h.logger.Error("confluence scan failed", xlogger.Error(err))
		return c.JSON(http.StatusOK, models.ScanError{
			Error:   "Unable to fetch market data",
			Details: err.Error(),
		})
	}

	filtered := usecase.Filter(results, req.Filter)
	if filtered == nil {
		filtered = []models.ConfluenceResult{}
	}
	return c.JSON(http.StatusOK, filtered)
}

func (h *ConfluenceHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
