package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

type AuditHandler struct {
	reader ports.AuditReader
}

func NewAuditHandler(reader ports.AuditReader) *AuditHandler {
	return &AuditHandler{reader: reader}
}

// AuthEvents lists recent signup and login attempts, newest first.
//
// @Summary      Authentication audit trail
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        username  query     string  false  "Filter by username"
// @Param        email     query     string  false  "Filter by email"
// @Param        type      query     string  false  "signup or login"
// @Param        limit     query     int     false  "Max events (default 50, max 500)"
// @Success      200       {array}   domain.AuthEvent
// @Failure      403       {object}  errorResponse
// @Router       /api/audit/auth-events [get]
func (h *AuditHandler) AuthEvents(c echo.Context) error {
	filter := ports.AuditFilter{
		Username: c.QueryParam("username"),
		Email:    c.QueryParam("email"),
	}

	switch t := domain.AuthEventType(c.QueryParam("type")); t {
	case "":
	case domain.AuthEventSignup, domain.AuthEventLogin:
		filter.Type = t
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "type must be one of: signup login")
	}

	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		filter.Limit = n
	}

	events, err := h.reader.Recent(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	if events == nil {
		events = []domain.AuthEvent{}
	}
	return c.JSON(http.StatusOK, events)
}
