package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/core/domain"
	"github.com/japezoa/bike-manager/internal/core/ports"
	"github.com/japezoa/bike-manager/internal/core/services"
)

type AuditHandler struct {
	auditService *services.AuditService
	logger       ports.LoggerPort
	metrics      ports.MetricsPort
}

func NewAuditHandler(
	auditService *services.AuditService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
		metrics:      metrics,
	}
}

// @Summary Consultar registro de auditoría
// @Description Solo administradores. Los registros son de solo lectura y se devuelven del más reciente al más antiguo.
// @Tags audit
// @Security BearerAuth
// @Produce json
// @Param action query string false "Filtrar por acción (create, update, delete, status_change)"
// @Param entity_type query string false "Filtrar por tipo de entidad"
// @Param entity_id query string false "Filtrar por entidad"
// @Param user_email query string false "Filtrar por autor"
// @Param user_role query string false "Filtrar por rol del autor"
// @Param since query string false "Desde (RFC3339)"
// @Param until query string false "Hasta (RFC3339)"
// @Param limit query int false "Máximo de registros (default 100)"
// @Success 200 {array} domain.AuditLog
// @Failure 403 {object} errorResponse "Requiere rol admin"
// @Router /audit-logs [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	filter := domain.AuditFilter{
		Action:     domain.AuditAction(c.Query("action")),
		EntityType: domain.EntityType(c.Query("entity_type")),
		UserEmail:  c.Query("user_email"),
		UserRole:   domain.Role(c.Query("user_role")),
	}

	if raw := c.Query("entity_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, "Invalid entity_id")
			return
		}
		filter.EntityID = &id
	}
	if raw := c.Query("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, "Invalid since timestamp")
			return
		}
		filter.Since = &t
	}
	if raw := c.Query("until"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, "Invalid until timestamp")
			return
		}
		filter.Until = &t
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			newErrorResponse(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		filter.Limit = limit
	}

	logs, err := h.auditService.ListAuditLogs(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, logs)
}
