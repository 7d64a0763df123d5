package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/core/domain"
	"github.com/japezoa/bike-manager/internal/core/ports"
	"github.com/japezoa/bike-manager/internal/core/services"
)

type MaintenanceHandler struct {
	maintenanceService *services.MaintenanceService
	logger             ports.LoggerPort
	metrics            ports.MetricsPort
}

func NewMaintenanceHandler(
	maintenanceService *services.MaintenanceService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *MaintenanceHandler {
	return &MaintenanceHandler{
		maintenanceService: maintenanceService,
		logger:             logger,
		metrics:            metrics,
	}
}

type MaintenanceRequest struct {
	BicycleID                 uuid.UUID              `json:"bicycle_id" binding:"required"`
	Date                      string                 `json:"date" binding:"required" example:"2025-06-10"`
	MaintenanceType           domain.MaintenanceType `json:"maintenance_type" binding:"required" example:"repuesto"`
	Description               string                 `json:"description" binding:"required" example:"Cambio de cadena"`
	Cost                      *int64                 `json:"cost" example:"25000"`
	KilometersAtMaintenance   *int                   `json:"kilometers_at_maintenance"`
	NextMaintenanceKilometers *int                   `json:"next_maintenance_kilometers"`
}

// @Summary Registrar mantención
// @Tags maintenances
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body MaintenanceRequest true "Datos de la mantención"
// @Success 201 {object} domain.Maintenance "Mantención creada"
// @Failure 400 {object} errorResponse "Solicitud inválida"
// @Failure 409 {object} errorResponse "Bicicleta inexistente"
// @Router /maintenances [post]
func (h *MaintenanceHandler) CreateMaintenance(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req MaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in create maintenance", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	m := &domain.Maintenance{
		BicycleID:                 req.BicycleID,
		Date:                      req.Date,
		MaintenanceType:           req.MaintenanceType,
		Description:               req.Description,
		Cost:                      req.Cost,
		KilometersAtMaintenance:   req.KilometersAtMaintenance,
		NextMaintenanceKilometers: req.NextMaintenanceKilometers,
	}

	created, err := h.maintenanceService.CreateMaintenance(c.Request.Context(), session, m)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// @Summary Obtener mantención
// @Tags maintenances
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID de la mantención"
// @Success 200 {object} domain.Maintenance
// @Failure 404 {object} errorResponse "No encontrada"
// @Router /maintenances/{id} [get]
func (h *MaintenanceHandler) GetMaintenance(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	m, err := h.maintenanceService.GetMaintenanceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, m)
}

// @Summary Historial de mantenciones de una bicicleta
// @Tags maintenances
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID de la bicicleta"
// @Success 200 {array} domain.Maintenance
// @Router /bicycles/{id}/maintenances [get]
func (h *MaintenanceHandler) ListByBicycle(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	list, err := h.maintenanceService.ListMaintenancesByBicycle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// @Summary Actualizar mantención
// @Tags maintenances
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID de la mantención"
// @Param request body domain.MaintenanceUpdate true "Campos a actualizar"
// @Success 200 {object} domain.Maintenance
// @Failure 404 {object} errorResponse "No encontrada"
// @Router /maintenances/{id} [put]
func (h *MaintenanceHandler) UpdateMaintenance(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var update domain.MaintenanceUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	updated, err := h.maintenanceService.UpdateMaintenance(c.Request.Context(), session, c.Param("id"), &update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// @Summary Eliminar mantención
// @Tags maintenances
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID de la mantención"
// @Success 200 {object} successResponse
// @Failure 404 {object} errorResponse "No encontrada"
// @Router /maintenances/{id} [delete]
func (h *MaintenanceHandler) DeleteMaintenance(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.maintenanceService.DeleteMaintenance(c.Request.Context(), session, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse{Message: "Maintenance deleted successfully"})
}

type MaintenanceCostResponse struct {
	BicycleID string `json:"bicycle_id"`
	TotalCost int64  `json:"total_cost"`
}

// @Summary Costo acumulado de mantenciones
// @Tags maintenances
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID de la bicicleta"
// @Success 200 {object} MaintenanceCostResponse
// @Router /bicycles/{id}/maintenances/total-cost [get]
func (h *MaintenanceHandler) TotalCost(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bicycleID := c.Param("id")
	total, err := h.maintenanceService.TotalCost(c.Request.Context(), bicycleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MaintenanceCostResponse{BicycleID: bicycleID, TotalCost: total})
}

type LastMaintenanceResponse struct {
	BicycleID string `json:"bicycle_id"`
	Date      string `json:"date"`
}

// @Summary Fecha de la última mantención
// @Tags maintenances
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID de la bicicleta"
// @Success 200 {object} LastMaintenanceResponse "Fecha vacía si no hay mantenciones"
// @Router /bicycles/{id}/maintenances/last-date [get]
func (h *MaintenanceHandler) LastMaintenanceDate(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bicycleID := c.Param("id")
	date, err := h.maintenanceService.LastMaintenanceDate(c.Request.Context(), bicycleID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LastMaintenanceResponse{BicycleID: bicycleID, Date: date})
}
