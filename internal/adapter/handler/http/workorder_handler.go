package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/adapter/storage"
	"github.com/japezoa/bike-manager/internal/core/domain"
	"github.com/japezoa/bike-manager/internal/core/ports"
	"github.com/japezoa/bike-manager/internal/core/services"
)

type WorkOrderHandler struct {
	workOrderService *services.WorkOrderService
	storage          ports.StoragePort
	logger           ports.LoggerPort
	metrics          ports.MetricsPort
}

func NewWorkOrderHandler(
	workOrderService *services.WorkOrderService,
	storagePort ports.StoragePort,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *WorkOrderHandler {
	return &WorkOrderHandler{
		workOrderService: workOrderService,
		storage:          storagePort,
		logger:           logger,
		metrics:          metrics,
	}
}

type WorkOrderRequest struct {
	BicycleID             uuid.UUID              `json:"bicycle_id" binding:"required"`
	EntryDate             string                 `json:"entry_date" binding:"required" example:"2025-06-10"`
	EstimatedDeliveryDate string                 `json:"estimated_delivery_date" example:"2025-06-17"`
	Description           string                 `json:"description"`
	Items                 []domain.WorkItem      `json:"items"`
	InternalNotes         string                 `json:"internal_notes"`
	AssignedToID          *uuid.UUID             `json:"assigned_to_id"`
	Priority              domain.Priority        `json:"priority" example:"normal"`
	Status                domain.WorkOrderStatus `json:"status" example:"pending"`
}

type StatusRequest struct {
	Status domain.WorkOrderStatus `json:"status" binding:"required" example:"in_progress"`
}

// @Summary Crear orden de trabajo
// @Description El número OT-YYYY-NNNNN y los totales (IVA 19%) se calculan en el servidor
// @Tags work-orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body WorkOrderRequest true "Datos de la orden"
// @Success 201 {object} domain.WorkOrder "Orden creada"
// @Failure 400 {object} errorResponse "Solicitud inválida"
// @Failure 409 {object} errorResponse "Bicicleta inexistente"
// @Router /work-orders [post]
func (h *WorkOrderHandler) CreateWorkOrder(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req WorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in create work order", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	order := &domain.WorkOrder{
		BicycleID:             req.BicycleID,
		EntryDate:             req.EntryDate,
		EstimatedDeliveryDate: req.EstimatedDeliveryDate,
		Description:           req.Description,
		Items:                 req.Items,
		InternalNotes:         req.InternalNotes,
		AssignedToID:          req.AssignedToID,
		Priority:              req.Priority,
		Status:                req.Status,
	}

	created, err := h.workOrderService.CreateWorkOrder(c.Request.Context(), session, order)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// @Summary Listar órdenes de trabajo
// @Description Clientes ven solo órdenes de sus bicicletas. ?status filtra por estado.
// @Tags work-orders
// @Security BearerAuth
// @Produce json
// @Param status query string false "Estado de la orden"
// @Success 200 {array} domain.WorkOrder
// @Router /work-orders [get]
func (h *WorkOrderHandler) ListWorkOrders(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var (
		orders []*domain.WorkOrder
		err    error
	)
	if status := c.Query("status"); status != "" {
		orders, err = h.workOrderService.ListWorkOrdersByStatus(c.Request.Context(), session, domain.WorkOrderStatus(status))
	} else {
		orders, err = h.workOrderService.ListWorkOrders(c.Request.Context(), session)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// @Summary Órdenes de una bicicleta
// @Tags work-orders
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID de la bicicleta"
// @Success 200 {array} domain.WorkOrder
// @Router /bicycles/{id}/work-orders [get]
func (h *WorkOrderHandler) ListByBicycle(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orders, err := h.workOrderService.ListWorkOrdersByBicycle(c.Request.Context(), session, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// @Summary Obtener orden de trabajo
// @Tags work-orders
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID de la orden"
// @Success 200 {object} domain.WorkOrder
// @Failure 404 {object} errorResponse "No encontrada"
// @Router /work-orders/{id} [get]
func (h *WorkOrderHandler) GetWorkOrder(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	order, err := h.workOrderService.GetWorkOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// @Summary Actualizar orden de trabajo
// @Description Los totales se recalculan en el servidor; el estado se cambia solo vía PATCH /status
// @Tags work-orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID de la orden"
// @Param request body WorkOrderRequest true "Datos de la orden"
// @Success 200 {object} domain.WorkOrder
// @Failure 404 {object} errorResponse "No encontrada"
// @Router /work-orders/{id} [put]
func (h *WorkOrderHandler) UpdateWorkOrder(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req WorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	updated, err := h.workOrderService.UpdateWorkOrder(c.Request.Context(), session, c.Param("id"), func(o *domain.WorkOrder) {
		o.EntryDate = req.EntryDate
		o.EstimatedDeliveryDate = req.EstimatedDeliveryDate
		o.Description = req.Description
		o.Items = req.Items
		o.InternalNotes = req.InternalNotes
		o.AssignedToID = req.AssignedToID
		if req.Priority != "" {
			o.Priority = req.Priority
		}
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// @Summary Cambiar estado de la orden
// @Description Solo transiciones válidas del flujo de taller. Al completar se notifica al propietario.
// @Tags work-orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID de la orden"
// @Param request body StatusRequest true "Nuevo estado"
// @Success 200 {object} domain.WorkOrder
// @Failure 400 {object} errorResponse "Transición inválida"
// @Router /work-orders/{id}/status [patch]
func (h *WorkOrderHandler) UpdateStatus(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	updated, err := h.workOrderService.UpdateStatus(c.Request.Context(), session, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// @Summary Eliminar orden de trabajo
// @Tags work-orders
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID de la orden"
// @Success 200 {object} successResponse
// @Failure 404 {object} errorResponse "No encontrada"
// @Router /work-orders/{id} [delete]
func (h *WorkOrderHandler) DeleteWorkOrder(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.workOrderService.DeleteWorkOrder(c.Request.Context(), session, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse{Message: "Work order deleted successfully"})
}

// @Summary Subir foto a la orden
// @Description ?kind=reception adjunta a fotos de recepción; por defecto a fotos de trabajo
// @Tags work-orders
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "ID de la orden"
// @Param kind query string false "reception o work"
// @Param image formData file true "Foto"
// @Success 200 {object} ImageUploadResponse
// @Router /work-orders/{id}/photos [post]
func (h *WorkOrderHandler) UploadPhoto(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orderID := c.Param("id")
	kind := c.DefaultQuery("kind", "work")

	fileHeader, err := c.FormFile("image")
	if err != nil || fileHeader.Size > maxUploadBytes {
		newErrorResponse(c, http.StatusBadRequest, "Invalid image file")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid image file")
		return
	}
	defer file.Close()
	data, err := readLimited(file)
	if err != nil {
		respondError(c, err)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	path := storage.ObjectPath(orderID, kind, fileHeader.Filename, time.Now().UnixMilli())
	url, err := h.storage.Upload(c.Request.Context(), storage.WorkOrderPhotosBucket, path, data, contentType)
	if err != nil {
		respondError(c, err)
		return
	}

	if _, err := h.workOrderService.UpdateWorkOrder(c.Request.Context(), session, orderID, func(o *domain.WorkOrder) {
		if kind == "reception" {
			o.ReceptionPhotos = append(o.ReceptionPhotos, url)
			return
		}
		o.WorkPhotos = append(o.WorkPhotos, url)
	}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ImageUploadResponse{URL: url})
}

// @Summary Estadísticas del taller
// @Tags work-orders
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.WorkshopStats
// @Router /work-orders/stats [get]
func (h *WorkOrderHandler) WorkshopStats(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	stats, err := h.workOrderService.WorkshopStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary Notificaciones del usuario
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Notification
// @Router /notifications [get]
func (h *WorkOrderHandler) ListNotifications(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	list, err := h.workOrderService.ListNotifications(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// @Summary Marcar notificación como leída
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID de la notificación"
// @Success 200 {object} successResponse
// @Failure 404 {object} errorResponse "No encontrada"
// @Router /notifications/{id}/read [patch]
func (h *WorkOrderHandler) MarkNotificationRead(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	if err := h.workOrderService.MarkNotificationRead(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse{Message: "Notification marked as read"})
}
