package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/japezoa/bike-manager/internal/core/domain"
	"github.com/japezoa/bike-manager/internal/core/ports"
	"github.com/japezoa/bike-manager/internal/core/services"
)

type OwnerHandler struct {
	ownerService *services.OwnerService
	logger       ports.LoggerPort
	metrics      ports.MetricsPort
}

func NewOwnerHandler(
	ownerService *services.OwnerService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *OwnerHandler {
	return &OwnerHandler{
		ownerService: ownerService,
		logger:       logger,
		metrics:      metrics,
	}
}

type OwnerRequest struct {
	RUT    string        `json:"rut" binding:"required" example:"12.345.678-9"`
	Name   string        `json:"name" binding:"required" example:"María Pérez"`
	Age    int           `json:"age" example:"34"`
	Gender domain.Gender `json:"gender" binding:"required" example:"female"`
	Email  string        `json:"email" binding:"required" example:"maria@example.com"`
	Phone  string        `json:"phone" example:"+56 9 1234 5678"`
	Role   domain.Role   `json:"role" binding:"required" example:"customer"`
}

type MeResponse struct {
	OwnerID      string              `json:"owner_id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Role         domain.Role         `json:"role"`
	Capabilities domain.Capabilities `json:"capabilities"`
}

// @Summary Current session
// @Description Resolved owner profile and capability set of the caller
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} MeResponse "Perfil resuelto"
// @Failure 401 {object} errorResponse "No autorizado"
// @Router /me [get]
func (h *OwnerHandler) Me(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		OwnerID:      session.OwnerID.String(),
		Name:         session.Name,
		Email:        session.Email,
		Role:         session.Role,
		Capabilities: session.Capabilities(),
	})
}

// @Summary Crear propietario
// @Tags owners
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body OwnerRequest true "Datos del propietario"
// @Success 201 {object} domain.Owner "Propietario creado"
// @Failure 400 {object} errorResponse "Solicitud inválida"
// @Failure 409 {object} errorResponse "RUT o email duplicado"
// @Router /owners [post]
func (h *OwnerHandler) CreateOwner(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req OwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in create owner", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	owner := &domain.Owner{
		RUT:    req.RUT,
		Name:   req.Name,
		Age:    req.Age,
		Gender: req.Gender,
		Email:  req.Email,
		Phone:  req.Phone,
		Role:   req.Role,
	}

	created, err := h.ownerService.CreateOwner(c.Request.Context(), session, owner)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// @Summary Listar propietarios
// @Description Staff ve todos; un cliente solo su propio perfil. ?assignable=true lista solo clientes.
// @Tags owners
// @Security BearerAuth
// @Produce json
// @Param assignable query bool false "Solo propietarios asignables a bicicletas"
// @Success 200 {array} domain.Owner
// @Failure 401 {object} errorResponse "No autorizado"
// @Router /owners [get]
func (h *OwnerHandler) ListOwners(c *gin.Context) {
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
		owners []*domain.Owner
		err    error
	)
	if c.Query("assignable") == "true" {
		owners, err = h.ownerService.ListAssignableOwners(c.Request.Context())
	} else {
		owners, err = h.ownerService.ListOwners(c.Request.Context(), session)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, owners)
}

// @Summary Obtener propietario
// @Tags owners
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID del propietario"
// @Success 200 {object} domain.Owner
// @Failure 404 {object} errorResponse "No encontrado"
// @Router /owners/{id} [get]
func (h *OwnerHandler) GetOwner(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	owner, err := h.ownerService.GetOwnerByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, owner)
}

// @Summary Actualizar propietario
// @Tags owners
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID del propietario"
// @Param request body domain.OwnerUpdate true "Campos a actualizar"
// @Success 200 {object} domain.Owner
// @Failure 409 {object} errorResponse "RUT o email duplicado"
// @Router /owners/{id} [put]
func (h *OwnerHandler) UpdateOwner(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var update domain.OwnerUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	updated, err := h.ownerService.UpdateOwner(c.Request.Context(), session, c.Param("id"), &update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// @Summary Eliminar propietario
// @Description Falla mientras el propietario tenga bicicletas registradas
// @Tags owners
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID del propietario"
// @Success 200 {object} successResponse
// @Failure 409 {object} errorResponse "Tiene bicicletas registradas"
// @Router /owners/{id} [delete]
func (h *OwnerHandler) DeleteOwner(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.ownerService.DeleteOwner(c.Request.Context(), session, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse{Message: "Owner deleted successfully"})
}

type BicycleCountResponse struct {
	OwnerID string `json:"owner_id"`
	Count   int    `json:"count"`
}

// @Summary Bicicletas por propietario
// @Tags owners
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID del propietario"
// @Success 200 {object} BicycleCountResponse
// @Router /owners/{id}/bicycles/count [get]
func (h *OwnerHandler) CountBicycles(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	ownerID := c.Param("id")
	count, err := h.ownerService.CountBicycles(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, err)
		return
	}

	// The owner id rides along so concurrent per-owner counts can be paired
	// with their request regardless of completion order.
	c.JSON(http.StatusOK, BicycleCountResponse{OwnerID: ownerID, Count: count})
}
