package http

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/adapter/storage"
	"github.com/japezoa/bike-manager/internal/core/domain"
	"github.com/japezoa/bike-manager/internal/core/ports"
	"github.com/japezoa/bike-manager/internal/core/services"
)

// maxUploadBytes caps multipart image uploads at 10 MB.
const maxUploadBytes = 10 << 20

type BicycleHandler struct {
	bicycleService *services.BicycleService
	storage        ports.StoragePort
	logger         ports.LoggerPort
	metrics        ports.MetricsPort
}

func NewBicycleHandler(
	bicycleService *services.BicycleService,
	storagePort ports.StoragePort,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *BicycleHandler {
	return &BicycleHandler{
		bicycleService: bicycleService,
		storage:        storagePort,
		logger:         logger,
		metrics:        metrics,
	}
}

type BicycleRequest struct {
	Name                 string                     `json:"name" binding:"required" example:"Trek Marlin 7"`
	Brand                string                     `json:"brand" example:"Trek"`
	Model                string                     `json:"model" example:"Marlin 7"`
	BikeType             domain.BikeType            `json:"bike_type" binding:"required" example:"MTB"`
	Status               domain.BicycleStatus       `json:"status" example:"in_use"`
	CurrentStatus        domain.WorkshopStatus      `json:"current_status" example:"with_owner"`
	Frame                string                     `json:"frame"`
	Fork                 string                     `json:"fork"`
	Transmission         domain.Transmission        `json:"transmission"`
	Brakes               domain.Brakes              `json:"brakes"`
	Wheels               domain.Wheels              `json:"wheels"`
	Components           domain.Components          `json:"components"`
	MaintenanceHistory   []domain.MaintenanceRecord `json:"maintenance_history"`
	PurchaseDate         string                     `json:"purchase_date" example:"2024-03-15"`
	PurchasePrice        int64                      `json:"purchase_price" example:"550000"`
	PurchaseCondition    domain.PurchaseCondition   `json:"purchase_condition" example:"new"`
	TotalKilometers      int                        `json:"total_kilometers" example:"1200"`
	OwnerID              *uuid.UUID                 `json:"owner_id"`
	SerialNumber         string                     `json:"serial_number"`
	PhysicalLocation     string                     `json:"physical_location"`
	ReceptionNotes       string                     `json:"reception_notes"`
	IdentificationPhotos []string                   `json:"identification_photos"`
}

func (r *BicycleRequest) apply(b *domain.Bicycle) {
	b.Name = r.Name
	b.Brand = r.Brand
	b.Model = r.Model
	b.BikeType = r.BikeType
	b.Status = r.Status
	b.CurrentStatus = r.CurrentStatus
	b.Frame = r.Frame
	b.Fork = r.Fork
	b.Transmission = r.Transmission
	b.Brakes = r.Brakes
	b.Wheels = r.Wheels
	b.Components = r.Components
	b.MaintenanceHistory = r.MaintenanceHistory
	b.PurchaseDate = r.PurchaseDate
	b.PurchasePrice = r.PurchasePrice
	b.PurchaseCondition = r.PurchaseCondition
	b.TotalKilometers = r.TotalKilometers
	b.OwnerID = r.OwnerID
	b.SerialNumber = r.SerialNumber
	b.PhysicalLocation = r.PhysicalLocation
	b.ReceptionNotes = r.ReceptionNotes
	b.IdentificationPhotos = r.IdentificationPhotos
}

// @Summary Registrar bicicleta
// @Tags bicycles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body BicycleRequest true "Datos de la bicicleta"
// @Success 201 {object} domain.Bicycle "Bicicleta creada"
// @Failure 400 {object} errorResponse "Solicitud inválida"
// @Failure 409 {object} errorResponse "Propietario inexistente"
// @Router /bicycles [post]
func (h *BicycleHandler) CreateBicycle(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req BicycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in create bicycle", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	bike := &domain.Bicycle{}
	req.apply(bike)

	created, err := h.bicycleService.CreateBicycle(c.Request.Context(), session, bike)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// @Summary Listar bicicletas
// @Description Clientes ven solo las propias. Staff filtra por ?owner y ?status (lista separada por comas).
// @Tags bicycles
// @Security BearerAuth
// @Produce json
// @Param owner query string false "Filtrar por propietario"
// @Param status query string false "Estados permitidos, separados por comas"
// @Success 200 {array} domain.Bicycle
// @Router /bicycles [get]
func (h *BicycleHandler) ListBicycles(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var filter domain.BicycleFilter
	if raw := c.Query("owner"); raw != "" {
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			newErrorResponse(c, http.StatusBadRequest, "Invalid owner filter")
			return
		}
		filter.OwnerID = &ownerID
	}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Statuses = append(filter.Statuses, s)
			}
		}
	}

	bikes, err := h.bicycleService.ListBicycles(c.Request.Context(), session, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bikes)
}

// @Summary Obtener bicicleta
// @Tags bicycles
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID de la bicicleta"
// @Success 200 {object} domain.Bicycle
// @Failure 404 {object} errorResponse "No encontrada"
// @Router /bicycles/{id} [get]
func (h *BicycleHandler) GetBicycle(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bike, err := h.bicycleService.GetBicycleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bike)
}

// @Summary Actualizar bicicleta
// @Tags bicycles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID de la bicicleta"
// @Param request body BicycleRequest true "Datos de la bicicleta"
// @Success 200 {object} domain.Bicycle
// @Failure 404 {object} errorResponse "No encontrada"
// @Router /bicycles/{id} [put]
func (h *BicycleHandler) UpdateBicycle(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req BicycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	updated, err := h.bicycleService.UpdateBicycle(c.Request.Context(), session, c.Param("id"), req.apply)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// @Summary Eliminar bicicleta
// @Tags bicycles
// @Security BearerAuth
// @Produce json
// @Param id path string true "ID de la bicicleta"
// @Success 200 {object} successResponse
// @Failure 404 {object} errorResponse "No encontrada"
// @Router /bicycles/{id} [delete]
func (h *BicycleHandler) DeleteBicycle(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.bicycleService.DeleteBicycle(c.Request.Context(), session, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse{Message: "Bicycle deleted successfully"})
}

// @Summary Reordenar bicicletas
// @Description Persiste la posición de cada bicicleta en la vista. Cada fila se intenta aunque otra falle.
// @Tags bicycles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body []domain.ReorderEntry true "Nuevo orden"
// @Success 200 {object} successResponse
// @Router /bicycles/order [put]
func (h *BicycleHandler) UpdateDisplayOrder(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	var entries []domain.ReorderEntry
	if err := c.ShouldBindJSON(&entries); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if len(entries) == 0 {
		newErrorResponse(c, http.StatusBadRequest, "Empty reorder list")
		return
	}

	if err := h.bicycleService.UpdateDisplayOrder(c.Request.Context(), entries); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse{Message: "Display order updated"})
}

type ImageUploadResponse struct {
	URL string `json:"url"`
}

// @Summary Subir imagen principal
// @Tags bicycles
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "ID de la bicicleta"
// @Param image formData file true "Imagen"
// @Success 200 {object} ImageUploadResponse
// @Failure 400 {object} errorResponse "Archivo inválido"
// @Router /bicycles/{id}/image [post]
func (h *BicycleHandler) UploadImage(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bicycleID := c.Param("id")
	url, err := h.uploadFormFile(c, storage.BikeImagesBucket, bicycleID, "")
	if err != nil {
		respondError(c, err)
		return
	}

	if _, err := h.bicycleService.UpdateBicycle(c.Request.Context(), session, bicycleID, func(b *domain.Bicycle) {
		b.ImageURL = url
	}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ImageUploadResponse{URL: url})
}

// @Summary Subir foto de identificación
// @Description Agrega una foto de serie/marco a la lista de identificación
// @Tags bicycles
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "ID de la bicicleta"
// @Param image formData file true "Imagen"
// @Success 200 {object} ImageUploadResponse
// @Router /bicycles/{id}/identification-photo [post]
func (h *BicycleHandler) UploadIdentificationPhoto(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bicycleID := c.Param("id")
	url, err := h.uploadFormFile(c, storage.IdentificationPhotosBucket, bicycleID, "identification")
	if err != nil {
		respondError(c, err)
		return
	}

	if _, err := h.bicycleService.UpdateBicycle(c.Request.Context(), session, bicycleID, func(b *domain.Bicycle) {
		b.IdentificationPhotos = append(b.IdentificationPhotos, url)
	}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ImageUploadResponse{URL: url})
}

// @Summary Subir comprobante de compra
// @Description La primera imagen queda como boleta; las siguientes como evidencia adicional
// @Tags bicycles
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "ID de la bicicleta"
// @Param image formData file true "Comprobante"
// @Success 200 {object} ImageUploadResponse
// @Router /bicycles/{id}/purchase-proof [post]
func (h *BicycleHandler) UploadPurchaseProof(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	session, exists := getSession(c)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bicycleID := c.Param("id")
	url, err := h.uploadFormFile(c, storage.PurchaseProofsBucket, bicycleID, "proof")
	if err != nil {
		respondError(c, err)
		return
	}

	if _, err := h.bicycleService.UpdateBicycle(c.Request.Context(), session, bicycleID, func(b *domain.Bicycle) {
		if b.PurchaseProof == nil {
			b.PurchaseProof = &domain.PurchaseProof{ReceiptImageURL: url}
			return
		}
		b.PurchaseProof.EvidenceImageURLs = append(b.PurchaseProof.EvidenceImageURLs, url)
	}); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ImageUploadResponse{URL: url})
}

func (h *BicycleHandler) uploadFormFile(c *gin.Context, bucket, entityID, purpose string) (string, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return "", domain.ErrValidation
	}
	if fileHeader.Size > maxUploadBytes {
		return "", domain.ErrValidation
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", domain.ErrValidation
	}
	defer file.Close()

	data, err := readLimited(file)
	if err != nil {
		return "", err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	path := storage.ObjectPath(entityID, purpose, fileHeader.Filename, time.Now().UnixMilli())
	return h.storage.Upload(c.Request.Context(), bucket, path, data, contentType)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxUploadBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading upload body", domain.ErrBackend)
	}
	return data, nil
}
