package http

import (
	"net/http"

	"github.com/japezoa/bike-manager/internal/config"
	"github.com/japezoa/bike-manager/internal/core/domain"
	"github.com/japezoa/bike-manager/internal/core/ports"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	router *gin.Engine
}

func NewRouter(
	cfg *config.HTTP,
	tokenService ports.TokenService,
	identityService ports.IdentityService,
	logger ports.LoggerPort,
	ownerHandler *OwnerHandler,
	bicycleHandler *BicycleHandler,
	maintenanceHandler *MaintenanceHandler,
	workOrderHandler *WorkOrderHandler,
	auditHandler *AuditHandler,
) (*Router, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigins},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := AuthMiddleware(tokenService, identityService, logger)

	router.GET("/me", auth, ownerHandler.Me)

	// Owners routes
	owners := router.Group("/owners")
	owners.Use(auth)
	{
		owners.POST("", RequireCapability(func(caps domain.Capabilities) bool { return caps.CanEditOwners }), ownerHandler.CreateOwner)
		owners.GET("", ownerHandler.ListOwners)
		owners.GET("/:id", ownerHandler.GetOwner)
		owners.PUT("/:id", RequireCapability(func(caps domain.Capabilities) bool { return caps.CanEditOwners }), ownerHandler.UpdateOwner)
		owners.DELETE("/:id", RequireCapability(func(caps domain.Capabilities) bool { return caps.CanDeleteOwners }), ownerHandler.DeleteOwner)
		owners.GET("/:id/bicycles/count", ownerHandler.CountBicycles)
	}

	// Bicycles routes
	bicycles := router.Group("/bicycles")
	bicycles.Use(auth)
	{
		bicycles.POST("", RequireCapability(func(caps domain.Capabilities) bool { return caps.CanCreateBikes }), bicycleHandler.CreateBicycle)
		bicycles.GET("", bicycleHandler.ListBicycles)
		// registered before /:id so gin does not treat "order" as an id
		bicycles.PUT("/order", RequireCapability(func(caps domain.Capabilities) bool { return caps.CanEditBikes }), bicycleHandler.UpdateDisplayOrder)
		bicycles.GET("/:id", bicycleHandler.GetBicycle)
		bicycles.PUT("/:id", RequireCapability(func(caps domain.Capabilities) bool { return caps.CanEditBikes }), bicycleHandler.UpdateBicycle)
		bicycles.DELETE("/:id", RequireCapability(func(caps domain.Capabilities) bool { return caps.CanDeleteBikes }), bicycleHandler.DeleteBicycle)
		bicycles.POST("/:id/image", RequireCapability(func(caps domain.Capabilities) bool { return caps.CanEditBikes }), bicycleHandler.UploadImage)
		bicycles.POST("/:id/identification-photo", RequireCapability(func(caps domain.Capabilities) bool { return caps.CanEditBikes }), bicycleHandler.UploadIdentificationPhoto)
		bicycles.POST("/:id/purchase-proof", RequireCapability(func(caps domain.Capabilities) bool { return caps.CanEditBikes }), bicycleHandler.UploadPurchaseProof)
		bicycles.GET("/:id/maintenances", maintenanceHandler.ListByBicycle)
		bicycles.GET("/:id/maintenances/total-cost", maintenanceHandler.TotalCost)
		bicycles.GET("/:id/maintenances/last-date", maintenanceHandler.LastMaintenanceDate)
		bicycles.GET("/:id/work-orders", workOrderHandler.ListByBicycle)
	}

	// Maintenances routes
	maintenances := router.Group("/maintenances")
	maintenances.Use(auth)
	{
		editMaintenances := RequireCapability(func(caps domain.Capabilities) bool { return caps.CanEditMaintenances })
		maintenances.POST("", editMaintenances, maintenanceHandler.CreateMaintenance)
		maintenances.GET("/:id", maintenanceHandler.GetMaintenance)
		maintenances.PUT("/:id", editMaintenances, maintenanceHandler.UpdateMaintenance)
		maintenances.DELETE("/:id", RequireCapability(func(caps domain.Capabilities) bool { return caps.CanDeleteMaintenances }), maintenanceHandler.DeleteMaintenance)
	}

	// Work order routes
	workOrders := router.Group("/work-orders")
	workOrders.Use(auth)
	{
		editOrders := RequireCapability(func(caps domain.Capabilities) bool { return caps.CanEditBikes })
		workOrders.POST("", editOrders, workOrderHandler.CreateWorkOrder)
		workOrders.GET("", workOrderHandler.ListWorkOrders)
		workOrders.GET("/stats", RequireCapability(func(caps domain.Capabilities) bool { return caps.CanViewAllBikes }), workOrderHandler.WorkshopStats)
		workOrders.GET("/:id", workOrderHandler.GetWorkOrder)
		workOrders.PUT("/:id", editOrders, workOrderHandler.UpdateWorkOrder)
		workOrders.PATCH("/:id/status", editOrders, workOrderHandler.UpdateStatus)
		workOrders.DELETE("/:id", RequireAdmin(), workOrderHandler.DeleteWorkOrder)
		workOrders.POST("/:id/photos", editOrders, workOrderHandler.UploadPhoto)
	}

	// Notifications routes
	notifications := router.Group("/notifications")
	notifications.Use(auth)
	{
		notifications.GET("", workOrderHandler.ListNotifications)
		notifications.PATCH("/:id/read", workOrderHandler.MarkNotificationRead)
	}

	// Audit log routes
	auditLogs := router.Group("/audit-logs")
	auditLogs.Use(auth, RequireAdmin())
	{
		auditLogs.GET("", auditHandler.ListAuditLogs)
	}

	return &Router{router: router}, nil
}

func (r *Router) Serve(addr string) error {
	return r.router.Run(addr)
}

func (r *Router) Engine() *gin.Engine {
	return r.router
}
