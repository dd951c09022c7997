package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "poaudit/docs"
	"poaudit/internal/domain"
	"poaudit/internal/handler"
	"poaudit/internal/middleware"
	"poaudit/internal/port"
	"poaudit/internal/service"
)

// Handlers bundles the HTTP handlers mounted by Setup.
type Handlers struct {
	Auth   *handler.AuthHandler
	Batch  *handler.BatchHandler
	Order  *handler.OrderHandler
	File   *handler.FileHandler
	Report *handler.ReportHandler
	Stats  *handler.StatsHandler
	Tenant *handler.TenantHandler
	User   *handler.UserHandler
	Health *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(authSvc service.AuthService, userRepo port.UserRepository, allowedOrigins []string, h Handlers) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.RefreshToken)
	auth.POST("/register", h.Auth.Register)
	auth.GET("/verify-email", h.Auth.VerifyEmail)
	auth.POST("/forgot-password", h.Auth.ForgotPassword)
	auth.POST("/reset-password", h.Auth.ResetPassword)
	auth.POST("/social", h.Auth.SocialLogin)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))
	protected.Use(middleware.TenantGuard())

	protected.POST("/auth/resend-verification", h.Auth.ResendVerification)

	// Batch routes
	batches := protected.Group("/batches")
	batches.POST("", h.Batch.Create)
	batches.GET("", h.Batch.List)
	batches.GET("/:id", h.Batch.GetByID)
	batches.GET("/:id/progress", h.Batch.GetProgress)
	batches.PUT("/:id", h.Batch.Update)
	batches.DELETE("/:id", h.Batch.Delete)
	batches.POST("/:id/files", middleware.RequireEmailVerified(userRepo), h.Batch.BatchUploadFiles)
	batches.DELETE("/:id/files/:fileId", h.Batch.RemoveFile)
	batches.POST("/:id/permissions", h.Batch.SetPermission)
	batches.GET("/:id/permissions", h.Batch.ListPermissions)
	batches.DELETE("/:id/permissions/:userId", h.Batch.RemovePermission)
	batches.GET("/:id/export/csv", h.Batch.ExportCSV)
	batches.GET("/:id/export/xlsx", h.Batch.ExportXLSX)

	// Order routes
	orders := protected.Group("/orders")
	orders.POST("", middleware.RequireEmailVerified(userRepo), h.Order.Create)
	orders.GET("", h.Order.List)
	orders.GET("/search/tags", h.Order.SearchByTag)
	orders.GET("/:id", h.Order.GetByID)
	orders.PUT("/:id", h.Order.EditStructuredData)
	orders.DELETE("/:id", h.Order.Delete)
	orders.POST("/:id/retry", h.Order.Retry)
	orders.PUT("/:id/review", h.Order.UpdateReview)
	orders.PUT("/:id/structured-data", h.Order.EditStructuredData)
	orders.POST("/:id/validate", h.Order.Validate)
	orders.GET("/:id/validation", h.Order.GetValidation)
	orders.GET("/:id/tags", h.Order.ListTags)
	orders.POST("/:id/tags", h.Order.AddTags)
	orders.DELETE("/:id/tags/:tagId", h.Order.DeleteTag)
	orders.GET("/:id/events", h.Order.ListEvents)

	// File routes
	files := protected.Group("/files")
	files.POST("/upload", h.File.Upload)
	files.GET("", h.File.List)
	files.GET("/:id", h.File.GetByID)
	files.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), h.File.Delete)

	// Report routes
	reports := protected.Group("/reports")
	reports.GET("/orders/:id/audit", h.Report.OrderAudit)
	reports.GET("/suppliers", h.Report.Suppliers)
	reports.GET("/batches-overview", h.Report.BatchesOverview)
	reports.GET("/discrepancies", h.Report.Discrepancies)
	reports.GET("/monthly-volume", h.Report.MonthlyVolume)

	// Stats routes
	stats := protected.Group("/stats")
	stats.GET("", h.Stats.GetTenantStats)
	stats.GET("/me", h.Stats.GetUserStats)

	// User management (tenant-scoped)
	users := protected.Group("/users")
	users.POST("", middleware.RequireRole(domain.RoleAdmin), h.User.Create)
	users.GET("", middleware.RequireRole(domain.RoleAdmin), h.User.List)
	users.GET("/:id", h.User.GetByID)
	users.PUT("/:id", h.User.Update)
	users.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), h.User.Delete)

	// Admin routes - tenant management
	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware(authSvc))
	admin.Use(middleware.RequireRole(domain.RoleAdmin))
	admin.POST("/tenants", h.Tenant.Create)
	admin.GET("/tenants", h.Tenant.List)
	admin.GET("/tenants/:id", h.Tenant.GetByID)
	admin.PUT("/tenants/:id", h.Tenant.Update)
	admin.DELETE("/tenants/:id", h.Tenant.Delete)

	return r
}
