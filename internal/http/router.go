package api

import (
	"log"
	stdhttp "net/http"

	intconfig "fleet-backend/internal/config"
	h "fleet-backend/internal/http/handlers"
	"fleet-backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	h.Configure(env)
	secret := []byte(env.JWTSecret)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route tidak ditemukan",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.Static("/uploads", env.UploadDir)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)

		// Reference data
		api.GET("/employees", middleware.Auth(secret), h.GetEmployees)
		api.GET("/locations", h.GetLocations)
		api.GET("/fleetcards", middleware.Auth(secret), middleware.RequireRole("admin"), h.GetFleetcards)
		api.GET("/tng-cards", middleware.Auth(secret), middleware.RequireRole("admin"), h.GetTNGCards)

		// Pool vehicles
		api.GET("/vehicles", h.GetVehicles)

		// Bookings
		bookings := api.Group("/bookings")
		bookings.GET("", middleware.AuthOptional(secret), h.ListBookings)
		bookings.POST("", middleware.Auth(secret), h.CreateBooking)

		// Drafts (guest fallback when anonymous)
		bookings.GET("/draft", middleware.AuthOptional(secret), h.GetDraft)
		bookings.PUT("/draft", middleware.AuthOptional(secret), h.PutDraft)
		bookings.DELETE("/draft", middleware.AuthOptional(secret), h.DeleteDraft)

		bookings.GET("/available", middleware.Auth(secret), middleware.RequireRole("admin"), h.GetVehicleAvailability)

		bookings.GET("/:id", middleware.AuthOptional(secret), h.GetBooking)
		bookings.PUT("/:id", middleware.Auth(secret), h.UpdateBooking)
		bookings.PUT("/:id/cancel", middleware.Auth(secret), h.CancelBooking)
		bookings.PUT("/:id/admin", middleware.Auth(secret), middleware.RequireRole("admin"), h.AdminDecideBooking)
		bookings.PUT("/:id/returned", middleware.Auth(secret), middleware.RequireRole("admin"), h.RecordBookingReturn)
		bookings.GET("/:id/movement-order", middleware.Auth(secret), h.GetMovementOrderPDF)

		// Vehicle assessments
		assessments := api.Group("/assessments")
		assessments.GET("/criteria", h.GetAssessmentCriteria)
		assessments.GET("", middleware.Auth(secret), h.ListAssessments)
		assessments.GET("/:id", middleware.Auth(secret), h.GetAssessment)
		assessments.POST("", middleware.Auth(secret), h.CreateAssessment)
		assessments.PUT("/:id", middleware.Auth(secret), h.UpdateAssessment)
	}

	return r
}
