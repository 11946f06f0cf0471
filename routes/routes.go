package routes

import (
	"net/http"
	"time"

	"tutorlink/handlers"
	"tutorlink/middleware"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	userRepo "tutorlink/database/repository/user"
)

// RegisterTuitionRoutes registers the tuition lifecycle endpoints.
func RegisterTuitionRoutes(r *gin.Engine, hb *handlers.HandlerBundle, authClient *auth.Client, users userRepo.UserRepository) {
	api := r.Group("/api/tuitions")
	{
		api.Use(middleware.FirebaseAuthMiddleware(authClient, users))

		api.GET("", hb.ListTuitionsHandler)
		api.GET("/:tuitionId", hb.GetTuitionHandler)

		api.POST("", middleware.RequirePoster(), hb.CreateTuitionHandler)
		api.DELETE("/:tuitionId", middleware.RequirePoster(), hb.DeleteTuitionHandler)

		api.POST("/:tuitionId/apply", middleware.RequireTeacher(), hb.ApplyHandler)
		api.DELETE("/applications/:tuitionId", middleware.RequireTeacher(), hb.WithdrawApplicationHandler)
		api.PATCH("/applications/:tuitionId", middleware.RequireTeacher(), hb.UpdateApplicationHandler)

		api.PUT("/:tuitionId/accept/:tutorId", middleware.RequirePoster(), hb.AcceptApplicationHandler)
		api.POST("/reject-tuition", middleware.RequirePoster(), hb.RejectApplicationHandler)

		api.POST("/payments/create-checkout-session", middleware.RequirePoster(), hb.CreateCheckoutSessionHandler)
	}
}

// RegisterTeacherRoutes registers the tutor directory and the signed-in
// tutor's views of their own applications and assignments.
func RegisterTeacherRoutes(r *gin.Engine, hb *handlers.HandlerBundle, authClient *auth.Client, users userRepo.UserRepository) {
	api := r.Group("/api/teachers")
	{
		api.GET("", hb.ListTeachersHandler)

		api.Use(middleware.FirebaseAuthMiddleware(authClient, users), middleware.RequireTeacher())
		api.GET("/my-applications", hb.MyApplicationsHandler)
		api.GET("/ongoing-tuitions", hb.OngoingTuitionsHandler)
	}
}

// RegisterWebhookRoute registers the Stripe webhook. It lives outside
// /api and outside authentication: Stripe authenticates with its
// signature header on the raw body, not a bearer token.
func RegisterWebhookRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/webhook", hb.StripeWebhookHandler)
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.AdminAuthMiddleware())
		adminGroup.PUT("/tuitions/:tuitionId/approve", hb.ApproveTuitionHandler)
		adminGroup.PUT("/tuitions/:tuitionId/reject", hb.RejectTuitionHandler)
		adminGroup.PATCH("/tuitions/:tuitionId/status", hb.UpdateTuitionStatusHandler)
		adminGroup.GET("/revenue", hb.RevenueSummaryHandler)
		adminGroup.GET("/revenue/trend", hb.RevenueTrendHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, authClient *auth.Client, users userRepo.UserRepository, frontendURL string) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterTuitionRoutes(r, hb, authClient, users)
	RegisterTeacherRoutes(r, hb, authClient, users)
	RegisterWebhookRoute(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
