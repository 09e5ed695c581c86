package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/amelfit-backend/internal/http/handlers"
	httpMW "github.com/yungbote/amelfit-backend/internal/http/middleware"
	"github.com/yungbote/amelfit-backend/internal/observability"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

const serviceName = "amelfit-backend"

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	CORSOrigins    []string
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler      *httpH.HealthHandler
	AuthHandler        *httpH.AuthHandler
	UserHandler        *httpH.UserHandler
	NutritionHandler   *httpH.NutritionHandler
	TrainingHandler    *httpH.TrainingHandler
	CatalogHandler     *httpH.CatalogHandler
	PaymentHandler     *httpH.PaymentHandler
	SiteContentHandler *httpH.SiteContentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.HealthHandler != nil {
			api.GET("/", cfg.HealthHandler.Root)
		}

		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/register", cfg.AuthHandler.Register)
			api.POST("/auth/login", cfg.AuthHandler.Login)
			api.POST("/auth/forgot-password", cfg.AuthHandler.ForgotPassword)
			api.POST("/auth/reset-password", cfg.AuthHandler.ResetPassword)
			api.POST("/admin/login", cfg.AuthHandler.AdminLogin)
		}

		// Catalog (public)
		if cfg.CatalogHandler != nil {
			api.GET("/courses", cfg.CatalogHandler.ListCourses)
			api.GET("/courses/categories", cfg.CatalogHandler.Categories)
			api.GET("/courses/:id", cfg.CatalogHandler.GetCourse)
			api.POST("/seed", cfg.CatalogHandler.Seed)
		}

		if cfg.SiteContentHandler != nil {
			api.GET("/site-content", cfg.SiteContentHandler.Get)
		}

		// Stripe signs the body; no bearer token.
		if cfg.PaymentHandler != nil {
			api.POST("/webhook/stripe", cfg.PaymentHandler.StripeWebhook)
		}
	}

	if cfg.AuthMiddleware == nil {
		return r
	}

	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		if cfg.UserHandler != nil {
			protected.GET("/user/profile", cfg.UserHandler.GetProfile)
			protected.PUT("/user/profile", cfg.UserHandler.UpdateProfile)
			protected.GET("/user/notifications", cfg.UserHandler.GetNotifications)
			protected.PUT("/user/notifications", cfg.UserHandler.UpdateNotifications)
			protected.GET("/user/purchases", cfg.UserHandler.ListPurchases)
			protected.GET("/user/courses", cfg.UserHandler.ListCourses)
			protected.DELETE("/user/account", cfg.UserHandler.DeleteAccount)
		}

		if cfg.NutritionHandler != nil {
			protected.GET("/calories/today", cfg.NutritionHandler.Today)
			protected.GET("/calories/history", cfg.NutritionHandler.History)
			protected.GET("/calories/goal", cfg.NutritionHandler.GetGoal)
			protected.PUT("/calories/goal", cfg.NutritionHandler.UpdateGoal)
			protected.POST("/calories/analyze", cfg.NutritionHandler.Analyze)
			protected.DELETE("/calories/meal/:id", cfg.NutritionHandler.DeleteMeal)
			protected.DELETE("/calories/meals/:id", cfg.NutritionHandler.DeleteMeal)
			protected.POST("/calories/calculate-needs", cfg.NutritionHandler.CalculateNeeds)
		}

		if cfg.TrainingHandler != nil {
			protected.POST("/programme/sessions", cfg.TrainingHandler.CompleteSession)
			protected.GET("/programme/sessions", cfg.TrainingHandler.ListSessions)
			protected.GET("/programme/stats", cfg.TrainingHandler.GetStats)
			protected.GET("/programme/weekly", cfg.TrainingHandler.Weekly)
		}

		if cfg.CatalogHandler != nil {
			protected.GET("/courses/:id/access", cfg.CatalogHandler.Access)
		}

		if cfg.PaymentHandler != nil {
			protected.POST("/payments/stripe/checkout", cfg.PaymentHandler.StripeCheckout)
			protected.GET("/payments/stripe/status/:session_id", cfg.PaymentHandler.StripeStatus)
			protected.POST("/payments/paypal/create", cfg.PaymentHandler.PayPalCreate)
			protected.POST("/purchases/apple/verify", cfg.PaymentHandler.AppleVerify)
			protected.POST("/purchases/apple/restore", cfg.PaymentHandler.AppleRestore)
			protected.GET("/purchases/apple/status/:product_id", cfg.PaymentHandler.AppleStatus)
		}
	}

	admin := api.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAdmin())
	{
		if cfg.CatalogHandler != nil {
			admin.GET("/courses", cfg.CatalogHandler.ListCourses)
			admin.POST("/courses", cfg.CatalogHandler.CreateCourse)
			admin.PUT("/courses/:id", cfg.CatalogHandler.UpdateCourse)
			admin.DELETE("/courses/:id", cfg.CatalogHandler.DeleteCourse)
		}
		if cfg.SiteContentHandler != nil {
			admin.GET("/site-content", cfg.SiteContentHandler.Get)
			admin.PUT("/site-content/:section", cfg.SiteContentHandler.UpdateSection)
			admin.POST("/upload/image", cfg.SiteContentHandler.UploadImage)
		}
		if cfg.TrainingHandler != nil {
			admin.GET("/users/:id/stats/verify", cfg.TrainingHandler.VerifyStats)
		}
	}

	return r
}
