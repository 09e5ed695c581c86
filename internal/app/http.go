package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/amelfit-backend/internal/http"
	httpH "github.com/yungbote/amelfit-backend/internal/http/handlers"
	httpMW "github.com/yungbote/amelfit-backend/internal/http/middleware"
	"github.com/yungbote/amelfit-backend/internal/observability"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health      *httpH.HealthHandler
	Auth        *httpH.AuthHandler
	User        *httpH.UserHandler
	Nutrition   *httpH.NutritionHandler
	Training    *httpH.TrainingHandler
	Catalog     *httpH.CatalogHandler
	Payment     *httpH.PaymentHandler
	SiteContent *httpH.SiteContentHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(),
		Auth:        httpH.NewAuthHandler(services.Auth),
		User:        httpH.NewUserHandler(services.User),
		Nutrition:   httpH.NewNutritionHandler(services.Nutrition),
		Training:    httpH.NewTrainingHandler(services.Training),
		Catalog:     httpH.NewCatalogHandler(services.Catalog),
		Payment:     httpH.NewPaymentHandler(log, services.Payment, services.Apple),
		SiteContent: httpH.NewSiteContentHandler(services.SiteContent, services.Upload),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:                log,
		Metrics:            metrics,
		CORSOrigins:        cfg.CORSOrigins,
		AuthMiddleware:     middleware.Auth,
		HealthHandler:      handlers.Health,
		AuthHandler:        handlers.Auth,
		UserHandler:        handlers.User,
		NutritionHandler:   handlers.Nutrition,
		TrainingHandler:    handlers.Training,
		CatalogHandler:     handlers.Catalog,
		PaymentHandler:     handlers.Payment,
		SiteContentHandler: handlers.SiteContent,
	})
}
