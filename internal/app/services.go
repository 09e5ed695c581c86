package app

import (
	"gorm.io/gorm"

	dataagg "github.com/yungbote/amelfit-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/amelfit-backend/internal/domain/aggregates"
	"github.com/yungbote/amelfit-backend/internal/observability"
	"github.com/yungbote/amelfit-backend/internal/platform/clock"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
	"github.com/yungbote/amelfit-backend/internal/services"
)

type Aggregates struct {
	NutritionPlan domainagg.NutritionPlanAggregate
	UserStats     domainagg.UserStatsAggregate
	Purchase      domainagg.PurchaseAggregate
	Account       domainagg.AccountAggregate
}

func wireAggregates(db *gorm.DB, log *logger.Logger, r Repos, c Clients, metrics *observability.Metrics) Aggregates {
	log.Info("Wiring aggregates...")
	base := dataagg.BaseDeps{
		DB:     db,
		Log:    log,
		Runner: dataagg.NewGormTxRunner(db),
		Hooks:  dataagg.NewObservabilityHooks(metrics),
	}
	return Aggregates{
		NutritionPlan: dataagg.NewNutritionPlanAggregate(dataagg.NutritionPlanAggregateDeps{
			Base:     base,
			Profiles: r.NutritionProfile,
			Goals:    r.NutritionGoal,
		}),
		UserStats: dataagg.NewUserStatsAggregate(dataagg.UserStatsAggregateDeps{
			Base:     base,
			Sessions: r.SessionRecord,
			Stats:    r.UserStats,
			Locker:   c.Locker,
		}),
		Purchase: dataagg.NewPurchaseAggregate(dataagg.PurchaseAggregateDeps{
			Base:         base,
			Courses:      r.Course,
			Purchases:    r.Purchase,
			Transactions: r.PaymentTransaction,
		}),
		Account: dataagg.NewAccountAggregate(dataagg.AccountAggregateDeps{
			Base:         base,
			Users:        r.User,
			Resets:       r.PasswordReset,
			Goals:        r.NutritionGoal,
			Profiles:     r.NutritionProfile,
			Meals:        r.MealEntry,
			Sessions:     r.SessionRecord,
			Stats:        r.UserStats,
			Purchases:    r.Purchase,
			Transactions: r.PaymentTransaction,
		}),
	}
}

type Services struct {
	Auth        services.AuthService
	User        services.UserService
	Nutrition   services.NutritionService
	Training    services.TrainingService
	Catalog     services.CatalogService
	SiteContent services.SiteContentService
	Payment     services.PaymentService
	Apple       services.AppleService
	Upload      services.UploadService
}

func wireServices(log *logger.Logger, cfg Config, r Repos, a Aggregates, c Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")
	clk := clock.Real()
	return Services{
		Auth: services.NewAuthService(log, r.User, r.PasswordReset, c.SendGrid, clk, services.AuthConfig{
			JWTSecret:         cfg.JWTSecret,
			TokenTTL:          cfg.TokenTTL,
			AdminEmail:        cfg.AdminEmail,
			AdminPasswordHash: cfg.AdminPasswordHash,
			ResetURL:          cfg.ResetURL,
		}),
		User: services.NewUserService(log, services.UserServiceDeps{
			Users:     r.User,
			Purchases: r.Purchase,
			Courses:   r.Course,
			Account:   a.Account,
		}),
		Nutrition: services.NewNutritionService(log, services.NutritionServiceDeps{
			Users:    r.User,
			Goals:    r.NutritionGoal,
			Meals:    r.MealEntry,
			Plan:     a.NutritionPlan,
			Analyzer: services.NewMealAnalyzer(log, c.OpenAI, metrics),
			Clock:    clk,
			Metrics:  metrics,
		}),
		Training: services.NewTrainingService(log, services.TrainingServiceDeps{
			Users:    r.User,
			Sessions: r.SessionRecord,
			Stats:    r.UserStats,
			Agg:      a.UserStats,
			Clock:    clk,
			Metrics:  metrics,
		}),
		Catalog:     services.NewCatalogService(log, r.Course, r.Purchase, r.SiteSection),
		SiteContent: services.NewSiteContentService(log, r.SiteSection),
		Payment: services.NewPaymentService(log, services.PaymentServiceDeps{
			Courses:      r.Course,
			Purchases:    r.Purchase,
			Transactions: r.PaymentTransaction,
			Grants:       a.Purchase,
			Stripe:       c.Stripe,
			Metrics:      metrics,
		}),
		Apple:  services.NewAppleService(log, r.Course, r.Purchase, a.Purchase, metrics),
		Upload: services.NewUploadService(log, c.Bucket),
	}
}
