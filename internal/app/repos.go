package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/amelfit-backend/internal/data/repos"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

type Repos struct {
	User          repos.UserRepo
	PasswordReset repos.PasswordResetRepo

	NutritionGoal    repos.NutritionGoalRepo
	NutritionProfile repos.NutritionProfileRepo
	MealEntry        repos.MealEntryRepo

	SessionRecord repos.SessionRecordRepo
	UserStats     repos.UserStatsRepo

	Course             repos.CourseRepo
	Purchase           repos.PurchaseRepo
	PaymentTransaction repos.PaymentTransactionRepo

	SiteSection repos.SiteSectionRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		PasswordReset: repos.NewPasswordResetRepo(db, log),

		NutritionGoal:    repos.NewNutritionGoalRepo(db, log),
		NutritionProfile: repos.NewNutritionProfileRepo(db, log),
		MealEntry:        repos.NewMealEntryRepo(db, log),

		SessionRecord: repos.NewSessionRecordRepo(db, log),
		UserStats:     repos.NewUserStatsRepo(db, log),

		Course:             repos.NewCourseRepo(db, log),
		Purchase:           repos.NewPurchaseRepo(db, log),
		PaymentTransaction: repos.NewPaymentTransactionRepo(db, log),

		SiteSection: repos.NewSiteSectionRepo(db, log),
	}
}
