package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/amelfit-backend/internal/data/repos/auth"
	"github.com/yungbote/amelfit-backend/internal/data/repos/catalog"
	"github.com/yungbote/amelfit-backend/internal/data/repos/content"
	"github.com/yungbote/amelfit-backend/internal/data/repos/nutrition"
	"github.com/yungbote/amelfit-backend/internal/data/repos/training"
	"github.com/yungbote/amelfit-backend/internal/data/repos/user"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type PasswordResetRepo = auth.PasswordResetRepo

type NutritionGoalRepo = nutrition.NutritionGoalRepo
type NutritionProfileRepo = nutrition.NutritionProfileRepo
type MealEntryRepo = nutrition.MealEntryRepo

type SessionRecordRepo = training.SessionRecordRepo
type UserStatsRepo = training.UserStatsRepo

type CourseRepo = catalog.CourseRepo
type PurchaseRepo = catalog.PurchaseRepo
type PaymentTransactionRepo = catalog.PaymentTransactionRepo

type SiteSectionRepo = content.SiteSectionRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewPasswordResetRepo(db *gorm.DB, baseLog *logger.Logger) PasswordResetRepo {
	return auth.NewPasswordResetRepo(db, baseLog)
}

func NewNutritionGoalRepo(db *gorm.DB, baseLog *logger.Logger) NutritionGoalRepo {
	return nutrition.NewNutritionGoalRepo(db, baseLog)
}
func NewNutritionProfileRepo(db *gorm.DB, baseLog *logger.Logger) NutritionProfileRepo {
	return nutrition.NewNutritionProfileRepo(db, baseLog)
}
func NewMealEntryRepo(db *gorm.DB, baseLog *logger.Logger) MealEntryRepo {
	return nutrition.NewMealEntryRepo(db, baseLog)
}

func NewSessionRecordRepo(db *gorm.DB, baseLog *logger.Logger) SessionRecordRepo {
	return training.NewSessionRecordRepo(db, baseLog)
}
func NewUserStatsRepo(db *gorm.DB, baseLog *logger.Logger) UserStatsRepo {
	return training.NewUserStatsRepo(db, baseLog)
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return catalog.NewCourseRepo(db, baseLog)
}
func NewPurchaseRepo(db *gorm.DB, baseLog *logger.Logger) PurchaseRepo {
	return catalog.NewPurchaseRepo(db, baseLog)
}
func NewPaymentTransactionRepo(db *gorm.DB, baseLog *logger.Logger) PaymentTransactionRepo {
	return catalog.NewPaymentTransactionRepo(db, baseLog)
}

func NewSiteSectionRepo(db *gorm.DB, baseLog *logger.Logger) SiteSectionRepo {
	return content.NewSiteSectionRepo(db, baseLog)
}
