package domain

import (
	"github.com/yungbote/amelfit-backend/internal/domain/auth"
	"github.com/yungbote/amelfit-backend/internal/domain/catalog"
	"github.com/yungbote/amelfit-backend/internal/domain/content"
	"github.com/yungbote/amelfit-backend/internal/domain/nutrition"
	"github.com/yungbote/amelfit-backend/internal/domain/training"
	"github.com/yungbote/amelfit-backend/internal/domain/user"
)

type User = user.User
type NotificationSettings = user.NotificationSettings
type NotificationSettingsPatch = user.NotificationSettingsPatch
type PasswordReset = auth.PasswordReset

type NutritionGoal = nutrition.NutritionGoal
type GoalPatch = nutrition.GoalPatch
type MealEntry = nutrition.MealEntry
type FoodItem = nutrition.FoodItem
type NutritionProfile = nutrition.NutritionProfile

type SessionRecord = training.SessionRecord
type UserStats = training.UserStats

type Course = catalog.Course
type Purchase = catalog.Purchase
type PaymentTransaction = catalog.PaymentTransaction

type SiteSection = content.SiteSection

const DefaultWeeklyGoal = training.DefaultWeeklyGoal

var (
	NewMealEntry                = nutrition.NewMealEntry
	EmptyStats                  = training.EmptyStats
	DefaultNotificationSettings = user.DefaultNotificationSettings
)

// AllModels is the migration set, parents before children.
func AllModels() []any {
	return []any{
		&User{},
		&PasswordReset{},
		&NutritionGoal{},
		&NutritionProfile{},
		&MealEntry{},
		&SessionRecord{},
		&UserStats{},
		&Course{},
		&Purchase{},
		&PaymentTransaction{},
		&SiteSection{},
	}
}
