package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/amelfit-backend/internal/data/repos"
	types "github.com/yungbote/amelfit-backend/internal/domain"
	domainagg "github.com/yungbote/amelfit-backend/internal/domain/aggregates"
	"github.com/yungbote/amelfit-backend/internal/platform/apierr"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

type ProfileUpdate struct {
	FirstName   *string `json:"first_name"`
	FitnessGoal *string `json:"fitness_goal"`
}

type UserService interface {
	GetProfile(ctx context.Context) (*types.User, error)
	UpdateProfile(ctx context.Context, in ProfileUpdate) (*types.User, error)
	GetNotifications(ctx context.Context) (types.NotificationSettings, error)
	UpdateNotifications(ctx context.Context, patch types.NotificationSettingsPatch) (types.NotificationSettings, error)
	ListPurchases(ctx context.Context) ([]*types.Purchase, error)
	ListCourses(ctx context.Context) ([]*types.Course, error)
	DeleteAccount(ctx context.Context) error
}

type UserServiceDeps struct {
	Users     repos.UserRepo
	Purchases repos.PurchaseRepo
	Courses   repos.CourseRepo
	Account   domainagg.AccountAggregate
}

type userService struct {
	log  *logger.Logger
	deps UserServiceDeps
}

func NewUserService(log *logger.Logger, deps UserServiceDeps) UserService {
	return &userService{
		log:  log.With("service", "UserService"),
		deps: deps,
	}
}

func (us *userService) me(ctx context.Context) (*types.User, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	u, err := us.deps.Users.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, storageError(us.log, "load_user", err)
	}
	if u == nil {
		return nil, errUserNotFound
	}
	return u, nil
}

func (us *userService) GetProfile(ctx context.Context) (*types.User, error) {
	return us.me(ctx)
}

func (us *userService) UpdateProfile(ctx context.Context, in ProfileUpdate) (*types.User, error) {
	u, err := us.me(ctx)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		v := strings.TrimSpace(*in.FirstName)
		if v == "" {
			return nil, apierr.BadRequest("invalid_request", "first_name must not be empty")
		}
		in.FirstName = &v
	}
	if in.FitnessGoal != nil {
		v := strings.TrimSpace(*in.FitnessGoal)
		in.FitnessGoal = &v
	}
	if in.FirstName == nil && in.FitnessGoal == nil {
		return u, nil
	}
	dbc := dbctx.Context{Ctx: ctx}
	if err := us.deps.Users.UpdateProfile(dbc, u.ID, in.FirstName, in.FitnessGoal); err != nil {
		return nil, storageError(us.log, "update_profile", err)
	}
	return us.me(ctx)
}

func (us *userService) GetNotifications(ctx context.Context) (types.NotificationSettings, error) {
	u, err := us.me(ctx)
	if err != nil {
		return types.NotificationSettings{}, err
	}
	return u.NotificationSettings(), nil
}

func (us *userService) UpdateNotifications(ctx context.Context, patch types.NotificationSettingsPatch) (types.NotificationSettings, error) {
	u, err := us.me(ctx)
	if err != nil {
		return types.NotificationSettings{}, err
	}
	next := u.NotificationSettings().Apply(patch)
	if err := u.SetNotificationSettings(next); err != nil {
		return types.NotificationSettings{}, storageError(us.log, "update_notifications", err)
	}
	if err := us.deps.Users.UpdateNotificationSettings(dbctx.Context{Ctx: ctx}, u.ID, u.Settings); err != nil {
		return types.NotificationSettings{}, storageError(us.log, "update_notifications", err)
	}
	return next, nil
}

func (us *userService) ListPurchases(ctx context.Context) ([]*types.Purchase, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	out, err := us.deps.Purchases.ListCompletedByUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, storageError(us.log, "list_purchases", err)
	}
	if out == nil {
		out = []*types.Purchase{}
	}
	return out, nil
}

func (us *userService) ListCourses(ctx context.Context) ([]*types.Course, error) {
	purchases, err := us.ListPurchases(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[uuid.UUID]struct{}, len(purchases))
	ids := make([]uuid.UUID, 0, len(purchases))
	for _, p := range purchases {
		if _, dup := seen[p.CourseID]; dup {
			continue
		}
		seen[p.CourseID] = struct{}{}
		ids = append(ids, p.CourseID)
	}
	out, err := us.deps.Courses.GetByIDs(dbctx.Context{Ctx: ctx}, ids)
	if err != nil {
		return nil, storageError(us.log, "list_courses", err)
	}
	if out == nil {
		out = []*types.Course{}
	}
	return out, nil
}

func (us *userService) DeleteAccount(ctx context.Context) error {
	userID, err := requireUser(ctx)
	if err != nil {
		return err
	}
	res, err := us.deps.Account.DeleteAccount(ctx, userID)
	if err != nil {
		return aggregateError(us.log, "delete_account", err)
	}
	us.log.Info("account deleted", "user_id", userID, "rows", res.RowsDeleted)
	return nil
}
