package aggregates

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/amelfit-backend/internal/data/repos"
	domainagg "github.com/yungbote/amelfit-backend/internal/domain/aggregates"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
)

type AccountAggregateDeps struct {
	Base BaseDeps

	Users        repos.UserRepo
	Resets       repos.PasswordResetRepo
	Goals        repos.NutritionGoalRepo
	Profiles     repos.NutritionProfileRepo
	Meals        repos.MealEntryRepo
	Sessions     repos.SessionRecordRepo
	Stats        repos.UserStatsRepo
	Purchases    repos.PurchaseRepo
	Transactions repos.PaymentTransactionRepo
}

type accountAggregate struct {
	deps AccountAggregateDeps
}

func NewAccountAggregate(deps AccountAggregateDeps) domainagg.AccountAggregate {
	deps.Base = deps.Base.withDefaults()
	return &accountAggregate{deps: deps}
}

func (a *accountAggregate) Contract() domainagg.Contract {
	return domainagg.AccountAggregateContract
}

func (a *accountAggregate) configured() bool {
	d := a.deps
	return d.Users != nil && d.Resets != nil && d.Goals != nil && d.Profiles != nil && d.Meals != nil &&
		d.Sessions != nil && d.Stats != nil && d.Purchases != nil && d.Transactions != nil
}

func (a *accountAggregate) DeleteAccount(ctx context.Context, userID uuid.UUID) (domainagg.DeleteAccountResult, error) {
	const op = "User.Account.DeleteAccount"
	out := domainagg.DeleteAccountResult{RowsDeleted: map[string]int64{}}

	if userID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if !a.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "account aggregate repos not configured", nil)
	}

	ids := []uuid.UUID{userID}
	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		u, err := a.deps.Users.GetByID(dbc, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("user not found: %s", userID), nil)
		}

		// Children first, the user row last.
		steps := []struct {
			table string
			del   func(dbctx.Context, []uuid.UUID) (int64, error)
		}{
			{"purchase", a.deps.Purchases.DeleteByUserIDs},
			{"payment_transaction", a.deps.Transactions.DeleteByUserIDs},
			{"meal_entry", a.deps.Meals.DeleteByUserIDs},
			{"nutrition_goal", a.deps.Goals.DeleteByUserIDs},
			{"nutrition_profile", a.deps.Profiles.DeleteByUserIDs},
			{"session_record", a.deps.Sessions.DeleteByUserIDs},
			{"user_stats", a.deps.Stats.DeleteByUserIDs},
			{"password_reset", a.deps.Resets.DeleteByUserIDs},
		}
		for _, s := range steps {
			n, err := s.del(dbc, ids)
			if err != nil {
				return fmt.Errorf("delete %s: %w", s.table, err)
			}
			out.RowsDeleted[s.table] = n
		}
		n, err := a.deps.Users.Delete(dbc, userID)
		if err != nil {
			return err
		}
		out.RowsDeleted["user"] = n
		return nil
	})
	if err != nil {
		return domainagg.DeleteAccountResult{RowsDeleted: map[string]int64{}}, err
	}
	return out, nil
}
