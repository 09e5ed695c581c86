package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/amelfit-backend/internal/domain"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

type PasswordResetRepo interface {
	Create(dbc dbctx.Context, reset *types.PasswordReset) (*types.PasswordReset, error)
	GetByTokenHash(dbc dbctx.Context, tokenHash string) (*types.PasswordReset, error)
	// MarkUsed sets used_at once; false means the token was already redeemed.
	MarkUsed(dbc dbctx.Context, id uuid.UUID, at time.Time) (bool, error)
	DeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) (int64, error)
}

type passwordResetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPasswordResetRepo(db *gorm.DB, baseLog *logger.Logger) PasswordResetRepo {
	repoLog := baseLog.With("repo", "PasswordResetRepo")
	return &passwordResetRepo{db: db, log: repoLog}
}

func (r *passwordResetRepo) Create(dbc dbctx.Context, reset *types.PasswordReset) (*types.PasswordReset, error) {
	if reset == nil || reset.UserID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	if reset.ID == uuid.Nil {
		reset.ID = uuid.New()
	}
	if err := dbc.DB(r.db).Create(reset).Error; err != nil {
		return nil, err
	}
	return reset, nil
}

func (r *passwordResetRepo) GetByTokenHash(dbc dbctx.Context, tokenHash string) (*types.PasswordReset, error) {
	var out []*types.PasswordReset
	if tokenHash == "" {
		return nil, nil
	}
	if err := dbc.DB(r.db).
		Where("token_hash = ?", tokenHash).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *passwordResetRepo) MarkUsed(dbc dbctx.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := dbc.DB(r.db).
		Model(&types.PasswordReset{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", at.UTC())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *passwordResetRepo) DeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).Where("user_id IN ?", userIDs).Delete(&types.PasswordReset{})
	return res.RowsAffected, res.Error
}
