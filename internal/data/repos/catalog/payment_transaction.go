package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/amelfit-backend/internal/domain"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

type PaymentTransactionRepo interface {
	Create(dbc dbctx.Context, t *types.PaymentTransaction) (*types.PaymentTransaction, error)
	GetBySessionID(dbc dbctx.Context, sessionID string) (*types.PaymentTransaction, error)
	LockBySessionID(dbc dbctx.Context, sessionID string) (*types.PaymentTransaction, error)
	UpdateStatus(dbc dbctx.Context, id uuid.UUID, status, paymentStatus string) error
	DeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) (int64, error)
}

type paymentTransactionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPaymentTransactionRepo(db *gorm.DB, baseLog *logger.Logger) PaymentTransactionRepo {
	return &paymentTransactionRepo{db: db, log: baseLog.With("repo", "PaymentTransactionRepo")}
}

func (r *paymentTransactionRepo) Create(dbc dbctx.Context, t *types.PaymentTransaction) (*types.PaymentTransaction, error) {
	if t == nil || strings.TrimSpace(t.SessionID) == "" {
		return nil, fmt.Errorf("missing session_id")
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if err := dbc.DB(r.db).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (r *paymentTransactionRepo) GetBySessionID(dbc dbctx.Context, sessionID string) (*types.PaymentTransaction, error) {
	var out []*types.PaymentTransaction
	if err := dbc.DB(r.db).
		Where("session_id = ?", sessionID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *paymentTransactionRepo) LockBySessionID(dbc dbctx.Context, sessionID string) (*types.PaymentTransaction, error) {
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockBySessionID requires dbc.Tx")
	}
	var out []*types.PaymentTransaction
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("session_id = ?", sessionID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *paymentTransactionRepo) UpdateStatus(dbc dbctx.Context, id uuid.UUID, status, paymentStatus string) error {
	return dbc.DB(r.db).
		Model(&types.PaymentTransaction{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":         status,
			"payment_status": paymentStatus,
			"updated_at":     time.Now().UTC(),
		}).Error
}

func (r *paymentTransactionRepo) DeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).Where("user_id IN ?", userIDs).Delete(&types.PaymentTransaction{})
	return res.RowsAffected, res.Error
}
