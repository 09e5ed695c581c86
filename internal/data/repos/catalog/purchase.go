package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/amelfit-backend/internal/domain"
	"github.com/yungbote/amelfit-backend/internal/domain/catalog"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

type PurchaseRepo interface {
	// CreateIfAbsent inserts p unless (payment_method, provider_ref) already exists.
	// It returns the stored purchase and whether this call created it.
	CreateIfAbsent(dbc dbctx.Context, p *types.Purchase) (*types.Purchase, bool, error)
	GetByProviderRef(dbc dbctx.Context, method, ref string) (*types.Purchase, error)
	ListCompletedByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Purchase, error)
	HasCompleted(dbc dbctx.Context, userID, courseID uuid.UUID) (bool, error)
	DeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) (int64, error)
}

type purchaseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPurchaseRepo(db *gorm.DB, baseLog *logger.Logger) PurchaseRepo {
	return &purchaseRepo{db: db, log: baseLog.With("repo", "PurchaseRepo")}
}

func (r *purchaseRepo) CreateIfAbsent(dbc dbctx.Context, p *types.Purchase) (*types.Purchase, bool, error) {
	if p == nil || p.UserID == uuid.Nil || p.CourseID == uuid.Nil {
		return nil, false, fmt.Errorf("purchase requires user_id and course_id")
	}
	if p.ProviderRef == "" || p.PaymentMethod == "" {
		return nil, false, fmt.Errorf("purchase requires payment_method and provider_ref")
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payment_method"}, {Name: "provider_ref"}},
			DoNothing: true,
		}).
		Create(p)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return p, true, nil
	}
	existing, err := r.GetByProviderRef(dbc, p.PaymentMethod, p.ProviderRef)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *purchaseRepo) GetByProviderRef(dbc dbctx.Context, method, ref string) (*types.Purchase, error) {
	var out []*types.Purchase
	if err := dbc.DB(r.db).
		Where("payment_method = ? AND provider_ref = ?", method, ref).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *purchaseRepo) ListCompletedByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Purchase, error) {
	var out []*types.Purchase
	if err := dbc.DB(r.db).
		Where("user_id = ? AND status = ?", userID, catalog.PurchaseStatusCompleted).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *purchaseRepo) HasCompleted(dbc dbctx.Context, userID, courseID uuid.UUID) (bool, error) {
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.Purchase{}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, catalog.PurchaseStatusCompleted).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *purchaseRepo) DeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).Where("user_id IN ?", userIDs).Delete(&types.Purchase{})
	return res.RowsAffected, res.Error
}
