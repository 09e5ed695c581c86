package training

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/amelfit-backend/internal/domain"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

// SessionRecordRepo is the append-only session ledger. There is no update path.
type SessionRecordRepo interface {
	Create(dbc dbctx.Context, rows []*types.SessionRecord) ([]*types.SessionRecord, error)
	ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.SessionRecord, error)
	// ListBetween covers [start, end).
	ListBetween(dbc dbctx.Context, userID uuid.UUID, start, end time.Time) ([]*types.SessionRecord, error)
	// ListAll returns the full ledger in completed_at order.
	ListAll(dbc dbctx.Context, userID uuid.UUID) ([]*types.SessionRecord, error)
	DeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) (int64, error)
}

type sessionRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRecordRepo(db *gorm.DB, baseLog *logger.Logger) SessionRecordRepo {
	return &sessionRecordRepo{db: db, log: baseLog.With("repo", "SessionRecordRepo")}
}

func (r *sessionRecordRepo) Create(dbc dbctx.Context, rows []*types.SessionRecord) ([]*types.SessionRecord, error) {
	if len(rows) == 0 {
		return []*types.SessionRecord{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *sessionRecordRepo) ListRecent(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.SessionRecord, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []*types.SessionRecord
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sessionRecordRepo) ListBetween(dbc dbctx.Context, userID uuid.UUID, start, end time.Time) ([]*types.SessionRecord, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	var out []*types.SessionRecord
	if err := dbc.DB(r.db).
		Where("user_id = ? AND completed_at >= ? AND completed_at < ?", userID, start.UTC(), end.UTC()).
		Order("completed_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sessionRecordRepo) ListAll(dbc dbctx.Context, userID uuid.UUID) ([]*types.SessionRecord, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user_id")
	}
	var out []*types.SessionRecord
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("completed_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sessionRecordRepo) DeleteByUserIDs(dbc dbctx.Context, userIDs []uuid.UUID) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).Where("user_id IN ?", userIDs).Delete(&types.SessionRecord{})
	return res.RowsAffected, res.Error
}
