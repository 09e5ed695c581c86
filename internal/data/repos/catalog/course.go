package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/amelfit-backend/internal/domain"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

type CourseRepo interface {
	Create(dbc dbctx.Context, courses []*types.Course) ([]*types.Course, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Course, error)
	GetByAppleProductIDs(dbc dbctx.Context, productIDs []string) ([]*types.Course, error)
	// List filters by category when category is non-empty. Ordered by creation.
	List(dbc dbctx.Context, category string) ([]*types.Course, error)
	Categories(dbc dbctx.Context) ([]string, error)
	Count(dbc dbctx.Context) (int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) (bool, error)
	Delete(dbc dbctx.Context, id uuid.UUID) (bool, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Create(dbc dbctx.Context, courses []*types.Course) ([]*types.Course, error) {
	if len(courses) == 0 {
		return []*types.Course{}, nil
	}
	if err := dbc.DB(r.db).Create(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing course id")
	}
	rows, err := r.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *courseRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Course, error) {
	var out []*types.Course
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("id IN ?", ids).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) GetByAppleProductIDs(dbc dbctx.Context, productIDs []string) ([]*types.Course, error) {
	var out []*types.Course
	if len(productIDs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("apple_product_id IN ?", productIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) List(dbc dbctx.Context, category string) ([]*types.Course, error) {
	var out []*types.Course
	q := dbc.DB(r.db).Model(&types.Course{})
	if c := strings.TrimSpace(category); c != "" {
		q = q.Where("category = ?", c)
	}
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) Categories(dbc dbctx.Context) ([]string, error) {
	var out []string
	if err := dbc.DB(r.db).
		Model(&types.Course{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.Course{}).Count(&n).Error
	return n, err
}

func (r *courseRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) (bool, error) {
	if id == uuid.Nil {
		return false, fmt.Errorf("missing course id")
	}
	if len(updates) == 0 {
		n, err := r.GetByID(dbc, id)
		return n != nil, err
	}
	updates["updated_at"] = time.Now().UTC()
	res := dbc.DB(r.db).
		Model(&types.Course{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *courseRepo) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Course{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
