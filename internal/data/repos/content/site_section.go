package content

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/amelfit-backend/internal/domain"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

type SiteSectionRepo interface {
	List(dbc dbctx.Context) ([]*types.SiteSection, error)
	Upsert(dbc dbctx.Context, section *types.SiteSection) (*types.SiteSection, error)
	// InsertMissing stores the given sections only where no row exists yet.
	InsertMissing(dbc dbctx.Context, sections []*types.SiteSection) (int64, error)
}

type siteSectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSiteSectionRepo(db *gorm.DB, baseLog *logger.Logger) SiteSectionRepo {
	return &siteSectionRepo{db: db, log: baseLog.With("repo", "SiteSectionRepo")}
}

func (r *siteSectionRepo) List(dbc dbctx.Context) ([]*types.SiteSection, error) {
	var out []*types.SiteSection
	if err := dbc.DB(r.db).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *siteSectionRepo) Upsert(dbc dbctx.Context, section *types.SiteSection) (*types.SiteSection, error) {
	section.UpdatedAt = time.Now().UTC()
	if err := dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(section).Error; err != nil {
		return nil, err
	}
	return section, nil
}

func (r *siteSectionRepo) InsertMissing(dbc dbctx.Context, sections []*types.SiteSection) (int64, error) {
	if len(sections) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	for _, s := range sections {
		s.UpdatedAt = now
	}
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&sections)
	return res.RowsAffected, res.Error
}
