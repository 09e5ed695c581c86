package services

import (
	"bytes"
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/yungbote/amelfit-backend/internal/data/repos"
	"github.com/yungbote/amelfit-backend/internal/data/seed"
	types "github.com/yungbote/amelfit-backend/internal/domain"
	"github.com/yungbote/amelfit-backend/internal/domain/content"
	"github.com/yungbote/amelfit-backend/internal/platform/apierr"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

type SiteContentService interface {
	// Get returns every section, falling back to the embedded defaults for unsaved ones.
	Get(ctx context.Context) (map[string]json.RawMessage, error)
	UpdateSection(ctx context.Context, name string, data json.RawMessage) (*types.SiteSection, error)
}

type siteContentService struct {
	log      *logger.Logger
	sections repos.SiteSectionRepo
}

func NewSiteContentService(log *logger.Logger, sections repos.SiteSectionRepo) SiteContentService {
	return &siteContentService{
		log:      log.With("service", "SiteContentService"),
		sections: sections,
	}
}

func (s *siteContentService) Get(ctx context.Context) (map[string]json.RawMessage, error) {
	defaults, err := seed.SiteSections()
	if err != nil {
		return nil, storageError(s.log, "site_content", err)
	}
	out := make(map[string]json.RawMessage, len(content.Sections))
	for _, d := range defaults {
		out[d.Name] = json.RawMessage(d.Data)
	}
	stored, err := s.sections.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, storageError(s.log, "site_content", err)
	}
	for _, row := range stored {
		if content.IsSection(row.Name) && len(row.Data) > 0 {
			out[row.Name] = json.RawMessage(row.Data)
		}
	}
	return out, nil
}

func (s *siteContentService) UpdateSection(ctx context.Context, name string, data json.RawMessage) (*types.SiteSection, error) {
	if !content.IsSection(name) {
		return nil, apierr.BadRequest("invalid_section", "Invalid section: "+name)
	}
	trimmed := bytes.TrimSpace(data)
	var probe map[string]any
	if len(trimmed) == 0 || trimmed[0] != '{' || json.Unmarshal(trimmed, &probe) != nil {
		return nil, apierr.BadRequest("invalid_request", "section data must be a JSON object")
	}
	saved, err := s.sections.Upsert(dbctx.Context{Ctx: ctx}, &types.SiteSection{
		Name: name,
		Data: datatypes.JSON(trimmed),
	})
	if err != nil {
		return nil, storageError(s.log, "update_section", err)
	}
	s.log.Info("site section updated", "section", name)
	return saved, nil
}
