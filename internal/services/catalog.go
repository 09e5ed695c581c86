package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/amelfit-backend/internal/data/repos"
	"github.com/yungbote/amelfit-backend/internal/data/seed"
	types "github.com/yungbote/amelfit-backend/internal/domain"
	"github.com/yungbote/amelfit-backend/internal/platform/apierr"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

type CourseInput struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Category        string          `json:"category"`
	DurationMinutes int             `json:"duration_minutes"`
	Level           string          `json:"level"`
	Price           decimal.Decimal `json:"price"`
	VideoURL        *string         `json:"video_url"`
	TeaserURL       *string         `json:"teaser_url"`
	ThumbnailURL    *string         `json:"thumbnail_url"`
	AppleProductID  *string         `json:"apple_product_id"`
}

// CoursePatch is a partial admin update; nil fields are left unchanged.
type CoursePatch struct {
	Title           *string          `json:"title"`
	Description     *string          `json:"description"`
	Category        *string          `json:"category"`
	DurationMinutes *int             `json:"duration_minutes"`
	Level           *string          `json:"level"`
	Price           *decimal.Decimal `json:"price"`
	VideoURL        *string          `json:"video_url"`
	TeaserURL       *string          `json:"teaser_url"`
	ThumbnailURL    *string          `json:"thumbnail_url"`
	AppleProductID  *string          `json:"apple_product_id"`
}

type SeedResult struct {
	Message  string `json:"message"`
	Courses  int    `json:"courses"`
	Sections int64  `json:"sections"`
}

type CatalogService interface {
	ListCourses(ctx context.Context, category string) ([]*types.Course, error)
	Categories(ctx context.Context) ([]string, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*types.Course, error)
	HasAccess(ctx context.Context, courseID uuid.UUID) (bool, error)
	// Seed loads the embedded catalog once and fills in missing site sections.
	Seed(ctx context.Context) (SeedResult, error)

	CreateCourse(ctx context.Context, in CourseInput) (*types.Course, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, patch CoursePatch) (*types.Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	log       *logger.Logger
	courses   repos.CourseRepo
	purchases repos.PurchaseRepo
	sections  repos.SiteSectionRepo
}

func NewCatalogService(log *logger.Logger, courses repos.CourseRepo, purchases repos.PurchaseRepo, sections repos.SiteSectionRepo) CatalogService {
	return &catalogService{
		log:       log.With("service", "CatalogService"),
		courses:   courses,
		purchases: purchases,
		sections:  sections,
	}
}

var errCourseNotFound = apierr.NotFound("course_not_found", "Course not found")

func (cs *catalogService) ListCourses(ctx context.Context, category string) ([]*types.Course, error) {
	out, err := cs.courses.List(dbctx.Context{Ctx: ctx}, category)
	if err != nil {
		return nil, storageError(cs.log, "list_courses", err)
	}
	if out == nil {
		out = []*types.Course{}
	}
	return out, nil
}

func (cs *catalogService) Categories(ctx context.Context) ([]string, error) {
	out, err := cs.courses.Categories(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, storageError(cs.log, "categories", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (cs *catalogService) GetCourse(ctx context.Context, id uuid.UUID) (*types.Course, error) {
	c, err := cs.courses.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, storageError(cs.log, "get_course", err)
	}
	if c == nil {
		return nil, errCourseNotFound
	}
	return c, nil
}

func (cs *catalogService) HasAccess(ctx context.Context, courseID uuid.UUID) (bool, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return false, err
	}
	ok, err := cs.purchases.HasCompleted(dbctx.Context{Ctx: ctx}, userID, courseID)
	if err != nil {
		return false, storageError(cs.log, "has_access", err)
	}
	return ok, nil
}

func (cs *catalogService) Seed(ctx context.Context) (SeedResult, error) {
	dbc := dbctx.Context{Ctx: ctx}
	var res SeedResult

	sections, err := seed.SiteSections()
	if err != nil {
		return res, storageError(cs.log, "seed", err)
	}
	if res.Sections, err = cs.sections.InsertMissing(dbc, sections); err != nil {
		return res, storageError(cs.log, "seed", err)
	}

	n, err := cs.courses.Count(dbc)
	if err != nil {
		return res, storageError(cs.log, "seed", err)
	}
	if n > 0 {
		res.Message = "Data already seeded"
		return res, nil
	}
	courses, err := seed.Courses()
	if err != nil {
		return res, storageError(cs.log, "seed", err)
	}
	if _, err := cs.courses.Create(dbc, courses); err != nil {
		return res, storageError(cs.log, "seed", err)
	}
	res.Message = "Data seeded successfully"
	res.Courses = len(courses)
	cs.log.Info("catalog seeded", "courses", res.Courses, "sections", res.Sections)
	return res, nil
}

func validateCourse(title, category string, duration int, price decimal.Decimal) error {
	switch {
	case title == "":
		return apierr.BadRequest("invalid_course", "title is required")
	case category == "":
		return apierr.BadRequest("invalid_course", "category is required")
	case duration < 0:
		return apierr.BadRequest("invalid_course", "duration_minutes must not be negative")
	case price.IsNegative():
		return apierr.BadRequest("invalid_course", "price must not be negative")
	}
	return nil
}

func (cs *catalogService) CreateCourse(ctx context.Context, in CourseInput) (*types.Course, error) {
	c := &types.Course{
		ID:              uuid.New(),
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		Category:        strings.TrimSpace(in.Category),
		DurationMinutes: in.DurationMinutes,
		Level:           strings.TrimSpace(in.Level),
		Price:           in.Price.Round(2),
		VideoURL:        trimmedOrNil(in.VideoURL),
		TeaserURL:       trimmedOrNil(in.TeaserURL),
		ThumbnailURL:    trimmedOrNil(in.ThumbnailURL),
		AppleProductID:  trimmedOrNil(in.AppleProductID),
	}
	if err := validateCourse(c.Title, c.Category, c.DurationMinutes, c.Price); err != nil {
		return nil, err
	}
	created, err := cs.courses.Create(dbctx.Context{Ctx: ctx}, []*types.Course{c})
	if err != nil {
		return nil, storageError(cs.log, "create_course", err)
	}
	if len(created) > 0 && created[0] != nil {
		c = created[0]
	}
	cs.log.Info("course created", "course_id", c.ID)
	return c, nil
}

func (cs *catalogService) UpdateCourse(ctx context.Context, id uuid.UUID, patch CoursePatch) (*types.Course, error) {
	current, err := cs.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]any{}
	next := *current
	if patch.Title != nil {
		next.Title = strings.TrimSpace(*patch.Title)
		updates["title"] = next.Title
	}
	if patch.Description != nil {
		next.Description = strings.TrimSpace(*patch.Description)
		updates["description"] = next.Description
	}
	if patch.Category != nil {
		next.Category = strings.TrimSpace(*patch.Category)
		updates["category"] = next.Category
	}
	if patch.DurationMinutes != nil {
		next.DurationMinutes = *patch.DurationMinutes
		updates["duration_minutes"] = next.DurationMinutes
	}
	if patch.Level != nil {
		next.Level = strings.TrimSpace(*patch.Level)
		updates["level"] = next.Level
	}
	if patch.Price != nil {
		next.Price = patch.Price.Round(2)
		updates["price"] = next.Price
	}
	for col, v := range map[string]*string{
		"video_url":        patch.VideoURL,
		"teaser_url":       patch.TeaserURL,
		"thumbnail_url":    patch.ThumbnailURL,
		"apple_product_id": patch.AppleProductID,
	} {
		if v != nil {
			updates[col] = trimmedOrNil(v)
		}
	}
	if len(updates) == 0 {
		return current, nil
	}
	if err := validateCourse(next.Title, next.Category, next.DurationMinutes, next.Price); err != nil {
		return nil, err
	}
	found, err := cs.courses.UpdateFields(dbctx.Context{Ctx: ctx}, id, updates)
	if err != nil {
		return nil, storageError(cs.log, "update_course", err)
	}
	if !found {
		return nil, errCourseNotFound
	}
	return cs.GetCourse(ctx, id)
}

func (cs *catalogService) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	found, err := cs.courses.Delete(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return storageError(cs.log, "delete_course", err)
	}
	if !found {
		return errCourseNotFound
	}
	cs.log.Info("course deleted", "course_id", id)
	return nil
}
