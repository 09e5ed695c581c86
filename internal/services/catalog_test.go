package services

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	types "github.com/yungbote/amelfit-backend/internal/domain"
	"github.com/yungbote/amelfit-backend/internal/domain/content"
	"github.com/yungbote/amelfit-backend/internal/platform/dbctx"
	"github.com/yungbote/amelfit-backend/internal/platform/gcp"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

type fakeSections struct {
	rows map[string]*types.SiteSection
}

func newFakeSections() *fakeSections { return &fakeSections{rows: map[string]*types.SiteSection{}} }

func (f *fakeSections) List(dbctx.Context) ([]*types.SiteSection, error) {
	var out []*types.SiteSection
	for _, name := range content.Sections {
		if s, ok := f.rows[name]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSections) Upsert(_ dbctx.Context, s *types.SiteSection) (*types.SiteSection, error) {
	f.rows[s.Name] = s
	return s, nil
}

func (f *fakeSections) InsertMissing(_ dbctx.Context, sections []*types.SiteSection) (int64, error) {
	var n int64
	for _, s := range sections {
		if _, ok := f.rows[s.Name]; !ok {
			f.rows[s.Name] = s
			n++
		}
	}
	return n, nil
}

func TestSeedRunsOnce(t *testing.T) {
	courses := &fakeCourses{}
	sections := newFakeSections()
	svc := NewCatalogService(logger.Nop(), courses, &fakePurchases{}, sections)

	res, err := svc.Seed(context.Background())
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if res.Message != "Data seeded successfully" || res.Courses == 0 || res.Courses != len(courses.rows) {
		t.Fatalf("unexpected first seed: %+v", res)
	}
	if int(res.Sections) != len(content.Sections) {
		t.Fatalf("expected %d sections, got %d", len(content.Sections), res.Sections)
	}

	again, err := svc.Seed(context.Background())
	if err != nil {
		t.Fatalf("Seed again: %v", err)
	}
	if again.Message != "Data already seeded" || again.Sections != 0 || len(courses.rows) != res.Courses {
		t.Fatalf("second seed must be a no-op: %+v", again)
	}
}

func TestCourseAdminCRUD(t *testing.T) {
	courses := &fakeCourses{}
	svc := NewCatalogService(logger.Nop(), courses, &fakePurchases{}, newFakeSections())
	ctx := context.Background()

	if _, err := svc.CreateCourse(ctx, CourseInput{Title: " ", Category: "yoga"}); statusOf(t, err) != http.StatusBadRequest {
		t.Fatalf("expected 400 without title, got %v", err)
	}
	c, err := svc.CreateCourse(ctx, CourseInput{Title: "Yoga doux", Category: "yoga", Price: decimal.RequireFromString("19.999")})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	if !c.Price.Equal(decimal.RequireFromString("20")) {
		t.Fatalf("price should round to cents, got %s", c.Price)
	}

	title := "Yoga tonique"
	updated, err := svc.UpdateCourse(ctx, c.ID, CoursePatch{Title: &title})
	if err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("title not updated: %+v", updated)
	}
	neg := decimal.NewFromInt(-1)
	if _, err := svc.UpdateCourse(ctx, c.ID, CoursePatch{Price: &neg}); statusOf(t, err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative price, got %v", err)
	}

	cats, err := svc.Categories(ctx)
	if err != nil || len(cats) != 1 || cats[0] != "yoga" {
		t.Fatalf("unexpected categories: %v %v", cats, err)
	}
	if err := svc.DeleteCourse(ctx, c.ID); err != nil {
		t.Fatalf("DeleteCourse: %v", err)
	}
	if _, err := svc.GetCourse(ctx, c.ID); statusOf(t, err) != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %v", err)
	}
	if err := svc.DeleteCourse(ctx, c.ID); statusOf(t, err) != http.StatusNotFound {
		t.Fatalf("expected 404 deleting twice, got %v", err)
	}
}

func TestSiteContentOverlaysDefaults(t *testing.T) {
	sections := newFakeSections()
	svc := NewSiteContentService(logger.Nop(), sections)
	ctx := context.Background()

	all, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	for _, name := range content.Sections {
		if _, ok := all[name]; !ok {
			t.Fatalf("default for %q missing", name)
		}
	}

	if _, err := svc.UpdateSection(ctx, content.SectionHero, json.RawMessage(`{"title":"Bienvenue"}`)); err != nil {
		t.Fatalf("UpdateSection: %v", err)
	}
	all, err = svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !strings.Contains(string(all[content.SectionHero]), "Bienvenue") {
		t.Fatalf("stored section not returned: %s", all[content.SectionHero])
	}

	if _, err := svc.UpdateSection(ctx, "footer", json.RawMessage(`{}`)); statusOf(t, err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown section, got %v", err)
	}
	if _, err := svc.UpdateSection(ctx, content.SectionColors, json.RawMessage(`[1,2]`)); statusOf(t, err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-object data, got %v", err)
	}
}

func TestUserProfileAndNotifications(t *testing.T) {
	id := uuid.New()
	users := newFakeUsers(&types.User{ID: id, Email: "a@b.fr", FirstName: "Amel"})
	svc := NewUserService(logger.Nop(), UserServiceDeps{Users: users, Purchases: &fakePurchases{}, Courses: &fakeCourses{}})
	ctx := asUser(id)

	empty := " "
	if _, err := svc.UpdateProfile(ctx, ProfileUpdate{FirstName: &empty}); statusOf(t, err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank first_name, got %v", err)
	}
	goal := "perte de poids"
	u, err := svc.UpdateProfile(ctx, ProfileUpdate{FitnessGoal: &goal})
	if err != nil || u.FitnessGoal == nil || *u.FitnessGoal != goal || u.FirstName != "Amel" {
		t.Fatalf("unexpected profile: %+v %v", u, err)
	}

	n, err := svc.GetNotifications(ctx)
	if err != nil || !n.Enabled {
		t.Fatalf("expected enabled defaults, got %+v %v", n, err)
	}
	off := false
	days := []string{"lundi", "jeudi"}
	n, err = svc.UpdateNotifications(ctx, types.NotificationSettingsPatch{Enabled: &off, TrainingDays: &days})
	if err != nil || n.Enabled || len(n.TrainingDays) != 2 {
		t.Fatalf("unexpected settings: %+v %v", n, err)
	}
	again, err := svc.GetNotifications(ctx)
	if err != nil || again.Enabled || len(again.TrainingDays) != 2 {
		t.Fatalf("settings not persisted: %+v %v", again, err)
	}

	courses, err := svc.ListCourses(ctx)
	if err != nil || len(courses) != 0 {
		t.Fatalf("expected no courses, got %v %v", courses, err)
	}
}

type fakeBucket struct {
	keys         []string
	contentTypes []string
}

func (f *fakeBucket) UploadFile(_ dbctx.Context, _ gcp.BucketCategory, key, contentType string, r io.Reader) error {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return err
	}
	f.keys = append(f.keys, key)
	f.contentTypes = append(f.contentTypes, contentType)
	return nil
}

func (f *fakeBucket) DeleteFile(dbctx.Context, gcp.BucketCategory, string) error { return nil }

func (f *fakeBucket) GetPublicURL(_ gcp.BucketCategory, key string) string {
	return "https://cdn.amelfit.fr/" + key
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestUploadImage(t *testing.T) {
	bucket := &fakeBucket{}
	svc := NewUploadService(logger.Nop(), bucket)

	url, err := svc.UploadImage(context.Background(), bytes.NewReader(tinyPNG(t)))
	if err != nil {
		t.Fatalf("UploadImage: %v", err)
	}
	if !strings.HasPrefix(url, "https://cdn.amelfit.fr/images/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("unexpected url %q", url)
	}
	if bucket.contentTypes[0] != "image/png" {
		t.Fatalf("unexpected content type %q", bucket.contentTypes[0])
	}

	if _, err := svc.UploadImage(context.Background(), strings.NewReader("%PDF-1.4 not an image")); statusOf(t, err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-image, got %v", err)
	}
	big := io.MultiReader(bytes.NewReader(tinyPNG(t)), bytes.NewReader(make([]byte, MaxImageUploadBytes)))
	if _, err := svc.UploadImage(context.Background(), big); statusOf(t, err) != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %v", err)
	}
	if len(bucket.keys) != 1 {
		t.Fatalf("rejected uploads must not reach the bucket")
	}

	if _, err := NewUploadService(logger.Nop(), nil).UploadImage(context.Background(), bytes.NewReader(tinyPNG(t))); statusOf(t, err) != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a bucket, got %v", err)
	}
}
