// Package seed holds the embedded starter catalog and default site content.
package seed

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	types "github.com/yungbote/amelfit-backend/internal/domain"
	"github.com/yungbote/amelfit-backend/internal/domain/content"
)

//go:embed catalog.yaml site_content.yaml
var seedFS embed.FS

type courseSpec struct {
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
	Category        string `yaml:"category"`
	DurationMinutes int    `yaml:"duration_minutes"`
	Level           string `yaml:"level"`
	Price           string `yaml:"price"`
	VideoURL        string `yaml:"video_url"`
	TeaserURL       string `yaml:"teaser_url"`
	ThumbnailURL    string `yaml:"thumbnail_url"`
	AppleProductID  string `yaml:"apple_product_id"`
}

type catalogFile struct {
	Courses []courseSpec `yaml:"courses"`
}

// Courses decodes the embedded catalog into fresh, unsaved rows.
func Courses() ([]*types.Course, error) {
	raw, err := seedFS.ReadFile("catalog.yaml")
	if err != nil {
		return nil, fmt.Errorf("read catalog.yaml: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog.yaml: %w", err)
	}
	out := make([]*types.Course, 0, len(file.Courses))
	for i, c := range file.Courses {
		price, err := decimal.NewFromString(strings.TrimSpace(c.Price))
		if err != nil {
			return nil, fmt.Errorf("catalog.yaml course %d (%s): bad price %q", i, c.Title, c.Price)
		}
		out = append(out, &types.Course{
			Title:           c.Title,
			Description:     c.Description,
			Category:        c.Category,
			DurationMinutes: c.DurationMinutes,
			Level:           c.Level,
			Price:           price,
			VideoURL:        optional(c.VideoURL),
			TeaserURL:       optional(c.TeaserURL),
			ThumbnailURL:    optional(c.ThumbnailURL),
			AppleProductID:  optional(c.AppleProductID),
		})
	}
	return out, nil
}

// SiteSections returns the default document for every editable section.
func SiteSections() ([]*types.SiteSection, error) {
	raw, err := seedFS.ReadFile("site_content.yaml")
	if err != nil {
		return nil, fmt.Errorf("read site_content.yaml: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse site_content.yaml: %w", err)
	}
	out := make([]*types.SiteSection, 0, len(content.Sections))
	for _, name := range content.Sections {
		section, ok := doc[name]
		if !ok {
			section = map[string]any{}
		}
		data, err := json.Marshal(section)
		if err != nil {
			return nil, fmt.Errorf("encode section %s: %w", name, err)
		}
		out = append(out, &types.SiteSection{Name: name, Data: datatypes.JSON(data)})
	}
	return out, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
