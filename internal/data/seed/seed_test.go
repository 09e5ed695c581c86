package seed

import (
	"encoding/json"
	"testing"

	"github.com/yungbote/amelfit-backend/internal/domain/content"
)

func TestCoursesDecode(t *testing.T) {
	courses, err := Courses()
	if err != nil {
		t.Fatalf("Courses: %v", err)
	}
	if len(courses) < 6 {
		t.Fatalf("expected at least 6 seed courses, got %d", len(courses))
	}
	apple := 0
	for _, c := range courses {
		if c.Title == "" || c.Category == "" || !c.Price.IsPositive() {
			t.Fatalf("incomplete seed course: %+v", c)
		}
		if c.AppleProductID != nil {
			apple++
		}
	}
	if apple == 0 {
		t.Fatalf("expected at least one course mapped to an App Store product")
	}
}

func TestSiteSectionsCoverEverySection(t *testing.T) {
	sections, err := SiteSections()
	if err != nil {
		t.Fatalf("SiteSections: %v", err)
	}
	if len(sections) != len(content.Sections) {
		t.Fatalf("want %d sections, got %d", len(content.Sections), len(sections))
	}
	for _, s := range sections {
		var doc map[string]any
		if err := json.Unmarshal(s.Data, &doc); err != nil {
			t.Fatalf("section %s is not a JSON object: %v", s.Name, err)
		}
	}
}
