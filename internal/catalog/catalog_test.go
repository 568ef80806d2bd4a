package catalog

import (
	"testing"

	"github.com/lumohealth/lumo/internal/domain"
)

func TestCatalogContents(t *testing.T) {
	c := New()

	templates := c.Templates()
	if len(templates) != 11 {
		t.Fatalf("catalog has %d templates, want 11", len(templates))
	}

	seen := make(map[string]bool, len(templates))
	for _, tmpl := range templates {
		if tmpl.Title == "" {
			t.Fatal("template with empty title")
		}
		if seen[tmpl.Title] {
			t.Fatalf("duplicate title %q", tmpl.Title)
		}
		seen[tmpl.Title] = true

		if !domain.ValidCategory(tmpl.Category) {
			t.Errorf("%q has unknown category %q", tmpl.Title, tmpl.Category)
		}
		if len(tmpl.Conditions) == 0 {
			t.Errorf("%q has no applicability conditions", tmpl.Title)
		}
		if len(tmpl.Steps) == 0 {
			t.Errorf("%q has no steps", tmpl.Title)
		}
	}

	if got := len(c.Immediate()); got != 4 {
		t.Fatalf("immediate templates = %d, want 4", got)
	}
}

func TestCatalogCoversEveryCategory(t *testing.T) {
	c := New()
	for _, cat := range domain.Categories {
		if len(c.ByCategory(cat)) == 0 {
			t.Errorf("no templates in category %q", cat)
		}
	}
}

func TestByTitle(t *testing.T) {
	c := New()

	tmpl, ok := c.ByTitle("Gratitude Journaling")
	if !ok {
		t.Fatal("expected to find Gratitude Journaling")
	}
	if tmpl.Category != domain.CategoryMental {
		t.Errorf("category = %q, want %q", tmpl.Category, domain.CategoryMental)
	}

	if _, ok := c.ByTitle("Nonexistent"); ok {
		t.Fatal("unexpected hit for unknown title")
	}
}

func TestTemplatesReturnsCopy(t *testing.T) {
	c := New()
	first := c.Templates()
	first[0].Title = "mutated"

	if c.Templates()[0].Title == "mutated" {
		t.Fatal("Templates must not expose internal state")
	}
}
