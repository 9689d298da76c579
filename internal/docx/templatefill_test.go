package docx_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aver1ch/formatingDocx/internal/docx"
	"github.com/aver1ch/formatingDocx/internal/measure"
)

func TestFillPlaceholders(t *testing.T) {
	session, err := docx.Open(templateDOCX(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	values := map[string]string{
		"agency_name":    "Federal Agency for Technical Regulation",
		"st_type":        "NATIONAL STANDARD",
		"designation":    "GOST R 8.000-2026",
		"title":          "Metrological assurance",
		"status":         "Official edition",
		"city":           "Moscow",
		"publisher_info": "Standartinform",
		"current_year":   "2026",
	}

	n, err := docx.FillPlaceholders(session, values)
	if err != nil {
		t.Fatalf("FillPlaceholders: %v", err)
	}

	if n != 8 {
		t.Errorf("substitutions = %d, want 8", n)
	}

	body, _ := session.Body()
	var all []string
	for _, p := range docx.Paragraphs(body) {
		all = append(all, docx.ParagraphText(p))
	}

	joined := strings.Join(all, "\n")

	if !strings.Contains(joined, "NATIONAL STANDARD") {
		t.Error("cross-run placeholder {{st_type}} not substituted")
	}

	if !strings.Contains(joined, "Moscow Standartinform 2026") {
		t.Errorf("multi-placeholder line wrong:\n%s", joined)
	}

	if strings.Contains(joined, "{{agency_name}}") {
		t.Error("placeholder left behind")
	}

	// {{image}} had no value and must be untouched.
	if !strings.Contains(joined, "{{image}}") {
		t.Error("valueless placeholder should be preserved")
	}
}

func TestPlaceholderNames(t *testing.T) {
	session, err := docx.Open(templateDOCX(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	names, err := docx.PlaceholderNames(session)
	if err != nil {
		t.Fatalf("PlaceholderNames: %v", err)
	}

	want := []string{"agency_name", "st_type", "image", "designation", "title", "status", "city", "publisher_info", "current_year"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}

	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestReplaceImagePlaceholder(t *testing.T) {
	dir := t.TempDir()
	session, err := docx.Open(templateDOCX(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	png := writePNG(t, dir)

	ok, err := session.ReplaceImagePlaceholder("{{image}}", png, measure.FromMm(42))
	if err != nil {
		t.Fatalf("ReplaceImagePlaceholder: %v", err)
	}

	if !ok {
		t.Fatal("placeholder not found")
	}

	if !session.HasPart("word/media/image1.png") {
		t.Error("media part not added")
	}

	body, _ := session.Body()
	for _, p := range docx.Paragraphs(body) {
		if strings.Contains(docx.ParagraphText(p), "{{image}}") {
			t.Error("image placeholder text still present")
		}
	}

	// Missing placeholder reports false, not an error.
	ok, err = session.ReplaceImagePlaceholder("{{image}}", png, measure.FromMm(42))
	if err != nil {
		t.Fatalf("second ReplaceImagePlaceholder: %v", err)
	}

	if ok {
		t.Error("second replacement should find nothing")
	}
}

func TestValidate(t *testing.T) {
	path := sampleDOCX(t)

	result, err := docx.Validate(path)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if !result.Valid {
		t.Errorf("fixture reported invalid: %v", result.Errors)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.docx")
	if err := os.WriteFile(path, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := docx.Validate(path)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if result.Valid {
		t.Error("garbage file reported valid")
	}
}
