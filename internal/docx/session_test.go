package docx_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/aver1ch/formatingDocx/internal/docx"
)

func TestOpenAndParts(t *testing.T) {
	session, err := docx.Open(sampleDOCX(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if !session.HasPart(docx.PartDocument) {
		t.Error("document part missing")
	}

	if _, err := session.Part("word/nonexistent.xml"); !errors.Is(err, docx.ErrPartNotFound) {
		t.Errorf("want ErrPartNotFound, got %v", err)
	}

	body, err := session.Body()
	if err != nil {
		t.Fatalf("Body: %v", err)
	}

	paragraphs := docx.Paragraphs(body)
	if len(paragraphs) != 6 {
		t.Fatalf("paragraph count = %d, want 6", len(paragraphs))
	}

	if got := docx.ParagraphStyle(paragraphs[0]); got != "Heading1" {
		t.Errorf("first paragraph style = %q, want Heading1", got)
	}

	if got := docx.ParagraphText(paragraphs[0]); got != "General provisions" {
		t.Errorf("first paragraph text = %q", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	session, err := docx.Open(sampleDOCX(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	body, err := session.Body()
	if err != nil {
		t.Fatalf("Body: %v", err)
	}

	p := docx.NewParagraph("Inserted paragraph", "Normal")
	first := docx.Paragraphs(body)[0]
	docx.InsertBefore(body, first, p)
	session.MarkDirty(docx.PartDocument)

	out := filepath.Join(t.TempDir(), "out.docx")
	if err := session.Save(out); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reopened, err := docx.Open(out)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	body2, err := reopened.Body()
	if err != nil {
		t.Fatalf("Body: %v", err)
	}

	got := docx.Paragraphs(body2)
	if len(got) != 7 {
		t.Fatalf("paragraph count after reopen = %d, want 7", len(got))
	}

	if text := docx.ParagraphText(got[0]); text != "Inserted paragraph" {
		t.Errorf("first paragraph = %q, want inserted text", text)
	}

	if style := docx.ParagraphStyle(got[0]); style != "Normal" {
		t.Errorf("inserted style = %q, want Normal", style)
	}
}

func TestRunHelpers(t *testing.T) {
	session, err := docx.Open(sampleDOCX(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	body, _ := session.Body()
	p := docx.Paragraphs(body)[1]

	docx.ClearRuns(p)

	if len(docx.Runs(p)) != 0 {
		t.Fatal("runs not cleared")
	}

	r := docx.AddRun(p, " padded ")
	docx.SetRunBold(r, true)
	docx.SetRunFonts(r, "Times New Roman")

	if got := docx.RunText(r); got != " padded " {
		t.Errorf("run text = %q", got)
	}

	if got := docx.ParagraphText(p); got != " padded " {
		t.Errorf("paragraph text = %q", got)
	}
}

func TestSectionMargins(t *testing.T) {
	session, err := docx.Open(sampleDOCX(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	sects, err := session.SectionProperties()
	if err != nil {
		t.Fatalf("SectionProperties: %v", err)
	}

	// The fixture has no explicit sectPr: one is created for the body.
	if len(sects) != 1 {
		t.Fatalf("section count = %d, want 1", len(sects))
	}

	docx.SetSectionMargins(sects[0], 1133, 566, 1133, 1133)

	l, r, top, b := docx.SectionMargins(sects[0])
	if l != 1133 || r != 566 || top != 1133 || b != 1133 {
		t.Errorf("margins = %d %d %d %d", l, r, top, b)
	}
}

func TestGetOrCreateStyleIdempotent(t *testing.T) {
	session, err := docx.Open(sampleDOCX(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	s1, err := session.GetOrCreateStyle("Custom_Main", "Custom_Main", "Normal")
	if err != nil {
		t.Fatalf("GetOrCreateStyle: %v", err)
	}

	s2, err := session.GetOrCreateStyle("Custom_Main", "Custom_Main", "Normal")
	if err != nil {
		t.Fatalf("GetOrCreateStyle (second): %v", err)
	}

	if s1 != s2 {
		t.Error("second call created a duplicate style")
	}

	styles, err := session.ParagraphStyles()
	if err != nil {
		t.Fatalf("ParagraphStyles: %v", err)
	}

	count := 0
	for _, st := range styles {
		if docx.StyleID(st) == "Custom_Main" {
			count++
		}
	}

	if count != 1 {
		t.Errorf("Custom_Main appears %d times in styles part", count)
	}
}

func TestHeaderDocCreatesWiring(t *testing.T) {
	session, err := docx.Open(sampleDOCX(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	sects, _ := session.SectionProperties()

	hdr, partName, err := session.HeaderDoc(sects[0], docx.RefEven)
	if err != nil {
		t.Fatalf("HeaderDoc: %v", err)
	}

	if hdr == nil || partName == "" {
		t.Fatal("no header part returned")
	}

	if !session.HasPart(partName) {
		t.Fatalf("part %s not registered", partName)
	}

	// Asking again for the same kind must reuse the part.
	_, partName2, err := session.HeaderDoc(sects[0], docx.RefEven)
	if err != nil {
		t.Fatalf("HeaderDoc (second): %v", err)
	}

	if partName2 != partName {
		t.Errorf("second call created %s, want reuse of %s", partName2, partName)
	}

	// A different kind allocates a distinct part.
	_, firstPart, err := session.HeaderDoc(sects[0], docx.RefFirst)
	if err != nil {
		t.Fatalf("HeaderDoc(first): %v", err)
	}

	if firstPart == partName {
		t.Error("first-page header reused the even header part")
	}
}

func TestEnsureEvenOddHeaders(t *testing.T) {
	session, err := docx.Open(sampleDOCX(t))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := session.EnsureEvenOddHeaders(); err != nil {
		t.Fatalf("EnsureEvenOddHeaders: %v", err)
	}

	if !session.HasPart(docx.PartSettings) {
		t.Fatal("settings part not created")
	}

	// Idempotent.
	if err := session.EnsureEvenOddHeaders(); err != nil {
		t.Fatalf("EnsureEvenOddHeaders (second): %v", err)
	}
}
