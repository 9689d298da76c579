package pipeline

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aver1ch/formatingDocx/internal/config"
	"github.com/aver1ch/formatingDocx/internal/docx"
)

// buildDOCX writes a minimal document whose body holds the given
// paragraphs, each a (styleID, text) pair with styleID "" for Normal.
func buildDOCX(t *testing.T, paragraphs [][2]string) *docx.Session {
	t.Helper()

	var body strings.Builder

	for _, para := range paragraphs {
		body.WriteString("    <w:p>\n")

		if para[0] != "" {
			fmt.Fprintf(&body, "      <w:pPr><w:pStyle w:val=%q/></w:pPr>\n", para[0])
		}

		fmt.Fprintf(&body, "      <w:r><w:t>%s</w:t></w:r>\n    </w:p>\n", para[1])
	}

	documentXML := fmt.Sprintf(documentTemplate, body.String())

	path := filepath.Join(t.TempDir(), "input.docx")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	files := map[string]string{
		"[Content_Types].xml":          contentTypesXML,
		"_rels/.rels":                  packageRelsXML,
		"word/document.xml":            documentXML,
		"word/_rels/document.xml.rels": documentRelsXML,
		"word/styles.xml":              stylesXML,
	}

	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}

		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}

	session, err := docx.Open(path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}

	return session
}

// baseConfig returns a configuration with sensible general settings and
// every structure feature disabled; tests enable what they exercise.
func baseConfig() *config.Document {
	return &config.Document{
		General: config.General{
			Margins: config.Margins{
				Left: "20mm", Right: "10mm", Top: "20mm", Bottom: "20mm",
			},
			Fonts: config.Fonts{
				HeaderNum: 3,
				Roles: map[string]config.Font{
					"main":    {Family: "Times New Roman", Size: "14pt"},
					"header1": {Family: "Times New Roman", Size: "16pt", Bold: true},
					"header2": {Family: "Times New Roman", Size: "14pt", Bold: true},
					"header3": {Family: "Times New Roman", Size: "14pt"},
				},
			},
			Spacing: config.Spacing{Line: 1.5},
		},
		Structure: config.Structure{
			TOC: config.TOC{Title: "ОГЛАВЛЕНИЕ", Levels: 3, PageNumbers: true},
			Appendix: config.Appendix{
				NumberingStyle: "letters",
			},
		},
	}
}

// bodyTexts returns the paragraph texts of the session's body in order.
func bodyTexts(t *testing.T, session *docx.Session) []string {
	t.Helper()

	body, err := session.Body()
	if err != nil {
		t.Fatalf("Body: %v", err)
	}

	var texts []string
	for _, p := range docx.Paragraphs(body) {
		texts = append(texts, docx.ParagraphText(p))
	}

	return texts
}

const documentTemplate = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
            xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <w:body>
%s  </w:body>
</w:document>`

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:styleId="Normal" w:default="1">
    <w:name w:val="Normal"/>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Heading1">
    <w:name w:val="heading 1"/>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Heading2">
    <w:name w:val="heading 2"/>
  </w:style>
  <w:style w:type="paragraph" w:styleId="Heading3">
    <w:name w:val="heading 3"/>
  </w:style>
</w:styles>`
