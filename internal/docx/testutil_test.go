package docx_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

// buildDOCX creates a minimal DOCX at path from a word/document.xml
// payload plus the boilerplate parts every valid document needs.
func buildDOCX(t *testing.T, path, documentXML string) string {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	files := map[string]string{
		"[Content_Types].xml":          contentTypesXML,
		"_rels/.rels":                  relsXML,
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

	return path
}

// sampleDOCX builds a document with a heading hierarchy, body text and
// an appendix heading, the shape the formatting pipeline expects.
func sampleDOCX(t *testing.T) string {
	t.Helper()
	return buildDOCX(t, filepath.Join(t.TempDir(), "sample.docx"), sampleDocumentXML)
}

// templateDOCX builds a title-page template with text placeholders and
// an image slot.
func templateDOCX(t *testing.T) string {
	t.Helper()
	return buildDOCX(t, filepath.Join(t.TempDir(), "template.docx"), templateDocumentXML)
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
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

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
            xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <w:body>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading1"/></w:pPr>
      <w:r><w:t>General provisions</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>Scope of the standard and terms used throughout.</w:t></w:r>
    </w:p>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading2"/></w:pPr>
      <w:r><w:t>Normative references</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>Referenced documents and editions.</w:t></w:r>
    </w:p>
    <w:p>
      <w:pPr><w:pStyle w:val="Heading1"/></w:pPr>
      <w:r><w:t>Appendix: measurement protocols</w:t></w:r>
    </w:p>
    <w:p>
      <w:r><w:t>Protocol tables.</w:t></w:r>
    </w:p>
  </w:body>
</w:document>`

const templateDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
            xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <w:body>
    <w:p><w:r><w:t>{{agency_name}}</w:t></w:r></w:p>
    <w:p><w:r><w:t>{{st_</w:t></w:r><w:r><w:t>type}}</w:t></w:r></w:p>
    <w:p><w:r><w:t>{{image}}</w:t></w:r></w:p>
    <w:p><w:r><w:t>{{designation}}</w:t></w:r></w:p>
    <w:p><w:r><w:t>{{title}}</w:t></w:r></w:p>
    <w:p><w:r><w:t>{{status}}</w:t></w:r></w:p>
    <w:p><w:r><w:t>{{city}} {{publisher_info}} {{current_year}}</w:t></w:r></w:p>
  </w:body>
</w:document>`

// pngPixel is a 1x1 PNG for image-insertion tests.
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

// writePNG writes the 1x1 PNG fixture into dir and returns its path.
func writePNG(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "logo.png")
	if err := os.WriteFile(path, pngPixel, 0o644); err != nil {
		t.Fatalf("write png: %v", err)
	}

	return path
}
