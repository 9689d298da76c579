package docx

import (
	"fmt"

	"github.com/beevik/etree"
)

// Header/footer reference kinds (w:headerReference/@w:type values).
const (
	RefDefault = "default" // odd pages
	RefEven    = "even"
	RefFirst   = "first"
)

const (
	headerRelType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	footerRelType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"

	headerContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
	footerContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"

	settingsContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"
	settingsRelType     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
)

const settingsSkeleton = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:settings xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`

// EnsureEvenOddHeaders enables document-wide odd/even header-footer
// differentiation (w:evenAndOddHeaders in the settings part), creating
// the settings part and its wiring when the document has none.
func (s *Session) EnsureEvenOddHeaders() error {
	if !s.HasPart(PartSettings) {
		s.AddRawPart(PartSettings, []byte(settingsSkeleton))

		if err := s.EnsureContentTypeOverride(PartSettings, settingsContentType); err != nil {
			return err
		}

		if _, err := s.EnsureRelationship(PartDocumentRels, settingsRelType, "settings.xml"); err != nil {
			return err
		}
	}

	doc, err := s.Part(PartSettings)
	if err != nil {
		return err
	}

	root := doc.Root()
	if childElement(root, "evenAndOddHeaders") == nil {
		root.CreateElement("w:evenAndOddHeaders")
		s.MarkDirty(PartSettings)
	}

	return nil
}

// HeaderDoc returns the header part referenced by a sectPr for the
// given kind, creating the part, its relationship, content-type entry
// and sectPr reference when missing. The returned part name can be used
// with MarkDirty.
func (s *Session) HeaderDoc(sectPr *etree.Element, kind string) (*etree.Document, string, error) {
	return s.headerFooterDoc(sectPr, kind, "headerReference", "header", headerRelType, headerContentType, "w:hdr")
}

// FooterDoc is HeaderDoc for footer parts.
func (s *Session) FooterDoc(sectPr *etree.Element, kind string) (*etree.Document, string, error) {
	return s.headerFooterDoc(sectPr, kind, "footerReference", "footer", footerRelType, footerContentType, "w:ftr")
}

func (s *Session) headerFooterDoc(sectPr *etree.Element, kind, refTag, prefix, relType, contentType, rootTag string) (*etree.Document, string, error) {
	// Reuse an existing reference of this kind when present.
	for _, ref := range sectPr.ChildElements() {
		if ref.Tag != refTag || attrValue(ref, "type") != kind {
			continue
		}

		id := ref.SelectAttrValue("r:id", "")
		if id == "" {
			id = ref.SelectAttrValue("id", "")
		}

		target := s.RelationshipTarget(PartDocumentRels, id)
		if target == "" {
			break
		}

		partName := "word/" + target

		doc, err := s.Part(partName)
		if err != nil {
			return nil, "", err
		}

		return doc, partName, nil
	}

	// Allocate the next free part name (word/header1.xml, ...).
	n := 1
	for s.HasPart(fmt.Sprintf("word/%s%d.xml", prefix, n)) {
		n++
	}

	partName := fmt.Sprintf("word/%s%d.xml", prefix, n)
	target := fmt.Sprintf("%s%d.xml", prefix, n)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

	root := doc.CreateElement(rootTag)
	root.CreateAttr("xmlns:w", "http://schemas.openxmlformats.org/wordprocessingml/2006/main")
	root.CreateAttr("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")

	s.AddXMLPart(partName, doc)

	if err := s.EnsureContentTypeOverride(partName, contentType); err != nil {
		return nil, "", err
	}

	id, err := s.AddRelationship(PartDocumentRels, relType, target)
	if err != nil {
		return nil, "", err
	}

	// References must precede the page-size/margin children of sectPr.
	ref := etree.NewElement("w:" + refTag)
	ref.CreateAttr("w:type", kind)
	ref.CreateAttr("r:id", id)
	sectPr.InsertChildAt(0, ref)

	s.MarkDirty(PartDocument)

	return doc, partName, nil
}

// ClearHeaderFooter removes all content from a header/footer part,
// leaving a single empty paragraph. Used to blank the title page's
// running header and footer.
func ClearHeaderFooter(doc *etree.Document) {
	root := doc.Root()
	if root == nil {
		return
	}

	var stale []*etree.Element
	stale = append(stale, root.ChildElements()...)

	for _, el := range stale {
		root.RemoveChild(el)
	}

	root.CreateElement("w:p")
}

// HeaderFooterParagraph returns the first paragraph of a header/footer
// part with its runs cleared, creating one when the part is empty.
func HeaderFooterParagraph(doc *etree.Document) *etree.Element {
	root := doc.Root()

	for _, child := range root.ChildElements() {
		if child.Tag == "p" {
			ClearRuns(child)
			return child
		}
	}

	return root.CreateElement("w:p")
}
