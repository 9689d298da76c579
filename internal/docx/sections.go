package docx

import (
	"fmt"

	"github.com/beevik/etree"
)

// SectionProperties returns every w:sectPr element in the main document
// part, in document order: those nested in paragraph properties first,
// then the trailing body-level one. A document with no explicit section
// properties gets a body-level sectPr created, so every document has at
// least one section.
func (s *Session) SectionProperties() ([]*etree.Element, error) {
	body, err := s.Body()
	if err != nil {
		return nil, err
	}

	var out []*etree.Element

	for _, p := range Paragraphs(body) {
		if pPr := childElement(p, "pPr"); pPr != nil {
			if sectPr := childElement(pPr, "sectPr"); sectPr != nil {
				out = append(out, sectPr)
			}
		}
	}

	trailing := childElement(body, "sectPr")
	if trailing == nil {
		trailing = body.CreateElement("w:sectPr")
		s.MarkDirty(PartDocument)
	}

	out = append(out, trailing)

	return out, nil
}

// SetSectionMargins writes the four page margins (in twips) onto a
// sectPr as one atomic property set.
func SetSectionMargins(sectPr *etree.Element, left, right, top, bottom int) {
	pgMar := childElement(sectPr, "pgMar")
	if pgMar == nil {
		pgMar = sectPr.CreateElement("w:pgMar")
	}

	setAttr(pgMar, "w:left", fmt.Sprintf("%d", left))
	setAttr(pgMar, "w:right", fmt.Sprintf("%d", right))
	setAttr(pgMar, "w:top", fmt.Sprintf("%d", top))
	setAttr(pgMar, "w:bottom", fmt.Sprintf("%d", bottom))
}

// SectionMargins reads the four margins (in twips) from a sectPr.
// Missing attributes read as zero.
func SectionMargins(sectPr *etree.Element) (left, right, top, bottom int) {
	pgMar := childElement(sectPr, "pgMar")
	if pgMar == nil {
		return 0, 0, 0, 0
	}

	read := func(name string) int {
		var n int
		_, _ = fmt.Sscanf(attrValue(pgMar, name), "%d", &n)
		return n
	}

	return read("left"), read("right"), read("top"), read("bottom")
}

// SetTitlePageFlag marks a section as having a distinct first-page
// header/footer (w:titlePg).
func SetTitlePageFlag(sectPr *etree.Element) {
	if childElement(sectPr, "titlePg") == nil {
		sectPr.CreateElement("w:titlePg")
	}
}
