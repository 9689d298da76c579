package docx

import (
	"fmt"

	"github.com/beevik/etree"
)

// stylesSkeleton is the minimal styles part for documents that lack one.
const stylesSkeleton = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:style w:type="paragraph" w:styleId="Normal" w:default="1">
    <w:name w:val="Normal"/>
  </w:style>
</w:styles>`

// StylesPart returns the parsed styles part, creating a minimal one
// (with content-type override and relationship) when the document has
// none.
func (s *Session) StylesPart() (*etree.Document, error) {
	if !s.HasPart(PartStyles) {
		s.AddRawPart(PartStyles, []byte(stylesSkeleton))

		if err := s.EnsureContentTypeOverride(PartStyles,
			"application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"); err != nil {
			return nil, err
		}

		if _, err := s.EnsureRelationship(PartDocumentRels,
			"http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles",
			"styles.xml"); err != nil {
			return nil, err
		}
	}

	return s.Part(PartStyles)
}

// FindStyle returns the w:style element with the given styleId, or nil.
func (s *Session) FindStyle(styleID string) (*etree.Element, error) {
	doc, err := s.StylesPart()
	if err != nil {
		return nil, err
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("styles part has no root element")
	}

	for _, style := range root.ChildElements() {
		if style.Tag == "style" && attrValue(style, "styleId") == styleID {
			return style, nil
		}
	}

	return nil, nil
}

// GetOrCreateStyle looks a paragraph style up by id and creates it when
// missing. Creation is permanent within the open document, so repeated
// calls never duplicate a style. baseStyle names the w:basedOn target;
// empty means no base.
func (s *Session) GetOrCreateStyle(styleID, name, baseStyle string) (*etree.Element, error) {
	existing, err := s.FindStyle(styleID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return existing, nil
	}

	doc, err := s.StylesPart()
	if err != nil {
		return nil, err
	}

	style := doc.Root().CreateElement("w:style")
	setAttr(style, "w:type", "paragraph")
	setAttr(style, "w:styleId", styleID)

	nameEl := style.CreateElement("w:name")
	setAttr(nameEl, "w:val", name)

	if baseStyle != "" {
		based := style.CreateElement("w:basedOn")
		setAttr(based, "w:val", baseStyle)
	}

	s.MarkDirty(PartStyles)

	return style, nil
}

// ParagraphStyles returns every w:style element of type paragraph.
func (s *Session) ParagraphStyles() ([]*etree.Element, error) {
	doc, err := s.StylesPart()
	if err != nil {
		return nil, err
	}

	var out []*etree.Element

	for _, style := range doc.Root().ChildElements() {
		if style.Tag == "style" && attrValue(style, "type") == "paragraph" {
			out = append(out, style)
		}
	}

	return out, nil
}

// styleRunProps returns the rPr element of a style, creating it if needed.
func styleRunProps(style *etree.Element) *etree.Element {
	if rPr := childElement(style, "rPr"); rPr != nil {
		return rPr
	}

	return style.CreateElement("w:rPr")
}

// styleParagraphProps returns the pPr element of a style, creating it
// if needed.
func styleParagraphProps(style *etree.Element) *etree.Element {
	if pPr := childElement(style, "pPr"); pPr != nil {
		return pPr
	}

	return style.CreateElement("w:pPr")
}

// SetStyleFonts writes the w:rFonts family override on a style.
func SetStyleFonts(style *etree.Element, family string) {
	setFonts(styleRunProps(style), family)
}

// SetStyleSize sets the style font size in points (stored as
// half-points in w:sz and w:szCs).
func SetStyleSize(style *etree.Element, points float64) {
	rPr := styleRunProps(style)
	half := fmt.Sprintf("%d", int(points*2))

	sz := childElement(rPr, "sz")
	if sz == nil {
		sz = rPr.CreateElement("w:sz")
	}

	setAttr(sz, "w:val", half)

	szCs := childElement(rPr, "szCs")
	if szCs == nil {
		szCs = rPr.CreateElement("w:szCs")
	}

	setAttr(szCs, "w:val", half)
}

// SetStyleBold toggles w:b and w:bCs on a style.
func SetStyleBold(style *etree.Element, bold bool) {
	rPr := styleRunProps(style)
	setRunFlag(rPr, "b", bold)
	setRunFlag(rPr, "bCs", bold)
}

// SetStyleItalic toggles w:i and w:iCs on a style.
func SetStyleItalic(style *etree.Element, italic bool) {
	rPr := styleRunProps(style)
	setRunFlag(rPr, "i", italic)
	setRunFlag(rPr, "iCs", italic)
}

// SetStyleLineSpacing sets the line-spacing ratio on a style. OOXML
// stores the ratio in 240ths of a line with lineRule "auto".
func SetStyleLineSpacing(style *etree.Element, ratio float64) {
	pPr := styleParagraphProps(style)

	spacing := childElement(pPr, "spacing")
	if spacing == nil {
		spacing = pPr.CreateElement("w:spacing")
	}

	setAttr(spacing, "w:line", fmt.Sprintf("%d", int(ratio*240)))
	setAttr(spacing, "w:lineRule", "auto")
}

// SetStyleSpacing sets space before/after a styled paragraph, in points
// (stored as twips).
func SetStyleSpacing(style *etree.Element, beforePt, afterPt float64) {
	pPr := styleParagraphProps(style)

	spacing := childElement(pPr, "spacing")
	if spacing == nil {
		spacing = pPr.CreateElement("w:spacing")
	}

	setAttr(spacing, "w:before", fmt.Sprintf("%d", int(beforePt*20)))
	setAttr(spacing, "w:after", fmt.Sprintf("%d", int(afterPt*20)))
}

// SetStyleKeepNext marks a style as keep-with-next.
func SetStyleKeepNext(style *etree.Element) {
	pPr := styleParagraphProps(style)

	if childElement(pPr, "keepNext") == nil {
		pPr.CreateElement("w:keepNext")
	}
}

// SetStyleAlignment sets w:jc on a style.
func SetStyleAlignment(style *etree.Element, align string) {
	pPr := styleParagraphProps(style)

	jc := childElement(pPr, "jc")
	if jc == nil {
		jc = pPr.CreateElement("w:jc")
	}

	setAttr(jc, "w:val", align)
}

// StyleID returns the w:styleId attribute of a style element.
func StyleID(style *etree.Element) string {
	return attrValue(style, "styleId")
}
