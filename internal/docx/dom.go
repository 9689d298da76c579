package docx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Paragraph alignment values for w:jc.
const (
	AlignLeft   = "left"
	AlignRight  = "right"
	AlignCenter = "center"
)

// findBody locates the w:body element under the w:document root.
func findBody(doc *etree.Document) *etree.Element {
	root := doc.Root()
	if root == nil {
		return nil
	}

	for _, child := range root.ChildElements() {
		if child.Tag == "body" {
			return child
		}
	}

	return nil
}

// Paragraphs returns the direct paragraph children of an element in
// document order. Paragraphs inside tables are not included; this
// mirrors how the formatting processors walk the document body.
func Paragraphs(parent *etree.Element) []*etree.Element {
	var out []*etree.Element

	for _, child := range parent.ChildElements() {
		if child.Tag == "p" {
			out = append(out, child)
		}
	}

	return out
}

// TableParagraphs returns all paragraphs inside the tables of parent,
// in document order.
func TableParagraphs(parent *etree.Element) []*etree.Element {
	var out []*etree.Element

	for _, tbl := range parent.ChildElements() {
		if tbl.Tag != "tbl" {
			continue
		}

		for _, tr := range tbl.ChildElements() {
			if tr.Tag != "tr" {
				continue
			}

			for _, tc := range tr.ChildElements() {
				if tc.Tag != "tc" {
					continue
				}

				out = append(out, Paragraphs(tc)...)
			}
		}
	}

	return out
}

// ParagraphText concatenates the text of all runs in a paragraph.
func ParagraphText(p *etree.Element) string {
	var sb strings.Builder

	for _, r := range p.ChildElements() {
		if r.Tag == "r" {
			sb.WriteString(RunText(r))
		}
	}

	return sb.String()
}

// ParagraphStyle extracts the style id from w:pPr/w:pStyle[@w:val].
func ParagraphStyle(p *etree.Element) string {
	pPr := childElement(p, "pPr")
	if pPr == nil {
		return ""
	}

	pStyle := childElement(pPr, "pStyle")
	if pStyle == nil {
		return ""
	}

	return attrValue(pStyle, "val")
}

// SetParagraphStyle sets w:pPr/w:pStyle[@w:val] on a paragraph.
func SetParagraphStyle(p *etree.Element, styleID string) {
	pPr := ensureParagraphProps(p)

	pStyle := childElement(pPr, "pStyle")
	if pStyle == nil {
		pStyle = pPr.CreateElement("w:pStyle")
	}

	setAttr(pStyle, "w:val", styleID)
}

// SetParagraphAlignment sets w:pPr/w:jc[@w:val].
func SetParagraphAlignment(p *etree.Element, align string) {
	pPr := ensureParagraphProps(p)

	jc := childElement(pPr, "jc")
	if jc == nil {
		jc = pPr.CreateElement("w:jc")
	}

	setAttr(jc, "w:val", align)
}

// Runs returns the run children of a paragraph in document order.
func Runs(p *etree.Element) []*etree.Element {
	var out []*etree.Element

	for _, child := range p.ChildElements() {
		if child.Tag == "r" {
			out = append(out, child)
		}
	}

	return out
}

// ClearRuns removes every run from a paragraph, leaving its properties
// (w:pPr) intact.
func ClearRuns(p *etree.Element) {
	for _, r := range Runs(p) {
		p.RemoveChild(r)
	}
}

// AddRun appends a run with the given text to a paragraph.
func AddRun(p *etree.Element, text string) *etree.Element {
	r := p.CreateElement("w:r")
	SetRunText(r, text)

	return r
}

// RunText extracts the concatenated text of all w:t elements in a run.
func RunText(r *etree.Element) string {
	var sb strings.Builder

	for _, t := range r.ChildElements() {
		if t.Tag == "t" {
			sb.WriteString(t.Text())
		}
	}

	return sb.String()
}

// SetRunText replaces the text content of a run with a single w:t
// element. xml:space="preserve" is set when the text has leading or
// trailing whitespace.
func SetRunText(r *etree.Element, text string) {
	var stale []*etree.Element

	for _, t := range r.ChildElements() {
		if t.Tag == "t" {
			stale = append(stale, t)
		}
	}

	for _, t := range stale {
		r.RemoveChild(t)
	}

	t := r.CreateElement("w:t")
	t.SetText(text)

	if len(text) > 0 && (text[0] == ' ' || text[len(text)-1] == ' ') {
		t.CreateAttr("xml:space", "preserve")
	}
}

// ensureRunProps returns the w:rPr element of a run, creating it as the
// first child if absent. Run properties must precede the run content.
func ensureRunProps(r *etree.Element) *etree.Element {
	if rPr := childElement(r, "rPr"); rPr != nil {
		return rPr
	}

	rPr := etree.NewElement("w:rPr")
	r.InsertChildAt(0, rPr)

	return rPr
}

// ensureParagraphProps returns the w:pPr element of a paragraph,
// creating it as the first child if absent.
func ensureParagraphProps(p *etree.Element) *etree.Element {
	if pPr := childElement(p, "pPr"); pPr != nil {
		return pPr
	}

	pPr := etree.NewElement("w:pPr")
	p.InsertChildAt(0, pPr)

	return pPr
}

// SetRunBold toggles w:b and w:bCs on a run.
func SetRunBold(r *etree.Element, bold bool) {
	setRunFlag(ensureRunProps(r), "b", bold)
	setRunFlag(ensureRunProps(r), "bCs", bold)
}

// SetRunItalic toggles w:i and w:iCs on a run.
func SetRunItalic(r *etree.Element, italic bool) {
	setRunFlag(ensureRunProps(r), "i", italic)
	setRunFlag(ensureRunProps(r), "iCs", italic)
}

// SetRunFonts writes the run-level w:rFonts override (ascii, hAnsi and
// cs) for a font family. Both this low-level override and any style
// inheritance must agree for the family to survive template theme
// fonts.
func SetRunFonts(r *etree.Element, family string) {
	setFonts(ensureRunProps(r), family)
}

// setFonts writes w:rFonts under an rPr element.
func setFonts(rPr *etree.Element, family string) {
	rFonts := childElement(rPr, "rFonts")
	if rFonts == nil {
		rFonts = etree.NewElement("w:rFonts")
		rPr.InsertChildAt(0, rFonts)
	}

	setAttr(rFonts, "w:ascii", family)
	setAttr(rFonts, "w:hAnsi", family)
	setAttr(rFonts, "w:cs", family)
}

// setRunFlag adds or removes an empty toggle element like w:b.
func setRunFlag(rPr *etree.Element, tag string, on bool) {
	existing := childElement(rPr, tag)

	if on {
		if existing == nil {
			rPr.CreateElement("w:" + tag)
		}

		return
	}

	if existing != nil {
		rPr.RemoveChild(existing)
	}
}

// NewParagraph builds a detached paragraph with one run of text. An
// empty styleID leaves the paragraph unstyled.
func NewParagraph(text, styleID string) *etree.Element {
	p := etree.NewElement("w:p")

	if styleID != "" {
		SetParagraphStyle(p, styleID)
	}

	if text != "" {
		AddRun(p, text)
	}

	return p
}

// SetParagraphLineSpacing sets the line-spacing ratio (1.0, 1.5, ...)
// on one paragraph. 240 twentieths of a point per single line.
func SetParagraphLineSpacing(p *etree.Element, ratio float64) {
	pPr := ensureParagraphProps(p)

	spacing := childElement(pPr, "spacing")
	if spacing == nil {
		spacing = pPr.CreateElement("w:spacing")
	}

	setAttr(spacing, "w:line", strconv.Itoa(int(ratio*240)))
	setAttr(spacing, "w:lineRule", "auto")
}

// SetParagraphSpacing sets the space before and after a paragraph in
// twips. A negative value leaves that side untouched.
func SetParagraphSpacing(p *etree.Element, beforeTwips, afterTwips int) {
	pPr := ensureParagraphProps(p)

	spacing := childElement(pPr, "spacing")
	if spacing == nil {
		spacing = pPr.CreateElement("w:spacing")
	}

	if beforeTwips >= 0 {
		setAttr(spacing, "w:before", strconv.Itoa(beforeTwips))
	}

	if afterTwips >= 0 {
		setAttr(spacing, "w:after", strconv.Itoa(afterTwips))
	}
}

// NewPageBreak builds a paragraph holding a hard page break.
func NewPageBreak() *etree.Element {
	p := etree.NewElement("w:p")
	br := p.CreateElement("w:r").CreateElement("w:br")
	setAttr(br, "w:type", "page")

	return p
}

// NewPageField builds a detached run carrying a PAGE field code
// (fldChar begin, instrText PAGE, fldChar end).
func NewPageField() *etree.Element {
	r := etree.NewElement("w:r")

	begin := r.CreateElement("w:fldChar")
	setAttr(begin, "w:fldCharType", "begin")

	instr := r.CreateElement("w:instrText")
	instr.SetText("PAGE")

	end := r.CreateElement("w:fldChar")
	setAttr(end, "w:fldCharType", "end")

	return r
}

// InsertBefore places el immediately before ref among parent's children.
func InsertBefore(parent, ref, el *etree.Element) {
	idx := childIndex(parent, ref)
	if idx == -1 {
		parent.AddChild(el)
		return
	}

	parent.InsertChildAt(idx, el)
}

// InsertAfter places el immediately after ref among parent's children.
func InsertAfter(parent, ref, el *etree.Element) {
	idx := childIndex(parent, ref)
	if idx == -1 {
		parent.AddChild(el)
		return
	}

	parent.InsertChildAt(idx+1, el)
}

// childIndex returns the token index of ref within parent, or -1.
func childIndex(parent, ref *etree.Element) int {
	for i, tok := range parent.Child {
		if el, ok := tok.(*etree.Element); ok && el == ref {
			return i
		}
	}

	return -1
}

// childElement returns the first child element with the given local
// name, regardless of namespace prefix.
func childElement(parent *etree.Element, tag string) *etree.Element {
	for _, child := range parent.ChildElements() {
		if child.Tag == tag {
			return child
		}
	}

	return nil
}

// attrValue reads an attribute by local name, trying both the bare and
// the w-prefixed form (etree keeps prefixes as written in the source).
func attrValue(el *etree.Element, name string) string {
	if a := el.SelectAttr(name); a != nil {
		return a.Value
	}

	if a := el.SelectAttr("w:" + name); a != nil {
		return a.Value
	}

	return ""
}

// setAttr sets an attribute, replacing an existing unprefixed variant
// of the same local name so a part never carries both spellings.
func setAttr(el *etree.Element, key, value string) {
	if i := strings.IndexByte(key, ':'); i != -1 {
		el.RemoveAttr(key[i+1:])
	}

	el.CreateAttr(key, value)
}
