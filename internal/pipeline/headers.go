package pipeline

import (
	"log/slog"

	"github.com/beevik/etree"

	"github.com/aver1ch/formatingDocx/internal/config"
	"github.com/aver1ch/formatingDocx/internal/docx"
)

// headerFooterProcessor builds the running headers (colontitul) and the
// page-number footers.
//
// The header naming is crossed on purpose and matches the established
// config contract: odd pages show the Right/RightParts content, even
// pages show the Left/LeftParts content. The parts lists win over the
// plain strings when populated.
type headerFooterProcessor struct {
	session *docx.Session
	cfg     *config.Document
	logger  *slog.Logger
}

func newHeaderFooterProcessor(session *docx.Session, cfg *config.Document, logger *slog.Logger) *headerFooterProcessor {
	return &headerFooterProcessor{session: session, cfg: cfg, logger: logger}
}

func (hp *headerFooterProcessor) Apply() error {
	headers := hp.cfg.Structure.Numbering.Headers
	if !headers.Enabled {
		hp.logger.Debug("headers disabled in configuration")
		return nil
	}

	if err := hp.session.EnsureEvenOddHeaders(); err != nil {
		return err
	}

	sections, err := hp.session.SectionProperties()
	if err != nil {
		return err
	}

	for _, sectPr := range sections {
		if err := hp.applyToSection(sectPr, headers); err != nil {
			return err
		}
	}

	hp.session.MarkDirty(docx.PartDocument)

	return nil
}

func (hp *headerFooterProcessor) applyToSection(sectPr *etree.Element, headers config.Headers) error {
	// The first page is the title page: it gets its own blank
	// header/footer pair.
	docx.SetTitlePageFlag(sectPr)

	if err := hp.clearFirstPage(sectPr); err != nil {
		return err
	}

	// Odd pages, right-aligned.
	oddHeader, oddPart, err := hp.session.HeaderDoc(sectPr, docx.RefDefault)
	if err != nil {
		return err
	}

	oddParagraph := docx.HeaderFooterParagraph(oddHeader)
	if len(headers.RightParts) > 0 {
		hp.writeParts(oddParagraph, headers.RightParts, docx.AlignRight)
	} else {
		hp.writeText(oddParagraph, headers.Left, docx.AlignRight)
	}

	hp.session.MarkDirty(oddPart)

	// Even pages, left-aligned.
	evenHeader, evenPart, err := hp.session.HeaderDoc(sectPr, docx.RefEven)
	if err != nil {
		return err
	}

	evenParagraph := docx.HeaderFooterParagraph(evenHeader)
	if len(headers.LeftParts) > 0 {
		hp.writeParts(evenParagraph, headers.LeftParts, docx.AlignLeft)
	} else {
		hp.writeText(evenParagraph, headers.Right, docx.AlignLeft)
	}

	hp.session.MarkDirty(evenPart)

	if headers.PageNumbers {
		if err := hp.addPageNumbers(sectPr); err != nil {
			return err
		}
	}

	return nil
}

func (hp *headerFooterProcessor) clearFirstPage(sectPr *etree.Element) error {
	firstHeader, firstHeaderPart, err := hp.session.HeaderDoc(sectPr, docx.RefFirst)
	if err != nil {
		return err
	}

	docx.ClearHeaderFooter(firstHeader)
	hp.session.MarkDirty(firstHeaderPart)

	firstFooter, firstFooterPart, err := hp.session.FooterDoc(sectPr, docx.RefFirst)
	if err != nil {
		return err
	}

	docx.ClearHeaderFooter(firstFooter)
	hp.session.MarkDirty(firstFooterPart)

	return nil
}

// writeParts renders the mixed-formatting fragment list into a cleared
// header paragraph.
func (hp *headerFooterProcessor) writeParts(p *etree.Element, parts []config.TextPart, align string) {
	docx.SetParagraphAlignment(p, align)

	mainFamily := hp.cfg.General.Fonts.MainFamily()

	for _, part := range parts {
		r := docx.AddRun(p, part.Text)
		docx.SetRunBold(r, part.Bold)
		docx.SetRunItalic(r, part.Italic)

		family := part.FontFamily
		if family == "" {
			family = mainFamily
		}

		docx.SetRunFonts(r, family)
	}
}

// writeText renders a plain string into a cleared header paragraph.
func (hp *headerFooterProcessor) writeText(p *etree.Element, text string, align string) {
	docx.SetParagraphAlignment(p, align)

	r := docx.AddRun(p, text)
	docx.SetRunFonts(r, hp.cfg.General.Fonts.MainFamily())
}

// addPageNumbers puts a PAGE field into the odd footer (right) and the
// even footer (left), mirroring the header alignment.
func (hp *headerFooterProcessor) addPageNumbers(sectPr *etree.Element) error {
	if err := hp.addPageField(sectPr, docx.RefDefault, docx.AlignRight); err != nil {
		return err
	}

	return hp.addPageField(sectPr, docx.RefEven, docx.AlignLeft)
}

func (hp *headerFooterProcessor) addPageField(sectPr *etree.Element, kind, align string) error {
	footer, partName, err := hp.session.FooterDoc(sectPr, kind)
	if err != nil {
		return err
	}

	p := docx.HeaderFooterParagraph(footer)
	docx.SetParagraphAlignment(p, align)

	field := docx.NewPageField()
	docx.SetRunFonts(field, hp.cfg.General.Fonts.MainFamily())
	p.AddChild(field)

	hp.session.MarkDirty(partName)

	return nil
}
