package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/beevik/etree"

	"github.com/aver1ch/formatingDocx/internal/config"
	"github.com/aver1ch/formatingDocx/internal/docx"
	"github.com/aver1ch/formatingDocx/internal/measure"
)

// Style identifiers the formatter owns.
const (
	styleMain         = "Custom_Main"
	styleAppendix     = "Custom_Appendix"
	styleNotes        = "Custom_Notes"
	styleTitle        = "Custom_Title"
	styleHeader       = "Custom_Header"
	styleFirstEdition = "Custom_FirstEdition"
)

// styleProcessor creates and updates the named paragraph styles from
// the font configuration, applies the global line spacing and forces
// the main font family onto existing runs.
type styleProcessor struct {
	session *docx.Session
	cfg     *config.Document
	logger  *slog.Logger
}

func newStyleProcessor(session *docx.Session, cfg *config.Document, logger *slog.Logger) *styleProcessor {
	return &styleProcessor{session: session, cfg: cfg, logger: logger}
}

func (sp *styleProcessor) Apply() error {
	if err := sp.setupBaseStyles(); err != nil {
		return err
	}

	if err := sp.setupHeadingStyles(); err != nil {
		return err
	}

	if err := sp.setupSpecialStyles(); err != nil {
		return err
	}

	if err := sp.applyLineSpacing(); err != nil {
		return err
	}

	sp.applyMainFontToRuns()
	sp.session.MarkDirty(docx.PartStyles)
	sp.session.MarkDirty(docx.PartDocument)

	return nil
}

// setupBaseStyles builds the body-text styles: Custom_Main always,
// Custom_Appendix and Custom_Notes only when their roles are configured.
func (sp *styleProcessor) setupBaseStyles() error {
	fonts := sp.cfg.General.Fonts

	main, _ := fonts.Role("main")
	if err := sp.configureStyle(styleMain, main); err != nil {
		return err
	}

	if appendices, ok := fonts.Role("appendices"); ok {
		if err := sp.configureStyle(styleAppendix, appendices); err != nil {
			return err
		}
	}

	if notes, ok := fonts.Role("notes"); ok {
		if err := sp.configureStyle(styleNotes, notes); err != nil {
			return err
		}
	}

	return nil
}

// setupHeadingStyles configures Heading1..HeadingN from the header1..N
// font roles, with the GOST heading paragraph shape: 12pt before, 6pt
// after, kept with the following paragraph.
func (sp *styleProcessor) setupHeadingStyles() error {
	fonts := sp.cfg.General.Fonts

	for level := 1; level <= fonts.HeaderNum; level++ {
		styleID := fmt.Sprintf("Heading%d", level)
		name := fmt.Sprintf("heading %d", level)

		style, err := sp.session.GetOrCreateStyle(styleID, name, "")
		if err != nil {
			return err
		}

		if font, ok := fonts.Role(fmt.Sprintf("header%d", level)); ok {
			if err := applyFontSettings(style, font); err != nil {
				return fmt.Errorf("style %s: %w", styleID, err)
			}
		}

		docx.SetStyleSpacing(style, 12, 6)
		docx.SetStyleKeepNext(style)
	}

	sp.logger.Debug("heading styles configured", "levels", fonts.HeaderNum)

	return nil
}

// setupSpecialStyles builds the title-page and running-header styles:
// both use the main family, at 14pt centered and 10pt right-aligned.
func (sp *styleProcessor) setupSpecialStyles() error {
	family := sp.cfg.General.Fonts.MainFamily()

	title, err := sp.session.GetOrCreateStyle(styleTitle, styleTitle, "Normal")
	if err != nil {
		return err
	}

	docx.SetStyleFonts(title, family)
	docx.SetStyleSize(title, 14)
	docx.SetStyleAlignment(title, docx.AlignCenter)

	header, err := sp.session.GetOrCreateStyle(styleHeader, styleHeader, "Normal")
	if err != nil {
		return err
	}

	docx.SetStyleFonts(header, family)
	docx.SetStyleSize(header, 10)
	docx.SetStyleAlignment(header, docx.AlignRight)

	return nil
}

// applyLineSpacing sets the configured line spacing on every paragraph
// style, then handles the named exceptions (first_edition: single).
func (sp *styleProcessor) applyLineSpacing() error {
	spacing := sp.cfg.General.Spacing
	if spacing.Line <= 0 {
		return nil
	}

	styles, err := sp.session.ParagraphStyles()
	if err != nil {
		return err
	}

	for _, style := range styles {
		docx.SetStyleLineSpacing(style, spacing.Line)
	}

	for _, exception := range spacing.Exceptions {
		if exception["first_edition"] != "single" {
			continue
		}

		style, err := sp.session.GetOrCreateStyle(styleFirstEdition, styleFirstEdition, "Normal")
		if err != nil {
			return err
		}

		docx.SetStyleLineSpacing(style, 1.0)
	}

	return nil
}

// applyMainFontToRuns forces the main family onto every existing run so
// the document does not keep theme fonts the styles would not override.
func (sp *styleProcessor) applyMainFontToRuns() {
	body, err := sp.session.Body()
	if err != nil {
		return
	}

	family := sp.cfg.General.Fonts.MainFamily()

	for _, p := range append(docx.Paragraphs(body), docx.TableParagraphs(body)...) {
		for _, r := range docx.Runs(p) {
			docx.SetRunFonts(r, family)
		}
	}
}

// configureStyle creates (or finds) a Normal-based style and applies a
// font role to it.
func (sp *styleProcessor) configureStyle(styleID string, font config.Font) error {
	style, err := sp.session.GetOrCreateStyle(styleID, styleID, "Normal")
	if err != nil {
		return err
	}

	if err := applyFontSettings(style, font); err != nil {
		return fmt.Errorf("style %s: %w", styleID, err)
	}

	return nil
}

// applyFontSettings writes one font role onto a style definition.
func applyFontSettings(style *etree.Element, font config.Font) error {
	if font.Family != "" {
		docx.SetStyleFonts(style, font.Family)
	}

	if font.Size != "" {
		points, err := measure.ParseFontSize(font.Size)
		if err != nil {
			return err
		}

		docx.SetStyleSize(style, points)
	}

	docx.SetStyleBold(style, font.Bold)
	docx.SetStyleItalic(style, font.Italic)

	return nil
}
