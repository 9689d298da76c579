package pipeline

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aver1ch/formatingDocx/internal/config"
	"github.com/aver1ch/formatingDocx/internal/docx"
	"github.com/aver1ch/formatingDocx/internal/measure"
	"github.com/aver1ch/formatingDocx/internal/merge"
)

// titleLogoWidth is the physical width of the inserted title-page logo.
var titleLogoWidth = measure.FromMm(42)

// imagePlaceholder marks the logo slot in title templates.
const imagePlaceholder = "{{image}}"

// titleProcessor renders the title-page template and merges it in front
// of the body document. It works on file paths: the composer takes
// saved documents, not live sessions.
type titleProcessor struct {
	cfg      *config.Document
	composer merge.Composer
	logger   *slog.Logger
}

func newTitleProcessor(cfg *config.Document, composer merge.Composer, logger *slog.Logger) *titleProcessor {
	return &titleProcessor{cfg: cfg, composer: composer, logger: logger}
}

// Apply renders the template, writes it into scratch and merges it with
// the document at bodyPath into outputPath.
func (tp *titleProcessor) Apply(bodyPath, outputPath, scratch string) error {
	titleCfg := tp.cfg.Structure.TitlePage

	templatePath := titleCfg.TemplatePath
	if templatePath == "" {
		templatePath = titleCfg.Template
	}

	if templatePath == "" {
		return fmt.Errorf("title page enabled but no template configured")
	}

	title, err := docx.Open(templatePath)
	if err != nil {
		return fmt.Errorf("open title template: %w", err)
	}

	if err := tp.render(title, titleCfg); err != nil {
		return err
	}

	titlePath := filepath.Join(scratch, "title.docx")
	if err := title.Save(titlePath); err != nil {
		return fmt.Errorf("save rendered title: %w", err)
	}

	if err := tp.composer.Merge(titlePath, bodyPath, outputPath); err != nil {
		return err
	}

	tp.logger.Info("title page merged", "template", templatePath)

	return nil
}

// render substitutes the configured placeholder values, inserts the
// logo image and applies the cosmetic font/spacing overrides to the
// rendered title.
func (tp *titleProcessor) render(title *docx.Session, titleCfg config.TitlePage) error {
	values := titleValues(titleCfg)

	if _, err := docx.FillPlaceholders(title, values); err != nil {
		return fmt.Errorf("fill title placeholders: %w", err)
	}

	if titleCfg.ImagePath != "" {
		found, err := title.ReplaceImagePlaceholder(imagePlaceholder, titleCfg.ImagePath, titleLogoWidth)
		if err != nil {
			return fmt.Errorf("insert title image: %w", err)
		}

		if !found {
			tp.logger.Warn("title template has no image placeholder", "placeholder", imagePlaceholder)
		}
	}

	spaceBefore, spaceAfter, err := titleSpacing(titleCfg)
	if err != nil {
		return err
	}

	tp.forceFonts(title, titleCfg, spaceBefore, spaceAfter)

	return nil
}

// titleSpacing parses the optional space-before/after knobs into twips.
// An unset knob comes back as -1.
func titleSpacing(titleCfg config.TitlePage) (before, after int, err error) {
	before, after = -1, -1

	if titleCfg.SpaceBefore != "" {
		length, err := measure.Parse(titleCfg.SpaceBefore)
		if err != nil {
			return 0, 0, fmt.Errorf("title space_before: %w", err)
		}

		before = length.Twips()
	}

	if titleCfg.SpaceAfter != "" {
		length, err := measure.Parse(titleCfg.SpaceAfter)
		if err != nil {
			return 0, 0, fmt.Errorf("title space_after: %w", err)
		}

		after = length.Twips()
	}

	return before, after, nil
}

// titleValues collapses the element list into the placeholder mapping.
// The template placeholder is st_type while the config element key is
// standart_type; the alias is part of the config contract.
func titleValues(titleCfg config.TitlePage) map[string]string {
	values := titleCfg.ElementValues()

	if v, ok := values["standart_type"]; ok {
		values["st_type"] = v
	}

	return values
}

// forceFonts pushes the main family onto every rendered run (body and
// table cells) so the template's theme fonts do not survive the merge,
// and applies the optional title spacing knobs. Font forcing is
// cosmetic: it adjusts formatting that is already valid, so it has no
// failure mode of its own.
func (tp *titleProcessor) forceFonts(title *docx.Session, titleCfg config.TitlePage, spaceBefore, spaceAfter int) {
	body, err := title.Body()
	if err != nil {
		tp.logger.Warn("rendered title has no body, skipping font override", "error", err)
		return
	}

	family := tp.cfg.General.Fonts.MainFamily()

	paragraphs := docx.Paragraphs(body)
	tableParagraphs := docx.TableParagraphs(body)

	for _, p := range paragraphs {
		for _, r := range docx.Runs(p) {
			docx.SetRunFonts(r, family)
		}

		if titleCfg.LineSpacing > 0 {
			docx.SetParagraphLineSpacing(p, titleCfg.LineSpacing)
		}

		if spaceBefore >= 0 || spaceAfter >= 0 {
			docx.SetParagraphSpacing(p, spaceBefore, spaceAfter)
		}
	}

	tf := titleCfg.TableFormat
	for _, p := range tableParagraphs {
		if tf.Enabled && tf.ApplyFont {
			for _, r := range docx.Runs(p) {
				docx.SetRunFonts(r, family)
			}
		}

		if tf.Enabled && tf.ApplySpacing {
			if titleCfg.LineSpacing > 0 {
				docx.SetParagraphLineSpacing(p, titleCfg.LineSpacing)
			}

			if spaceBefore >= 0 || spaceAfter >= 0 {
				docx.SetParagraphSpacing(p, spaceBefore, spaceAfter)
			}
		}
	}

	// The template usually defines Custom_Title; point it at the main
	// family too so unstyled runs inherit the right face.
	if style, err := title.FindStyle(styleTitle); err == nil && style != nil {
		docx.SetStyleFonts(style, family)
		title.MarkDirty(docx.PartStyles)
	}

	title.MarkDirty(docx.PartDocument)
}
