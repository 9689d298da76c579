package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/aver1ch/formatingDocx/internal/config"
	"github.com/aver1ch/formatingDocx/internal/docx"
	"github.com/aver1ch/formatingDocx/internal/measure"
)

// marginsProcessor applies the configured page margins to every section
// of the document. All four values are parsed before anything is
// written, so a bad measurement never leaves a mix of old and new
// margins.
type marginsProcessor struct {
	session *docx.Session
	cfg     *config.Document
	logger  *slog.Logger
}

func newMarginsProcessor(session *docx.Session, cfg *config.Document, logger *slog.Logger) *marginsProcessor {
	return &marginsProcessor{session: session, cfg: cfg, logger: logger}
}

func (mp *marginsProcessor) Apply() error {
	margins := mp.cfg.General.Margins

	left, err := parseMargin("left", margins.Left)
	if err != nil {
		return err
	}

	right, err := parseMargin("right", margins.Right)
	if err != nil {
		return err
	}

	top, err := parseMargin("top", margins.Top)
	if err != nil {
		return err
	}

	bottom, err := parseMargin("bottom", margins.Bottom)
	if err != nil {
		return err
	}

	sections, err := mp.session.SectionProperties()
	if err != nil {
		return err
	}

	for _, sectPr := range sections {
		docx.SetSectionMargins(sectPr, left.Twips(), right.Twips(), top.Twips(), bottom.Twips())
	}

	mp.session.MarkDirty(docx.PartDocument)
	mp.logger.Debug("margins applied", "sections", len(sections),
		"left", margins.Left, "right", margins.Right,
		"top", margins.Top, "bottom", margins.Bottom)

	return nil
}

func parseMargin(name, value string) (measure.Length, error) {
	length, err := measure.Parse(value)
	if err != nil {
		return 0, fmt.Errorf("margin %s: %w", name, err)
	}

	return length, nil
}
