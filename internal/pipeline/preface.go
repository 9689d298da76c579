package pipeline

import (
	"log/slog"
	"strings"

	"github.com/aver1ch/formatingDocx/internal/config"
	"github.com/aver1ch/formatingDocx/internal/docx"
)

// prefaceProcessor inserts the configured preface text at the very
// start of the document, one Normal paragraph per non-blank line. It
// runs after the TOC stage, so the preface block ends up ahead of the
// table of contents.
type prefaceProcessor struct {
	session *docx.Session
	cfg     *config.Document
	logger  *slog.Logger
}

func newPrefaceProcessor(session *docx.Session, cfg *config.Document, logger *slog.Logger) *prefaceProcessor {
	return &prefaceProcessor{session: session, cfg: cfg, logger: logger}
}

func (pp *prefaceProcessor) Apply() error {
	preface := pp.cfg.Structure.Preface
	if !preface.Enabled {
		pp.logger.Debug("preface disabled in configuration")
		return nil
	}

	if strings.TrimSpace(preface.Content) == "" {
		pp.logger.Warn("preface enabled but content is empty")
		return nil
	}

	body, err := pp.session.Body()
	if err != nil {
		return err
	}

	inserted := 0
	paragraphs := docx.Paragraphs(body)

	for _, line := range strings.Split(preface.Content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		p := docx.NewParagraph(line, "Normal")

		if len(paragraphs) == 0 {
			body.AddChild(p)
		} else {
			docx.InsertBefore(body, paragraphs[0], p)
		}

		inserted++
	}

	pp.session.MarkDirty(docx.PartDocument)
	pp.logger.Debug("preface inserted", "lines", inserted)

	return nil
}
