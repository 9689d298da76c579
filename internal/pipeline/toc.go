package pipeline

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/beevik/etree"

	"github.com/aver1ch/formatingDocx/internal/config"
	"github.com/aver1ch/formatingDocx/internal/docx"
)

// linesPerPage is the fixed pagination heuristic for TOC page numbers.
// Real pagination would need Word's layout engine; the approximation is
// part of the established output contract.
const linesPerPage = 55

// tocEntry is one table-of-contents line before formatting.
type tocEntry struct {
	level int
	text  string
	page  int
}

// tocProcessor extracts the headings, estimates their page numbers and
// inserts the formatted table of contents at the top of the document.
type tocProcessor struct {
	session *docx.Session
	cfg     *config.Document
	logger  *slog.Logger
}

func newTOCProcessor(session *docx.Session, cfg *config.Document, logger *slog.Logger) *tocProcessor {
	return &tocProcessor{session: session, cfg: cfg, logger: logger}
}

func (tp *tocProcessor) Apply() error {
	toc := tp.cfg.Structure.TOC
	if !toc.Enabled {
		tp.logger.Debug("table of contents disabled in configuration")
		return nil
	}

	body, err := tp.session.Body()
	if err != nil {
		return err
	}

	entries := extractEntries(body, toc.Levels)
	if len(entries) == 0 {
		tp.logger.Warn("no headings found for table of contents")
		return nil
	}

	lines := formatEntries(entries, toc.PageNumbers)
	insertTOCBlock(body, toc.Title, lines)

	tp.session.MarkDirty(docx.PartDocument)
	tp.logger.Debug("table of contents inserted", "entries", len(entries))

	return nil
}

// extractEntries collects the heading paragraphs up to maxLevels deep,
// with page numbers estimated from the paragraph index.
func extractEntries(body *etree.Element, maxLevels int) []tocEntry {
	var entries []tocEntry

	for idx, p := range docx.Paragraphs(body) {
		level, ok := headingLevels[docx.ParagraphStyle(p)]
		if !ok || level >= maxLevels {
			continue
		}

		entries = append(entries, tocEntry{
			level: level,
			text:  docx.ParagraphText(p),
			page:  idx/linesPerPage + 1,
		})
	}

	return entries
}

// formatEntries renders the entries into TOC lines: two spaces of
// indent per level, optionally "...<page>".
func formatEntries(entries []tocEntry, pageNumbers bool) []string {
	lines := make([]string, 0, len(entries))

	for _, entry := range entries {
		indent := strings.Repeat("  ", entry.level)

		if pageNumbers {
			lines = append(lines, fmt.Sprintf("%s%s...%d", indent, entry.text, entry.page))
		} else {
			lines = append(lines, indent+entry.text)
		}
	}

	return lines
}

// insertTOCBlock puts the block at the top of the body: the title as a
// Heading1 paragraph, a spacer, the lines, and a trailing spacer that
// separates the block from the body text.
func insertTOCBlock(body *etree.Element, title string, lines []string) {
	block := make([]*etree.Element, 0, len(lines)+3)
	block = append(block, docx.NewParagraph(title, "Heading1"))
	block = append(block, docx.NewParagraph("", "Normal"))

	for _, line := range lines {
		block = append(block, docx.NewParagraph(line, "Normal"))
	}

	block = append(block, docx.NewParagraph("", "Normal"))

	paragraphs := docx.Paragraphs(body)

	if len(paragraphs) == 0 {
		for _, el := range block {
			body.AddChild(el)
		}

		return
	}

	first := paragraphs[0]
	for _, el := range block {
		docx.InsertBefore(body, first, el)
	}
}
