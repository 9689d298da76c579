package pipeline

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/aver1ch/formatingDocx/internal/config"
	"github.com/aver1ch/formatingDocx/internal/docx"
)

// appendixKeywords identify appendix headings. The Russian entries
// cover the common case inflections.
var appendixKeywords = []string{
	"appendix",
	"appendices",
	"annex",
	"приложение",
	"приложении",
	"приложению",
	"приложением",
}

const appendixLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// appendixProcessor finds the appendix headings and rewrites them with
// a running label: a number or a letter sequence depending on the
// configured numbering style.
type appendixProcessor struct {
	session *docx.Session
	cfg     *config.Document
	logger  *slog.Logger
}

func newAppendixProcessor(session *docx.Session, cfg *config.Document, logger *slog.Logger) *appendixProcessor {
	return &appendixProcessor{session: session, cfg: cfg, logger: logger}
}

func (ap *appendixProcessor) Apply() error {
	appendix := ap.cfg.Structure.Appendix
	if !appendix.Enabled {
		ap.logger.Debug("appendix processing disabled in configuration")
		return nil
	}

	body, err := ap.session.Body()
	if err != nil {
		return err
	}

	headings := findAppendixHeadings(body)
	if len(headings) == 0 {
		ap.logger.Debug("no appendix headings found")
		return nil
	}

	for i, p := range headings {
		original := docx.ParagraphText(p)
		label := appendixLabel(i, appendix.NumberingStyle)

		newText := "Appendix " + label
		if colon := strings.Index(original, ":"); colon >= 0 {
			newText += ": " + strings.TrimSpace(original[colon+1:])
		}

		docx.ClearRuns(p)
		docx.AddRun(p, newText)
	}

	ap.session.MarkDirty(docx.PartDocument)
	ap.logger.Info("appendix headings renumbered", "count", len(headings))

	return nil
}

// findAppendixHeadings returns the heading paragraphs whose text
// mentions an appendix keyword, in document order.
func findAppendixHeadings(body *etree.Element) []*etree.Element {
	var headings []*etree.Element

	for _, p := range docx.Paragraphs(body) {
		if !strings.HasPrefix(docx.ParagraphStyle(p), "Heading") {
			continue
		}

		text := strings.ToLower(strings.TrimSpace(docx.ParagraphText(p)))

		for _, keyword := range appendixKeywords {
			if strings.Contains(text, keyword) {
				headings = append(headings, p)
				break
			}
		}
	}

	return headings
}

// appendixLabel produces the running label for a 0-based appendix
// index: "1", "2", ... for the numbers style, otherwise A..Z followed
// by doubled letters (AA, AB, ...).
func appendixLabel(index int, style string) string {
	if style == "numbers" {
		return strconv.Itoa(index + 1)
	}

	if index < len(appendixLetters) {
		return string(appendixLetters[index])
	}

	first := (index - 26) / 26
	second := (index - 26) % 26

	if first < len(appendixLetters) {
		return string(appendixLetters[first]) + string(appendixLetters[second])
	}

	return strconv.Itoa(index + 1)
}
