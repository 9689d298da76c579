package pipeline

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/beevik/etree"

	"github.com/aver1ch/formatingDocx/internal/config"
	"github.com/aver1ch/formatingDocx/internal/docx"
)

// headingLevels maps heading style ids to 0-based numbering depths.
var headingLevels = map[string]int{
	"Heading1": 0,
	"Heading2": 1,
	"Heading3": 2,
}

const numberingDepth = 3

// sectionProcessor assigns hierarchical section numbers ("1", "1.1",
// "1.1.1") to heading paragraphs in document order. Entering a level
// increments its counter and resets every deeper one; a heading that
// already starts with a digit is treated as pre-numbered and only
// updates the counters.
type sectionProcessor struct {
	session  *docx.Session
	cfg      *config.Document
	logger   *slog.Logger
	counters [numberingDepth]int
}

func newSectionProcessor(session *docx.Session, cfg *config.Document, logger *slog.Logger) *sectionProcessor {
	return &sectionProcessor{session: session, cfg: cfg, logger: logger}
}

func (np *sectionProcessor) Apply() error {
	if !np.cfg.Structure.Sections.Enabled {
		np.logger.Debug("section numbering disabled in configuration")
		return nil
	}

	body, err := np.session.Body()
	if err != nil {
		return err
	}

	np.counters = [numberingDepth]int{}

	processed := 0

	for _, p := range docx.Paragraphs(body) {
		level, ok := headingLevels[docx.ParagraphStyle(p)]
		if !ok {
			continue
		}

		np.processHeading(p, level)
		processed++
	}

	np.session.MarkDirty(docx.PartDocument)
	np.logger.Debug("headings numbered", "count", processed)

	return nil
}

func (np *sectionProcessor) processHeading(p *etree.Element, level int) {
	text := strings.TrimSpace(docx.ParagraphText(p))

	if text != "" && unicode.IsDigit(rune(text[0])) {
		np.adoptExistingNumber(text, level)
		return
	}

	np.bump(level)

	number := np.format(level)

	docx.ClearRuns(p)

	numberRun := docx.AddRun(p, number+" ")
	docx.SetRunBold(numberRun, true)

	textRun := docx.AddRun(p, text)
	docx.SetRunBold(textRun, true)
}

// bump increments the counter at level and resets every deeper one.
func (np *sectionProcessor) bump(level int) {
	np.counters[level]++

	for i := level + 1; i < numberingDepth; i++ {
		np.counters[i] = 0
	}
}

func (np *sectionProcessor) format(level int) string {
	parts := make([]string, 0, level+1)

	for i := 0; i <= level; i++ {
		parts = append(parts, strconv.Itoa(np.counters[i]))
	}

	return strings.Join(parts, ".")
}

// adoptExistingNumber parses a pre-numbered heading ("2.1 Title") and
// aligns the counters with it so subsequent headings continue from the
// author's numbering. Unparsable numbers are logged and skipped.
func (np *sectionProcessor) adoptExistingNumber(text string, level int) {
	space := strings.IndexByte(text, ' ')
	if space == -1 {
		return
	}

	parts := strings.Split(text[:space], ".")

	for i, part := range parts {
		if i > level || i >= numberingDepth {
			break
		}

		n, err := strconv.Atoi(part)
		if err != nil {
			np.logger.Warn("unparsable section number", "number", text[:space])
			return
		}

		np.counters[i] = n
	}

	for i := level + 1; i < numberingDepth; i++ {
		np.counters[i] = 0
	}
}
