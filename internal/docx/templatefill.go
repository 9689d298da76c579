package docx

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/beevik/etree"
)

// placeholderPattern matches {{name}} placeholders in concatenated
// paragraph text. Word splits text into fragmented runs unpredictably,
// so matching happens against the joined text of a whole paragraph.
var placeholderPattern = regexp.MustCompile(`\{\{([A-Za-z_][A-Za-z0-9_]*)\}\}`)

// FillPlaceholders substitutes {{name}} placeholders with the provided
// values throughout the main document part and every header/footer
// part. A placeholder split across several runs is merged into the
// first run of its span, preserving that run's formatting. Placeholders
// with no configured value are left untouched. Returns the number of
// substitutions made.
func FillPlaceholders(s *Session, values map[string]string) (int, error) {
	total, err := fillPart(s, PartDocument, values)
	if err != nil {
		return 0, err
	}

	for _, name := range s.ListParts() {
		if !isHeaderFooterPart(name) {
			continue
		}

		n, err := fillPart(s, name, values)
		if err != nil {
			return total, fmt.Errorf("fill %s: %w", name, err)
		}

		total += n
	}

	return total, nil
}

// PlaceholderNames returns the distinct placeholder names found in the
// document and header/footer parts, in first-seen order.
func PlaceholderNames(s *Session) ([]string, error) {
	seen := make(map[string]bool)

	var names []string

	scan := func(partName string) error {
		doc, err := s.Part(partName)
		if err != nil {
			return err
		}

		root := doc.Root()
		if root == nil {
			return nil
		}

		for _, p := range collectParagraphs(root) {
			for _, m := range placeholderPattern.FindAllStringSubmatch(ParagraphText(p), -1) {
				if !seen[m[1]] {
					seen[m[1]] = true
					names = append(names, m[1])
				}
			}
		}

		return nil
	}

	if err := scan(PartDocument); err != nil {
		return nil, err
	}

	for _, name := range s.ListParts() {
		if isHeaderFooterPart(name) {
			if err := scan(name); err != nil {
				return nil, err
			}
		}
	}

	return names, nil
}

func isHeaderFooterPart(name string) bool {
	return (strings.HasPrefix(name, "word/header") || strings.HasPrefix(name, "word/footer")) &&
		strings.HasSuffix(name, ".xml")
}

// fillPart substitutes placeholders in one XML part.
func fillPart(s *Session, partName string, values map[string]string) (int, error) {
	doc, err := s.Part(partName)
	if err != nil {
		return 0, err
	}

	root := doc.Root()
	if root == nil {
		return 0, nil
	}

	count := 0

	for _, p := range collectParagraphs(root) {
		count += fillParagraph(p, values)
	}

	if count > 0 {
		s.MarkDirty(partName)
	}

	return count, nil
}

// collectParagraphs walks the whole element tree (body, tables, header
// and footer roots) and returns every paragraph.
func collectParagraphs(el *etree.Element) []*etree.Element {
	var out []*etree.Element

	for _, child := range el.ChildElements() {
		if child.Tag == "p" {
			out = append(out, child)
			continue
		}

		out = append(out, collectParagraphs(child)...)
	}

	return out
}

// runSpan tracks one run's text and its offset within the joined
// paragraph text.
type runSpan struct {
	elem  *etree.Element
	text  string
	start int
}

// fillParagraph substitutes placeholders within one paragraph, handling
// matches that span several fragmented runs.
func fillParagraph(p *etree.Element, values map[string]string) int {
	spans := paragraphSpans(p)
	if len(spans) == 0 {
		return 0
	}

	var joined strings.Builder
	for _, sp := range spans {
		joined.WriteString(sp.text)
	}

	text := joined.String()

	matches := placeholderPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return 0
	}

	count := 0

	// Replace right-to-left so earlier offsets stay valid.
	for i := len(matches) - 1; i >= 0; i-- {
		start, end := matches[i][0], matches[i][1]
		name := text[matches[i][2]:matches[i][3]]

		value, ok := values[name]
		if !ok {
			continue
		}

		spans = replaceSpanRange(p, spans, start, end, value)
		count++
	}

	return count
}

// paragraphSpans collects the paragraph's runs with their offsets.
func paragraphSpans(p *etree.Element) []runSpan {
	var spans []runSpan

	pos := 0

	for _, r := range Runs(p) {
		text := RunText(r)
		spans = append(spans, runSpan{elem: r, text: text, start: pos})
		pos += len(text)
	}

	return spans
}

// replaceSpanRange rewrites the text range [start, end) with value. A
// range confined to one run is a plain string splice; a range crossing
// runs is merged into the first run of the span (keeping its w:rPr) and
// the remaining runs of the span are removed.
func replaceSpanRange(p *etree.Element, spans []runSpan, start, end int, value string) []runSpan {
	first, last := -1, -1

	for i, sp := range spans {
		spanEnd := sp.start + len(sp.text)

		if first == -1 && start >= sp.start && start < spanEnd {
			first = i
		}

		if end > sp.start && end <= spanEnd {
			last = i
			break
		}

		if i == len(spans)-1 {
			last = i
		}
	}

	if first == -1 || last == -1 {
		return spans
	}

	if first == last {
		sp := spans[first]
		local := sp.text[:start-sp.start] + value + sp.text[end-sp.start:]
		SetRunText(sp.elem, local)
		spans[first].text = local

		return spans
	}

	head := spans[first]
	tail := spans[last]
	merged := head.text[:start-head.start] + value + tail.text[end-tail.start:]

	SetRunText(head.elem, merged)
	spans[first].text = merged

	for i := last; i > first; i-- {
		p.RemoveChild(spans[i].elem)
	}

	return append(spans[:first+1], spans[last+1:]...)
}
