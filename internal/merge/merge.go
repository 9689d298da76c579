// Package merge concatenates two DOCX files into one. Its single user
// is the title-page stage, which renders a title document and glues the
// source document behind it.
package merge

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"github.com/aver1ch/formatingDocx/internal/docx"
)

// Composer joins a prefix document and a body document into a new file.
// Implementations work through the filesystem: both inputs are paths,
// not open sessions.
type Composer interface {
	Merge(prefixPath, bodyPath, outputPath string) error
}

// FileComposer merges by copying the prefix document's body content,
// styles and media into the body document and saving the result.
type FileComposer struct {
	logger *slog.Logger
}

// NewFileComposer returns a Composer. A nil logger falls back to
// slog.Default().
func NewFileComposer(logger *slog.Logger) *FileComposer {
	if logger == nil {
		logger = slog.Default()
	}

	return &FileComposer{logger: logger}
}

// Merge writes a new document at outputPath whose content is the prefix
// document's body, a hard page break, then the body document's content.
// The body document's section properties, headers and numbering stay
// authoritative; only the prefix's paragraphs, tables, referenced media
// and missing style definitions are carried over.
func (c *FileComposer) Merge(prefixPath, bodyPath, outputPath string) error {
	prefix, err := docx.Open(prefixPath)
	if err != nil {
		return fmt.Errorf("open prefix document: %w", err)
	}

	base, err := docx.Open(bodyPath)
	if err != nil {
		return fmt.Errorf("open body document: %w", err)
	}

	relMap, err := copyMedia(prefix, base)
	if err != nil {
		return fmt.Errorf("copy media: %w", err)
	}

	if err := copyMissingStyles(prefix, base); err != nil {
		return fmt.Errorf("copy styles: %w", err)
	}

	if err := prependBody(prefix, base, relMap); err != nil {
		return fmt.Errorf("prepend title content: %w", err)
	}

	if err := base.Save(outputPath); err != nil {
		return fmt.Errorf("save merged document: %w", err)
	}

	c.logger.Debug("documents merged",
		"prefix", prefixPath, "body", bodyPath, "output", outputPath)

	return nil
}

// copyMedia carries the prefix document's media parts into the base,
// allocating fresh part names and relationship ids. Returns the old
// relationship id to new id mapping for r:embed rewriting.
func copyMedia(prefix, base *docx.Session) (map[string]string, error) {
	rels, err := prefix.Relationships(docx.PartDocumentRels)
	if err != nil {
		return nil, err
	}

	relMap := make(map[string]string)

	for oldID, target := range rels {
		if !strings.HasPrefix(target, "media/") {
			continue
		}

		data, err := prefix.RawPart("word/" + target)
		if err != nil {
			return nil, err
		}

		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(target)), ".")

		n := 1
		for base.HasPart(fmt.Sprintf("word/media/image%d.%s", n, ext)) {
			n++
		}

		partName := fmt.Sprintf("word/media/image%d.%s", n, ext)
		base.AddRawPart(partName, data)

		contentType := mediaContentTypes[ext]
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		if err := base.EnsureContentTypeDefault(ext, contentType); err != nil {
			return nil, err
		}

		newID, err := base.AddRelationship(docx.PartDocumentRels, imageRelType,
			strings.TrimPrefix(partName, "word/"))
		if err != nil {
			return nil, err
		}

		relMap[oldID] = newID
	}

	return relMap, nil
}

const imageRelType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

var mediaContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

// copyMissingStyles appends the prefix's style definitions that the
// base document does not already define.
func copyMissingStyles(prefix, base *docx.Session) error {
	if !prefix.HasPart(docx.PartStyles) {
		return nil
	}

	prefixStyles, err := prefix.Part(docx.PartStyles)
	if err != nil {
		return err
	}

	baseStyles, err := base.StylesPart()
	if err != nil {
		return err
	}

	changed := false

	for _, style := range prefixStyles.Root().ChildElements() {
		if style.Tag != "style" {
			continue
		}

		id := docx.StyleID(style)
		if id == "" {
			continue
		}

		existing, err := base.FindStyle(id)
		if err != nil {
			return err
		}

		if existing != nil {
			continue
		}

		baseStyles.Root().AddChild(style.Copy())

		changed = true
	}

	if changed {
		base.MarkDirty(docx.PartStyles)
	}

	return nil
}

// prependBody deep-copies the prefix body's children (minus any section
// properties) to the front of the base body, followed by a page break,
// rewriting media relationship references along the way.
func prependBody(prefix, base *docx.Session, relMap map[string]string) error {
	prefixBody, err := prefix.Body()
	if err != nil {
		return err
	}

	baseBody, err := base.Body()
	if err != nil {
		return err
	}

	var incoming []*etree.Element

	for _, child := range prefixBody.ChildElements() {
		if child.Tag == "sectPr" {
			continue
		}

		cp := child.Copy()
		rewriteRelRefs(cp, relMap)
		incoming = append(incoming, cp)
	}

	incoming = append(incoming, docx.NewPageBreak())

	ref := firstChildElement(baseBody)

	for _, el := range incoming {
		if ref == nil {
			baseBody.AddChild(el)
			continue
		}

		docx.InsertBefore(baseBody, ref, el)
	}

	base.MarkDirty(docx.PartDocument)

	return nil
}

// rewriteRelRefs replaces r:-namespaced relationship references (embed,
// id, link) throughout a copied subtree with their new ids.
func rewriteRelRefs(el *etree.Element, relMap map[string]string) {
	if len(relMap) == 0 {
		return
	}

	for i, attr := range el.Attr {
		if attr.Space != "r" {
			continue
		}

		if newID, ok := relMap[attr.Value]; ok {
			el.Attr[i].Value = newID
		}
	}

	for _, child := range el.ChildElements() {
		rewriteRelRefs(child, relMap)
	}
}

func firstChildElement(el *etree.Element) *etree.Element {
	children := el.ChildElements()
	if len(children) == 0 {
		return nil
	}

	return children[0]
}
