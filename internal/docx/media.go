package docx

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Register decoders for the image formats title-page logos use.
	_ "image/jpeg"
	_ "image/png"

	"github.com/beevik/etree"

	"github.com/aver1ch/formatingDocx/internal/measure"
)

const imageRelType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

var imageContentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
}

// AddImage stores an image file as a media part, wires its relationship
// and content type, and returns the relationship id plus the inline
// extent (in EMU) for the requested physical width. Height preserves
// the image's pixel aspect ratio; undecodable images fall back to a
// square extent.
func (s *Session) AddImage(path string, width measure.Length) (relID string, cx, cy int64, err error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided image path
	if err != nil {
		return "", 0, 0, fmt.Errorf("read image %s: %w", path, err)
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	contentType, ok := imageContentTypes[ext]
	if !ok {
		return "", 0, 0, fmt.Errorf("unsupported image format %q", ext)
	}

	n := 1
	for s.HasPart(fmt.Sprintf("word/media/image%d.%s", n, ext)) {
		n++
	}

	partName := fmt.Sprintf("word/media/image%d.%s", n, ext)
	s.AddRawPart(partName, data)

	if err := s.EnsureContentTypeDefault(ext, contentType); err != nil {
		return "", 0, 0, err
	}

	relID, err = s.AddRelationship(PartDocumentRels, imageRelType, strings.TrimPrefix(partName, "word/"))
	if err != nil {
		return "", 0, 0, err
	}

	cx = width.EMU()
	cy = cx

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil && cfg.Width > 0 {
		cy = cx * int64(cfg.Height) / int64(cfg.Width)
	}

	return relID, cx, cy, nil
}

// inlineImageXML is the wp:inline drawing skeleton for an embedded
// picture. Placeholders: extent cx, cy, docPr id/name, blip embed id.
const inlineImageXML = `<w:drawing xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <wp:inline xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" distT="0" distB="0" distL="0" distR="0">
    <wp:extent cx="%d" cy="%d"/>
    <wp:docPr id="%d" name="Picture %d"/>
    <a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
      <a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">
        <pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">
          <pic:nvPicPr>
            <pic:cNvPr id="%d" name="Picture %d"/>
            <pic:cNvPicPr/>
          </pic:nvPicPr>
          <pic:blipFill>
            <a:blip xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" r:embed="%s"/>
            <a:stretch><a:fillRect/></a:stretch>
          </pic:blipFill>
          <pic:spPr>
            <a:xfrm>
              <a:off x="0" y="0"/>
              <a:ext cx="%d" cy="%d"/>
            </a:xfrm>
            <a:prstGeom prst="rect"><a:avLst/></a:prstGeom>
          </pic:spPr>
        </pic:pic>
      </a:graphicData>
    </a:graphic>
  </wp:inline>
</w:drawing>`

// NewInlineImage builds a detached run carrying an inline picture
// drawing for a previously added media relationship.
func NewInlineImage(relID string, cx, cy int64, docPrID int) (*etree.Element, error) {
	xml := fmt.Sprintf(inlineImageXML, cx, cy, docPrID, docPrID, docPrID, docPrID, relID, cx, cy)

	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		return nil, fmt.Errorf("build inline image: %w", err)
	}

	r := etree.NewElement("w:r")
	r.AddChild(doc.Root().Copy())

	return r, nil
}

// ReplaceImagePlaceholder finds the first paragraph whose text contains
// the placeholder, clears its runs and inserts the image as an inline
// drawing at the configured physical width. Returns false when no
// paragraph carries the placeholder.
func (s *Session) ReplaceImagePlaceholder(placeholder, imagePath string, width measure.Length) (bool, error) {
	body, err := s.Body()
	if err != nil {
		return false, err
	}

	var target *etree.Element

	for _, p := range append(Paragraphs(body), TableParagraphs(body)...) {
		if strings.Contains(ParagraphText(p), placeholder) {
			target = p
			break
		}
	}

	if target == nil {
		return false, nil
	}

	relID, cx, cy, err := s.AddImage(imagePath, width)
	if err != nil {
		return false, err
	}

	run, err := NewInlineImage(relID, cx, cy, 1)
	if err != nil {
		return false, err
	}

	ClearRuns(target)
	target.AddChild(run)
	s.MarkDirty(PartDocument)

	return true, nil
}
