package docx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

const relsNamespace = "http://schemas.openxmlformats.org/package/2006/relationships"

// relsPart returns the parsed relationships part for a given rels path
// (for example "word/_rels/document.xml.rels"), creating an empty one
// when absent.
func (s *Session) relsPart(name string) (*etree.Document, error) {
	if !s.HasPart(name) {
		doc := etree.NewDocument()
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)

		root := doc.CreateElement("Relationships")
		root.CreateAttr("xmlns", relsNamespace)

		s.AddXMLPart(name, doc)

		return doc, nil
	}

	return s.Part(name)
}

// AddRelationship appends a relationship to a rels part and returns the
// allocated id (rId1, rId2, ...).
func (s *Session) AddRelationship(relsName, relType, target string) (string, error) {
	doc, err := s.relsPart(relsName)
	if err != nil {
		return "", err
	}

	root := doc.Root()

	maxID := 0

	for _, rel := range root.ChildElements() {
		id := rel.SelectAttrValue("Id", "")
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "rId")); err == nil && n > maxID {
			maxID = n
		}
	}

	id := fmt.Sprintf("rId%d", maxID+1)

	rel := root.CreateElement("Relationship")
	rel.CreateAttr("Id", id)
	rel.CreateAttr("Type", relType)
	rel.CreateAttr("Target", target)

	s.MarkDirty(relsName)

	return id, nil
}

// EnsureRelationship returns the id of an existing relationship with
// the given type and target, adding one when absent.
func (s *Session) EnsureRelationship(relsName, relType, target string) (string, error) {
	doc, err := s.relsPart(relsName)
	if err != nil {
		return "", err
	}

	for _, rel := range doc.Root().ChildElements() {
		if rel.SelectAttrValue("Type", "") == relType && rel.SelectAttrValue("Target", "") == target {
			return rel.SelectAttrValue("Id", ""), nil
		}
	}

	return s.AddRelationship(relsName, relType, target)
}

// RelationshipTarget resolves a relationship id to its target, or "".
func (s *Session) RelationshipTarget(relsName, id string) string {
	doc, err := s.relsPart(relsName)
	if err != nil {
		return ""
	}

	for _, rel := range doc.Root().ChildElements() {
		if rel.SelectAttrValue("Id", "") == id {
			return rel.SelectAttrValue("Target", "")
		}
	}

	return ""
}

// Relationships returns id → target for every relationship in a part.
func (s *Session) Relationships(relsName string) (map[string]string, error) {
	if !s.HasPart(relsName) {
		return nil, nil
	}

	doc, err := s.Part(relsName)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string)

	for _, rel := range doc.Root().ChildElements() {
		out[rel.SelectAttrValue("Id", "")] = rel.SelectAttrValue("Target", "")
	}

	return out, nil
}

// EnsureContentTypeOverride adds an Override entry to
// [Content_Types].xml for a part, if not already present.
func (s *Session) EnsureContentTypeOverride(partName, contentType string) error {
	doc, err := s.Part(PartContentTypes)
	if err != nil {
		return err
	}

	root := doc.Root()
	want := "/" + partName

	for _, el := range root.ChildElements() {
		if el.Tag == "Override" && el.SelectAttrValue("PartName", "") == want {
			return nil
		}
	}

	ov := root.CreateElement("Override")
	ov.CreateAttr("PartName", want)
	ov.CreateAttr("ContentType", contentType)

	s.MarkDirty(PartContentTypes)

	return nil
}

// EnsureContentTypeDefault adds a Default extension mapping to
// [Content_Types].xml, if not already present.
func (s *Session) EnsureContentTypeDefault(extension, contentType string) error {
	doc, err := s.Part(PartContentTypes)
	if err != nil {
		return err
	}

	root := doc.Root()

	for _, el := range root.ChildElements() {
		if el.Tag == "Default" && strings.EqualFold(el.SelectAttrValue("Extension", ""), extension) {
			return nil
		}
	}

	def := root.CreateElement("Default")
	def.CreateAttr("Extension", extension)
	def.CreateAttr("ContentType", contentType)

	s.MarkDirty(PartContentTypes)

	return nil
}
