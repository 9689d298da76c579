// Package docx provides read/write access to OOXML (.docx) documents.
//
// A DOCX file is a ZIP archive of XML parts. The Session type reads all
// entries eagerly, lazily parses individual parts into etree Documents
// on first access, tracks modified parts, and saves atomically (write
// to a temp file, then rename). On top of the raw part access the
// package offers the DOM-level helpers the formatting processors need:
// paragraph and run manipulation, style definitions, section
// properties, header/footer parts, relationships and media.
package docx

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/beevik/etree"
)

// Well-known part names.
const (
	PartDocument     = "word/document.xml"
	PartStyles       = "word/styles.xml"
	PartSettings     = "word/settings.xml"
	PartContentTypes = "[Content_Types].xml"
	PartDocumentRels = "word/_rels/document.xml.rels"
)

// Sentinel errors for session operations.
var (
	ErrPartNotFound = errors.New("part not found in docx")
	errNoBody       = errors.New("document has no w:body element")
)

// Session provides cached access to the XML parts of a DOCX file.
type Session struct {
	path  string
	raw   map[string][]byte          // raw bytes for every ZIP entry
	parts map[string]*etree.Document // parsed XML, populated on demand
	dirty map[string]bool            // parts to re-serialize on save
}

// Open reads a DOCX file into a Session. The file handle is released
// before Open returns; all further work happens in memory.
func Open(path string) (*Session, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx %s: %w", path, err)
	}
	defer zr.Close()

	raw := make(map[string][]byte, len(zr.File))

	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open entry %s: %w", f.Name, err)
		}

		data, err := io.ReadAll(rc)
		_ = rc.Close()

		if err != nil {
			return nil, fmt.Errorf("read entry %s: %w", f.Name, err)
		}

		raw[f.Name] = data
	}

	return &Session{
		path:  path,
		raw:   raw,
		parts: make(map[string]*etree.Document),
		dirty: make(map[string]bool),
	}, nil
}

// Path returns the path the session was opened from.
func (s *Session) Path() string { return s.path }

// HasPart reports whether a ZIP entry exists.
func (s *Session) HasPart(name string) bool {
	_, ok := s.raw[name]
	return ok
}

// Part returns the parsed XML document for a part path (for example
// "word/document.xml"), parsing and caching it on first access.
func (s *Session) Part(name string) (*etree.Document, error) {
	if doc, ok := s.parts[name]; ok {
		return doc, nil
	}

	data, ok := s.raw[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPartNotFound, name)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse xml %s: %w", name, err)
	}

	s.parts[name] = doc

	return doc, nil
}

// RawPart returns the raw bytes of a ZIP entry without XML parsing.
func (s *Session) RawPart(name string) ([]byte, error) {
	data, ok := s.raw[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPartNotFound, name)
	}

	return data, nil
}

// AddRawPart stores a new ZIP entry (or overwrites an existing one).
// Any cached parse for the entry is discarded.
func (s *Session) AddRawPart(name string, data []byte) {
	s.raw[name] = data
	delete(s.parts, name)
	delete(s.dirty, name)
}

// AddXMLPart registers a new part backed by a parsed document. The part
// is marked dirty so Save serializes it from the DOM.
func (s *Session) AddXMLPart(name string, doc *etree.Document) {
	s.raw[name] = nil
	s.parts[name] = doc
	s.dirty[name] = true
}

// MarkDirty flags a part for re-serialization from its parsed DOM.
func (s *Session) MarkDirty(name string) {
	s.dirty[name] = true
}

// ListParts returns all entry names, sorted.
func (s *Session) ListParts() []string {
	names := make([]string, 0, len(s.raw))

	for name := range s.raw {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Body returns the w:body element of the main document part.
func (s *Session) Body() (*etree.Element, error) {
	doc, err := s.Part(PartDocument)
	if err != nil {
		return nil, err
	}

	body := findBody(doc)
	if body == nil {
		return nil, errNoBody
	}

	return body, nil
}

// Save writes the DOCX to outputPath. Clean entries are copied verbatim
// from the original bytes; dirty parts are serialized from their DOM.
// The write is atomic: a temp file in the target directory is renamed
// over the destination only after the archive is fully written.
func (s *Session) Save(outputPath string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".docx-save-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	zw := zip.NewWriter(tmp)

	for _, name := range s.ListParts() {
		w, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("create zip entry %s: %w", name, err)
		}

		data := s.raw[name]

		if s.dirty[name] {
			doc, ok := s.parts[name]
			if !ok {
				return fmt.Errorf("dirty part %s has no parsed document", name)
			}

			doc.Indent(2)

			data, err = doc.WriteToBytes()
			if err != nil {
				return fmt.Errorf("serialize %s: %w", name, err)
			}
		}

		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	if err = zw.Close(); err != nil {
		return fmt.Errorf("close zip writer: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err = os.Rename(tmpPath, outputPath); err != nil {
		return fmt.Errorf("rename to %s: %w", outputPath, err)
	}

	return nil
}
