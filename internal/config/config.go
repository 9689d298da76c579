// Package config defines the typed formatting configuration tree and
// its YAML loader. The tree is built once per formatting run, read by
// every processor and discarded afterwards.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is the root configuration for one formatting run.
type Document struct {
	General   General   `yaml:"general"`
	Structure Structure `yaml:"structure"`
}

// General holds page-wide formatting rules: margins, the font-role
// mapping and line spacing.
type General struct {
	Margins Margins `yaml:"margins"`
	Fonts   Fonts   `yaml:"fonts"`
	Spacing Spacing `yaml:"spacing"`
}

// Margins holds the four page margins as measurement strings ("20mm").
type Margins struct {
	Left   string `yaml:"left"`
	Right  string `yaml:"right"`
	Top    string `yaml:"top"`
	Bottom string `yaml:"bottom"`
}

// Font describes the character formatting for one font role.
type Font struct {
	Family string `yaml:"family"`
	Size   string `yaml:"size"`
	Bold   bool   `yaml:"bold"`
	Italic bool   `yaml:"italic"`
}

// Fonts maps font-role names ("main", "appendices", "notes",
// "header1"...) to font attributes. The heading depth count lives in
// the same YAML mapping under the headerNum key, so decoding is custom.
type Fonts struct {
	HeaderNum int
	Roles     map[string]Font
}

// UnmarshalYAML splits the headerNum scalar from the font-role entries.
func (f *Fonts) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]yaml.Node
	if err := node.Decode(&raw); err != nil {
		return err
	}

	f.Roles = make(map[string]Font, len(raw))

	for key, val := range raw {
		if key == "headerNum" {
			if err := val.Decode(&f.HeaderNum); err != nil {
				return fmt.Errorf("fonts.headerNum: %w", err)
			}

			continue
		}

		var font Font
		if err := val.Decode(&font); err != nil {
			return fmt.Errorf("fonts.%s: %w", key, err)
		}

		f.Roles[key] = font
	}

	return nil
}

// Role returns the font for a role and whether it is configured.
func (f Fonts) Role(name string) (Font, bool) {
	font, ok := f.Roles[name]
	return font, ok
}

// MainFamily returns the main font family, or a fallback when the main
// role does not name one.
func (f Fonts) MainFamily() string {
	if font, ok := f.Roles["main"]; ok && font.Family != "" {
		return font.Family
	}

	return "Arial"
}

// Spacing holds the global line-spacing ratio and named exceptions.
type Spacing struct {
	Line       float64             `yaml:"line"`
	Exceptions []map[string]string `yaml:"exceptions"`
}

// Structure configures the document-assembly features.
type Structure struct {
	TitlePage TitlePage `yaml:"title_page"`
	Numbering Numbering `yaml:"numbering"`
	Sections  Sections  `yaml:"sections"`
	TOC       TOC       `yaml:"toc"`
	Preface   Preface   `yaml:"preface"`
	Appendix  Appendix  `yaml:"appendix"`

	// DocumentStructure is the legacy phase-2 home of the four feature
	// blocks above. Load folds it into the flat fields; the flat fields
	// win when both are populated.
	DocumentStructure *LegacyDocumentStructure `yaml:"document_structure"`
}

// LegacyDocumentStructure mirrors the old nested feature-block layout.
type LegacyDocumentStructure struct {
	Sections *Sections `yaml:"sections"`
	TOC      *TOC      `yaml:"toc"`
	Preface  *Preface  `yaml:"preface"`
	Appendix *Appendix `yaml:"appendix"`
}

// TitlePage configures title-page rendering and merging.
type TitlePage struct {
	Template     string              `yaml:"template"`
	TemplatePath string              `yaml:"template_path"`
	ImagePath    string              `yaml:"image_path"`
	Enabled      bool                `yaml:"enabled"`
	Elements     []map[string]string `yaml:"elements"`
	LineSpacing  float64             `yaml:"line_spacing"`
	SpaceBefore  string              `yaml:"space_before"`
	SpaceAfter   string              `yaml:"space_after"`
	TableFormat  TableFormat         `yaml:"table_format"`
}

// ElementValues collapses the ordered single-key element list into a
// flat placeholder-name to value mapping. Later entries win.
func (t TitlePage) ElementValues() map[string]string {
	values := make(map[string]string, len(t.Elements))

	for _, item := range t.Elements {
		for key, val := range item {
			values[key] = val
		}
	}

	return values
}

// TableFormat toggles reformatting of table cells on the rendered title.
type TableFormat struct {
	Enabled      bool `yaml:"enabled"`
	ApplyFont    bool `yaml:"apply_font"`
	ApplySpacing bool `yaml:"apply_spacing"`
}

// Numbering holds header/footer text and page-numbering settings.
// Pages is accepted for compatibility with existing configurations;
// page-number placement is driven by Headers.PageNumbers.
type Numbering struct {
	Headers Headers           `yaml:"headers"`
	Pages   map[string]string `yaml:"pages"`
}

// Headers configures running header/footer content. The parts lists
// take precedence over the plain strings when present. Note the
// crossed convention: odd pages show Right/RightParts, even pages show
// Left/LeftParts.
type Headers struct {
	Enabled     bool       `yaml:"enabled"`
	Left        string     `yaml:"left"`
	Right       string     `yaml:"right"`
	PageNumbers bool       `yaml:"page_numbers"`
	LeftParts   []TextPart `yaml:"left_parts"`
	RightParts  []TextPart `yaml:"right_parts"`
}

// TextPart is one formatted fragment of mixed-formatting header text.
type TextPart struct {
	Text       string `yaml:"text"`
	Bold       bool   `yaml:"bold"`
	Italic     bool   `yaml:"italic"`
	FontFamily string `yaml:"font_family"`
}

// Sections toggles multi-level section numbering.
type Sections struct {
	Enabled bool `yaml:"enabled"`
}

// TOC configures table-of-contents generation.
type TOC struct {
	Enabled     bool   `yaml:"enabled"`
	Title       string `yaml:"title"`
	Levels      int    `yaml:"levels"`
	PageNumbers bool   `yaml:"page_numbers"`
}

// Preface configures preface insertion.
type Preface struct {
	Enabled bool   `yaml:"enabled"`
	Content string `yaml:"content"`
}

// Appendix configures appendix heading renumbering. NumberingStyle is
// "letters" or "numbers".
type Appendix struct {
	Enabled        bool   `yaml:"enabled"`
	NumberingStyle string `yaml:"numbering_style"`
}
