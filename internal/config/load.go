package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for configuration loading.
var (
	ErrParsing    = errors.New("config parsing failed")
	ErrValidation = errors.New("config validation failed")
)

// requiredPaths must exist in the raw document before decoding begins.
var requiredPaths = [][]string{
	{"document", "general", "margins"},
	{"document", "general", "fonts"},
	{"document", "general", "spacing"},
	{"document", "structure"},
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrParsing, path, err)
	}

	return Parse(data)
}

// Parse validates and decodes a YAML configuration blob into the typed
// tree. Validation of the required paths happens before any decoding so
// a malformed config fails fast, before any document mutation.
func Parse(data []byte) (*Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsing, err)
	}

	if err := validateRequired(raw); err != nil {
		return nil, err
	}

	var root struct {
		Document Document `yaml:"document"`
	}

	// Legacy location: some configs keep numbering at the document
	// level instead of under structure.
	var legacy struct {
		Document struct {
			Numbering *Numbering `yaml:"numbering"`
		} `yaml:"document"`
	}

	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsing, err)
	}

	if err := yaml.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsing, err)
	}

	cfg := root.Document
	foldLegacy(&cfg, legacy.Document.Numbering)
	applyDefaults(&cfg)

	return &cfg, nil
}

// foldLegacy collapses the two legacy configuration homes into the
// unified tree. The flat structure fields are authoritative when both
// homes are populated.
func foldLegacy(cfg *Document, docNumbering *Numbering) {
	if docNumbering != nil && !cfg.Structure.Numbering.Headers.Enabled &&
		cfg.Structure.Numbering.Headers.Left == "" && cfg.Structure.Numbering.Headers.Right == "" {
		cfg.Structure.Numbering = *docNumbering
	}

	legacy := cfg.Structure.DocumentStructure
	if legacy == nil {
		return
	}

	if legacy.Sections != nil && !cfg.Structure.Sections.Enabled {
		cfg.Structure.Sections = *legacy.Sections
	}

	if legacy.TOC != nil && !cfg.Structure.TOC.Enabled {
		cfg.Structure.TOC = *legacy.TOC
	}

	if legacy.Preface != nil && !cfg.Structure.Preface.Enabled {
		cfg.Structure.Preface = *legacy.Preface
	}

	if legacy.Appendix != nil && !cfg.Structure.Appendix.Enabled {
		cfg.Structure.Appendix = *legacy.Appendix
	}

	cfg.Structure.DocumentStructure = nil
}

// applyDefaults fills the defaults the processors rely on.
func applyDefaults(cfg *Document) {
	if cfg.General.Spacing.Line == 0 {
		cfg.General.Spacing.Line = 1.5
	}

	if cfg.General.Fonts.HeaderNum == 0 {
		cfg.General.Fonts.HeaderNum = 3
	}

	if cfg.Structure.TOC.Title == "" {
		cfg.Structure.TOC.Title = "ОГЛАВЛЕНИЕ"
	}

	if cfg.Structure.TOC.Levels == 0 {
		cfg.Structure.TOC.Levels = 3
	}

	if cfg.Structure.Appendix.NumberingStyle == "" {
		cfg.Structure.Appendix.NumberingStyle = "letters"
	}
}

// validateRequired walks the required key paths through the raw mapping.
func validateRequired(raw map[string]any) error {
	for _, path := range requiredPaths {
		current := any(raw)

		for _, key := range path {
			m, ok := current.(map[string]any)
			if !ok {
				return fmt.Errorf("%w: missing required field: %s", ErrValidation, strings.Join(path, "."))
			}

			current, ok = m[key]
			if !ok {
				return fmt.Errorf("%w: missing required field: %s", ErrValidation, strings.Join(path, "."))
			}
		}
	}

	return nil
}
