package docx

import (
	"archive/zip"
	"fmt"
)

// ValidateResult describes the outcome of a structural check.
type ValidateResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// requiredParts must exist in any document the pipeline accepts.
var requiredParts = []string{
	PartContentTypes,
	PartDocument,
	"_rels/.rels",
}

// Validate checks a DOCX file for structural correctness: the ZIP is
// readable, the required parts exist, and the main document part is
// well-formed XML with a w:body. It reports problems in the result
// rather than as an error; the error return covers I/O only.
func Validate(path string) (*ValidateResult, error) {
	result := &ValidateResult{Valid: true}

	zr, err := zip.OpenReader(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("not a valid ZIP archive: %v", err))

		return result, nil
	}
	defer zr.Close()

	entries := make(map[string]bool, len(zr.File))
	for _, f := range zr.File {
		entries[f.Name] = true
	}

	for _, part := range requiredParts {
		if !entries[part] {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("missing required part: %s", part))
		}
	}

	if !result.Valid {
		return result, nil
	}

	session, err := Open(path)
	if err != nil {
		return nil, err
	}

	doc, err := session.Part(PartDocument)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("cannot parse word/document.xml: %v", err))

		return result, nil
	}

	if findBody(doc) == nil {
		result.Valid = false
		result.Errors = append(result.Errors, "word/document.xml has no w:body element")
	}

	return result, nil
}
