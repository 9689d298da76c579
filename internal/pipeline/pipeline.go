// Package pipeline runs the ordered set of document mutators that turn
// an arbitrary .docx file into a GOST-formatted one: styles, margins,
// title page, running headers, section numbering, table of contents,
// preface and appendix handling.
//
// The stages are strictly sequential; later stages rely on properties
// the earlier ones established. The title stage works through the
// filesystem (the merge collaborator takes paths, not sessions) and
// replaces the working session wholesale, so every stage reads the
// session through the pipeline rather than holding its own reference.
package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aver1ch/formatingDocx/internal/config"
	"github.com/aver1ch/formatingDocx/internal/docx"
	"github.com/aver1ch/formatingDocx/internal/merge"
)

// Pipeline coordinates one formatting run over one document.
type Pipeline struct {
	session  *docx.Session
	cfg      *config.Document
	composer merge.Composer
	logger   *slog.Logger
}

// New builds a pipeline for an opened session. A nil logger falls back
// to slog.Default(); the title stage merges through a FileComposer.
func New(session *docx.Session, cfg *config.Document, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		session:  session,
		cfg:      cfg,
		composer: merge.NewFileComposer(logger),
		logger:   logger,
	}
}

// Session returns the current working session. After Execute this is
// the document to save; the session passed to New may have been
// replaced by the title stage.
func (p *Pipeline) Session() *docx.Session { return p.session }

// Execute runs every stage in order. addTitlePage gates the title stage
// on top of its config toggle. Any stage failure aborts the run with a
// StageError; no stage is skipped on error.
func (p *Pipeline) Execute(addTitlePage bool) error {
	stages := []struct {
		name string
		run  func() error
	}{
		{"styles", p.applyStyles},
		{"margins", p.applyMargins},
		{"title", func() error {
			if !addTitlePage {
				p.logger.Debug("title page skipped by caller")
				return nil
			}

			return p.applyTitlePage()
		}},
		// The merge produced a new document: margins are re-applied and
		// running headers are built on the final section set.
		{"margins", p.applyMargins},
		{"headers", p.applyHeaders},
		{"sections", p.applySectionNumbering},
		{"toc", p.insertTOC},
		{"preface", p.insertPreface},
		{"appendix", p.processAppendices},
	}

	for _, stage := range stages {
		p.logger.Info("pipeline stage", "stage", stage.name)

		if err := stage.run(); err != nil {
			p.logger.Error("pipeline stage failed", "stage", stage.name, "error", err)
			return &StageError{Stage: stage.name, Err: err}
		}
	}

	return nil
}

func (p *Pipeline) applyStyles() error {
	return newStyleProcessor(p.session, p.cfg, p.logger).Apply()
}

func (p *Pipeline) applyMargins() error {
	return newMarginsProcessor(p.session, p.cfg, p.logger).Apply()
}

func (p *Pipeline) applyHeaders() error {
	return newHeaderFooterProcessor(p.session, p.cfg, p.logger).Apply()
}

func (p *Pipeline) applySectionNumbering() error {
	return newSectionProcessor(p.session, p.cfg, p.logger).Apply()
}

func (p *Pipeline) insertTOC() error {
	return newTOCProcessor(p.session, p.cfg, p.logger).Apply()
}

func (p *Pipeline) insertPreface() error {
	return newPrefaceProcessor(p.session, p.cfg, p.logger).Apply()
}

func (p *Pipeline) processAppendices() error {
	return newAppendixProcessor(p.session, p.cfg, p.logger).Apply()
}

// applyTitlePage renders the title template, merges it in front of the
// working document and replaces the working session with the merged
// result. All intermediate files live in a scratch directory removed on
// every exit path.
func (p *Pipeline) applyTitlePage() (err error) {
	tp := p.cfg.Structure.TitlePage
	if !tp.Enabled {
		p.logger.Debug("title page disabled in configuration")
		return nil
	}

	proc := newTitleProcessor(p.cfg, p.composer, p.logger)

	scratch, err := os.MkdirTemp("", "formatdocx-title-*")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}

	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil && err == nil {
			err = fmt.Errorf("clean scratch dir: %w", rmErr)
		}
	}()

	bodyPath := filepath.Join(scratch, "body.docx")
	if err := p.session.Save(bodyPath); err != nil {
		return fmt.Errorf("save working document: %w", err)
	}

	mergedPath := filepath.Join(scratch, "merged.docx")
	if err := proc.Apply(bodyPath, mergedPath, scratch); err != nil {
		return err
	}

	merged, err := docx.Open(mergedPath)
	if err != nil {
		return fmt.Errorf("open merged document: %w", err)
	}

	// Wholesale replacement: nothing may retain the old session.
	p.session = merged

	return nil
}
