// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session owns the state of one tie-out run: the document store,
// the latest checklist verdicts and the tracked discrepancies. Every
// pipeline operation goes through a Session; there is no package-level
// state.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/tieout/internal/checklist"
	"github.com/pdiddy/tieout/internal/classify"
	"github.com/pdiddy/tieout/internal/discrepancy"
	"github.com/pdiddy/tieout/internal/extract"
	"github.com/pdiddy/tieout/internal/report"
	"github.com/pdiddy/tieout/internal/store"
	"github.com/pdiddy/tieout/internal/textextract"
	"github.com/pdiddy/tieout/pkg/types"
)

// Session is a pipeline session. It is safe for concurrent use, though
// Analyze and RunChecklist are expected to be called in sequence.
type Session struct {
	ID string

	cfg    types.PipelineConfig
	logger *zap.Logger
	now    func() time.Time

	store     *store.Store
	checklist types.Checklist
	engine    *checklist.Engine
	extractor *extract.Extractor
	text      *textextract.Extractor
	collector *discrepancy.Collector

	oracle    extract.Oracle
	oracleSet bool

	mu       sync.Mutex
	verdicts []types.Verdict
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. It is shared with every component.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOracle injects the extraction oracle instead of building one from
// configuration. A nil oracle makes every extraction report the oracle as
// unavailable.
func WithOracle(o extract.Oracle) Option {
	return func(s *Session) {
		s.oracle = o
		s.oracleSet = true
	}
}

// WithClock fixes the session's notion of now for upload times, the 409A
// check and report generation.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithChecklist replaces the configured checklist.
func WithChecklist(c types.Checklist) Option {
	return func(s *Session) { s.checklist = c }
}

// New creates an empty session. Unless WithOracle is given the oracle is
// built from cfg.AI; a missing API key leaves the session without one.
func New(ctx context.Context, cfg types.PipelineConfig, opts ...Option) (*Session, error) {
	s := &Session{
		ID:        uuid.NewString(),
		cfg:       cfg.WithDefaults(),
		logger:    zap.NewNop(),
		now:       time.Now,
		store:     store.New(),
		collector: discrepancy.New(),
	}
	for _, o := range opts {
		o(s)
	}

	if len(s.checklist.Sections) == 0 {
		c, err := checklist.Load(s.cfg.Checklist.File)
		if err != nil {
			return nil, fmt.Errorf("loading checklist: %w", err)
		}
		s.checklist = c
	} else if err := checklist.Validate(s.checklist); err != nil {
		return nil, fmt.Errorf("checklist: %w", err)
	}

	if !s.oracleSet {
		o, err := extract.NewOracle(ctx, s.cfg.AI)
		switch {
		case errors.Is(err, extract.ErrOracleUnavailable):
			s.logger.Warn("session.oracle_unavailable", zap.String("provider", s.cfg.AI.Provider), zap.Error(err))
		case err != nil:
			return nil, fmt.Errorf("building oracle: %w", err)
		default:
			s.oracle = o
		}
	}

	s.engine = checklist.NewEngine(checklist.WithClock(s.now), checklist.WithLogger(s.logger))
	s.extractor = extract.New(s.oracle, s.cfg.AI, s.cfg.Extraction, s.logger)
	s.text = textextract.New(s.logger)

	s.logger.Debug("session.new",
		zap.String("session_id", s.ID),
		zap.Bool("oracle", s.oracle != nil),
		zap.Int("rules", len(s.checklist.Rules())))
	return s, nil
}

// Config returns the effective configuration.
func (s *Session) Config() types.PipelineConfig { return s.cfg }

// Checklist returns the checklist the session evaluates.
func (s *Session) Checklist() types.Checklist { return s.checklist }

// HasOracle reports whether extraction can reach an oracle.
func (s *Session) HasOracle() bool { return s.oracle != nil }

// AddDocument classifies text and stores it under an id derived from
// fileName. Adding the same file name twice fails with
// store.ErrDuplicateDocument.
func (s *Session) AddDocument(fileName, text string) (types.DocumentRecord, error) {
	t := classify.Classify(fileName, text)
	rec := types.DocumentRecord{
		ID:         store.IDFor(fileName),
		FileName:   fileName,
		RawText:    text,
		Type:       t,
		AutoType:   t,
		CharCount:  utf8.RuneCountInString(text),
		WordCount:  len(strings.Fields(text)),
		UploadedAt: s.now().UTC(),
	}
	if err := s.store.Add(rec); err != nil {
		return types.DocumentRecord{}, err
	}
	s.logger.Debug("session.add",
		zap.String("id", rec.ID),
		zap.String("type", string(t)),
		zap.Int("chars", rec.CharCount))
	return rec, nil
}

// Ingest reads each path, extracts its text and adds it. An unreadable
// path or a duplicate aborts; unparseable content does not, since text
// extraction falls back to placeholder text.
func (s *Session) Ingest(ctx context.Context, paths []string) ([]types.DocumentRecord, error) {
	var out []types.DocumentRecord
	for _, p := range paths {
		text, err := s.text.ExtractFile(ctx, p)
		if err != nil {
			return out, err
		}
		rec, err := s.AddDocument(p, text)
		if err != nil {
			return out, fmt.Errorf("adding %s: %w", p, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Reclassify overrides the type of id. The record is marked for
// re-extraction because its schema follows its type.
func (s *Session) Reclassify(id string, t types.DocumentType) error {
	if err := s.store.SetType(id, t); err != nil {
		return err
	}
	_ = s.store.Update(id, func(r *types.DocumentRecord) { r.Extracted = false })
	s.logger.Debug("session.reclassify", zap.String("id", id), zap.String("type", string(t)))
	return nil
}

// Records returns copies of the stored records in upload order.
func (s *Session) Records() []types.DocumentRecord { return s.store.Snapshot() }

// Record returns a copy of one stored record.
func (s *Session) Record(id string) (types.DocumentRecord, error) { return s.store.Get(id) }

// RunChecklist evaluates the checklist against a snapshot of the store,
// replaces the current verdicts and feeds failures to the discrepancy
// collector. Call it after Analyze has returned.
func (s *Session) RunChecklist() []types.Verdict {
	records := s.store.Snapshot()
	verdicts := s.engine.Run(s.checklist, records)

	s.mu.Lock()
	s.verdicts = verdicts
	s.mu.Unlock()

	ds := s.collector.Collect(verdicts, s.checklist)
	s.logger.Info("session.checklist.done",
		zap.String("session_id", s.ID),
		zap.Int("verdicts", len(verdicts)),
		zap.Int("discrepancies", len(ds)))
	return append([]types.Verdict(nil), verdicts...)
}

// Verdicts returns the verdicts of the latest checklist run.
func (s *Session) Verdicts() []types.Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.Verdict(nil), s.verdicts...)
}

// Discrepancies returns every tracked discrepancy.
func (s *Session) Discrepancies() []types.Discrepancy { return s.collector.List() }

// Summary compiles the current state.
func (s *Session) Summary() types.Summary {
	return report.Compile(s.store.Snapshot(), s.Verdicts(), s.collector.List())
}

// Report compiles the current state into a report envelope.
func (s *Session) Report() types.Report {
	return report.New(s.ID, s.now(), s.Summary())
}

// Reset discards documents, verdicts and discrepancies. Configuration, the
// checklist and the oracle are kept.
func (s *Session) Reset() {
	s.store.Reset()
	s.collector.Reset()
	s.mu.Lock()
	s.verdicts = nil
	s.mu.Unlock()
	s.logger.Debug("session.reset", zap.String("session_id", s.ID))
}
