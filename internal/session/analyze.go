// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/tieout/internal/extract"
	"github.com/pdiddy/tieout/pkg/types"
)

// AnalysisSummary holds the outcome of an Analyze run.
type AnalysisSummary struct {
	Extracted int
	Degraded  int
	Skipped   int
}

// Total returns the number of documents considered.
func (a AnalysisSummary) Total() int {
	return a.Extracted + a.Degraded + a.Skipped
}

// HasDegraded reports whether any document ended at confidence 0.
func (a AnalysisSummary) HasDegraded() bool {
	return a.Degraded > 0
}

// Analyze extracts every document that has not been extracted yet, or all
// of them when force is set. Up to Extraction.Concurrency documents run at
// once; each record is written only by its own task. A failing document is
// recorded at confidence 0 and never stops the others. Progress lines go
// to w. The returned error is non-nil only when ctx ends.
func (s *Session) Analyze(ctx context.Context, w io.Writer, force bool) (AnalysisSummary, error) {
	var (
		sum AnalysisSummary
		mu  sync.Mutex
	)
	progress := func(f func()) {
		mu.Lock()
		defer mu.Unlock()
		f()
	}

	records := s.store.Snapshot()
	s.logger.Info("session.analyze.start",
		zap.String("session_id", s.ID),
		zap.Int("documents", len(records)),
		zap.Int("concurrency", s.cfg.Extraction.Concurrency),
		zap.Bool("force", force))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Extraction.Concurrency)

	for _, rec := range records {
		if rec.Extracted && !force {
			progress(func() {
				sum.Skipped++
				fmt.Fprintf(w, "skipped:   %s (already extracted)\n", rec.ID)
			})
			continue
		}
		g.Go(func() error {
			res := s.extractor.Extract(gctx, rec.FileName, rec.RawText, rec.Type)
			err := s.store.Update(rec.ID, func(r *types.DocumentRecord) { apply(r, res) })
			progress(func() {
				switch {
				case err != nil:
					sum.Degraded++
					fmt.Fprintf(w, "failed:    %s (%v)\n", rec.ID, err)
				case res.Confidence == extract.ConfidenceUnavailable:
					sum.Degraded++
					fmt.Fprintf(w, "degraded:  %s (%s)\n", rec.ID, firstIssue(res))
				default:
					sum.Extracted++
					fmt.Fprintf(w, "extracted: %s (%s, %d fields)\n", rec.ID, rec.Type, len(res.Fields.Keys()))
				}
			})
			return nil
		})
	}
	_ = g.Wait()

	fmt.Fprintf(w, "\nAnalysis summary: %d extracted, %d degraded, %d skipped (total: %d)\n",
		sum.Extracted, sum.Degraded, sum.Skipped, sum.Total())
	s.logger.Info("session.analyze.done",
		zap.String("session_id", s.ID),
		zap.Int("extracted", sum.Extracted),
		zap.Int("degraded", sum.Degraded),
		zap.Int("skipped", sum.Skipped))
	return sum, ctx.Err()
}

func apply(r *types.DocumentRecord, res extract.Result) {
	r.Extracted = true
	r.Fields = res.Fields
	r.ComplianceNotes = res.ComplianceNotes
	r.IssuesNoted = res.IssuesNoted
	r.Confidence = res.Confidence
	r.RawResponse = res.RawResponse
}

func firstIssue(res extract.Result) string {
	if len(res.IssuesNoted) > 0 {
		return res.IssuesNoted[0]
	}
	return "no usable oracle response"
}
