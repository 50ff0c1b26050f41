// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns a document's raw text into structured fields by
// prompting a language-model oracle with the document type's schema and
// parsing the JSON object in its answer.
//
// Extraction never fails: an unreachable oracle, a transport error or an
// unparseable answer each produce a Result that records what went wrong.
package extract

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pdiddy/tieout/internal/schema"
	"github.com/pdiddy/tieout/pkg/types"
)

// Confidence values recorded on a result.
const (
	ConfidenceResponded   = 0.9
	ConfidenceUnavailable = 0.0
)

// Messages recorded when the oracle cannot be used.
const (
	IssueNoAPIKey       = "API key not configured - cannot perform analysis"
	RawResponseNoOracle = "API unavailable"
)

// Result is the outcome of extracting one document.
type Result struct {
	Fields          types.ExtractedFields
	ComplianceNotes []string
	IssuesNoted     []string
	Confidence      float64
	RawResponse     string

	// Warnings lists fields that could not be coerced to the schema.
	Warnings []string
}

// Extractor prompts an Oracle for each document.
type Extractor struct {
	Oracle      Oracle
	MaxChars    int
	MaxRetries  int
	CallTimeout time.Duration

	// Limiter throttles oracle calls when non-nil.
	Limiter *rate.Limiter
	Logger  *zap.Logger
}

// New builds an Extractor from configuration. oracle may be nil, in which
// case every extraction reports the oracle as unavailable.
func New(oracle Oracle, ai types.AIConfig, ex types.ExtractionConfig, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Extractor{
		Oracle:      oracle,
		MaxChars:    ex.MaxChars,
		MaxRetries:  ai.MaxRetries,
		CallTimeout: ai.CallTimeout,
		Logger:      logger,
	}
	if ai.RequestsPerSecond > 0 {
		e.Limiter = rate.NewLimiter(rate.Limit(ai.RequestsPerSecond), 1)
	}
	return e
}

// Extract analyzes one document. It is safe to call concurrently.
func (e *Extractor) Extract(ctx context.Context, fileName, rawText string, docType types.DocumentType) Result {
	log := e.logger().With(zap.String("file", fileName), zap.String("type", string(docType)))

	if e.Oracle == nil {
		log.Warn("extract.unavailable")
		return unavailableResult()
	}

	maxChars := e.MaxChars
	if maxChars <= 0 {
		maxChars = types.DefaultMaxChars
	}
	s := schema.For(docType)
	prompt, err := renderPrompt(s, fileName, truncateRunes(rawText, maxChars))
	if err != nil {
		log.Error("extract.prompt_error", zap.Error(err))
		return errorResult(fmt.Sprintf("rendering prompt: %v", err))
	}

	log.Debug("extract.start", zap.String("oracle", e.Oracle.Name()), zap.Int("prompt_chars", len(prompt)))

	text, err := e.callWithRetry(ctx, Request{
		DocumentType: s.Type,
		FileName:     fileName,
		Prompt:       prompt,
		Schema:       s,
	})
	if err != nil {
		if errors.Is(err, ErrOracleUnavailable) {
			log.Warn("extract.unavailable", zap.Error(err))
			return unavailableResult()
		}
		msg := fmt.Sprintf("%s API error: %v", e.Oracle.Name(), err)
		log.Warn("extract.oracle_error", zap.Error(err))
		return errorResult(msg)
	}

	res := e.interpret(s, text)
	log.Debug("extract.done",
		zap.Int("fields", len(res.Fields.Keys())),
		zap.Int("warnings", len(res.Warnings)),
	)
	return res
}

// interpret turns an oracle answer into a Result.
func (e *Extractor) interpret(s schema.Schema, text string) Result {
	res := Result{
		Confidence:  ConfidenceResponded,
		RawResponse: text,
	}

	obj, outcome, parseErr := parseResponse(text)
	switch outcome {
	case noObject:
		res.Fields.RawResponse = text
		return res
	case parseFailed:
		e.logger().Warn("extract.parse_error", zap.String("error", parseErr))
		res.Fields.ParsingError = parseErr
		res.Fields.RawResponsePreview = truncateRunes(text, previewChars)
		return res
	}

	res.Fields, res.Warnings = schema.Decode(s.Type, obj)
	if notes, err := schema.StringList(obj[schema.KeyComplianceItems]); err == nil {
		res.ComplianceNotes = notes
	}
	if issues, err := schema.StringList(obj[schema.KeyIssuesFound]); err == nil {
		res.IssuesNoted = issues
	}
	for _, w := range res.Warnings {
		e.logger().Debug("extract.coercion", zap.String("warning", w))
	}
	return res
}

func unavailableResult() Result {
	return Result{
		IssuesNoted: []string{IssueNoAPIKey},
		Confidence:  ConfidenceUnavailable,
		RawResponse: RawResponseNoOracle,
	}
}

func errorResult(msg string) Result {
	return Result{
		Fields:      types.ExtractedFields{APIError: msg},
		IssuesNoted: []string{msg},
		Confidence:  ConfidenceUnavailable,
	}
}

func (e *Extractor) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// callWithRetry calls the oracle with a per-call timeout and exponential
// backoff. ErrOracleUnavailable and cancellation of ctx are not retried.
func (e *Extractor) callWithRetry(ctx context.Context, req Request) (string, error) {
	maxRetries := e.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	timeout := e.CallTimeout
	if timeout <= 0 {
		timeout = types.DefaultCallTimeout
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		if e.Limiter != nil {
			if err := e.Limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, timeout)
		text, err := e.Oracle.Extract(callCtx, req)
		cancel()
		if err == nil {
			return text, nil
		}
		if errors.Is(err, ErrOracleUnavailable) {
			return "", err
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		e.logger().Debug("extract.retry", zap.Int("attempt", attempt+1), zap.Error(err))
		lastErr = err
	}
	return "", fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
