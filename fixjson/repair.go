package fixjson

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/opsfix/netbox-fixjson/metrics"
)

// Record is one remote inventory object. Implementations expose the
// JSON-decoded custom fields and persist a partial update of them.
type Record interface {
	fmt.Stringer
	// CustomField returns the decoded value of the named custom field, or
	// nil when the field is absent.
	CustomField(name string) any
	// Update persists the given custom fields. A rejected write surfaces
	// as a non-nil error; exactly one attempt is made per call.
	Update(ctx context.Context, customFields map[string]any) error
}

// DefaultExpected is the well-formed set for a JSON custom field. A string
// value is the defect signature this tool exists to repair.
var DefaultExpected = []Kind{KindArray, KindObject, KindNull}

// Options configures one repair run over a record set.
type Options struct {
	// Field is the custom field to assess and fix.
	Field string
	// MaxIterations bounds the unwrap loop per record; 0 uses
	// DefaultMaxIterations.
	MaxIterations int
	// Apply persists fixes. When false the run is a dry run and no write
	// is sent to the store.
	Apply bool
	// Expected overrides the well-formed kind set; empty uses
	// DefaultExpected.
	Expected []Kind
	// EmptyStringAsNull treats an empty-string value as trivially fixed to
	// null. The empty string is not valid JSON and would always fail the
	// decode otherwise.
	EmptyStringAsNull bool
	// AttemptRepair enables the jsonrepair fallback on decode failures.
	AttemptRepair bool
}

// Result partitions the candidate records of a run. Every candidate lands
// in exactly one of Updated or NotUpdated, in classification order.
type Result struct {
	Updated    []Record
	NotUpdated []Record
	Evaluated  int
	Candidates int
}

// Fixer repairs string-wrapped JSON custom-field values.
type Fixer struct {
	logger  *zap.Logger
	metrics *metrics.RepairMetrics
}

// NewFixer creates a Fixer. m may be nil to disable metrics.
func NewFixer(logger *zap.Logger, m *metrics.RepairMetrics) *Fixer {
	return &Fixer{logger: logger, metrics: m}
}

// Repair assesses the named custom field on every record and fixes the
// values that are not of an expected kind. This is a work-around for
// https://github.com/netbox-community/netbox/issues/16640, where a JSON
// custom field ends up holding a string-encoded copy of its value.
//
// Phase 1 classifies all records without mutating anything; phase 2 unwraps
// each candidate and applies (or, in dry-run mode, simulates) the update.
// A record that cannot be fixed never aborts the batch.
func (f *Fixer) Repair(ctx context.Context, records []Record, opts Options) (*Result, error) {
	if opts.Field == "" {
		return nil, errors.New("custom field name is required")
	}
	expected := opts.Expected
	if len(expected) == 0 {
		expected = DefaultExpected
	}

	result := &Result{}

	f.logger.Info("Evaluating all objects", zap.String("field", opts.Field))
	var candidates []Record
	for _, rec := range records {
		result.Evaluated++
		f.countEvaluated()
		value := rec.CustomField(opts.Field)
		if value == nil || matchesKind(value, expected) {
			continue
		}
		f.logger.Debug("Found unexpected type in custom field",
			zap.Stringer("record", rec),
			zap.String("field", opts.Field),
			zap.Stringer("kind", Classify(value)),
			zap.Any("value", value))
		candidates = append(candidates, rec)
		f.countCandidate()
	}
	result.Candidates = len(candidates)
	f.logger.Info("Classification finished",
		zap.Int("evaluated", result.Evaluated),
		zap.Int("candidates", result.Candidates))

	for _, rec := range candidates {
		raw := rec.CustomField(opts.Field)

		var fixed any
		var err error
		if s, ok := raw.(string); ok && s == "" && opts.EmptyStringAsNull {
			// Trivial fix, no decode attempted.
			fixed = nil
		} else {
			fixed, err = Unwrap(raw, UnwrapOptions{
				Expected:      expected,
				MaxIterations: opts.MaxIterations,
				AttemptRepair: opts.AttemptRepair,
			})
		}
		if err != nil {
			result.NotUpdated = append(result.NotUpdated, rec)
			f.countNotUpdated(err)
			f.logger.Warn("Unable to unwrap custom field value",
				zap.String("field", opts.Field),
				zap.Stringer("record", rec),
				zap.Any("value", raw),
				zap.Error(err))
			continue
		}

		if !opts.Apply {
			result.Updated = append(result.Updated, rec)
			f.countUpdated()
			continue
		}

		f.logger.Debug("Updating record",
			zap.Stringer("record", rec),
			zap.String("field", opts.Field),
			zap.Any("value", fixed))
		if err := rec.Update(ctx, map[string]any{opts.Field: fixed}); err != nil {
			result.NotUpdated = append(result.NotUpdated, rec)
			f.countNotUpdated(nil)
			f.logger.Error("Request to update record failed",
				zap.Stringer("record", rec),
				zap.String("field", opts.Field),
				zap.Error(err))
			continue
		}
		result.Updated = append(result.Updated, rec)
		f.countUpdated()
	}

	return result, nil
}

func (f *Fixer) countEvaluated() {
	if f.metrics != nil {
		f.metrics.Evaluated.Inc()
	}
}

func (f *Fixer) countCandidate() {
	if f.metrics != nil {
		f.metrics.Candidates.Inc()
	}
}

func (f *Fixer) countUpdated() {
	if f.metrics != nil {
		f.metrics.Updated.Inc()
	}
}

func (f *Fixer) countNotUpdated(unwrapErr error) {
	if f.metrics == nil {
		return
	}
	f.metrics.NotUpdated.Inc()
	var decodeErr *DecodeError
	var limitErr *IterationLimitError
	switch {
	case errors.As(unwrapErr, &decodeErr):
		f.metrics.UnwrapFailures.WithLabelValues("decode_error").Inc()
	case errors.As(unwrapErr, &limitErr):
		f.metrics.UnwrapFailures.WithLabelValues("iteration_limit").Inc()
	case unwrapErr != nil:
		f.metrics.UnwrapFailures.WithLabelValues("other").Inc()
	}
}
