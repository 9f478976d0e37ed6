package fixjson

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// DefaultMaxIterations bounds the unwrap loop when no limit is given.
const DefaultMaxIterations = 10

// errNotString marks an unwrap attempt on a value that is not a string and
// therefore cannot be decoded any further.
var errNotString = errors.New("value is not a JSON-encoded string")

// DecodeError indicates the value is not valid JSON at all. The chain is
// unrecoverable from this point; no partial result is kept.
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %q: %v", e.Raw, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IterationLimitError indicates every decode step produced valid JSON but
// the value was still a string after the configured number of iterations.
type IterationLimitError struct {
	Limit int
}

func (e *IterationLimitError) Error() string {
	return fmt.Sprintf("value still wrapped after %d decode iterations", e.Limit)
}

// UnwrapOptions controls a single unwrap attempt.
type UnwrapOptions struct {
	// Expected lists the kinds that terminate the loop. Empty means any
	// non-string result is accepted.
	Expected []Kind
	// MaxIterations bounds the loop; 0 uses DefaultMaxIterations.
	MaxIterations int
	// AttemptRepair runs jsonrepair on a string that fails to decode and
	// retries once before giving up.
	AttemptRepair bool
}

// Unwrap repeatedly decodes a string-wrapped JSON value until a value of an
// expected kind is reached. Values may have been encoded multiple times by
// upstream bugs (an object encoded to a string, then that string encoded
// again); the bound keeps pathological nesting from looping forever.
//
// Failure modes: *DecodeError when any step is not valid JSON, and
// *IterationLimitError when the bound is exhausted with the value still a
// string.
func Unwrap(input any, opts UnwrapOptions) (any, error) {
	maxIterations := opts.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	data := input
	for i := 0; i < maxIterations; i++ {
		s, ok := data.(string)
		if !ok {
			// A non-string that did not match the expected kinds cannot be
			// decoded further.
			return nil, &DecodeError{Raw: fmt.Sprintf("%v", data), Err: errNotString}
		}

		parsed, err := decodeString(s, opts.AttemptRepair)
		if err != nil {
			return nil, err
		}
		if matchesKind(parsed, opts.Expected) {
			return parsed, nil
		}
		data = parsed
	}

	return nil, &IterationLimitError{Limit: maxIterations}
}

func decodeString(s string, attemptRepair bool) (any, error) {
	var parsed any
	err := json.Unmarshal([]byte(s), &parsed)
	if err == nil {
		return parsed, nil
	}

	if attemptRepair {
		repaired, repairErr := jsonrepair.JSONRepair(s)
		if repairErr == nil {
			var reparsed any
			if err2 := json.Unmarshal([]byte(repaired), &reparsed); err2 == nil {
				return reparsed, nil
			}
		}
	}

	return nil, &DecodeError{Raw: s, Err: err}
}
