package fixjson

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wrapTimes JSON-encodes s n times, producing a value that needs n
// additional decodes to get back to s.
func wrapTimes(t *testing.T, s string, n int) string {
	t.Helper()
	for i := 0; i < n; i++ {
		b, err := json.Marshal(s)
		require.NoError(t, err)
		s = string(b)
	}
	return s
}

func TestUnwrap_SingleDecode(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected any
	}{
		{name: "object", input: `{"a": 1}`, expected: map[string]any{"a": float64(1)}},
		{name: "array", input: `[1, 2]`, expected: []any{float64(1), float64(2)}},
		{name: "null", input: `null`, expected: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// A one-iteration budget is enough for singly-encoded values.
			value, err := Unwrap(tc.input, UnwrapOptions{MaxIterations: 1})
			require.NoError(t, err)
			assert.Equal(t, tc.expected, value)
		})
	}
}

func TestUnwrap_NestedEncodings(t *testing.T) {
	// "{}" wrapped 4 times needs 5 decodes in total.
	input := wrapTimes(t, "{}", 4)

	value, err := Unwrap(input, UnwrapOptions{MaxIterations: 10})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, value)

	_, err = Unwrap(input, UnwrapOptions{MaxIterations: 4})
	var limitErr *IterationLimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 4, limitErr.Limit)
}

func TestUnwrap_WrappedNull(t *testing.T) {
	value, err := Unwrap(`"null"`, UnwrapOptions{MaxIterations: 10})
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestUnwrap_InvalidJSON(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "free text", input: "not json at all"},
		{name: "empty string", input: ""},
		{name: "truncated object", input: `{"a":`},
		{name: "garbage after one valid decode", input: wrapTimes(t, "oops", 1)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Unwrap(tc.input, UnwrapOptions{MaxIterations: 10})
			var decodeErr *DecodeError
			require.ErrorAs(t, err, &decodeErr)
		})
	}
}

func TestUnwrap_ExpectedKinds(t *testing.T) {
	expected := []Kind{KindArray, KindObject, KindNull}

	// A wrapped object terminates once the object appears.
	value, err := Unwrap(wrapTimes(t, `{"a": 1}`, 2), UnwrapOptions{Expected: expected, MaxIterations: 10})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, value)

	// A number never matches the expected set and cannot be decoded
	// further, so the chain fails cleanly.
	_, err = Unwrap(`42`, UnwrapOptions{Expected: expected, MaxIterations: 10})
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.True(t, errors.Is(err, errNotString))
}

func TestUnwrap_NonStringInput(t *testing.T) {
	// A numeric field value that failed classification is not a string and
	// fails immediately instead of looping.
	_, err := Unwrap(3.14, UnwrapOptions{MaxIterations: 10})
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestUnwrap_DefaultIterationBound(t *testing.T) {
	// MaxIterations of 0 falls back to the default rather than failing
	// every input.
	value, err := Unwrap(`[]`, UnwrapOptions{})
	require.NoError(t, err)
	assert.Equal(t, []any{}, value)

	_, err = Unwrap(wrapTimes(t, "{}", DefaultMaxIterations), UnwrapOptions{})
	var limitErr *IterationLimitError
	require.ErrorAs(t, err, &limitErr)
}

func TestUnwrap_AttemptRepair(t *testing.T) {
	// Single-quoted keys are not valid JSON but jsonrepair can fix them.
	input := `{'a': 1}`

	_, err := Unwrap(input, UnwrapOptions{MaxIterations: 10})
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)

	value, err := Unwrap(input, UnwrapOptions{MaxIterations: 10, AttemptRepair: true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, value)
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		value    any
		expected Kind
	}{
		{name: "null", value: nil, expected: KindNull},
		{name: "bool", value: true, expected: KindBool},
		{name: "number", value: float64(7), expected: KindNumber},
		{name: "string", value: "x", expected: KindString},
		{name: "array", value: []any{}, expected: KindArray},
		{name: "object", value: map[string]any{}, expected: KindObject},
		{name: "unknown", value: struct{}{}, expected: KindUnknown},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.value))
		})
	}
}
