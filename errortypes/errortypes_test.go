package errortypes

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadCode(t *testing.T) {
	testCases := []struct {
		description string
		err         error
		expected    int
	}{
		{description: "unknown section", err: &UnknownSection{}, expected: UnknownSectionErrorCode},
		{description: "unknown field", err: &UnknownField{}, expected: UnknownFieldErrorCode},
		{description: "encoding", err: &Encoding{}, expected: EncodingErrorCode},
		{description: "decoding", err: &Decoding{}, expected: DecodingErrorCode},
		{description: "invalid config", err: &InvalidConfig{}, expected: InvalidConfigErrorCode},
		{description: "bad input", err: &BadInput{}, expected: BadInputErrorCode},
		{description: "warning", err: &Warning{WarningCode: BlankInputWarningCode}, expected: BlankInputWarningCode},
		{description: "wrapped", err: fmt.Errorf("section usnat: %w", &Encoding{}), expected: EncodingErrorCode},
		{description: "plain error", err: errors.New("boom"), expected: UnknownErrorCode},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			assert.Equal(t, test.expected, ReadCode(test.err))
		})
	}
}

func TestSeverityFilters(t *testing.T) {
	decoding := &Decoding{Message: "bad"}
	warning := &Warning{Message: "skipped", WarningCode: DisabledSectionWarningCode}
	plain := errors.New("plain")

	errs := []error{decoding, warning, plain}

	assert.Equal(t, []error{decoding, plain}, FatalOnly(errs))
	assert.Equal(t, []error{warning}, WarningOnly(errs))
	assert.True(t, ContainsFatalError(errs))
	assert.False(t, ContainsFatalError([]error{warning}))
	assert.True(t, IsWarning(warning))
	assert.False(t, IsWarning(plain))
}

func TestAggregateErrors(t *testing.T) {
	testCases := []struct {
		description string
		errs        []error
		expected    string
	}{
		{
			description: "none",
			expected:    "",
		},
		{
			description: "one",
			errs:        []error{errors.New("a")},
			expected:    "validation errors (1 error):\n  1: a\n",
		},
		{
			description: "two",
			errs:        []error{errors.New("a"), errors.New("b")},
			expected:    "validation errors (2 errors):\n  1: a\n  2: b\n",
		},
	}

	for _, test := range testCases {
		t.Run(test.description, func(t *testing.T) {
			assert.Equal(t, test.expected, NewAggregateErrors("validation errors", test.errs).Error())
		})
	}
}

func TestAggregateErrorsUnwrap(t *testing.T) {
	err := NewAggregateErrors("command failed", []error{errors.New("plain"), &BadInput{Message: "no gpp string given"}})

	var badInput *BadInput
	assert.True(t, errors.As(err, &badInput))
	assert.Equal(t, BadInputErrorCode, ReadCode(err))
	assert.True(t, ContainsFatalError([]error{err}))
}
