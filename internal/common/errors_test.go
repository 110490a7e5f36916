package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name            string
		originalError   error
		message         string
		expectedMessage string
	}{
		{
			name:            "wrap simple error",
			originalError:   errors.New("original error"),
			message:         "wrapper message",
			expectedMessage: "wrapper message: original error",
		},
		{
			name:            "empty wrapper message",
			originalError:   errors.New("original error"),
			message:         "",
			expectedMessage: ": original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrappedError := WrapError(tt.originalError, tt.message)
			assert.Error(t, wrappedError)
			assert.Equal(t, tt.expectedMessage, wrappedError.Error())
			assert.ErrorIs(t, wrappedError, tt.originalError)
		})
	}

	assert.NoError(t, WrapError(nil, "ignored"))
}

func TestNewError(t *testing.T) {
	err := NewError("error with value: %d", 42)
	assert.EqualError(t, err, "error with value: 42")
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("concurrency", -1, "must be positive")
	assert.Equal(t, "validation failed for field 'concurrency': must be positive (value: -1)", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConfigurationError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigurationError
		expected string
	}{
		{
			name:     "section and field",
			err:      NewConfigurationError("options_config", "backend", "unknown backend"),
			expected: "configuration error in section 'options_config', field 'backend': unknown backend",
		},
		{
			name:     "section only",
			err:      NewConfigurationError("server_config", "", "missing"),
			expected: "configuration error in section 'server_config': missing",
		},
		{
			name:     "reason only",
			err:      NewConfigurationError("", "", "broken"),
			expected: "configuration error: broken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrInvalidConfiguration)
		})
	}
}

func TestCombineErrors(t *testing.T) {
	assert.NoError(t, CombineErrors(nil))
	assert.NoError(t, CombineErrors([]error{nil, nil}))

	single := errors.New("only")
	assert.Equal(t, single, CombineErrors([]error{nil, single}))

	combined := CombineErrors([]error{errors.New("a"), errors.New("b")})
	assert.EqualError(t, combined, "multiple errors occurred: [a; b]")
}

func TestErrorCollector(t *testing.T) {
	var ec ErrorCollector
	assert.False(t, ec.HasErrors())
	assert.NoError(t, ec.Error())

	ec.Add(nil)
	ec.Add(errors.New("first"))
	ec.AddWithContext(errors.New("second"), "file b.txt")
	ec.AddWithContext(nil, "ignored")

	assert.True(t, ec.HasErrors())
	assert.Len(t, ec.Errors(), 2)
	assert.EqualError(t, ec.Error(), "multiple errors occurred: [first; file b.txt: second]")
}
