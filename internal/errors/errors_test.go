package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewValidationError("salary out of range"),
			want: "[VALIDATION] salary out of range",
		},
		{
			name: "with cause",
			err:  NewStorageError("insert batch", stderrors.New("connection refused")),
			want: "[STORAGE] insert batch: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := NewPipelineError("staging failed", cause)

	assert.True(t, stderrors.Is(err, cause))

	var appErr *AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, ErrTypePipeline, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewResolutionError("city lookup failed", nil).
		WithContext("raw_city", "grand lyon").
		WithContext("tier", 4)

	assert.Equal(t, "grand lyon", err.Context["raw_city"])
	assert.Equal(t, 4, err.Context["tier"])
}
