package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBacktestError_Error(t *testing.T) {
	err := New(ErrorCategoryValidation, "config", "validate", "cci period must be positive").
		WithContext("strategy", "CCI Bounce").
		WithContext("period", -5)

	assert.Equal(t, "[VALIDATION:config] validate: cci period must be positive (period=-5, strategy=CCI Bounce)", err.Error())
	assert.True(t, err.IsFatal())
}

func TestWrap_Unwrap(t *testing.T) {
	err := Wrap(io.ErrUnexpectedEOF, ErrorCategoryData, "csv", "load").WithMessage("truncated file")

	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "truncated file: unexpected EOF")
	assert.False(t, err.IsFatal())

	outer := fmt.Errorf("loading candles: %w", err)
	assert.True(t, IsCategory(outer, ErrorCategoryData))
	assert.False(t, IsCategory(outer, ErrorCategoryReport))

	c, ok := CategoryOf(outer)
	require.True(t, ok)
	assert.Equal(t, ErrorCategoryData, c)

	_, ok = CategoryOf(io.EOF)
	assert.False(t, ok)
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorCategory
	}{
		{stderrors.New("dial tcp: connection refused"), ErrorCategoryExchange},
		{stderrors.New("Bybit API error 10006: rate limit"), ErrorCategoryExchange},
		{stderrors.New("yaml: line 3: mapping values are not allowed"), ErrorCategoryConfiguration},
		{stderrors.New("invalid interval \"7x\""), ErrorCategoryValidation},
		{stderrors.New("no rows"), ErrorCategoryData},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategorizeError(tt.err, "cli", "run").Category, tt.err.Error())
	}

	assert.Nil(t, CategorizeError(nil, "cli", "run"))

	original := NewReportError("excel", "save", io.ErrClosedPipe)
	assert.Same(t, original, CategorizeError(fmt.Errorf("wrapped: %w", original), "cli", "run"))
}
