package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("original error")

	// When: wrapping with Error
	err := New(ErrCodeFileNotFound, "file not found: test.log", originalErr)

	// Then: unwrapping returns original error
	require.NotNil(t, err)
	assert.Equal(t, originalErr, errors.Unwrap(err))
	assert.True(t, errors.Is(err, originalErr))
}

func TestError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		message  string
		expected string
	}{
		{"config error", ErrCodeConfigNotFound, "config file not found", "[ERR_101_CONFIG_NOT_FOUND] config file not found"},
		{"file error", ErrCodeFileNotFound, "train.log not found", "[ERR_201_FILE_NOT_FOUND] train.log not found"},
		{"validation error", ErrCodeInvalidLevel, "unknown level", "[ERR_402_INVALID_LEVEL] unknown level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.code, tt.message, nil).Error())
		})
	}
}

func TestError_Is_MatchesByCode(t *testing.T) {
	err1 := New(ErrCodeFileNotFound, "file A not found", nil)
	err2 := New(ErrCodeFileNotFound, "file B not found", nil)
	err3 := New(ErrCodeConfigNotFound, "config not found", nil)

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, err3))
	assert.True(t, errors.Is(fmt.Errorf("context: %w", err1), err2), "matches through wrapping")
}

func TestError_WithDetailAndSuggestion(t *testing.T) {
	err := New(ErrCodeFileNotFound, "file not found", nil).
		WithDetail("path", "/tmp/x.log").
		WithDetail("op", "open").
		WithSuggestion("create it")

	assert.Equal(t, map[string]string{"path": "/tmp/x.log", "op": "open"}, err.Details)
	assert.Equal(t, "create it", err.Suggestion)
}

func TestNew_DerivesCategory(t *testing.T) {
	tests := []struct {
		code     string
		expected Category
	}{
		{ErrCodeConfigInvalid, CategoryConfig},
		{ErrCodeDiskFull, CategoryIO},
		{ErrCodePathConflict, CategoryIO},
		{ErrCodeInvalidPattern, CategoryValidation},
		{ErrCodeInternal, CategoryInternal},
		{"BAD", CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.code, "m", nil).Category)
		})
	}
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
	assert.Nil(t, Classify(nil))
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, ErrCodeConfigInvalid, ConfigError("bad", nil).Code)
	assert.NotEmpty(t, ConfigError("bad", nil).Suggestion)
	assert.Equal(t, ErrCodeInvalidInput, ValidationError("bad", nil).Code)
	assert.Equal(t, ErrCodeInternal, InternalError("bad", nil).Code)
}

func TestClassify(t *testing.T) {
	pathErr := func(errno error) error {
		return fmt.Errorf("open log file x: %w", &fs.PathError{Op: "open", Path: "logs/x.log", Err: errno})
	}

	tests := []struct {
		name     string
		err      error
		wantCode string
		wantPath string
	}{
		{"permission", pathErr(syscall.EACCES), ErrCodeFilePermission, "logs/x.log"},
		{"not exist", pathErr(syscall.ENOENT), ErrCodeFileNotFound, "logs/x.log"},
		{"disk full", pathErr(syscall.ENOSPC), ErrCodeDiskFull, "logs/x.log"},
		{"not a directory", pathErr(syscall.ENOTDIR), ErrCodePathConflict, "logs/x.log"},
		{"is a directory", pathErr(syscall.EISDIR), ErrCodePathConflict, "logs/x.log"},
		{"plain", errors.New("boom"), ErrCodeInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)

			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			assert.Equal(t, tt.err.Error(), got.Message)
			assert.ErrorIs(t, got, tt.err)
			assert.Equal(t, tt.wantPath, got.Details["path"])
		})
	}
}

func TestClassify_KeepsStructuredErrors(t *testing.T) {
	inner := New(ErrCodeInvalidLevel, "unknown level", nil)

	got := Classify(fmt.Errorf("emit: %w", inner))

	assert.Same(t, inner, got)
}

func TestClassify_RealFilesystemError(t *testing.T) {
	_, err := os.Open("/nonexistent/namedlog/test.log")

	got := Classify(err)

	assert.Equal(t, ErrCodeFileNotFound, got.Code)
	assert.Equal(t, CategoryIO, got.Category)
	assert.True(t, errors.Is(got, fs.ErrNotExist))
}

func TestGetCodeAndCategory(t *testing.T) {
	wrapped := fmt.Errorf("ctx: %w", New(ErrCodeDiskFull, "full", nil))

	assert.Equal(t, ErrCodeDiskFull, GetCode(wrapped))
	assert.Equal(t, CategoryIO, GetCategory(wrapped))
	assert.Empty(t, GetCode(errors.New("plain")))
	assert.Empty(t, GetCategory(errors.New("plain")))
}
