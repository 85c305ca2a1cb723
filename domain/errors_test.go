package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageError_WrapsUnexpected(t *testing.T) {
	cause := errors.New("connection reset")
	err := StorageError(cause)

	assert.True(t, IsDomainError(err, ErrCodeInternal))
	assert.ErrorIs(t, err, cause)
}

func TestStorageError_PassesDomainErrors(t *testing.T) {
	wrapped := fmt.Errorf("complete: %w", ErrTaskNotFound)
	err := StorageError(wrapped)

	assert.Same(t, wrapped, err)
	assert.True(t, IsDomainError(err, ErrCodeNotFound))
	assert.NoError(t, StorageError(nil))
}

func TestSession_ToggleTheme(t *testing.T) {
	s := &Session{}
	assert.Equal(t, ThemeLight, s.Theme())
	assert.Equal(t, ThemeDark, s.ToggleTheme())
	assert.Equal(t, ThemeDark, s.Theme())
	assert.Equal(t, ThemeLight, s.ToggleTheme())
}
