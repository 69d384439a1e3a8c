package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndIsCode(t *testing.T) {
	t.Parallel()

	base := errors.New("disk full")
	err := Wrap(CodeStorageError, "save upload", base)

	require.EqualError(t, err, "save upload: disk full")
	require.True(t, IsCode(err, CodeStorageError))
	require.False(t, IsCode(err, CodeNotFound))
	require.ErrorIs(t, err, base)

	wrapped := fmt.Errorf("handler: %w", err)
	require.True(t, IsCode(wrapped, CodeStorageError))
	require.Equal(t, CodeStorageError, CodeOf(wrapped))
}

func TestWrapWithoutCause(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeInvalidInput, "text cannot be empty", nil)
	require.EqualError(t, err, "text cannot be empty")
	require.Nil(t, errors.Unwrap(err))
	require.Equal(t, "", CodeOf(errors.New("plain")))
}
