package errors

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", Clone(ErrUnknownBlock, "schedule block 9 not found"))

	appErr := FromError(wrapped)
	assert.Equal(t, ErrUnknownBlock.Code, appErr.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.Status)
	assert.Equal(t, "schedule block 9 not found", appErr.Message)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	appErr := FromError(sql.ErrConnDone)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.ErrorIs(t, appErr, sql.ErrConnDone)
}

func TestIsComparesCodes(t *testing.T) {
	err := Wrap(sql.ErrNoRows, ErrUnknownProfessor.Code, ErrUnknownProfessor.Status, "professor 7 not found")
	assert.True(t, Is(err, ErrUnknownProfessor))
	assert.False(t, Is(err, ErrUnknownBlock))
	assert.False(t, Is(nil, ErrUnknownBlock))
}

func TestCloneDoesNotMutateOriginal(t *testing.T) {
	clone := Clone(ErrExpiredToken, "session expired")
	assert.Equal(t, "session expired", clone.Message)
	assert.Equal(t, "token has expired", ErrExpiredToken.Message)
}
