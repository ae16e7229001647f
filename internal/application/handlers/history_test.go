package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
	"github.com/danielgonzalesarce/holocron/internal/domain/mocks"
)

func TestHistoryHandler_Handle(t *testing.T) {
	audit := &mocks.AuditLog{}
	require.NoError(t, audit.LogAction(t.Context(), entities.ActionLoadFailed, "", nil))
	require.NoError(t, audit.LogAction(t.Context(), entities.ActionLoadSucceeded, "snap-1", nil))

	entries, err := NewHistoryHandler(audit).Handle(t.Context(), 10)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entities.ActionLoadSucceeded, entries[0].Action)
}

func TestHistoryHandler_Handle_Error(t *testing.T) {
	audit := &mocks.AuditLog{Err: errors.New("boom")}

	_, err := NewHistoryHandler(audit).Handle(t.Context(), 10)

	require.Error(t, err)
}
