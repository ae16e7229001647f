package handlers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielgonzalesarce/holocron/internal/domain/mocks"
	"github.com/danielgonzalesarce/holocron/internal/domain/ports"
	"github.com/danielgonzalesarce/holocron/internal/infrastructure/config"
)

func TestInitHandler_Handle(t *testing.T) {
	tmpDir := t.TempDir()
	store := &mocks.SnapshotStore{}
	var openedWith string
	handler := NewInitHandler(func(cfg *config.Config, basePath string) (ports.SnapshotStore, error) {
		openedWith = cfg.DatabasePath(basePath)
		return store, nil
	})

	result, err := handler.Handle(context.Background(), tmpDir)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, ".holocron", "config.yaml"), result.ConfigPath)
	assert.Equal(t, filepath.Join(tmpDir, ".holocron", "catalog.db"), result.DatabasePath)
	assert.Equal(t, result.DatabasePath, openedWith)

	_, err = os.Stat(result.ConfigPath)
	require.NoError(t, err)
}

func TestInitHandler_Handle_AlreadyInitialized(t *testing.T) {
	tmpDir := t.TempDir()
	handler := NewInitHandler(nil)

	_, err := handler.Handle(context.Background(), tmpDir)
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), tmpDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already initialized")
}

func TestInitHandler_Handle_StoreError(t *testing.T) {
	handler := NewInitHandler(func(*config.Config, string) (ports.SnapshotStore, error) {
		return nil, errors.New("disk full")
	})

	_, err := handler.Handle(context.Background(), t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening snapshot store")
}
