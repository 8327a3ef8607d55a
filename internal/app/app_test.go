package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatloom/backend/internal/config"
	"chatloom/backend/internal/model"
)

func TestNewApp(t *testing.T) {
	ollamaServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ollamaServer.Close()

	dbFile, err := os.CreateTemp("", "test-*.db")
	require.NoError(t, err)
	defer func() { require.NoError(t, os.Remove(dbFile.Name())) }()

	cfg := &config.Config{
		DatabasePath:     dbFile.Name(),
		OllamaURL:        ollamaServer.URL,
		MainModel:        "test-model",
		LogLevel:         "DEBUG",
		ChunkPacingMS:    10,
		ChunkQueueSize:   64,
		UndoRetentionSec: 30,
		UndoSweepSec:     5,
	}

	a, err := NewApp(cfg)
	require.NoError(t, err)
	require.NotNil(t, a)

	defer func() { require.NoError(t, a.DB.Close()) }()

	assert.NotNil(t, a.DB)
	assert.NotNil(t, a.Server)
	require.NotNil(t, a.Service)
	assert.Equal(t, model.ModeLive, a.Service.Mode())
}
