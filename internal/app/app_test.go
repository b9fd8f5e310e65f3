package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"soulsprint/internal/apperr"
	"soulsprint/internal/config"
	"soulsprint/internal/logger"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.AppConfig {
	return &config.AppConfig{
		StoreBackend: config.StoreMemory,
		JWTSecret:    "secret",
	}
}

func TestBuildInMemory(t *testing.T) {
	a, err := Build(context.Background(), memoryConfig(), &config.AIConfig{TimeoutMS: 1000}, config.DefaultEngineConfig(), logger.NewNop())
	require.NoError(t, err)
	defer a.Close(context.Background())

	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	st, err := a.Engine.StartSession(context.Background())
	require.NoError(t, err)
	_, err = a.Store.Load(context.Background(), st.ID)
	assert.NoError(t, err)
}

func TestBuildRejectsEmptyCatalogTier(t *testing.T) {
	engineCfg := config.DefaultEngineConfig()
	engineCfg.Catalog = engineCfg.Catalog[:1]

	_, err := Build(context.Background(), memoryConfig(), &config.AIConfig{}, engineCfg, logger.NewNop())
	require.Error(t, err)
	assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))
}

func TestBuildUnknownBackend(t *testing.T) {
	cfg := memoryConfig()
	cfg.StoreBackend = "sqlite"

	_, err := Build(context.Background(), cfg, &config.AIConfig{}, config.DefaultEngineConfig(), logger.NewNop())
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperr.ErrInvalidConfig))
}
