package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_EngineConfig(t *testing.T) {
	os.Setenv("ENGINE_MATCHER", "editratio")
	os.Setenv("ENGINE_LINK_THRESHOLD", "0.9")
	os.Setenv("ENGINE_STOP_WORDS", "MG, CAJA ,FRASCO")
	defer func() {
		os.Unsetenv("ENGINE_MATCHER")
		os.Unsetenv("ENGINE_LINK_THRESHOLD")
		os.Unsetenv("ENGINE_STOP_WORDS")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "editratio", cfg.Engine.Matcher)
	assert.Equal(t, 0.9, cfg.Engine.LinkThreshold)
	assert.Equal(t, []string{"MG", "CAJA", "FRASCO"}, cfg.Engine.StopWords)
}

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("ENGINE_MATCHER")
	os.Unsetenv("ENGINE_LINK_THRESHOLD")
	os.Unsetenv("ENGINE_STOP_WORDS")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "tokenset", cfg.Engine.Matcher)
	assert.Equal(t, 0.85, cfg.Engine.LinkThreshold)
	assert.Equal(t, 0.6, cfg.Engine.CorroborationThreshold)
	assert.Nil(t, cfg.Engine.StopWords)
	assert.Equal(t, "farmacia_vallenar", cfg.Database.Database)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "app",
		Password: "secret",
		Database: "farmacia",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db port=5433 user=app password=secret dbname=farmacia sslmode=require",
		cfg.DatabaseDSN(),
	)
}
