package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolConfig(t *testing.T) {
	cfg := Config{
		DSN:              "host=localhost port=5432 dbname=roster user=roster password=secret sslmode=disable",
		MinConns:         2,
		MaxConns:         20,
		IdleTimeout:      10 * time.Second,
		ConnectTimeout:   5 * time.Second,
		StatementTimeout: 30 * time.Second,
	}

	poolCfg, err := newPoolConfig(cfg)
	require.NoError(t, err)

	assert.EqualValues(t, 2, poolCfg.MinConns)
	assert.EqualValues(t, 20, poolCfg.MaxConns)
	assert.Equal(t, 10*time.Second, poolCfg.MaxConnIdleTime)
	assert.Equal(t, 5*time.Second, poolCfg.ConnConfig.ConnectTimeout)
	assert.Equal(t, "30000", poolCfg.ConnConfig.RuntimeParams["statement_timeout"])
}

func TestNewPoolConfigNoStatementTimeout(t *testing.T) {
	poolCfg, err := newPoolConfig(Config{DSN: "host=localhost dbname=roster"})
	require.NoError(t, err)

	_, ok := poolCfg.ConnConfig.RuntimeParams["statement_timeout"]
	assert.False(t, ok)
}

func TestNewPoolConfigBadDSN(t *testing.T) {
	_, err := newPoolConfig(Config{DSN: "post://%%%"})
	assert.Error(t, err)
}
