package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PRIMARY_HOST", "primary.example.internal")
	t.Setenv("DB_REPLICA_HOST", "")
	t.Setenv("DB_NAME", "roster")
	t.Setenv("DB_USERNAME", "roster")
	t.Setenv("DB_PASSWORD", "secret")
}

func TestLoadConfigMissingCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_PASSWORD", "")

	_, err := LoadConfig()
	assert.Error(t, err, "missing credentials must abort startup")
}

func TestLoadConfigReplicaFallsBackToPrimary(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "primary.example.internal", cfg.DBReplicaHost)
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, ":3000", cfg.AppAddr)
	assert.EqualValues(t, 2, cfg.DBPoolMinConns)
	assert.EqualValues(t, 20, cfg.DBPoolMaxConns)
	assert.False(t, cfg.IsProduction())
}

func TestEnvironmentGates(t *testing.T) {
	dev := &Config{AppEnv: "development"}
	assert.True(t, dev.IsDevelopment())
	assert.False(t, dev.IsProduction())

	prod := &Config{AppEnv: "production"}
	assert.True(t, prod.IsProduction())
	assert.False(t, prod.IsDevelopment())

	// Unrecognized env names get neither gate: redacted like production,
	// without production-only behavior such as SSL redirects.
	staging := &Config{AppEnv: "staging"}
	assert.False(t, staging.IsProduction())
	assert.False(t, staging.IsDevelopment())

	var unset *Config
	assert.False(t, unset.IsProduction())
	assert.False(t, unset.IsDevelopment())
}

func TestPoolConfigDSN(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_REPLICA_HOST", "replica.example.internal")
	t.Setenv("DB_SSL", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	primary := cfg.PrimaryPool()
	assert.Contains(t, primary.DSN, "host=primary.example.internal")
	assert.Contains(t, primary.DSN, "sslmode=require")
	assert.Contains(t, primary.DSN, "dbname=roster")

	replica := cfg.ReplicaPool()
	assert.Contains(t, replica.DSN, "host=replica.example.internal")
	assert.Equal(t, primary.MinConns, replica.MinConns)
	assert.Equal(t, primary.StatementTimeout, replica.StatementTimeout)
}
