package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_HOST", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_NAME", "hotel_test")
	t.Setenv("DB_STATEMENT_TIMEOUT", "5s")
	t.Setenv("ROOM_CACHE_TTL", "12")
	t.Setenv("HOTEL_START_DATE", "2024-01-10")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "hotel_test", cfg.Database.DBName)
	assert.Equal(t, 5*time.Second, cfg.Database.StatementTimeout)
	assert.Equal(t, 12*time.Second, cfg.Redis.TTL)
	assert.Equal(t, "2024-01-10", cfg.StartDate)
}

func TestLoadConfigRejectsInvertedPoolBounds(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "1")
	t.Setenv("DB_MIN_CONNS", "4")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestDatabaseDSNAndRuntimeParams(t *testing.T) {
	d := Database{
		Host: "db", Port: "5433", User: "u", Password: "p", DBName: "hotel", SSLMode: "disable",
		StatementTimeout: 2 * time.Second, IdleInTxTimeout: 1500 * time.Millisecond,
	}

	assert.Equal(t, "host=db port=5433 user=u password=p dbname=hotel sslmode=disable", d.DSN())
	params := d.RuntimeParams()
	assert.Equal(t, "2000", params["statement_timeout"])
	assert.Equal(t, "1500", params["idle_in_transaction_session_timeout"])
}
