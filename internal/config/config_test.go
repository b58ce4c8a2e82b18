package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	require.NotNil(t, cfg)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "flight_booking", cfg.Database.DBName)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 0.95, cfg.Gateway.SuccessRate)
	assert.Equal(t, int64(50_000_00), cfg.Gateway.FraudCeiling)
	assert.Equal(t, 100*time.Millisecond, cfg.Gateway.Latency)
	assert.Equal(t, 15*time.Minute, cfg.Worker.ExpireAfter)
}

func TestLoad_FromEnv(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("GATEWAY_SUCCESS_RATE", "0.5")
	os.Setenv("GATEWAY_FRAUD_CEILING", "100000")
	os.Setenv("BOOKING_EXPIRE_AFTER", "5m")
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("GATEWAY_SUCCESS_RATE")
		os.Unsetenv("GATEWAY_FRAUD_CEILING")
		os.Unsetenv("BOOKING_EXPIRE_AFTER")
	}()

	cfg := Load()
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 0.5, cfg.Gateway.SuccessRate)
	assert.Equal(t, int64(100000), cfg.Gateway.FraudCeiling)
	assert.Equal(t, 5*time.Minute, cfg.Worker.ExpireAfter)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	os.Setenv("GATEWAY_SUCCESS_RATE", "not-a-number")
	os.Setenv("REDIS_DB", "abc")
	defer func() {
		os.Unsetenv("GATEWAY_SUCCESS_RATE")
		os.Unsetenv("REDIS_DB")
	}()

	cfg := Load()
	assert.Equal(t, 0.95, cfg.Gateway.SuccessRate)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{
		Host: "db", Port: "5432", User: "app", Password: "secret",
		DBName: "flight_booking", SSLMode: "disable",
	}
	dsn := c.DSN()
	assert.Contains(t, dsn, "host=db")
	assert.Contains(t, dsn, "dbname=flight_booking")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestRedisConfig_Addr(t *testing.T) {
	c := RedisConfig{Host: "cache", Port: "6379"}
	assert.Equal(t, "cache:6379", c.Addr())
}
