package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, DriverPostgres, cfg.DBDriver)
	require.Equal(t, 30, cfg.SuggestHorizonDays)
	require.Equal(t, 5, cfg.SuggestLimit)
	require.Empty(t, cfg.AdminIDs)
	require.False(t, cfg.TraceStdout)
}

func TestFromEnv(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"DB_DRIVER":            "SQLite",
		"ADMIN_IDS":            "42, 7,",
		"SUGGEST_LIMIT":        "3",
		"TRACE_STDOUT":         "true",
		"PGHOST":               "db",
		"PGPASSWORD":           "secret",
		"SUGGEST_HORIZON_DAYS": "14",
	}))
	require.NoError(t, err)
	require.Equal(t, DriverSQLite, cfg.DBDriver)
	require.Equal(t, []int64{42, 7}, cfg.AdminIDs)
	require.Equal(t, 3, cfg.SuggestLimit)
	require.Equal(t, 14, cfg.SuggestHorizonDays)
	require.True(t, cfg.TraceStdout)
	require.Contains(t, cfg.PostgresDSN(), "host=db")
	require.Contains(t, cfg.PostgresDSN(), "password=secret")
}

func TestFromEnvErrors(t *testing.T) {
	for name, m := range map[string]map[string]string{
		"driver":  {"DB_DRIVER": "mysql"},
		"admins":  {"ADMIN_IDS": "1,x"},
		"limit":   {"SUGGEST_LIMIT": "0"},
		"horizon": {"SUGGEST_HORIZON_DAYS": "soon"},
		"trace":   {"TRACE_STDOUT": "maybe"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(env(m))
			require.Error(t, err)
		})
	}
}
