package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(*testing.T, *Config)
	}{
		{
			name: "default configuration",
			envVars: map[string]string{
				"ENVIRONMENT":      "development",
				"OAUTH_MASTER_KEY": "c2VjcmV0LW1hc3Rlci1rZXk=",
			},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "development", cfg.Environment)
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "https://api.identity-plane.dev/oauth", cfg.OAuth.GrantTypeNamespace)
				assert.Equal(t, 24*time.Hour, cfg.OAuth.SessionTTL)
				assert.Equal(t, time.Hour, cfg.OAuth.TicketTTL)
			},
		},
		{
			name: "missing master key fails in development",
			envVars: map[string]string{
				"ENVIRONMENT": "development",
			},
			wantErr: true,
		},
		{
			name: "missing master key fails in production",
			envVars: map[string]string{
				"ENVIRONMENT": "production",
				"DB_HOST":     "prod-db.example.com",
			},
			wantErr: true,
		},
		{
			name: "production with master key",
			envVars: map[string]string{
				"ENVIRONMENT":      "production",
				"DB_HOST":          "prod-db.example.com",
				"OAUTH_MASTER_KEY": "c2VjcmV0LW1hc3Rlci1rZXk=",
			},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.IsProduction())
				assert.False(t, cfg.IsDevelopment())
				assert.NotEmpty(t, cfg.OAuth.MasterKey)
			},
		},
		{
			name: "namespace trailing slash is trimmed",
			envVars: map[string]string{
				"OAUTH_GRANT_TYPE_NAMESPACE": "https://id.example.com/oauth/",
				"OAUTH_MASTER_KEY":           "c2VjcmV0LW1hc3Rlci1rZXk=",
			},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://id.example.com/oauth", cfg.OAuth.GrantTypeNamespace)
			},
		},
		{
			name: "custom timeouts and pool settings",
			envVars: map[string]string{
				"SERVER_READ_TIMEOUT": "60s",
				"DB_MAX_OPEN_CONNS":   "50",
				"OAUTH_SESSION_TTL":   "2h",
				"OAUTH_MASTER_KEY":    "c2VjcmV0LW1hc3Rlci1rZXk=",
			},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 50, cfg.Database.MaxOpenConns)
				assert.Equal(t, 2*time.Hour, cfg.OAuth.SessionTTL)
			},
		},
		{
			name: "DATABASE_URL takes precedence",
			envVars: map[string]string{
				"DATABASE_URL":     "postgres://u:p@db.example.com:5433/identity",
				"OAUTH_MASTER_KEY": "c2VjcmV0LW1hc3Rlci1rZXk=",
			},
			wantErr: false,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "postgres://u:p@db.example.com:5433/identity", cfg.Database.DSN())
				assert.NotContains(t, cfg.Database.LogString(), "p@")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			os.Clearenv()
			for k, v := range tc.envVars {
				t.Setenv(k, v)
			}

			cfg, err := New()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			if tc.check != nil {
				tc.check(t, cfg)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "identity",
		Password: "secret",
		Database: "identity",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=identity")
	assert.NotContains(t, cfg.LogString(), "secret")
}

func TestServerConfig_Address(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 9090}
	assert.Equal(t, "127.0.0.1:9090", cfg.Address())
}
