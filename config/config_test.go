package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvProvider(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("TEST_STRING", "hello")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BOOL", "true")

	p := NewEnvProvider("")
	ctx := context.Background()

	s, err := p.GetString(ctx, "TEST_STRING")
	assert.NoError(t, err)
	assert.Equal(t, "hello", s)

	i, err := p.GetInt(ctx, "TEST_INT")
	assert.NoError(t, err)
	assert.Equal(t, 42, i)

	b, err := p.GetBool(ctx, "TEST_BOOL")
	assert.NoError(t, err)
	assert.True(t, b)

	_, err = p.GetString(ctx, "TEST_MISSING")
	assert.Error(t, err)

	assert.Equal(t, Development, p.GetEnvironment())
}

func TestEnvProviderPrefix(t *testing.T) {
	t.Setenv("APP_TEST_KEY", "prefixed")

	p := NewEnvProvider("APP_")
	value, err := p.GetString(context.Background(), "TEST_KEY")
	assert.NoError(t, err)
	assert.Equal(t, "prefixed", value)
}

func validConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     5432,
		User:     "app",
		Password: "secret",
		DBName:   "pathtree",
		SSLMode:  "disable",
	}
}

func TestDatabaseConfigValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate(Development))

	testCases := []struct {
		name   string
		mutate func(*DatabaseConfig)
		field  string
	}{
		{name: "Empty host", mutate: func(c *DatabaseConfig) { c.Host = "" }, field: "Host"},
		{name: "Bad port", mutate: func(c *DatabaseConfig) { c.Port = 0 }, field: "Port"},
		{name: "Port too large", mutate: func(c *DatabaseConfig) { c.Port = 70000 }, field: "Port"},
		{name: "Empty user", mutate: func(c *DatabaseConfig) { c.User = "" }, field: "User"},
		{name: "Empty password", mutate: func(c *DatabaseConfig) { c.Password = "" }, field: "Password"},
		{name: "Empty db name", mutate: func(c *DatabaseConfig) { c.DBName = "" }, field: "DBName"},
		{name: "Bad db name", mutate: func(c *DatabaseConfig) { c.DBName = "1bad" }, field: "DBName"},
		{name: "Bad ssl mode", mutate: func(c *DatabaseConfig) { c.SSLMode = "maybe" }, field: "SSLMode"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate(Development)
			assert.Error(t, err)

			var vErr *ValidationError
			assert.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestDatabaseConfigProductionRules(t *testing.T) {
	// Weak password rejected in production only
	cfg := validConfig()
	cfg.SSLMode = "require"
	assert.NoError(t, cfg.Validate(Development))
	assert.Error(t, cfg.Validate(Production))

	cfg.Password = "Str0ng&LongEnough!"
	assert.NoError(t, cfg.Validate(Production))

	// SSL cannot be disabled in production
	cfg.SSLMode = "disable"
	assert.Error(t, cfg.Validate(Production))
}

func TestGetDatabaseConfig(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "pathtree")
	t.Setenv("DB_SSLMODE", "disable")

	cfg, err := GetDatabaseConfig(context.Background(), NewEnvProvider(""))
	assert.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "pathtree", cfg.DBName)
}

func TestGetDatabaseConfigMissingKeys(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	_, err := GetDatabaseConfig(context.Background(), NewEnvProvider("UNSET_"))
	assert.Error(t, err)
}
