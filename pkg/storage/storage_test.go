package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig_applyDefaults(t *testing.T) {
	t.Parallel()

	t.Run("empty config gets defaults", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{}
		cfg.applyDefaults()

		require.Equal(t, DefaultRegion, cfg.Region)
		require.Equal(t, DefaultPrefix, cfg.Prefix)
		require.Equal(t, ACLPublicRead, cfg.DefaultACL)
	})

	t.Run("existing values preserved", func(t *testing.T) {
		t.Parallel()
		cfg := &Config{Region: "eu-west-1", Prefix: "mail", DefaultACL: ACLPrivate}
		cfg.applyDefaults()

		require.Equal(t, "eu-west-1", cfg.Region)
		require.Equal(t, "mail", cfg.Prefix)
		require.Equal(t, ACLPrivate, cfg.DefaultACL)
	})
}

func TestConfig_validate(t *testing.T) {
	t.Parallel()

	valid := Config{Bucket: "b", AccessKey: "a", SecretKey: "s", DefaultACL: ACLPrivate}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing bucket", mutate: func(c *Config) { c.Bucket = "" }, wantErr: "bucket is required"},
		{name: "missing access key", mutate: func(c *Config) { c.AccessKey = "" }, wantErr: "access key is required"},
		{name: "missing secret key", mutate: func(c *Config) { c.SecretKey = "" }, wantErr: "secret key is required"},
		{name: "unknown acl", mutate: func(c *Config) { c.DefaultACL = "authenticated-read" }, wantErr: "unknown default acl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidConfig)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfig_Enabled(t *testing.T) {
	t.Parallel()

	require.False(t, Config{}.Enabled())
	require.True(t, Config{Bucket: "b"}.Enabled())
}
