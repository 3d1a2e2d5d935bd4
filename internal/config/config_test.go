package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, conf *Config)
	}{
		{
			name:    "defaults",
			content: "env: local\n",
			check: func(t *testing.T, conf *Config) {
				assert.Equal(t, "8080", conf.Listen.Port)
				assert.Equal(t, "admin", conf.Auth.Username)
				assert.Equal(t, "admin123", conf.Auth.Password)
				assert.Equal(t, "file", conf.Storage.Driver)
				assert.Equal(t, 256, conf.QR.Size)
				assert.False(t, conf.Telegram.Enabled)
			},
		},
		{
			name: "overrides",
			content: `env: prod
listen:
  port: "9000"
storage:
  driver: mongo
mongo:
  enabled: true
  database: graduation
telegram:
  admin_ids: [10, 20]
`,
			check: func(t *testing.T, conf *Config) {
				assert.Equal(t, "prod", conf.Env)
				assert.Equal(t, "9000", conf.Listen.Port)
				assert.Equal(t, "mongo", conf.Storage.Driver)
				assert.True(t, conf.Mongo.Enabled)
				assert.Equal(t, "graduation", conf.Mongo.Database)
				assert.Equal(t, []int64{10, 20}, conf.Telegram.AdminIds)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			conf, err := Load(path)
			require.NoError(t, err)
			tt.check(t, conf)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
