package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "hashed", cfg.Weld.Strategy)
	assert.Equal(t, 2, cfg.Jobs.Workers)
}

func TestParseConfigKeepsDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
[weld]
strategy = "linear"
keep_graph = true
strip_adjacency = true

[jobs]
workers = 8
`))
	require.NoError(t, err)
	assert.Equal(t, "linear", cfg.Weld.Strategy)
	assert.True(t, cfg.Weld.KeepGraph)
	assert.True(t, cfg.Weld.StripAdjacency)
	assert.Equal(t, 8, cfg.Jobs.Workers)
	assert.Equal(t, 16, cfg.Jobs.QueueSize)
	assert.Equal(t, "assets", cfg.Assets.BasePath)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestParseConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"log level", "[log]\nlevel = \"loud\"\n"},
		{"workers", "[jobs]\nworkers = 0\n"},
		{"queue size", "[jobs]\nqueue_size = -1\n"},
		{"strategy", "[weld]\nstrategy = \"octree\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := ParseConfig([]byte("[jobs\nworkers = 1"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anima.toml")
	require.NoError(t, os.WriteFile(path, []byte("[assets]\nbase_path = \"models\"\nwatch = true\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "models", cfg.Assets.BasePath)
	assert.True(t, cfg.Assets.Watch)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigEncodeRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weld.Strategy = "linear"
	cfg.Jobs.QueueSize = 4

	data, err := cfg.Encode()
	require.NoError(t, err)

	decoded, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, decoded)
}
