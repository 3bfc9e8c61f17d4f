package systems

import (
	"testing"

	"github.com/spaghettifunk/anima/engine/core"
	"github.com/spaghettifunk/anima/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemManagerLifecycle(t *testing.T) {
	dir := writeAssets(t, map[string]string{
		"models/quad.obj": quadOBJ,
	})

	cfg := core.DefaultConfig()
	cfg.Assets.BasePath = dir
	cfg.Weld.Strategy = "linear"
	cfg.Weld.KeepGraph = true

	sm, err := NewSystemManager(cfg)
	require.NoError(t, err)
	require.NoError(t, sm.Initialize())

	assert.Len(t, sm.AssetManager.Assets(metadata.ResourceTypeMesh), 1)

	m, err := sm.MeshLoaderSystem.Load("quad")
	require.NoError(t, err)
	require.NotNil(t, m.Geometry.Source)
	assert.Equal(t, 2, m.Geometry.Source.Graph.Len())

	require.NoError(t, sm.Shutdown())
}

func TestSystemManagerInvalidConfig(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Jobs.Workers = 0
	_, err := NewSystemManager(cfg)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}
