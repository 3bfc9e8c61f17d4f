package systems

import (
	"github.com/spaghettifunk/anima/engine/assets"
	"github.com/spaghettifunk/anima/engine/assets/loaders"
	"github.com/spaghettifunk/anima/engine/core"
	"github.com/spaghettifunk/anima/engine/math"
	"github.com/spaghettifunk/anima/engine/mesh"
	"github.com/spaghettifunk/anima/engine/renderer/metadata"
)

const maxJobWorkers = 64

type SystemManager struct {
	config *core.Config

	AssetManager     *assets.AssetManager
	JobSystem        *JobSystem
	MeshLoaderSystem *MeshLoaderSystem
}

func NewSystemManager(config *core.Config) (*SystemManager, error) {
	if config == nil {
		config = core.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		return nil, err
	}
	js, err := NewJobSystem(math.Clamp(config.Jobs.Workers, 1, maxJobWorkers), config.Jobs.QueueSize)
	if err != nil {
		return nil, err
	}
	mls, err := NewMeshLoaderSystem(am, js)
	if err != nil {
		return nil, err
	}

	return &SystemManager{
		config:           config,
		AssetManager:     am,
		JobSystem:        js,
		MeshLoaderSystem: mls,
	}, nil
}

// Initialize indexes the asset directory and registers the model loader.
func (sm *SystemManager) Initialize() error {
	if err := core.SetLogLevel(sm.config.Log.Level); err != nil {
		return err
	}

	strategy, err := mesh.ParseWeldStrategy(sm.config.Weld.Strategy)
	if err != nil {
		return err
	}
	loader := loaders.NewModelLoader(strategy, sm.config.Weld.KeepGraph)
	loader.StripAdjacency = sm.config.Weld.StripAdjacency
	sm.AssetManager.RegisterLoader(metadata.ResourceTypeMesh, loader)

	if err := sm.AssetManager.Initialize(sm.config.Assets.BasePath, sm.config.Assets.Watch); err != nil {
		return err
	}
	if sm.config.Assets.Watch {
		sm.AssetManager.OnChange(sm.MeshLoaderSystem.OnAssetChanged)
	}

	core.LogDebug("Systems initialized: %d job workers, weld strategy '%s'.", sm.JobSystem.numWorkers, strategy)
	return nil
}

func (sm *SystemManager) Shutdown() error {
	if err := sm.AssetManager.Shutdown(); err != nil {
		return err
	}
	if err := sm.JobSystem.Shutdown(); err != nil {
		return err
	}
	if err := sm.MeshLoaderSystem.Shutdown(); err != nil {
		return err
	}
	return nil
}
