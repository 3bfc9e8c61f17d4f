package systems

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/anima/engine/assets"
	"github.com/spaghettifunk/anima/engine/core"
	"github.com/spaghettifunk/anima/engine/renderer/metadata"
)

// MeshLoadCallback receives the outcome of an asynchronous load.
type MeshLoadCallback func(mesh *metadata.Mesh, err error)

type MeshLoaderSystem struct {
	assetManager *assets.AssetManager
	jobSystem    *JobSystem
	metrics      *core.Metrics

	mutex  sync.RWMutex
	meshes map[string]*metadata.Mesh
}

func NewMeshLoaderSystem(am *assets.AssetManager, js *JobSystem) (*MeshLoaderSystem, error) {
	if am == nil {
		return nil, fmt.Errorf("mesh loader system requires an asset manager")
	}
	return &MeshLoaderSystem{
		assetManager: am,
		jobSystem:    js,
		metrics:      core.NewMetrics(),
		meshes:       make(map[string]*metadata.Mesh),
	}, nil
}

func (mls *MeshLoaderSystem) Shutdown() error {
	mls.mutex.Lock()
	defer mls.mutex.Unlock()
	mls.meshes = make(map[string]*metadata.Mesh)
	return nil
}

func (mls *MeshLoaderSystem) Metrics() *core.Metrics {
	return mls.metrics
}

// Get returns a mesh that finished loading.
func (mls *MeshLoaderSystem) Get(name string) (*metadata.Mesh, bool) {
	mls.mutex.RLock()
	defer mls.mutex.RUnlock()
	m, ok := mls.meshes[name]
	return m, ok
}

// Load parses and welds the named mesh on the calling goroutine.
func (mls *MeshLoaderSystem) Load(name string) (*metadata.Mesh, error) {
	params := &metadata.MeshLoadParams{
		ResourceName: name,
		OutMesh:      mls.meshFor(name),
	}
	result, err := mls.meshLoadJobStart(params)
	if err != nil {
		mls.meshLoadJobFail(params, err)
		return nil, err
	}
	return mls.meshLoadJobSuccess(result)
}

// LoadAsync queues the load on the job system; done is called from a worker.
func (mls *MeshLoaderSystem) LoadAsync(name string, done MeshLoadCallback) error {
	if mls.jobSystem == nil {
		return fmt.Errorf("mesh loader system has no job system")
	}
	params := &metadata.MeshLoadParams{
		ResourceName: name,
		OutMesh:      mls.meshFor(name),
	}
	return mls.jobSystem.Submit(metadata.JobTask{
		InputParams: params,
		OnStart:     mls.meshLoadJobStart,
		OnComplete: func(result interface{}) {
			m, err := mls.meshLoadJobSuccess(result)
			if done != nil {
				done(m, err)
			}
		},
		OnFailure: func(p interface{}, err error) {
			mls.meshLoadJobFail(p, err)
			if done != nil {
				done(nil, err)
			}
		},
	})
}

// Unload forgets the named mesh.
func (mls *MeshLoaderSystem) Unload(name string) bool {
	mls.mutex.Lock()
	defer mls.mutex.Unlock()
	_, ok := mls.meshes[name]
	delete(mls.meshes, name)
	return ok
}

// OnAssetChanged reloads an already loaded mesh whose file changed on disk.
// A failed reload keeps the previous geometry.
func (mls *MeshLoaderSystem) OnAssetChanged(info assets.AssetInfo, op fsnotify.Op) {
	if info.Type != metadata.ResourceTypeMesh || op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	// meshes are registered under whatever name they were loaded by
	name := info.Path
	if _, ok := mls.Get(name); !ok {
		name = info.Name()
		if _, ok := mls.Get(name); !ok {
			return
		}
	}
	core.LogInfo("Mesh '%s' changed on disk, reloading.", name)
	if err := mls.LoadAsync(name, nil); err != nil {
		core.LogWarn("Unable to queue reload of '%s': %s", name, err)
	}
}

// meshFor returns the registered mesh for name or a new one. It only
// supplies the identity of the mesh; published meshes are never modified.
func (mls *MeshLoaderSystem) meshFor(name string) *metadata.Mesh {
	if m, ok := mls.Get(name); ok {
		return m
	}
	return metadata.NewMesh(name)
}

/**
 * @brief Called when the job completes successfully. Publishes a new mesh
 * value that keeps the UniqueID of the one it replaces, so callers holding
 * the previous mesh keep reading a consistent snapshot.
 *
 * @param params The parameters passed from the job after completion.
 * @return The published mesh.
 */
func (mls *MeshLoaderSystem) meshLoadJobSuccess(params interface{}) (*metadata.Mesh, error) {
	meshParams, ok := params.(*metadata.MeshLoadParams)
	if !ok {
		err := fmt.Errorf("failed to cast params to `*metadata.MeshLoadParams`")
		core.LogError(err.Error())
		return nil, err
	}

	cfg, ok := meshParams.MeshResource.Data.(*metadata.GeometryConfig)
	if !ok {
		err := fmt.Errorf("resource '%s' does not hold geometry", meshParams.ResourceName)
		core.LogError(err.Error())
		return nil, err
	}

	mls.mutex.Lock()
	base := meshParams.OutMesh
	if prev, ok := mls.meshes[meshParams.ResourceName]; ok {
		base = prev
	}
	published := base.WithGeometry(cfg)
	mls.meshes[meshParams.ResourceName] = published
	mls.mutex.Unlock()

	core.LogDebug("Successfully loaded mesh '%s' generation %d (%d vertices, %d indices).", meshParams.ResourceName, published.Generation, cfg.VertexCount, cfg.IndexCount)

	return published, mls.assetManager.UnloadAsset(meshParams.MeshResource)
}

/**
 * @brief Called when the job fails.
 *
 * @param params Parameters passed when a job fails.
 */
func (mls *MeshLoaderSystem) meshLoadJobFail(params interface{}, err error) {
	mls.metrics.RecordFailure()
	meshParams, ok := params.(*metadata.MeshLoadParams)
	if !ok {
		core.LogError("Failed to load mesh: %s", err)
		return
	}
	core.LogError("Failed to load mesh '%s': %s", meshParams.ResourceName, err)
}

/**
 * @brief Called when a mesh loading job begins.
 *
 * @param params Mesh loading parameters.
 * @return The same parameters with MeshResource set.
 */
func (mls *MeshLoaderSystem) meshLoadJobStart(params interface{}) (interface{}, error) {
	loadParams, ok := params.(*metadata.MeshLoadParams)
	if !ok {
		err := fmt.Errorf("failed to cast params to `*metadata.MeshLoadParams`")
		core.LogError(err.Error())
		return nil, err
	}

	clock := core.NewClock()
	clock.Start()
	res, err := mls.assetManager.LoadAsset(loadParams.ResourceName, metadata.ResourceTypeMesh, map[string]string{"name": loadParams.ResourceName})
	if err != nil {
		return nil, err
	}
	clock.Stop()
	mls.metrics.Record(clock.Elapsed())

	loadParams.MeshResource = res
	return loadParams, nil
}
