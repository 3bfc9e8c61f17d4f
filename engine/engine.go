package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spaghettifunk/anima/engine/assets/loaders"
	"github.com/spaghettifunk/anima/engine/core"
	"github.com/spaghettifunk/anima/engine/mesh"
	"github.com/spaghettifunk/anima/engine/renderer/metadata"
	"github.com/spaghettifunk/anima/engine/systems"
	"golang.org/x/exp/slices"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

/**
 * @brief Summary of one loaded mesh.
 */
type Report struct {
	Name      string
	Topology  mesh.Topology
	Triangles int
	Vertices  int
	Indices   int
	Center    string
}

func newReport(cfg *metadata.GeometryConfig) Report {
	triangles := 0
	if n := cfg.Topology.IndicesPerPrimitive(); n > 0 {
		triangles = int(cfg.IndexCount) / n
	}
	return Report{
		Name:      cfg.Name,
		Topology:  cfg.Topology,
		Triangles: triangles,
		Vertices:  int(cfg.VertexCount),
		Indices:   int(cfg.IndexCount),
		Center:    fmt.Sprintf("[%.3f, %.3f, %.3f]", cfg.Center.X, cfg.Center.Y, cfg.Center.Z),
	}
}

type Engine struct {
	config        *core.Config
	currentStage  Stage
	systemManager *systems.SystemManager
	clock         *core.Clock
}

func New(config *core.Config) (*Engine, error) {
	if config == nil {
		config = core.DefaultConfig()
	}
	sm, err := systems.NewSystemManager(config)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		config:        config,
		currentStage:  EngineStageUninitialized,
		systemManager: sm,
		clock:         core.NewClock(),
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing
	if err := e.systemManager.Initialize(); err != nil {
		return err
	}
	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

func (e *Engine) Systems() *systems.SystemManager {
	return e.systemManager
}

// LoadFiles loads models from arbitrary paths, outside the asset directory.
// All files are attempted; the first error is returned.
func (e *Engine) LoadFiles(paths []string) ([]Report, error) {
	strategy, err := mesh.ParseWeldStrategy(e.config.Weld.Strategy)
	if err != nil {
		return nil, err
	}
	loader := loaders.NewModelLoader(strategy, false)
	loader.StripAdjacency = e.config.Weld.StripAdjacency

	var (
		reports  []Report
		firstErr error
	)
	for _, path := range paths {
		e.clock.Start()
		res, err := loader.Load(path, metadata.ResourceTypeMesh, nil)
		if err != nil {
			core.LogError("Failed to load '%s': %s", path, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		e.clock.Stop()
		cfg := res.Data.(*metadata.GeometryConfig)
		reports = append(reports, newReport(cfg))
		core.LogDebug("Loaded '%s' in %s.", path, e.clock.Elapsed())
		if err := loader.Unload(res); err != nil {
			return reports, err
		}
	}
	return reports, firstErr
}

// LoadAssets loads every mesh in the asset directory on the job system and
// waits for all of them.
func (e *Engine) LoadAssets() ([]Report, error) {
	mls := e.systemManager.MeshLoaderSystem
	infos := e.systemManager.AssetManager.Assets(metadata.ResourceTypeMesh)

	var (
		mutex    sync.Mutex
		wg       sync.WaitGroup
		reports  []Report
		firstErr error
	)
	for _, info := range infos {
		wg.Add(1)
		err := mls.LoadAsync(info.Path, func(m *metadata.Mesh, err error) {
			defer wg.Done()
			mutex.Lock()
			defer mutex.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			reports = append(reports, newReport(m.Geometry))
		})
		if err != nil {
			wg.Done()
			return nil, err
		}
	}
	wg.Wait()
	slices.SortFunc(reports, func(a, b Report) int {
		return strings.Compare(a.Name, b.Name)
	})

	core.LogInfo("Loaded %d of %d meshes, average load time %s.", len(reports), len(infos), mls.Metrics().Average())
	return reports, firstErr
}

// Run blocks until ctx is done. Watched assets keep reloading meanwhile.
func (e *Engine) Run(ctx context.Context) error {
	e.currentStage = EngineStageRunning
	if !e.config.Assets.Watch {
		return nil
	}
	core.LogInfo("Watching '%s' for changes.", e.config.Assets.BasePath)
	<-ctx.Done()
	return nil
}

func (e *Engine) Shutdown() error {
	e.currentStage = EngineStageShuttingDown
	if err := e.systemManager.Shutdown(); err != nil {
		return err
	}
	e.currentStage = EngineStageUninitialized
	return nil
}
