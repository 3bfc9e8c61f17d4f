package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spaghettifunk/anima/engine/core"
	"github.com/spaghettifunk/anima/engine/mesh"
	"github.com/spaghettifunk/anima/engine/renderer/metadata"
)

/**
 * @brief Loads .obj files into welded geometry with adjacency.
 */
type ModelLoader struct {
	Strategy mesh.WeldStrategy
	// KeepGraph retains the attribute pools and triangle graph in
	// GeometryConfig.Source.
	KeepGraph bool
	// StripAdjacency emits a plain triangle list for backends without
	// adjacency support.
	StripAdjacency bool
}

func NewModelLoader(strategy mesh.WeldStrategy, keepGraph bool) *ModelLoader {
	return &ModelLoader{
		Strategy:  strategy,
		KeepGraph: keepGraph,
	}
}

// Load reads the model at path. params may be a map[string]string with a
// "name" entry; otherwise the file name without extension is used.
func (ml *ModelLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	if assetType != metadata.ResourceTypeMesh {
		return nil, fmt.Errorf("model loader cannot load resource type %s", assetType)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if p, ok := params.(map[string]string); ok && p["name"] != "" {
		name = p["name"]
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	clock := core.NewClock()
	clock.Start()

	attrs, graph, err := ParseOBJ(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	parsed := clock.Lap()

	out, err := mesh.Weld(graph, attrs, ml.Strategy)
	if err != nil {
		return nil, fmt.Errorf("failed to weld %s: %w", path, err)
	}
	if ml.StripAdjacency {
		out = out.WithoutAdjacency()
	}
	welded := clock.Lap()

	stats := graph.Stats()
	core.LogDebug("model '%s': %d triangles, %d links, %d seams, %d vertices, %d indices (parse %s, weld %s)",
		name, graph.Len(), stats.StrongMatches, stats.SeamMatches, len(out.Vertices), len(out.Indices), parsed, welded)

	cfg := metadata.NewGeometryConfig(name, out)
	if ml.KeepGraph {
		cfg.Source = &metadata.MeshData{
			Attributes: attrs,
			Graph:      graph,
		}
	}

	return &metadata.Resource{
		Name:     name,
		Type:     metadata.ResourceTypeMesh,
		FullPath: path,
		DataSize: cfg.DataSize(),
		Data:     cfg,
	}, nil
}

func (ml *ModelLoader) Unload(resource *metadata.Resource) error {
	if resource == nil {
		return fmt.Errorf("cannot unload a nil resource")
	}
	resource.Data = nil
	resource.DataSize = 0
	return nil
}

// Reweld rebuilds the buffers of a config from its retained source data,
// typically after triangles were removed from the graph.
func (ml *ModelLoader) Reweld(cfg *metadata.GeometryConfig) (*metadata.GeometryConfig, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("geometry '%s' has no source data to reweld", cfg.Name)
	}
	out, err := mesh.Weld(cfg.Source.Graph, cfg.Source.Attributes, ml.Strategy)
	if err != nil {
		return nil, err
	}
	if ml.StripAdjacency {
		out = out.WithoutAdjacency()
	}
	next := metadata.NewGeometryConfig(cfg.Name, out)
	next.Source = cfg.Source
	return next, nil
}
