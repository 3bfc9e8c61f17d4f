package metadata

import (
	"github.com/google/uuid"
)

// Also used as result_data from job.
type MeshLoadParams struct {
	ResourceName string
	OutMesh      *Mesh
	MeshResource *Resource
}

/**
 * @brief A loaded mesh. A Mesh is not modified once it has been handed out;
 * a reload produces a new Mesh with the same UniqueID and a higher
 * Generation.
 */
type Mesh struct {
	UniqueID uuid.UUID
	Name     string
	/** @brief Incremented every time the geometry is (re)loaded. */
	Generation uint32
	Geometry   *GeometryConfig
}

func NewMesh(name string) *Mesh {
	return &Mesh{
		UniqueID: uuid.New(),
		Name:     name,
	}
}

// WithGeometry returns a copy of m holding cfg, one generation later.
func (m *Mesh) WithGeometry(cfg *GeometryConfig) *Mesh {
	return &Mesh{
		UniqueID:   m.UniqueID,
		Name:       m.Name,
		Generation: m.Generation + 1,
		Geometry:   cfg,
	}
}
