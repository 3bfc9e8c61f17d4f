package metadata

import "fmt"

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Not a resource the engine knows how to load. */
	ResourceTypeNone ResourceType = iota
	/** @brief Mesh resource type (welded geometry built from a model file). */
	ResourceTypeMesh
)

func (rt ResourceType) String() string {
	switch rt {
	case ResourceTypeNone:
		return "none"
	case ResourceTypeMesh:
		return "mesh"
	default:
		return fmt.Sprintf("resource(%d)", int(rt))
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource. */
	Name string
	/** @brief The type of the resource. */
	Type ResourceType
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}
