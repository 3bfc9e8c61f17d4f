package mesh

import (
	"encoding/binary"
	m "math"

	"github.com/spaghettifunk/anima/engine/math"
)

/** @brief The size in bytes of a packed FlatVertex. */
const FlatVertexSize = 8 * 4

/**
 * @brief A vertex resolved from a face corner: position, normal and
 * texture coordinate.
 */
type FlatVertex struct {
	Position math.Vec3
	Normal   math.Vec3
	Texcoord math.Vec2
}

// vertexKey is the bit pattern of the 8 components.
type vertexKey [8]uint32

func (v FlatVertex) key() vertexKey {
	return vertexKey{
		m.Float32bits(v.Position.X),
		m.Float32bits(v.Position.Y),
		m.Float32bits(v.Position.Z),
		m.Float32bits(v.Normal.X),
		m.Float32bits(v.Normal.Y),
		m.Float32bits(v.Normal.Z),
		m.Float32bits(v.Texcoord.X),
		m.Float32bits(v.Texcoord.Y),
	}
}

// Equal compares all components bit for bit. Unlike ==, +0 and -0 differ
// and a NaN equals an identical NaN.
func (v FlatVertex) Equal(other FlatVertex) bool {
	return v.key() == other.key()
}

// appendBytes packs v little-endian into buf.
func (v FlatVertex) appendBytes(buf []byte) []byte {
	for _, bits := range v.key() {
		buf = binary.LittleEndian.AppendUint32(buf, bits)
	}
	return buf
}
