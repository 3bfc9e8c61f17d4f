package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtentsOf(t *testing.T) {
	assert.Equal(t, Extents3D{}, ExtentsOf(nil))

	ext := ExtentsOf([]Vec3{
		NewVec3(1, -2, 0.5),
		NewVec3(-1, 4, 0),
		NewVec3(0, 0, 2),
	})
	assert.Equal(t, NewVec3(-1, -2, 0), ext.Min)
	assert.Equal(t, NewVec3(1, 4, 2), ext.Max)
	assert.Equal(t, NewVec3(0, 1, 1), ext.Center())
	assert.Equal(t, NewVec3(2, 6, 2), ext.Size())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(0, 1, 64))
	assert.Equal(t, 64, Clamp(100, 1, 64))
	assert.Equal(t, 8, Clamp(8, 1, 64))
	assert.Equal(t, float32(0.5), Clamp(float32(0.5), 0, 1))
}

func TestVec3XY(t *testing.T) {
	v := NewVec3(0.25, 0.75, 9)
	assert.Equal(t, NewVec2(0.25, 0.75), v.XY())
}
