package mesh

import (
	"github.com/spaghettifunk/anima/engine/core"
	"github.com/spaghettifunk/anima/engine/math"
)

/**
 * @brief An append-only, 0-based list of 3-component attributes. Texcoord
 * pools only use X and Y; Z is always 0.
 */
type AttributePool struct {
	name   string
	values []math.Vec3
}

func NewAttributePool(name string) AttributePool {
	return AttributePool{name: name}
}

func (p *AttributePool) Append(v math.Vec3) {
	p.values = append(p.values, v)
}

// At returns the value at the 0-based index i.
func (p *AttributePool) At(i int) (math.Vec3, bool) {
	if i < 0 || i >= len(p.values) {
		return math.Vec3{}, false
	}
	return p.values[i], true
}

func (p *AttributePool) Len() int {
	return len(p.values)
}

// Name is the attribute name used in error reports.
func (p *AttributePool) Name() string {
	return p.name
}

// check returns an *core.IndexError when i is not populated.
func (p *AttributePool) check(i int) error {
	if i < 0 || i >= len(p.values) {
		return &core.IndexError{Attribute: p.name, Index: i, Len: len(p.values)}
	}
	return nil
}

/** @brief The three attribute pools a face corner indexes into. */
type Attributes struct {
	Positions AttributePool
	Normals   AttributePool
	Texcoords AttributePool
}

func NewAttributes() *Attributes {
	return &Attributes{
		Positions: NewAttributePool("position"),
		Normals:   NewAttributePool("normal"),
		Texcoords: NewAttributePool("texcoord"),
	}
}

// Validate checks that every index of c refers to a populated entry.
func (a *Attributes) Validate(c FaceCorner) error {
	if err := a.Positions.check(c.Position); err != nil {
		return err
	}
	if err := a.Texcoords.check(c.Texcoord); err != nil {
		return err
	}
	return a.Normals.check(c.Normal)
}

// Resolve looks c up in the pools and returns the flattened vertex.
func (a *Attributes) Resolve(c FaceCorner) (FlatVertex, error) {
	if err := a.Validate(c); err != nil {
		return FlatVertex{}, err
	}
	return FlatVertex{
		Position: a.Positions.values[c.Position],
		Normal:   a.Normals.values[c.Normal],
		Texcoord: a.Texcoords.values[c.Texcoord].XY(),
	}, nil
}

/**
 * @brief One corner of a face: 0-based indices into the position, normal
 * and texcoord pools.
 */
type FaceCorner struct {
	Position int
	Normal   int
	Texcoord int
}

// WeakMatch reports whether both corners share a position index.
func (c FaceCorner) WeakMatch(other FaceCorner) bool {
	return c.Position == other.Position
}

// StrongMatch reports whether all three indices agree.
func (c FaceCorner) StrongMatch(other FaceCorner) bool {
	return c == other
}
