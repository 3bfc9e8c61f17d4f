package math

// ExtentsOf returns the axis-aligned bounds of the given points. The zero
// Extents3D is returned for an empty slice.
func ExtentsOf(points []Vec3) Extents3D {
	if len(points) == 0 {
		return Extents3D{}
	}
	ext := Extents3D{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		ext.Min = ext.Min.Min(p)
		ext.Max = ext.Max.Max(p)
	}
	return ext
}

// Center returns the midpoint of the extents.
func (e Extents3D) Center() Vec3 {
	return e.Min.Add(e.Max).MulScalar(0.5)
}

// Size returns the length of the extents along each axis.
func (e Extents3D) Size() Vec3 {
	return e.Max.Sub(e.Min)
}
