package math

/**
 * @brief Creates extents spanning a and b. The corners may be given in any
 * order; the result holds the component-wise minimum and maximum.
 */
func NewExtents3D(a, b Vec3) Extents3D {
	return Extents3D{Min: a.Min(b), Max: a.Max(b)}
}

/**
 * @brief Creates extents covering every finite float32 position.
 */
func NewExtents3DUnbounded() Extents3D {
	return Extents3D{
		Min: Vec3{-K_FLOAT_MAX, -K_FLOAT_MAX, -K_FLOAT_MAX},
		Max: Vec3{K_FLOAT_MAX, K_FLOAT_MAX, K_FLOAT_MAX},
	}
}

/**
 * @brief Returns v with every component clamped into [Min, Max].
 */
func (e Extents3D) Clamp(v Vec3) Vec3 {
	return Vec3{
		X: Clamp(v.X, e.Min.X, e.Max.X),
		Y: Clamp(v.Y, e.Min.Y, e.Max.Y),
		Z: Clamp(v.Z, e.Min.Z, e.Max.Z),
	}
}

/**
 * @brief Reports whether v lies inside the extents, boundary included.
 */
func (e Extents3D) Contains(v Vec3) bool {
	return v.X >= e.Min.X && v.X <= e.Max.X &&
		v.Y >= e.Min.Y && v.Y <= e.Max.Y &&
		v.Z >= e.Min.Z && v.Z <= e.Max.Z
}

/**
 * @brief Returns the center point of the extents.
 */
func (e Extents3D) Center() Vec3 {
	return e.Min.Add(e.Max).MulScalar(0.5)
}

/**
 * @brief Reports whether Min <= Max on every axis and no component is NaN.
 */
func (e Extents3D) IsValid() bool {
	if e.Min.HasNaN() || e.Max.HasNaN() {
		return false
	}
	return e.Min.X <= e.Max.X && e.Min.Y <= e.Max.Y && e.Min.Z <= e.Max.Z
}
