package math

import "golang.org/x/image/math/f32"

// Conversions to the plain array types of golang.org/x/image/math/f32, which
// is what host renderers and image tooling usually accept.

func (v Vec3) ToF32() f32.Vec3 {
	return f32.Vec3{v.X, v.Y, v.Z}
}

func Vec3FromF32(v f32.Vec3) Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// ToF32 returns the quaternion as {x, y, z, w}.
func (q Quaternion) ToF32() f32.Vec4 {
	return f32.Vec4{q.X, q.Y, q.Z, q.W}
}

// ToF32 copies the elements unchanged. f32.Mat4 is indexed m[4*r+c], so
// the row of the result holding the translation is the last one, matching
// the row-vector layout of Mat4.
func (mt Mat4) ToF32() f32.Mat4 {
	return f32.Mat4(mt.Data)
}
