package math

import (
	m "math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const tol float32 = 1e-4

func assertVec3(t *testing.T, want, got Vec3) {
	t.Helper()
	assert.Truef(t, want.Compare(got, tol), "want %+v, got %+v", want, got)
}

func TestVec3Basics(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	assert.Equal(t, NewVec3(5, -3, 9), a.Add(b))
	assert.Equal(t, NewVec3(-3, 7, -3), a.Sub(b))
	assert.Equal(t, NewVec3(2, 4, 6), a.MulScalar(2))
	assert.Equal(t, float32(4-10+18), a.Dot(b))
	assert.Equal(t, NewVec3(1, -5, 3), a.Min(b))
	assert.Equal(t, NewVec3(4, 2, 6), a.Max(b))
	assertVec3(t, NewVec3(0, 0, 1), NewVec3Right().Cross(NewVec3Up()))
	assert.InDelta(t, 5.0, NewVec3(3, 4, 0).Length(), 1e-6)
}

func TestVec3Normalize(t *testing.T) {
	assertVec3(t, NewVec3(0.6, 0.8, 0), NewVec3(3, 4, 0).Normalize())
	assert.Equal(t, NewVec3Zero(), NewVec3Zero().Normalize())

	fallback := NewVec3Up()
	assert.Equal(t, fallback, NewVec3Zero().NormalizeOr(fallback))
	assert.Equal(t, fallback, NewVec3(float32(m.NaN()), 0, 0).NormalizeOr(fallback))
	assertVec3(t, NewVec3(0, 0, -1), NewVec3(0, 0, -7).NormalizeOr(fallback))
}

func TestVec3Lerp(t *testing.T) {
	a := NewVec3(0, 0, 0)
	b := NewVec3(10, -20, 4)
	assert.Equal(t, a, a.Lerp(b, 0))
	assert.Equal(t, b, a.Lerp(b, 1))
	assertVec3(t, NewVec3(5, -10, 2), a.Lerp(b, 0.5))
}

func TestVec3ProjectOnPlane(t *testing.T) {
	up := NewVec3Up()
	assertVec3(t, NewVec3(3, 0, -2), NewVec3(3, 7, -2).ProjectOnPlane(up))
	assertVec3(t, NewVec3Zero(), NewVec3(0, 5, 0).ProjectOnPlane(up))

	tilted := NewVec3(1, 1, 0).Normalize()
	p := NewVec3(2, 5, 3).ProjectOnPlane(tilted)
	assert.InDelta(t, 0, p.Dot(tilted), 1e-5)
}

func TestVec3HasNaN(t *testing.T) {
	assert.False(t, NewVec3(1, 2, 3).HasNaN())
	assert.True(t, NewVec3(1, float32(m.NaN()), 3).HasNaN())
	assert.False(t, IsFinite(m.Inf(1)))
	assert.False(t, IsFinite(m.NaN()))
	assert.True(t, IsFinite(0.25))
}

func TestVec3IsFinite(t *testing.T) {
	assert.True(t, NewVec3(1, -2, 3).IsFinite())
	assert.False(t, NewVec3(float32(m.Inf(1)), 0, 0).IsFinite())
	assert.False(t, NewVec3(0, 0, float32(m.Inf(-1))).IsFinite())
	assert.False(t, NewVec3(0, float32(m.NaN()), 0).IsFinite())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-3, 0, 10))
	assert.Equal(t, 10, Clamp(30, 0, 10))
	assert.Equal(t, float32(0.5), Clamp(float32(0.5), 0, 1))
	assert.InDelta(t, 2.5, Lerp(0.0, 10.0, 0.25), 1e-9)
}

func TestQuatRotate(t *testing.T) {
	q := NewQuatFromAxisAngle(NewVec3Up(), K_HALF_PI, true)
	assertVec3(t, NewVec3(0, 0, -1), q.Rotate(NewVec3Right()))
	assertVec3(t, NewVec3Up(), q.Rotate(NewVec3Up()))

	// Same rotation through the matrix path.
	assertVec3(t, q.Rotate(NewVec3(1, 2, 3)), NewVec3(1, 2, 3).Transform(q.ToMat4()))

	around := q.RotateAround(NewVec3(11, 0, 0), NewVec3(1, 0, 0))
	assertVec3(t, NewVec3(1, 0, -10), around)
}

func TestQuatMulComposes(t *testing.T) {
	a := NewQuatFromAxisAngle(NewVec3Up(), 0.3, true)
	b := NewQuatFromAxisAngle(NewVec3Right(), 1.1, true)
	v := NewVec3(0.5, -2, 4)

	assertVec3(t, a.Rotate(b.Rotate(v)), a.Mul(b).Rotate(v))
	assertVec3(t, v, a.Conjugate().Rotate(a.Rotate(v)))
}

func TestQuatLookAt(t *testing.T) {
	cases := []struct {
		name     string
		position Vec3
		target   Vec3
		up       Vec3
	}{
		{"down -z", NewVec3(0, 0, 10), NewVec3Zero(), NewVec3Up()},
		{"oblique", NewVec3(100, 30, 0), NewVec3Zero(), NewVec3Up()},
		{"z up", NewVec3(5, -5, 5), NewVec3(1, 1, 0), NewVec3(0, 0, 1)},
		{"straight down", NewVec3(0, 10, 0), NewVec3Zero(), NewVec3Up()},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q, ok := NewQuatLookAt(c.position, c.target, c.up)
			assert.True(t, ok)
			assert.InDelta(t, 1.0, q.Normal(), 1e-5)

			wantForward := c.target.Sub(c.position).Normalize()
			assertVec3(t, wantForward, q.Rotate(NewVec3Forward()))

			// Camera right stays level with respect to up.
			if kabs(wantForward.Dot(c.up)) < 0.99 {
				assert.InDelta(t, 0, q.Rotate(NewVec3Right()).Dot(c.up), 1e-4)
				assert.Greater(t, q.Rotate(NewVec3Up()).Dot(c.up), float32(0))
			}
		})
	}

	q, ok := NewQuatLookAt(NewVec3One(), NewVec3One(), NewVec3Up())
	assert.False(t, ok)
	assert.Equal(t, NewQuatIdentity(), q)

	identity, _ := NewQuatLookAt(NewVec3Zero(), NewVec3Forward(), NewVec3Up())
	assert.True(t, identity.Compare(NewQuatIdentity(), tol))
}

func TestMat4LookAtMatchesTransformView(t *testing.T) {
	position := NewVec3(100, 30, 0)
	target := NewVec3Zero()
	q, _ := NewQuatLookAt(position, target, NewVec3Up())

	view := TransformFromPositionRotation(position, q).GetView()
	lookAt := NewMat4LookAt(position, target, NewVec3Up())

	for i := range view.Data {
		assert.InDelta(t, lookAt.Data[i], view.Data[i], 1e-2, "element %d", i)
	}
	inView := target.Transform(view)
	assert.InDelta(t, 0, inView.X, 1e-2)
	assert.InDelta(t, 0, inView.Y, 1e-2)
	assert.InDelta(t, -position.Length(), inView.Z, 1e-2)
}

func TestMat4Mul(t *testing.T) {
	id := NewMat4Identity()
	tr := NewMat4Translation(NewVec3(1, 2, 3))
	assert.Equal(t, tr, id.Mul(tr))
	assert.Equal(t, tr, tr.Mul(id))

	// Scale first, then translate.
	st := NewMat4Scale(NewVec3(2, 2, 2)).Mul(tr)
	assertVec3(t, NewVec3(3, 4, 5), NewVec3One().Transform(st))
}

func TestDegRad(t *testing.T) {
	assert.InDelta(t, K_PI, DegToRad(180), 1e-6)
	assert.InDelta(t, 90, RadToDeg(K_HALF_PI), 1e-4)
}
