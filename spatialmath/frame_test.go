package spatialmath

import (
	"testing"

	"go.viam.com/test"
)

func closeEnough(t *testing.T, got, want float32) {
	t.Helper()
	const tol = 1e-4
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	test.That(t, diff < tol, test.ShouldBeTrue)
}

func TestRotationTranslationRoundTrip(t *testing.T) {
	m := Rotation3(0.3).Compose(Translation3(10, -5))
	inv := m.Inverse()
	identity := m.Compose(inv)
	want := Identity3()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			closeEnough(t, identity[r][c], want[r][c])
		}
	}
}

func TestIdentityIsNoOp(t *testing.T) {
	v := NewVector3(3.0, -4.0)
	got := Identity3().Mul(v)
	closeEnough(t, got.X(), v.X())
	closeEnough(t, got.Y(), v.Y())
}

func TestComposeAssociative(t *testing.T) {
	a := Rotation3(0.1)
	b := Translation3(1, 2)
	c := Rotation3(-0.4)
	left := a.Compose(b).Compose(c)
	right := a.Compose(b.Compose(c))
	for r := 0; r < 3; r++ {
		for col := 0; col < 3; col++ {
			closeEnough(t, left[r][col], right[r][col])
		}
	}
}

func TestAngleRecoversRotation(t *testing.T) {
	const angle = 0.42
	m := Rotation3(angle)
	closeEnough(t, m.Angle(), angle)
}
