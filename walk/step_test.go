package walk

import (
	"testing"

	"go.viam.com/test"

	"github.com/bowdoin-robotics/biped/gait"
)

func TestEllipseClipLeavesInsideVectorUnchanged(t *testing.T) {
	g := gait.Default()
	v := WalkVector{X: 5, Y: 2, Theta: 0.01}
	clipped := ellipseClipVelocities(v, g.Step)
	test.That(t, clipped, test.ShouldResemble, v)
}

func TestEllipseClipScalesOutsideVectorUniformly(t *testing.T) {
	g := gait.Default()
	v := WalkVector{X: g.Step.MaxStepLengthXMM * 2, Y: 0, Theta: 0}
	clipped := ellipseClipVelocities(v, g.Step)
	test.That(t, clipped.X, test.ShouldAlmostEqual, g.Step.MaxStepLengthXMM, 1e-3)
}

func TestAccelClipBoundsDeltaNotAbsolute(t *testing.T) {
	g := gait.Default()
	last := WalkVector{X: 0}
	target := WalkVector{X: g.Step.MaxAccelXMMPerStep * 10}
	clipped := accelClipVelocities(target, last, g.Step)
	test.That(t, clipped.X, test.ShouldEqual, g.Step.MaxAccelXMMPerStep)
}

func TestLateralClipDisallowsSteppingIntoStanceLeg(t *testing.T) {
	left := lateralClipVelocities(WalkVector{Y: -10}, LeftFoot)
	test.That(t, left.Y, test.ShouldEqual, float32(0))

	right := lateralClipVelocities(WalkVector{Y: 10}, RightFoot)
	test.That(t, right.Y, test.ShouldEqual, float32(0))
}

func TestDispVelRoundTrip(t *testing.T) {
	g := gait.Default()
	v := WalkVector{X: 30, Y: -10, Theta: 0.05}
	d := getDispFromVel(v, g)
	back := getVelFromDisp(d, g)
	test.That(t, back.X, test.ShouldAlmostEqual, v.X, 1e-3)
	test.That(t, back.Y, test.ShouldAlmostEqual, v.Y, 1e-3)
	test.That(t, back.Theta, test.ShouldAlmostEqual, v.Theta, 1e-3)
}

func TestNewStepFromVelocitySetsFrameCounts(t *testing.T) {
	g := gait.Default()
	s := NewStepFromVelocity(WalkVector{X: 10}, g, LeftFoot, WalkVector{}, RegularStep)
	test.That(t, s.StepDurationFrames, test.ShouldEqual, s.DoubleSupportFrames+s.SingleSupportFrames)
	test.That(t, s.SOffsetY, test.ShouldBeGreaterThan, float32(0))
}

func TestNewStepFromVelocityRightFootOffsetIsNegative(t *testing.T) {
	g := gait.Default()
	s := NewStepFromVelocity(WalkVector{X: 10}, g, RightFoot, WalkVector{}, RegularStep)
	test.That(t, s.SOffsetY, test.ShouldBeLessThan, float32(0))
}
