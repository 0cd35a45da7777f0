package walk

import (
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/bowdoin-robotics/biped/gait"
)

func testGenerator(t *testing.T) *StepGenerator {
	t.Helper()
	solver := NewClosedFormIK(DefaultLegGeometry())
	neutral := ArmJointAngles{1.5, 0.2, -1.5, -0.5}
	return NewStepGenerator(gait.Default(), solver, neutral, golog.NewTestLogger(t))
}

func TestDecideStartLeftPrefersLateral(t *testing.T) {
	test.That(t, decideStartLeft(5, -1), test.ShouldBeTrue)
	test.That(t, decideStartLeft(-5, 1), test.ShouldBeFalse)
	test.That(t, decideStartLeft(0, 1), test.ShouldBeTrue)
	test.That(t, decideStartLeft(0, -1), test.ShouldBeFalse)
}

func TestSetSpeedStartsFromStopped(t *testing.T) {
	sg := testGenerator(t)
	test.That(t, sg.Done(), test.ShouldBeTrue)
	sg.SetSpeed(20, 0, 0)
	test.That(t, sg.Done(), test.ShouldBeFalse)
	test.That(t, len(sg.zmpdSteps), test.ShouldEqual, 2)
}

func TestTickControllerReplenishesZMPQueue(t *testing.T) {
	sg := testGenerator(t)
	sg.SetSpeed(20, 0, 0)
	err := sg.TickController()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(sg.zmpRefX) >= NumPreviewFrames, test.ShouldBeTrue)
	test.That(t, len(sg.zmpdSteps) >= MinNumEnqueuedSteps, test.ShouldBeTrue)
}

func TestTickLegsProducesJointsWithoutError(t *testing.T) {
	sg := testGenerator(t)
	sg.SetSpeed(20, 0, 0)
	test.That(t, sg.TickController(), test.ShouldBeNil)
	_, _, err := sg.TickLegs()
	test.That(t, err, test.ShouldBeNil)
}

func TestResetHardStopsAndClearsQueues(t *testing.T) {
	sg := testGenerator(t)
	sg.SetSpeed(20, 0, 0)
	sg.ResetHard()
	test.That(t, sg.Done(), test.ShouldBeTrue)
	test.That(t, len(sg.futureSteps), test.ShouldEqual, 0)
	test.That(t, len(sg.zmpdSteps), test.ShouldEqual, 0)
}

func TestGetOdometryUpdateResetsAccumulator(t *testing.T) {
	sg := testGenerator(t)
	sg.SetSpeed(20, 0, 0)
	_, _, _ = sg.GetOdometryUpdate()
	dx, dy, dtheta := sg.GetOdometryUpdate()
	test.That(t, dx, test.ShouldAlmostEqual, float32(0), 1e-3)
	test.That(t, dy, test.ShouldAlmostEqual, float32(0), 1e-3)
	test.That(t, dtheta, test.ShouldAlmostEqual, float32(0), 1e-3)
}

func TestTakeStepsAppendsWhenAlreadyActive(t *testing.T) {
	sg := testGenerator(t)
	sg.SetSpeed(20, 0, 0)
	before := len(sg.futureSteps)
	sg.TakeSteps(10, 0, 0, 3)
	test.That(t, len(sg.futureSteps) > before, test.ShouldBeTrue)
}
