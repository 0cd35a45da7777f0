package providers

import (
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/bowdoin-robotics/biped/gait"
	"github.com/bowdoin-robotics/biped/kinematics"
	"github.com/bowdoin-robotics/biped/walk"
)

func testSwitchboard(t *testing.T) *MotionSwitchboard {
	t.Helper()
	solver := walk.NewClosedFormIK(walk.DefaultLegGeometry())
	neutral := walk.ArmJointAngles{1.5, 0.2, -1.5, -0.5}
	gen := walk.NewStepGenerator(gait.Default(), solver, neutral, golog.NewTestLogger(t))
	meta := gait.NewMetaGait(gait.Default())

	walkP := NewWalkProvider(gen, meta, golog.NewTestLogger(t))
	scriptedP := NewScriptedProvider(50, [kinematics.NumJoints]float32{})
	headP := NewHeadProvider(50)

	return NewMotionSwitchboard(walkP, scriptedP, headP, golog.NewTestLogger(t))
}

func TestSwitchboardStartsOnNullProvider(t *testing.T) {
	sb := testSwitchboard(t)
	test.That(t, sb.IsWalkActive(), test.ShouldBeFalse)
	test.That(t, sb.IsBodyActive(), test.ShouldBeFalse)
}

func TestSendWalkCommandInstallsWalkProvider(t *testing.T) {
	sb := testSwitchboard(t)
	sb.SendWalkCommand(WalkCommand{X: 20})
	test.That(t, sb.IsWalkActive(), test.ShouldBeTrue)
	test.That(t, sb.IsBodyActive(), test.ShouldBeTrue)
}

func TestTickAssemblesFullJointVector(t *testing.T) {
	sb := testSwitchboard(t)
	sb.SendWalkCommand(WalkCommand{X: 20})
	err := sb.Tick()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sb.HasNewJoints(), test.ShouldBeTrue)

	joints := sb.NextJoints()
	test.That(t, len(joints), test.ShouldEqual, kinematics.NumJoints)
	test.That(t, sb.HasNewJoints(), test.ShouldBeFalse)
}

func TestSendBodyJointCommandDeferredUntilWalkReadyToSwap(t *testing.T) {
	sb := testSwitchboard(t)
	sb.SendWalkCommand(WalkCommand{X: 20})
	test.That(t, sb.IsWalkActive(), test.ShouldBeTrue)

	// The walk provider is mid-stride (not ReadyToSwap), so a scripted
	// command must not steal the active body provider out from under it.
	sb.SendBodyJointCommand(BodyJointCommand{Keyframes: []JointKeyframe{
		{DurationSecs: 1},
	}})
	test.That(t, sb.IsWalkActive(), test.ShouldBeTrue)
}

func TestFreezeHoldsCurrentPoseThenUnfreezeRestoresWalk(t *testing.T) {
	sb := testSwitchboard(t)
	sb.SendWalkCommand(WalkCommand{X: 20})
	err := sb.Tick()
	test.That(t, err, test.ShouldBeNil)

	sb.SendFreezeCommand(FreezeCommand{Stiffness: 0.3})
	test.That(t, sb.IsWalkActive(), test.ShouldBeFalse)
	test.That(t, sb.IsBodyActive(), test.ShouldBeFalse)

	sb.SendUnfreezeCommand(UnfreezeCommand{})
	test.That(t, sb.IsWalkActive(), test.ShouldBeTrue)
}

func TestSendSetHeadCommandMovesHeadDirectly(t *testing.T) {
	sb := testSwitchboard(t)
	sb.SendSetHeadCommand(SetHeadCommand{Yaw: 0.4, Pitch: -0.2}, 0.6)
	err := sb.Tick()
	test.That(t, err, test.ShouldBeNil)

	joints := sb.NextJoints()
	test.That(t, joints[kinematics.HeadYaw], test.ShouldEqual, float32(0.4))
	test.That(t, joints[kinematics.HeadPitch], test.ShouldEqual, float32(-0.2))
}

func TestStopBodyMovesRequestsStopOnActiveProvider(t *testing.T) {
	sb := testSwitchboard(t)
	sb.SendWalkCommand(WalkCommand{X: 20})
	sb.StopBodyMoves()
	// Requesting a stop doesn't immediately finish the walk; it decelerates
	// over an END step, so the provider is still active right after the
	// request.
	test.That(t, sb.IsWalkActive(), test.ShouldBeTrue)
}
