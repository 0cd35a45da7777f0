package motion

import (
	"math"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/bowdoin-robotics/biped/gait"
	"github.com/bowdoin-robotics/biped/kinematics"
	"github.com/bowdoin-robotics/biped/providers"
	"github.com/bowdoin-robotics/biped/walk"
)

func testInterface(t *testing.T) *Interface {
	t.Helper()
	solver := walk.NewClosedFormIK(walk.DefaultLegGeometry())
	neutral := walk.ArmJointAngles{1.5, 0.2, -1.5, -0.5}
	gen := walk.NewStepGenerator(gait.Default(), solver, neutral, golog.NewTestLogger(t))
	meta := gait.NewMetaGait(gait.Default())

	walkP := providers.NewWalkProvider(gen, meta, golog.NewTestLogger(t))
	scriptedP := providers.NewScriptedProvider(50, [kinematics.NumJoints]float32{})
	headP := providers.NewHeadProvider(50)

	sb := providers.NewMotionSwitchboard(walkP, scriptedP, headP, golog.NewTestLogger(t))
	return New(sb, 0.3, golog.NewTestLogger(t))
}

func TestSetNextWalkCommandRejectsNaN(t *testing.T) {
	m := testInterface(t)
	err := m.SetNextWalkCommand(float32(math.NaN()), 0, 0)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSetNextWalkCommandRejectsInf(t *testing.T) {
	m := testInterface(t)
	err := m.SetNextWalkCommand(float32(math.Inf(1)), 0, 0)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSetNextWalkCommandActivatesWalk(t *testing.T) {
	m := testInterface(t)
	err := m.SetNextWalkCommand(20, 0, 0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m.IsWalkActive(), test.ShouldBeTrue)
}

func TestSendStepCommandRejectsZeroSteps(t *testing.T) {
	m := testInterface(t)
	err := m.SendStepCommand(10, 0, 0, 0)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestEnqueueRejectsEmptyKeyframes(t *testing.T) {
	m := testInterface(t)
	err := m.Enqueue(nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestEnqueueHeadRejectsEmptyKeyframes(t *testing.T) {
	m := testInterface(t)
	err := m.EnqueueHead(nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSetHeadRejectsNaN(t *testing.T) {
	m := testInterface(t)
	err := m.SetHead(float32(math.NaN()), 0)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGetOdometryUpdateForwardsToSwitchboard(t *testing.T) {
	m := testInterface(t)
	dx, dy, dtheta := m.GetOdometryUpdate()
	test.That(t, dx, test.ShouldEqual, float32(0))
	test.That(t, dy, test.ShouldEqual, float32(0))
	test.That(t, dtheta, test.ShouldEqual, float32(0))
}
